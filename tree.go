package treemovie

import (
	"fmt"
	"sort"
)

// TreeNode is a single node of a phylogenetic tree as delivered by the
// backend payload. Internal nodes have two or more children; leaves have none
// and carry a non-empty name. SplitIndices is the sorted set of leaf indices
// contained in the subtree rooted at this node and is the node's identity
// across frames.
type TreeNode struct {
	Name         string      `json:"name"`
	Length       float64     `json:"length"`
	SplitIndices []int       `json:"split_indices"`
	Children     []*TreeNode `json:"children"`

	// Parent is wired after decoding. The root's Parent is nil; traversal
	// never follows Parent above the root.
	Parent *TreeNode `json:"-"`

	// Layout fields, populated by the layout engine. Angle is in radians,
	// x = radius*cos(angle), y = radius*sin(angle).
	X, Y   float64 `json:"-"`
	Angle  float64 `json:"-"`
	Radius float64 `json:"-"`
}

// IsLeaf reports whether the node has no children.
func (n *TreeNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Walk visits the subtree rooted at n depth-first, parents before children.
func (n *TreeNode) Walk(fn func(*TreeNode)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Link is a directed branch from a parent node to one of its children.
type Link struct {
	Source *TreeNode
	Target *TreeNode
}

// wireParents sets Parent pointers throughout the subtree rooted at root.
func wireParents(root *TreeNode) {
	root.Walk(func(n *TreeNode) {
		for _, c := range n.Children {
			c.Parent = n
		}
	})
}

// Links returns every branch of the tree rooted at n, parents before
// children. The root itself has no incoming link.
func (n *TreeNode) Links() []Link {
	var links []Link
	n.Walk(func(p *TreeNode) {
		for _, c := range p.Children {
			links = append(links, Link{Source: p, Target: c})
		}
	})
	return links
}

// Leaves returns the leaf nodes of the subtree rooted at n in traversal
// order.
func (n *TreeNode) Leaves() []*TreeNode {
	var leaves []*TreeNode
	n.Walk(func(c *TreeNode) {
		if c.IsLeaf() {
			leaves = append(leaves, c)
		}
	})
	return leaves
}

// validateTree checks the structural invariants of a single decoded tree:
// sorted split indices, named leaves, and no single-child internal nodes at
// the root level of identity. Violations are fatal for the dataset.
func validateTree(root *TreeNode, frame int) error {
	var err error
	root.Walk(func(n *TreeNode) {
		if err != nil {
			return
		}
		if n.IsLeaf() && n.Name == "" {
			err = &ValidationError{Field: "interpolated_trees", Reason: fmt.Sprintf("frame %d: unnamed leaf", frame)}
			return
		}
		if !sort.IntsAreSorted(n.SplitIndices) {
			err = &ValidationError{Field: "interpolated_trees", Reason: fmt.Sprintf("frame %d: unsorted split_indices on %q", frame, n.Name)}
			return
		}
		if n.Length < 0 {
			err = &ValidationError{Field: "interpolated_trees", Reason: fmt.Sprintf("frame %d: negative branch length on %q", frame, n.Name)}
			return
		}
	})
	return err
}
