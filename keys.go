package treemovie

import (
	"strconv"
	"strings"
)

// Element identity keys. Two elements across frames are the same exactly when
// their split-index sets are equal, so every key is derived from
// TreeNode.SplitIndices. Keys are total: nodes without split indices fall
// back to a sanitized name so key generation never fails.

func splitKey(n *TreeNode) string {
	if len(n.SplitIndices) == 0 {
		return sanitizeName(n.Name)
	}
	var b strings.Builder
	for i, idx := range n.SplitIndices {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(strconv.Itoa(idx))
	}
	return b.String()
}

// sanitizeName maps an arbitrary node name to a key-safe string. Only
// alphanumerics, '_' and '.' survive; everything else becomes '_'.
func sanitizeName(name string) string {
	if name == "" {
		return "unnamed"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// NodeKey returns the identity key for a tree node.
func NodeKey(n *TreeNode) string {
	return "node-" + splitKey(n)
}

// LinkKey returns the identity key for a branch. The link into the root's
// child carries a distinct prefix so the synthetic root edge never collides
// with an interior branch of the same split set.
func LinkKey(l Link) string {
	if l.Source != nil && l.Source.Parent == nil {
		return "link-root-" + splitKey(l.Target)
	}
	return "link-to-" + splitKey(l.Target)
}

// LabelKey returns the identity key for a leaf's text label.
func LabelKey(leaf *TreeNode) string {
	return "label-" + splitKey(leaf)
}

// ExtensionKey returns the identity key for a leaf's radial extension line.
func ExtensionKey(leaf *TreeNode) string {
	return "ext-" + splitKey(leaf)
}
