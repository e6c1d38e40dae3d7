package treemovie

import "testing"

func TestNodeKeyFromSplits(t *testing.T) {
	n := &TreeNode{Name: "ignored", SplitIndices: []int{2, 5, 7}}
	if got := NodeKey(n); got != "node-2-5-7" {
		t.Errorf("NodeKey = %q, want node-2-5-7", got)
	}
}

func TestNodeKeyNameFallback(t *testing.T) {
	n := &TreeNode{Name: "Homo sapiens/1"}
	if got := NodeKey(n); got != "node-Homo_sapiens_1" {
		t.Errorf("NodeKey = %q, want node-Homo_sapiens_1", got)
	}
	if got := NodeKey(&TreeNode{}); got != "node-unnamed" {
		t.Errorf("NodeKey(empty) = %q, want node-unnamed", got)
	}
}

func TestNodeKeyStableAcrossFrames(t *testing.T) {
	a := &TreeNode{Name: "x", SplitIndices: []int{1, 3}}
	b := &TreeNode{Name: "y", SplitIndices: []int{1, 3}}
	if NodeKey(a) != NodeKey(b) {
		t.Error("same split set produced different keys")
	}
}

func TestLinkKeyRootPrefix(t *testing.T) {
	root := &TreeNode{SplitIndices: []int{0, 1}}
	child := &TreeNode{SplitIndices: []int{0}, Parent: root}
	grand := &TreeNode{SplitIndices: []int{1}, Parent: child}

	if got := LinkKey(Link{Source: root, Target: child}); got != "link-root-0" {
		t.Errorf("root link key = %q, want link-root-0", got)
	}
	if got := LinkKey(Link{Source: child, Target: grand}); got != "link-to-1" {
		t.Errorf("interior link key = %q, want link-to-1", got)
	}
}

func TestLeafElementKeys(t *testing.T) {
	leaf := &TreeNode{Name: "A", SplitIndices: []int{4}}
	if got := LabelKey(leaf); got != "label-4" {
		t.Errorf("LabelKey = %q, want label-4", got)
	}
	if got := ExtensionKey(leaf); got != "ext-4" {
		t.Errorf("ExtensionKey = %q, want ext-4", got)
	}
}
