package treemovie

import "testing"

// testLeaf and testClade build fixture trees over taxa A..E with canonical
// indices 0..4.
func testLeaf(name string, idx int, length float64) *TreeNode {
	return &TreeNode{Name: name, Length: length, SplitIndices: []int{idx}}
}

func testClade(length float64, split []int, children ...*TreeNode) *TreeNode {
	return &TreeNode{Length: length, SplitIndices: split, Children: children}
}

// testTreeOne is ((A,B),((C,D),E)). stretch scales a couple of branch lengths
// so interpolated frames differ without changing topology.
func testTreeOne(stretch float64) *TreeNode {
	return testClade(0, []int{0, 1, 2, 3, 4},
		testClade(0.4*stretch, []int{0, 1},
			testLeaf("A", 0, 0.3),
			testLeaf("B", 1, 0.5*stretch)),
		testClade(0.3, []int{2, 3, 4},
			testClade(0.2*stretch, []int{2, 3},
				testLeaf("C", 2, 0.4),
				testLeaf("D", 3, 0.4)),
			testLeaf("E", 4, 0.6)))
}

// testTreeTwo swaps B and C between the two major clades: ((A,C),((B,D),E)).
func testTreeTwo(stretch float64) *TreeNode {
	return testClade(0, []int{0, 1, 2, 3, 4},
		testClade(0.4, []int{0, 2},
			testLeaf("A", 0, 0.3),
			testLeaf("C", 2, 0.5*stretch)),
		testClade(0.3, []int{1, 3, 4},
			testClade(0.2, []int{1, 3},
				testLeaf("B", 1, 0.4),
				testLeaf("D", 3, 0.4)),
			testLeaf("E", 4, 0.6)))
}

// testMovie builds the standard six-frame fixture: anchors at 0, 3, and 5
// with two interpolated frames in the first pair and one in the second.
func testMovie(t *testing.T) *Movie {
	t.Helper()

	pair01, pair12 := "pair_0_1", "pair_1_2"
	i3, i5 := 3, 5
	s1, s2 := 1, 2
	metadata := []FrameMeta{
		{GlobalIndex: 0, SourceGlobalIndex: 0},
		{GlobalIndex: 1, SourceGlobalIndex: 0, TargetGlobalIndex: &i3, StepInPair: &s1, PairKey: &pair01},
		{GlobalIndex: 2, SourceGlobalIndex: 0, TargetGlobalIndex: &i3, StepInPair: &s2, PairKey: &pair01},
		{GlobalIndex: 3, SourceGlobalIndex: 3},
		{GlobalIndex: 4, SourceGlobalIndex: 3, TargetGlobalIndex: &i5, StepInPair: &s1, PairKey: &pair12},
		{GlobalIndex: 5, SourceGlobalIndex: 5},
	}
	frames := []*TreeNode{
		testTreeOne(1),
		testTreeOne(1.2),
		testTreeOne(1.4),
		testTreeTwo(1),
		testTreeTwo(1.3),
		testTreeTwo(1.6),
	}

	m, err := NewMovie(frames, metadata, [][2]int{{0, 3}, {3, 5}},
		[]string{"A", "B", "C", "D", "E"},
		&MSAParams{AlignmentLength: 500, WindowSize: 100, WindowStepSize: 100},
		&Distances{RobinsonFoulds: []float64{2, 2}})
	if err != nil {
		t.Fatalf("testMovie: %v", err)
	}
	return m
}

func TestWalkOrder(t *testing.T) {
	root := testTreeOne(1)
	var names []string
	root.Walk(func(n *TreeNode) {
		if n.IsLeaf() {
			names = append(names, n.Name)
		}
	})
	want := []string{"A", "B", "C", "D", "E"}
	if len(names) != len(want) {
		t.Fatalf("leaves = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("leaves = %v, want %v", names, want)
		}
	}
}

func TestLinksAndLeaves(t *testing.T) {
	root := testTreeOne(1)
	wireParents(root)

	links := root.Links()
	if len(links) != 8 {
		t.Errorf("links = %d, want 8", len(links))
	}
	for _, l := range links {
		if l.Target.Parent != l.Source {
			t.Errorf("link target %q has wrong parent", l.Target.Name)
		}
	}
	if root.Parent != nil {
		t.Error("root has a parent")
	}
	if got := len(root.Leaves()); got != 5 {
		t.Errorf("leaves = %d, want 5", got)
	}
}

func TestValidateTreeRejectsUnsortedSplits(t *testing.T) {
	root := testTreeOne(1)
	root.Children[0].SplitIndices = []int{1, 0}
	if err := validateTree(root, 0); err == nil {
		t.Error("unsorted split indices accepted")
	}
}

func TestValidateTreeRejectsUnnamedLeaf(t *testing.T) {
	root := testTreeOne(1)
	root.Children[0].Children[0].Name = ""
	if err := validateTree(root, 0); err == nil {
		t.Error("unnamed leaf accepted")
	}
}

func TestValidateTreeRejectsNegativeLength(t *testing.T) {
	root := testTreeOne(1)
	root.Children[1].Length = -0.1
	if err := validateTree(root, 0); err == nil {
		t.Error("negative branch length accepted")
	}
}
