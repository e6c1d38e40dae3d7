package treemovie

import "testing"

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDiffKeysPartitions(t *testing.T) {
	from := []string{"a", "b", "c", "d"}
	to := []string{"b", "d", "e"}

	d := DiffKeys(from, to)
	if !sameStrings(d.Update, []string{"b", "d"}) {
		t.Errorf("Update = %v, want [b d]", d.Update)
	}
	if !sameStrings(d.Enter, []string{"e"}) {
		t.Errorf("Enter = %v, want [e]", d.Enter)
	}
	if !sameStrings(d.Exit, []string{"a", "c"}) {
		t.Errorf("Exit = %v, want [a c]", d.Exit)
	}
}

func TestDiffKeysOrdering(t *testing.T) {
	// Enter and Update follow target order; Exit follows source order.
	from := []string{"z", "y", "x"}
	to := []string{"x", "w", "y"}
	d := DiffKeys(from, to)
	if !sameStrings(d.Update, []string{"x", "y"}) {
		t.Errorf("Update = %v, want target order [x y]", d.Update)
	}
	if !sameStrings(d.Exit, []string{"z"}) {
		t.Errorf("Exit = %v, want [z]", d.Exit)
	}
}

func TestDiffKeysEmptySides(t *testing.T) {
	d := DiffKeys(nil, []string{"a"})
	if len(d.Enter) != 1 || len(d.Update) != 0 || len(d.Exit) != 0 {
		t.Errorf("diff from empty = %+v", d)
	}
	d = DiffKeys([]string{"a"}, nil)
	if len(d.Exit) != 1 || len(d.Enter) != 0 || len(d.Update) != 0 {
		t.Errorf("diff to empty = %+v", d)
	}
}

func TestDiffKeysBetweenFixtureFrames(t *testing.T) {
	m := testMovie(t)
	e := NewLayoutEngine(m, DefaultLayoutOptions())
	a, _ := e.LayoutFrame(0)
	b, _ := e.LayoutFrame(3)

	// Same taxa, different topology: every leaf key survives, the changed
	// clades swap out.
	d := DiffKeys(a.NodeKeys(), b.NodeKeys())
	if len(d.Update) != 6 || len(d.Enter) != 3 || len(d.Exit) != 3 {
		t.Errorf("node diff = %d update %d enter %d exit, want 6/3/3",
			len(d.Update), len(d.Enter), len(d.Exit))
	}
	d = DiffKeys(a.LeafSplitKeys(), b.LeafSplitKeys())
	if len(d.Update) != 5 || len(d.Enter) != 0 || len(d.Exit) != 0 {
		t.Errorf("leaf diff = %+v, want all updates", d)
	}
}

func TestUnionKeysTargetFirst(t *testing.T) {
	got := UnionKeys([]string{"c", "a", "b"}, []string{"a", "d"})
	if !sameStrings(got, []string{"a", "d", "c", "b"}) {
		t.Errorf("UnionKeys = %v, want [a d c b]", got)
	}
}
