package treemovie

import "testing"

func TestMSAWindowInterior(t *testing.T) {
	// Window 100 centered on column 500 of a 1000-column alignment.
	w := MSAWindowAt(500, 1, 100, 1000)
	want := MSAWindow{Start: 451, Mid: 501, End: 550}
	if w != want {
		t.Errorf("window = %+v, want %+v", w, want)
	}
}

func TestMSAWindowClampsAtStart(t *testing.T) {
	w := MSAWindowAt(0, 1, 100, 1000)
	want := MSAWindow{Start: 1, Mid: 1, End: 50}
	if w != want {
		t.Errorf("window = %+v, want %+v", w, want)
	}
}

func TestMSAWindowClampsAtEnd(t *testing.T) {
	w := MSAWindowAt(990, 1, 100, 1000)
	want := MSAWindow{Start: 941, Mid: 991, End: 1000}
	if w != want {
		t.Errorf("window = %+v, want %+v", w, want)
	}
}

func TestMSAWindowStep(t *testing.T) {
	// Step 10 advances the center ten columns per frame.
	a := MSAWindowAt(3, 10, 100, 1000)
	b := MSAWindowAt(4, 10, 100, 1000)
	if b.Mid-a.Mid != 10 {
		t.Errorf("mid advanced by %d, want 10", b.Mid-a.Mid)
	}
}

func TestMSAWindowMidMonotonic(t *testing.T) {
	prev := 0
	for frame := 0; frame < 1000; frame += 7 {
		w := MSAWindowAt(frame, 1, 100, 1000)
		if w.Mid < prev {
			t.Fatalf("frame %d: mid %d went backwards from %d", frame, w.Mid, prev)
		}
		if w.Start > w.Mid || w.Mid > w.End {
			t.Fatalf("frame %d: disordered window %+v", frame, w)
		}
		prev = w.Mid
	}
}

func TestMSAWindowDefaults(t *testing.T) {
	// Non-positive parameters fall back to defaults rather than failing.
	w := MSAWindowAt(500, 0, 0, 1000)
	if w.End-w.Start+1 != DefaultWindowSize {
		t.Errorf("default window spans %d columns, want %d", w.End-w.Start+1, DefaultWindowSize)
	}
	if MSAWindowAt(-5, 1, 100, 1000) != MSAWindowAt(0, 1, 100, 1000) {
		t.Error("negative frame index not clamped to 0")
	}
}

func TestMSAWindowDegenerateAlignment(t *testing.T) {
	// A payload without an MSA block reports zero alignment length; the
	// window must still come back ordered.
	for _, alen := range []int{0, -3} {
		w := MSAWindowAt(0, 1, 100, alen)
		want := MSAWindow{Start: 1, Mid: 1, End: 1}
		if w != want {
			t.Errorf("alignment length %d: window = %+v, want %+v", alen, w, want)
		}
	}
	// A frame centered past the last column collapses onto it.
	w := MSAWindowAt(500, 1, 100, 250)
	want := MSAWindow{Start: 250, Mid: 250, End: 250}
	if w != want {
		t.Errorf("overshot window = %+v, want %+v", w, want)
	}
}

func TestInferWindowParameters(t *testing.T) {
	p := InferWindowParameters(10, 1000)
	if p.WindowSize != 100 || p.StepSize != 100 || p.Overlapping {
		t.Errorf("inferred %+v, want non-overlapping 100/100", p)
	}

	p = InferWindowParameters(1, 500)
	if p.WindowSize != 500 || p.StepSize != 500 {
		t.Errorf("single tree inferred %+v, want full-alignment window", p)
	}

	p = InferWindowParameters(2000, 1000)
	if p.WindowSize != 1 || p.StepSize != 1 {
		t.Errorf("dense trees inferred %+v, want minimum window 1", p)
	}
}
