package treemovie

import (
	"math"
	"strings"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestNormalizeAngle(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{2 * math.Pi, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
		{math.Pi / 4, math.Pi / 4},
		{-4 * math.Pi, 0},
	}
	for _, c := range cases {
		assertNear(t, "NormalizeAngle", NormalizeAngle(c.in), c.want)
	}
}

func TestShortestAngleCrossesZero(t *testing.T) {
	// 0.1 to 2π-0.1 is a short hop backwards through zero, not a near-full
	// forward sweep.
	assertNear(t, "ShortestAngle forward", ShortestAngle(0.1, 2*math.Pi-0.1), -0.2)
	assertNear(t, "ShortestAngle backward", ShortestAngle(2*math.Pi-0.1, 0.1), 0.2)
}

func TestShortestAngleHalfTurn(t *testing.T) {
	// Exactly opposite angles resolve to +π, never -π.
	assertNear(t, "ShortestAngle(0, π)", ShortestAngle(0, math.Pi), math.Pi)
	assertNear(t, "ShortestAngle(π, 0)", ShortestAngle(math.Pi, 0), math.Pi)
}

func TestShortestAngleBounded(t *testing.T) {
	for a := 0.0; a < 2*math.Pi; a += 0.37 {
		for b := 0.0; b < 2*math.Pi; b += 0.41 {
			d := ShortestAngle(a, b)
			if d <= -math.Pi || d > math.Pi {
				t.Fatalf("ShortestAngle(%v, %v) = %v, outside (-π, π]", a, b, d)
			}
			if diff := math.Abs(NormalizeAngle(a+d) - NormalizeAngle(b)); diff > 1e-9 && math.Abs(diff-2*math.Pi) > 1e-9 {
				t.Fatalf("ShortestAngle(%v, %v): a+d does not reach b (off by %v)", a, b, diff)
			}
		}
	}
}

func TestLerpAngle(t *testing.T) {
	// Midpoint of a zero-crossing hop lands on zero.
	assertNear(t, "LerpAngle mid", LerpAngle(0.1, 2*math.Pi-0.1, 0.5), 0)
	// Endpoints reproduce the inputs modulo 2π.
	assertNear(t, "LerpAngle t=0", LerpAngle(1.2, 4.5, 0), 1.2)
	assertNear(t, "LerpAngle t=1", NormalizeAngle(LerpAngle(1.2, 4.5, 1)), 4.5)
}

func TestPolarCartRoundtrip(t *testing.T) {
	for angle := 0.1; angle < 2*math.Pi; angle += 0.7 {
		pos := PolarToCart(120, angle)
		r, a := CartToPolar(pos.X, pos.Y)
		assertNear(t, "radius", r, 120)
		assertNear(t, "angle", a, angle)
	}
}

func TestBranchPathDegenerateRoot(t *testing.T) {
	// Source at the origin: the arc collapses to a straight line.
	path := branchPathPolar(0, 0, math.Pi/2, 100)
	if strings.Contains(path, " A ") {
		t.Errorf("root branch path has an arc: %q", path)
	}
	if !strings.Contains(path, " L ") {
		t.Errorf("root branch path missing line: %q", path)
	}
}

func TestBranchPathDegenerateSameAngle(t *testing.T) {
	path := branchPathPolar(1.0, 50, 1.0, 120)
	if strings.Contains(path, " A ") {
		t.Errorf("aligned branch path has an arc: %q", path)
	}
}

func TestBranchPathArcFlags(t *testing.T) {
	// Quarter turn counterclockwise: small arc, positive sweep.
	path := branchPathPolar(0, 100, math.Pi/2, 150)
	if !strings.Contains(path, "A 100.0000 100.0000 0 0 1") {
		t.Errorf("quarter-turn path = %q, want small positive-sweep arc", path)
	}

	// Quarter turn the other way.
	path = branchPathPolar(math.Pi/2, 100, 0, 150)
	if !strings.Contains(path, "A 100.0000 100.0000 0 0 0") {
		t.Errorf("reverse quarter-turn path = %q, want negative-sweep arc", path)
	}
}

func TestBranchPathAtEndpoints(t *testing.T) {
	src := &TreeNode{Angle: 0.4, Radius: 80}
	tgt := &TreeNode{Angle: 1.1, Radius: 140}
	l := Link{Source: src, Target: tgt}

	prevSrcA, prevSrcR := 0.1, 60.0
	prevTgtA, prevTgtR := 0.9, 100.0

	at0 := BranchPathAt(l, 0, prevSrcA, prevSrcR, prevTgtA, prevTgtR)
	want0 := branchPathPolar(prevSrcA, prevSrcR, prevTgtA, prevTgtR)
	if at0 != want0 {
		t.Errorf("BranchPathAt(0) = %q, want previous path %q", at0, want0)
	}

	at1 := BranchPathAt(l, 1, prevSrcA, prevSrcR, prevTgtA, prevTgtR)
	if at1 != BranchPath(l) {
		t.Errorf("BranchPathAt(1) = %q, want final path %q", at1, BranchPath(l))
	}
}

func TestLabelOrientationRightSide(t *testing.T) {
	o := LabelOrientationAt(math.Pi/4, 200)
	if o.Flipped {
		t.Error("45° label flipped, want upright")
	}
	assertNear(t, "RotationDeg", o.RotationDeg, 45)
	if o.TextAnchor() != "start" {
		t.Errorf("TextAnchor = %q, want start", o.TextAnchor())
	}
}

func TestLabelOrientationLeftSideFlips(t *testing.T) {
	o := LabelOrientationAt(math.Pi, 200)
	if !o.Flipped {
		t.Error("180° label not flipped")
	}
	assertNear(t, "RotationDeg", o.RotationDeg, 360)
	if o.TextAnchor() != "end" {
		t.Errorf("TextAnchor = %q, want end", o.TextAnchor())
	}
}

func TestLabelOrientationBoundaries(t *testing.T) {
	// Exactly 90° and 270° stay upright; the flip zone is open.
	if LabelOrientationAt(math.Pi/2, 200).Flipped {
		t.Error("90° label flipped")
	}
	if LabelOrientationAt(3*math.Pi/2, 200).Flipped {
		t.Error("270° label flipped")
	}
}

func TestExtensionPath(t *testing.T) {
	leaf := &TreeNode{Angle: 0, Radius: 100, X: 100, Y: 0}
	path := ExtensionPath(leaf, 150)
	if path != "M 100.0000 0.0000 L 150.0000 0.0000" {
		t.Errorf("ExtensionPath = %q", path)
	}
}

func TestFmtCoordRepairsNaN(t *testing.T) {
	if got := fmtCoord(math.NaN()); got != "0.0000" {
		t.Errorf("fmtCoord(NaN) = %q, want 0.0000", got)
	}
	if got := fmtCoord(math.Inf(1)); got != "0.0000" {
		t.Errorf("fmtCoord(+Inf) = %q, want 0.0000", got)
	}
}
