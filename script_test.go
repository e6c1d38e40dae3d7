package treemovie

import "testing"

func TestLoadScriptRejectsBadInput(t *testing.T) {
	if _, err := LoadScript([]byte("{")); err == nil {
		t.Error("malformed JSON accepted")
	}
	if _, err := LoadScript([]byte(`{"steps": []}`)); err == nil {
		t.Error("empty script accepted")
	}
}

func TestScriptRunnerDrivesController(t *testing.T) {
	script := []byte(`{"steps": [
		{"action": "seek", "frame": 3},
		{"action": "scrub", "pos": 3.5},
		{"action": "release"},
		{"action": "play"}
	]}`)
	r, err := LoadScript(script)
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}

	c := testController(t)
	ms := 0.0
	for i := 0; i < 10 && !r.Done(); i++ {
		r.Step(c, ms)
		c.Update(ms, 0.1)
		ms += 100
	}

	if !r.Done() {
		t.Fatal("script did not finish")
	}
	if !c.Playing.Get() {
		t.Error("final play step had no effect")
	}
}

func TestScriptRunnerWaitHoldsTicks(t *testing.T) {
	script := []byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "seek", "frame": 5}
	]}`)
	r, _ := LoadScript(script)
	c := testController(t)

	// One tick consumes the wait step, three more burn the held ticks.
	for i := 0; i < 4; i++ {
		r.Step(c, 0)
		if got := c.CurrentFrame.Get(); got != 0 {
			t.Fatalf("frame moved to %d during wait", got)
		}
	}
	r.Step(c, 0)
	if got := c.CurrentFrame.Get(); got != 5 {
		t.Errorf("frame after wait = %d, want 5", got)
	}
}
