package treemovie

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in a playback script.
type scriptStep struct {
	Action string  `json:"action"`
	Frame  int     `json:"frame,omitempty"`
	Pos    float64 `json:"pos,omitempty"`
	Value  float64 `json:"value,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// playbackScript is the top-level JSON structure for a script.
type playbackScript struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner sequences playback actions against a controller across
// update ticks. Used by tests and headless verification: each tick executes
// at most one step, with "wait" steps holding for a number of ticks.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON playback script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var script playbackScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse playback script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse playback script: no steps")
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step executes the next script action against the controller. Call once per
// update tick, before Controller.Update.
func (r *ScriptRunner) Step(c *Controller, timestamp float64) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "play":
		c.StartPlayback(timestamp)
	case "pause":
		c.StopPlayback()
	case "seek":
		c.GoToPosition(st.Frame)
	case "scrub":
		c.ScrubTo(st.Pos)
	case "release":
		c.EndScrub()
	case "speed":
		c.SetSpeed(st.Value)
	case "step-forward":
		c.StepForward()
	case "step-backward":
		c.StepBackward()
	case "wait":
		r.waitCount = st.Frames
	}
}
