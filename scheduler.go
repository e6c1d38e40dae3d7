package treemovie

// Playback scheduling: mapping wall-clock time onto segment indices and a
// local interpolation parameter. The clock itself lives with the host (the
// viewer's update loop); the scheduler is pure arithmetic so every tick is
// reproducible.

// PlaybackClock converts timestamps into playback state. Speed scales time,
// TransitionDuration is the seconds spent animating each segment, and
// PauseDuration the seconds spent holding on each intermediate anchor.
type PlaybackClock struct {
	// StartTime is the monotonic timestamp in milliseconds at which playback
	// began.
	StartTime float64
	// Speed multiplies elapsed time. Must be > 0; non-positive values are
	// treated as 1.
	Speed float64
	// TransitionDuration is seconds per segment at speed 1.
	TransitionDuration float64
	// PauseDuration is seconds of hold per intermediate anchor at speed 1.
	PauseDuration float64
	// TotalItems is the frame count N of the sequence being played.
	TotalItems int
}

// PlaybackState is one tick's output.
type PlaybackState struct {
	FromIndex int
	ToIndex   int
	LocalT    float64
	InPause   bool
	Finished  bool
	// Progress is overall playback progress in [0, 1].
	Progress float64
}

// TotalDuration returns the wall duration of the full sequence in seconds at
// speed 1: one transition per segment plus a pause after every segment but
// the last.
func (c PlaybackClock) TotalDuration() float64 {
	segments := c.TotalItems - 1
	if segments <= 0 {
		return 0
	}
	total := float64(segments) * c.TransitionDuration
	if segments > 1 {
		total += float64(segments-1) * c.PauseDuration
	}
	return total
}

// Tick computes the playback state at the given monotonic timestamp in
// milliseconds.
func (c PlaybackClock) Tick(timestamp float64) PlaybackState {
	n := c.TotalItems
	if n <= 1 {
		return PlaybackState{FromIndex: 0, ToIndex: 0, Finished: true, Progress: 1}
	}
	speed := c.Speed
	if speed <= 0 {
		speed = 1
	}

	segments := n - 1
	total := c.TotalDuration()
	elapsed := (timestamp - c.StartTime) / 1000
	if elapsed < 0 {
		elapsed = 0
	}
	effective := elapsed * speed

	clamped := effective
	if clamped > total {
		clamped = total
	}
	progress := 1.0
	if total > 0 {
		progress = clamp(effective/total, 0, 1)
	}
	finished := effective >= total

	segWithPause := c.TransitionDuration + c.PauseDuration
	timeBeforeLast := float64(segments-1) * segWithPause

	var segIndex int
	var inSeg float64
	if clamped >= timeBeforeLast {
		segIndex = segments - 1
		inSeg = clamped - timeBeforeLast
	} else {
		segIndex = int(clamped / segWithPause)
		inSeg = clamped - float64(segIndex)*segWithPause
	}
	segIndex = clampInt(segIndex, 0, segments-1)

	st := PlaybackState{
		FromIndex: segIndex,
		ToIndex:   clampInt(segIndex+1, 0, n-1),
		Finished:  finished,
		Progress:  progress,
	}
	switch {
	case finished:
		st.LocalT = 1
	case inSeg <= c.TransitionDuration && c.TransitionDuration > 0:
		st.LocalT = inSeg / c.TransitionDuration
	default:
		st.LocalT = 1
		st.InPause = true
	}
	return st
}
