package treemovie

// MSAWindow is the visible alignment column range for a frame, 1-based
// inclusive on all three columns.
type MSAWindow struct {
	Start, Mid, End int
}

// Default MSA parameters used when the payload omits them or carries invalid
// values.
const (
	DefaultWindowSize = 100
	DefaultStepSize   = 1
)

// MSAWindowAt maps a frame index to its alignment window. The arithmetic
// mirrors the backend windower exactly; the two must change in lockstep.
func MSAWindowAt(frameIndex, step, windowSize, alignmentLength int) MSAWindow {
	if step <= 0 {
		step = DefaultStepSize
	}
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if frameIndex < 0 {
		frameIndex = 0
	}
	if alignmentLength < 1 {
		alignmentLength = 1
	}

	center := frameIndex * step
	leftHalf := windowSize / 2
	rightHalf := windowSize - leftHalf // ceil(windowSize/2)

	start := center - leftHalf
	if start < 0 {
		start = 0
	}
	end := center + rightHalf // exclusive
	if end > alignmentLength {
		end = alignmentLength
	}
	if start > end-1 {
		start = end - 1
	}
	mid := clampInt(center, start, end-1)

	return MSAWindow{Start: start + 1, Mid: mid + 1, End: end}
}

// WindowParameters are the sliding-window settings used to cut an alignment
// into per-tree windows.
type WindowParameters struct {
	WindowSize  int
	StepSize    int
	Overlapping bool
}

// InferWindowParameters derives window settings from the anchor count and
// alignment length when the payload does not carry them. A single tree gets
// one window covering the whole alignment; otherwise windows tile the
// alignment without overlap.
func InferWindowParameters(numTrees, alignmentLength int) WindowParameters {
	if numTrees <= 1 {
		return WindowParameters{WindowSize: alignmentLength, StepSize: alignmentLength}
	}
	size := alignmentLength / numTrees
	if size < 1 {
		size = 1
	}
	return WindowParameters{WindowSize: size, StepSize: size, Overlapping: false}
}
