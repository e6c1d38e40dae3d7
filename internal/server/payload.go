package server

import (
	"encoding/json"
	"net/http"

	"github.com/phylomovies/treemovie"
)

// MovieSummary is the /api/movie response.
type MovieSummary struct {
	Frames          int      `json:"frames"`
	Anchors         int      `json:"anchors"`
	Leaves          []string `json:"leaves"`
	AlignmentLength int      `json:"alignment_length"`
	WindowSize      int      `json:"window_size"`
	StepSize        int      `json:"step_size"`
}

func movieSummary(m *treemovie.Movie) MovieSummary {
	return MovieSummary{
		Frames:          m.NumFrames(),
		Anchors:         m.NumAnchors(),
		Leaves:          m.SortedLeaves,
		AlignmentLength: m.MSA.AlignmentLength,
		WindowSize:      m.MSA.WindowSize,
		StepSize:        m.MSA.WindowStepSize,
	}
}

// TimelineSegmentPayload is one entry of the /api/timeline response.
type TimelineSegmentPayload struct {
	Kind       string  `json:"kind"`
	StartFrame int     `json:"start_frame"`
	EndFrame   int     `json:"end_frame"`
	PairKey    string  `json:"pair_key,omitempty"`
	Weight     float64 `json:"weight"`
}

func timelinePayload(segs []treemovie.TimelineSegment) []TimelineSegmentPayload {
	out := make([]TimelineSegmentPayload, len(segs))
	for i, seg := range segs {
		kind := "anchor"
		if seg.Kind == treemovie.SegmentTransition {
			kind = "transition"
		}
		out[i] = TimelineSegmentPayload{
			Kind:       kind,
			StartFrame: seg.StartFrame,
			EndFrame:   seg.EndFrame,
			PairKey:    seg.PairKey,
			Weight:     seg.Weight,
		}
	}
	return out
}

type errorPayload struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorPayload{Error: msg})
}
