package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phylomovies/treemovie"
)

func leaf(name string, idx int, length float64) *treemovie.TreeNode {
	return &treemovie.TreeNode{Name: name, Length: length, SplitIndices: []int{idx}}
}

func clade(length float64, split []int, children ...*treemovie.TreeNode) *treemovie.TreeNode {
	return &treemovie.TreeNode{Length: length, SplitIndices: split, Children: children}
}

// tree builds ((A,B),((C,D),E)); stretch varies branch lengths per frame.
func tree(stretch float64) *treemovie.TreeNode {
	return clade(0, []int{0, 1, 2, 3, 4},
		clade(0.4*stretch, []int{0, 1},
			leaf("A", 0, 0.3),
			leaf("B", 1, 0.5)),
		clade(0.3, []int{2, 3, 4},
			clade(0.2, []int{2, 3},
				leaf("C", 2, 0.4),
				leaf("D", 3, 0.4)),
			leaf("E", 4, 0.6)))
}

func testServer(t *testing.T) *Server {
	t.Helper()

	pairKey := "pair_0_1"
	tgt, step := 2, 1
	m, err := treemovie.NewMovie(
		[]*treemovie.TreeNode{tree(1), tree(1.3), tree(1.6)},
		[]treemovie.FrameMeta{
			{GlobalIndex: 0, SourceGlobalIndex: 0},
			{GlobalIndex: 1, SourceGlobalIndex: 0, TargetGlobalIndex: &tgt, StepInPair: &step, PairKey: &pairKey},
			{GlobalIndex: 2, SourceGlobalIndex: 2},
		},
		[][2]int{{0, 2}},
		[]string{"A", "B", "C", "D", "E"},
		&treemovie.MSAParams{AlignmentLength: 300, WindowSize: 60, WindowStepSize: 30},
		nil)
	if err != nil {
		t.Fatalf("NewMovie: %v", err)
	}

	ctrl := treemovie.NewController()
	if err := ctrl.LoadMovie(m); err != nil {
		t.Fatalf("LoadMovie: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Config{Port: 0, Width: 400, Height: 400, AllowAll: true}, ctrl, log)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, testServer(t), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != `{"status":"ok"}` {
		t.Errorf("body = %s", got)
	}
}

func TestMovieSummary(t *testing.T) {
	rec := get(t, testServer(t), "/api/movie")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var sum MovieSummary
	if err := json.NewDecoder(rec.Body).Decode(&sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.Frames != 3 || sum.Anchors != 2 || len(sum.Leaves) != 5 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.AlignmentLength != 300 || sum.WindowSize != 60 || sum.StepSize != 30 {
		t.Errorf("msa fields = %+v", sum)
	}
}

func TestTimelinePayload(t *testing.T) {
	rec := get(t, testServer(t), "/api/timeline")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var segs []TimelineSegmentPayload
	if err := json.NewDecoder(rec.Body).Decode(&segs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(segs) != 3 {
		t.Fatalf("segments = %d, want 3", len(segs))
	}
	if segs[0].Kind != "anchor" || segs[1].Kind != "transition" || segs[2].Kind != "anchor" {
		t.Errorf("kinds = %s/%s/%s", segs[0].Kind, segs[1].Kind, segs[2].Kind)
	}
	if segs[1].PairKey != "pair_0_1" || segs[1].StartFrame != 0 || segs[1].EndFrame != 2 {
		t.Errorf("transition = %+v", segs[1])
	}
}

func TestFrameSVG(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/api/frames/1/svg")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if body := rec.Body.String(); !strings.HasPrefix(body, "<svg") || !strings.Contains(body, "<path") {
		t.Errorf("body = %.120s", body)
	}
}

func TestFrameSVGErrors(t *testing.T) {
	s := testServer(t)

	if rec := get(t, s, "/api/frames/9/svg"); rec.Code != http.StatusNotFound {
		t.Errorf("out-of-range status = %d", rec.Code)
	}
	rec := get(t, s, "/api/frames/abc/svg")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad index status = %d", rec.Code)
	}
	var e errorPayload
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil || e.Error == "" {
		t.Errorf("error payload = %+v err %v", e, err)
	}
}

func TestPositionSVG(t *testing.T) {
	s := testServer(t)

	if rec := get(t, s, "/api/position/0.5/svg"); rec.Code != http.StatusOK {
		t.Errorf("status = %d: %s", rec.Code, rec.Body)
	}
	if rec := get(t, s, "/api/position/-1/svg"); rec.Code != http.StatusNotFound {
		t.Errorf("negative position status = %d", rec.Code)
	}
	if rec := get(t, s, "/api/position/nope/svg"); rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric position status = %d", rec.Code)
	}
}

func TestPlaybackClockSharedAcrossTicks(t *testing.T) {
	s := testServer(t)
	s.epoch = time.Now().Add(-time.Second)
	s.mu.Lock()
	s.ctrl.StartPlayback(0)
	s.mu.Unlock()

	// First tick consumes the elapsed second.
	if !s.tick() {
		t.Fatal("controller not playing after start")
	}
	first := s.lastTick
	if first < 900 {
		t.Fatalf("lastTick = %g ms after a second on the shared clock, want >= 900", first)
	}
	progress := s.ctrl.Progress.Get()

	// A second connection ticking right away shares the clock: it sees a
	// near-zero dt instead of replaying the second from its own epoch.
	s.tick()
	if d := s.lastTick - first; d > 100 {
		t.Fatalf("second tick consumed %g ms, want near zero", d)
	}
	if got := s.ctrl.Progress.Get(); got < progress {
		t.Fatalf("progress went backwards across ticks: %g -> %g", progress, got)
	}
}
