package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket command format.
type wsRequest struct {
	Action string  `json:"action"` // "play", "pause", "seek", "scrub", "release", "speed"
	Frame  int     `json:"frame,omitempty"`
	Pos    float64 `json:"pos,omitempty"`
	Value  float64 `json:"value,omitempty"`
}

// wsState is the outgoing playback state pushed to the client.
type wsState struct {
	Type     string  `json:"type"` // "state" or "error"
	Frame    int     `json:"frame"`
	Progress float64 `json:"progress"`
	Playing  bool    `json:"playing"`
	Error    string  `json:"error,omitempty"`
}

const wsTickInterval = time.Second / 30

// handleWebSocket drives playback for one client. Commands arrive as JSON
// messages; playback state is pushed back on every tick while playing and
// after every command.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	commands := make(chan wsRequest)
	go func() {
		defer close(commands)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.log.Error("websocket read", "err", err)
				}
				return
			}
			var req wsRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				continue
			}
			commands <- req
		}
	}()

	ticker := time.NewTicker(wsTickInterval)
	defer ticker.Stop()

	for {
		select {
		case req, ok := <-commands:
			if !ok {
				return
			}
			s.applyCommand(req, s.now())
			if err := s.pushState(conn); err != nil {
				return
			}
		case <-ticker.C:
			playing := s.tick()
			if playing {
				if err := s.pushState(conn); err != nil {
					return
				}
			}
		}
	}
}

// tick advances the shared controller clock once. With several connections
// ticking concurrently, whichever fires first consumes the elapsed time; the
// rest see a near-zero dt. Timestamps come from the server epoch, so every
// client observes the same playback position.
func (s *Server) tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Controller timestamps are milliseconds; dt stays in seconds.
	t := s.now()
	dt := (t - s.lastTick) / 1000
	s.lastTick = t

	playing := s.ctrl.Playing.Get()
	if playing {
		s.ctrl.Update(t, dt)
	}
	return playing
}

func (s *Server) applyCommand(req wsRequest, timestamp float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Action {
	case "play":
		s.ctrl.StartPlayback(timestamp)
	case "pause":
		s.ctrl.StopPlayback()
	case "seek":
		s.ctrl.GoToPosition(req.Frame)
	case "scrub":
		s.ctrl.ScrubTo(req.Pos)
	case "release":
		s.ctrl.EndScrub()
	case "speed":
		if req.Value > 0 {
			s.ctrl.SetSpeed(req.Value)
		}
	}
}

func (s *Server) pushState(conn *websocket.Conn) error {
	s.mu.Lock()
	state := wsState{
		Type:     "state",
		Frame:    s.ctrl.CurrentFrame.Get(),
		Progress: s.ctrl.Progress.Get(),
		Playing:  s.ctrl.Playing.Get(),
	}
	s.mu.Unlock()
	return conn.WriteJSON(state)
}
