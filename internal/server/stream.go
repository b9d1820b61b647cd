package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/ifscloud/internal/export"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096}

// streamMsg is one frame of the generation stream. Type is progress, done
// or error.
type streamMsg struct {
	Type   string                  `json:"type"`
	Done   int                     `json:"done,omitempty"`
	Total  int                     `json:"total,omitempty"`
	Points int                     `json:"points,omitempty"`
	Min    *[3]float64             `json:"min,omitempty"`
	Max    *[3]float64             `json:"max,omitempty"`
	Sizes  map[export.Format]int64 `json:"sizes,omitempty"`
	Error  string                  `json:"error,omitempty"`
}

// stream reads one JSON document from a websocket, reports generation
// progress on it and finishes with the cloud's bounds and the estimated
// size of every export format. Closing the socket cancels the run.
func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.maxBody)

	send := func(m streamMsg) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(m)
	}
	finish := func(m streamMsg) {
		if err := send(m); err != nil {
			s.logger.Debug("stream write", "err", err)
			return
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, m.Type),
			time.Now().Add(writeWait))
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		s.logger.Debug("stream read", "err", err)
		return
	}
	doc, _, err := s.decode(data)
	if err != nil {
		finish(streamMsg{Type: "error", Error: err.Error()})
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	start := time.Now()
	cloud, err := doc.Generate(ctx, func(done, total int) {
		if err := send(streamMsg{Type: "progress", Done: done, Total: total}); err != nil {
			cancel()
		}
	})
	if err != nil {
		s.logger.Warn("stream generation", "err", err)
		finish(streamMsg{Type: "error", Error: err.Error()})
		return
	}

	b := cloud.Bounds()
	sizes := make(map[export.Format]int64)
	for _, e := range export.Formats() {
		if n, err := export.Estimate(export.DefaultOptions(e.Format), cloud.Len(), cloud.HasColors()); err == nil {
			sizes[e.Format] = n
		}
	}
	s.logger.Debug("streamed", "points", cloud.Len(), "took", time.Since(start).Round(time.Millisecond))
	finish(streamMsg{Type: "done", Points: cloud.Len(), Min: &b.Min, Max: &b.Max, Sizes: sizes})
}
