package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	predictplot "github.com/aouyang1/go-predictplot"
)

// handleStream pushes every recomputed dataset of a session to a websocket client, starting
// with the current one. Clients never send data; reads only track liveness.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("unable to upgrade websocket connection", "session", id, "error", err.Error())
		return
	}

	datasets, unsubscribe := s.Subscribe()
	done := make(chan struct{})
	go readPump(conn, done)
	writePump(conn, id, datasets, done)
	unsubscribe()
}

// readPump discards client messages and closes done once the connection is gone
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket closed unexpectedly", "error", err.Error())
			}
			return
		}
	}
}

func writePump(conn *websocket.Conn, id string, datasets <-chan predictplot.ChartDataset, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case ds, ok := <-datasets:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			msg, err := json.Marshal(ds)
			if err != nil {
				slog.Error("unable to encode dataset", "session", id, "error", err.Error())
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
