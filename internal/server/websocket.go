package server

import (
	"bytes"
	"encoding/json"
	"image"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

const wsReadDeadline = 60 * time.Second

// decodeWebSocketHandler handles WebSocket connections for continuous frame
// scanning: each binary message is one image frame, each reply is a
// DecodeResponse for that frame.
func (s *Server) decodeWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)
	s.handleFrameStream(r, conn)
}

func (s *Server) handleFrameStream(r *http.Request, conn *websocket.Conn) {
	conn.SetReadLimit(s.maxUploadMB * 1024 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("WebSocket read error", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))

		if msgType != websocket.BinaryMessage {
			s.writeFrameError(conn, "expected a binary image frame")
			continue
		}

		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			decodeRequestsTotal.WithLabelValues("websocket", "error").Inc()
			s.writeFrameError(conn, "invalid image frame")
			continue
		}

		start := time.Now()
		res, err := s.decode(r.Context(), img, s.opts)
		elapsed := time.Since(start)
		if err != nil {
			decodeRequestsTotal.WithLabelValues("websocket", "error").Inc()
			s.writeFrameError(conn, err.Error())
			continue
		}

		decodeRequestsTotal.WithLabelValues("websocket", "success").Inc()
		decodeDuration.WithLabelValues("websocket").Observe(elapsed.Seconds())
		symbolsDecoded.WithLabelValues("websocket").Observe(float64(len(res)))

		b := img.Bounds()
		resp := newDecodeResponse(res, b.Dx(), b.Dy(), elapsed.Milliseconds())
		if err := s.writeFrameJSON(conn, resp); err != nil {
			slog.Warn("WebSocket write error", "error", err)
			return
		}
	}
}

func (s *Server) writeFrameError(conn *websocket.Conn, msg string) {
	_ = s.writeFrameJSON(conn, ErrorResponse{Error: msg})
}

func (s *Server) writeFrameJSON(conn *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
