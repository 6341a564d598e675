package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kursancew/godmtx/dmtx"
)

func dialTestWS(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	mux := http.NewServeMux()
	s.SetupRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWebSocketFrameDecode(t *testing.T) {
	symbols := []dmtx.Decoded{
		{Data: []byte("Stegosaurus"), Rect: dmtx.Rect{Left: 5, Top: 6, Width: 96, Height: 95}},
	}
	conn := dialTestWS(t, newTestServer(staticDecoder(symbols, nil)))

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, pngBytes(t, 400, 108)))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var resp DecodeResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Symbols, 1)
	assert.Equal(t, "Stegosaurus", resp.Symbols[0].Data)
}

func TestWebSocketRejectsTextFrames(t *testing.T) {
	conn := dialTestWS(t, newTestServer(staticDecoder(nil, nil)))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Contains(t, resp.Error, "binary image frame")
}

func TestWebSocketInvalidFrame(t *testing.T) {
	conn := dialTestWS(t, newTestServer(staticDecoder(nil, nil)))

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte("garbage")))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Contains(t, resp.Error, "invalid image frame")
}
