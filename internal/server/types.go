package server

import (
	"context"
	"image"

	"github.com/kursancew/godmtx/dmtx"
)

// decodeFunc is the decode entry point the handlers call; tests substitute a
// fake so no native library is needed.
type decodeFunc func(ctx context.Context, img image.Image, opts dmtx.Options) ([]dmtx.Decoded, error)

// Server holds the HTTP server state and dependencies.
type Server struct {
	decode      decodeFunc
	opts        dmtx.Options
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int
}

// Config holds server configuration.
type Config struct {
	Host            string
	Port            int
	CORSOrigin      string
	MaxUploadMB     int64
	TimeoutSec      int
	ShutdownTimeout int
	Decode          dmtx.Options
}

// NewServer creates a Server backed by the libdmtx decoder.
func NewServer(cfg Config) *Server {
	s := &Server{
		decode: func(ctx context.Context, img image.Image, opts dmtx.Options) ([]dmtx.Decoded, error) {
			return dmtx.DecodeContext(ctx, dmtx.FromImage(img), opts)
		},
		opts:        cfg.Decode,
		corsOrigin:  cfg.CORSOrigin,
		maxUploadMB: cfg.MaxUploadMB,
		timeoutSec:  cfg.TimeoutSec,
	}
	if s.corsOrigin == "" {
		s.corsOrigin = "*"
	}
	if s.maxUploadMB <= 0 {
		s.maxUploadMB = 50
	}
	return s
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Library string `json:"library"`
	Time    string `json:"time"`
}

// Symbol is one decoded Data Matrix symbol in an API response.
type Symbol struct {
	Data string    `json:"data"`
	Rect dmtx.Rect `json:"rect"`
}

type DecodeResponse struct {
	Symbols    []Symbol `json:"symbols"`
	Count      int      `json:"count"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Processing struct {
		TotalTimeMs int64 `json:"total_time_ms"`
	} `json:"processing"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func newDecodeResponse(res []dmtx.Decoded, width, height int, elapsedMs int64) DecodeResponse {
	symbols := make([]Symbol, 0, len(res))
	for _, d := range res {
		symbols = append(symbols, Symbol{Data: string(d.Data), Rect: d.Rect})
	}
	resp := DecodeResponse{
		Symbols: symbols,
		Count:   len(symbols),
		Width:   width,
		Height:  height,
	}
	resp.Processing.TotalTimeMs = elapsedMs
	return resp
}
