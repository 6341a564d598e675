package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kursancew/godmtx/dmtx"
	"github.com/kursancew/godmtx/internal/version"
)

// SetupRoutes registers all HTTP routes on the given mux.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/decode", s.corsMiddleware(s.decodeHandler))
	mux.HandleFunc("/ws", s.decodeWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}

// healthHandler returns server health status and the linked native library
// version.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	v, _, _ := version.Info()
	response := HealthResponse{
		Status:  "healthy",
		Version: v,
		Library: fmt.Sprintf("%s %s", dmtx.LibraryName, dmtx.Version()),
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// decodeHandler processes image decode requests.
func (s *Server) decodeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	img, opts, err := s.parseDecodeRequest(w, r)
	if err != nil {
		decodeRequestsTotal.WithLabelValues("http", "error").Inc()
		return // parseDecodeRequest already wrote the response
	}

	ctx := r.Context()
	if s.timeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.timeoutSec)*time.Second)
		defer cancel()
	}

	start := time.Now()
	res, err := s.decode(ctx, img, opts)
	elapsed := time.Since(start)
	if err != nil {
		decodeRequestsTotal.WithLabelValues("http", "error").Inc()
		s.writeErrorResponse(w, err.Error(), statusForError(err))
		return
	}

	decodeRequestsTotal.WithLabelValues("http", "success").Inc()
	decodeDuration.WithLabelValues("http").Observe(elapsed.Seconds())
	symbolsDecoded.WithLabelValues("http").Observe(float64(len(res)))

	b := img.Bounds()
	resp := newDecodeResponse(res, b.Dx(), b.Dy(), elapsed.Milliseconds())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding decode response: %v\n", err)
	}
}

// parseDecodeRequest extracts the uploaded image and per-request decoder
// overrides from a multipart form. On error the response has been written.
func (s *Server) parseDecodeRequest(w http.ResponseWriter, r *http.Request) (image.Image, dmtx.Options, error) {
	opts := s.opts

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)
	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		return nil, opts, err
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return nil, opts, err
	}
	defer func() { _ = file.Close() }()

	uploadSizeBytes.Observe(float64(header.Size))

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read image data", http.StatusInternalServerError)
		return nil, opts, err
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		s.writeErrorResponse(w, "Invalid image format", http.StatusBadRequest)
		return nil, opts, err
	}

	if v := r.FormValue("max_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeErrorResponse(w, fmt.Sprintf("Invalid max_count: %s", v), http.StatusBadRequest)
			return nil, opts, errors.New("invalid max_count")
		}
		opts.MaxCount = n
	}
	if v := r.FormValue("timeout_ms"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeErrorResponse(w, fmt.Sprintf("Invalid timeout_ms: %s", v), http.StatusBadRequest)
			return nil, opts, errors.New("invalid timeout_ms")
		}
		opts.Timeout = time.Duration(n) * time.Millisecond
	}
	if v := r.FormValue("shrink"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeErrorResponse(w, fmt.Sprintf("Invalid shrink: %s", v), http.StatusBadRequest)
			return nil, opts, errors.New("invalid shrink")
		}
		opts.Shrink = n
	}

	return img, opts, nil
}

// statusForError maps decode failures onto HTTP status codes.
func statusForError(err error) int {
	var derr *dmtx.Error
	switch {
	case errors.Is(err, dmtx.ErrNotLinked):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errors.As(err, &derr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding error response: %v\n", err)
	}
}
