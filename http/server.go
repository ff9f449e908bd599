package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/watercrawl/wcollama"
	"github.com/watercrawl/wcollama/extract"
)

// Server defaults.
const (
	DefaultAddr        = ":8080"
	MaxBodyBytes       = 16 << 20
	MaxBatchSize       = 100
	MaxBatchConcurrent = 16
	ShutdownTimeout    = 5 * time.Second
	ReadyTimeout       = 5 * time.Second
)

// RequestIDHeader carries the request ID in and out of the server.
const RequestIDHeader = "X-Request-ID"

// Server exposes extraction and the loaded plugins over HTTP for hosts that
// run the plugin as a sidecar.
type Server struct {
	Addr      string
	Adapter   wcollama.Adapter
	Generator wcollama.Generator
	Plugins   []wcollama.Plugin
	Logger    *slog.Logger

	// BatchConcurrency bounds extractions per batch request.
	// Zero means extract.DefaultBatchConcurrency.
	BatchConcurrency int

	srv *http.Server
}

// Handler returns the server's routes wrapped in its middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/extract", s.handleExtract)
	mux.HandleFunc("POST /v1/extract/batch", s.handleBatch)
	mux.HandleFunc("POST /v1/items", s.handleItem)
	mux.HandleFunc("GET /v1/plugins", s.handlePlugins)
	mux.HandleFunc("GET /health/live", s.handleLive)
	mux.HandleFunc("GET /health/ready", s.handleReady)

	return requestID(s.logRequests(secure(mux)))
}

// Start listens on Addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := s.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Extractions can take as long as the backend timeout.
		WriteTimeout:   5 * time.Minute,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger().Info("listening", "addr", ln.Addr().String())
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger().Info("shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(shutCtx)
	}
}

// BatchRequest is the body of POST /v1/extract/batch.
type BatchRequest struct {
	Requests    []*wcollama.ExtractionRequest `json:"requests"`
	Concurrency int                           `json:"concurrency,omitempty"`
}

// BatchResponse is returned by POST /v1/extract/batch.
type BatchResponse struct {
	Results []*wcollama.ExtractionResult `json:"results"`
}

// ItemRequest is the body of POST /v1/items. Plugin selects a loaded plugin
// by key and defaults to the first one.
type ItemRequest struct {
	Plugin  string                   `json:"plugin,omitempty"`
	Item    wcollama.Item            `json:"item"`
	Options *wcollama.ExtractOptions `json:"options"`
}

// ItemResponse is returned by POST /v1/items. Result is nil when the
// plugin skipped the item.
type ItemResponse struct {
	Item    wcollama.Item              `json:"item"`
	Result  *wcollama.ExtractionResult `json:"result,omitempty"`
	Skipped bool                       `json:"skipped"`
}

// PluginDescription is one entry of GET /v1/plugins.
type PluginDescription struct {
	wcollama.PluginInfo
	InputSchema map[string]any `json:"input_schema"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req wcollama.ExtractionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Adapter.Extract(r.Context(), &req))
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Requests) > MaxBatchSize {
		s.writeError(w, r, wcollama.Errorf(wcollama.EINVALID, "batch exceeds %d requests", MaxBatchSize))
		return
	}

	concurrency := s.BatchConcurrency
	if req.Concurrency > 0 {
		concurrency = min(req.Concurrency, MaxBatchConcurrent)
	}

	results := extract.Batch(r.Context(), s.Adapter, req.Requests, concurrency)
	writeJSON(w, http.StatusOK, BatchResponse{Results: results})
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.plugin(req.Plugin)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := p.ValidateOptions(req.Options); err != nil {
		s.writeError(w, r, err)
		return
	}

	item, res := p.ProcessItem(r.Context(), req.Item, req.Options)
	writeJSON(w, http.StatusOK, ItemResponse{Item: item, Result: res, Skipped: res == nil})
}

func (s *Server) handlePlugins(w http.ResponseWriter, r *http.Request) {
	out := make([]PluginDescription, 0, len(s.Plugins))
	for _, p := range s.Plugins {
		out = append(out, PluginDescription{PluginInfo: p.Info(), InputSchema: p.InputSchema()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.Generator == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": "no backend configured"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ReadyTimeout)
	defer cancel()
	if err := s.Generator.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": wcollama.ErrorMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) plugin(key string) (wcollama.Plugin, error) {
	if len(s.Plugins) == 0 {
		return nil, wcollama.Errorf(wcollama.ENOTFOUND, "no plugins loaded")
	}
	if key == "" {
		return s.Plugins[0], nil
	}
	for _, p := range s.Plugins {
		if p.Info().Key == key {
			return p, nil
		}
	}
	return nil, wcollama.Errorf(wcollama.ENOTFOUND, "plugin %q not loaded", key)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// writeError maps the application error code to a status and writes an
// ErrorResponse. Internal errors are logged and their details hidden.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := wcollama.ErrorCode(err), wcollama.ErrorMessage(err)
	if code == wcollama.EINTERNAL {
		s.logger().Error("http error",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", w.Header().Get(RequestIDHeader),
			"err", err,
		)
	}
	writeJSON(w, errorStatus(code), ErrorResponse{Code: code, Message: message})
}

var codes = map[string]int{
	wcollama.EINVALID:  http.StatusBadRequest,
	wcollama.ENOTFOUND: http.StatusNotFound,
	wcollama.ECONFIG:   http.StatusInternalServerError,
	wcollama.ENETWORK:  http.StatusBadGateway,
	wcollama.EBACKEND:  http.StatusBadGateway,
	wcollama.ETIMEOUT:  http.StatusGatewayTimeout,
	wcollama.EINTERNAL: http.StatusInternalServerError,
}

func errorStatus(code string) int {
	if status, ok := codes[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return wcollama.Errorf(wcollama.EINVALID, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return wcollama.Errorf(wcollama.EINVALID, "invalid request body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestID propagates the caller's X-Request-ID or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger().Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", w.Header().Get(RequestIDHeader),
			"duration", time.Since(begin),
		)
	})
}

// secure blocks TRACE, caps the body size and sets hardening headers.
func secure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodTrace {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		if r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
