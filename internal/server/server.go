// Package server exposes the calculator over HTTP.
//
// Each request to /api/evaluate runs on its own calculator, so handlers
// share nothing but the metrics registry.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/pocketcalc/internal/calculator"
	"github.com/agbru/pocketcalc/internal/logging"
	"github.com/agbru/pocketcalc/internal/metrics"
	"github.com/agbru/pocketcalc/internal/sysmon"
)

const tracerName = "github.com/agbru/pocketcalc/internal/server"

// Config configures the HTTP front-end.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// ShutdownTimeout bounds the graceful shutdown once the context ends.
	ShutdownTimeout time.Duration
	// Security holds headers, CORS and input limits.
	Security SecurityConfig
	// Observers are attached to every request's calculator in addition to
	// the metrics observer.
	Observers []calculator.Observer
	// Sampler feeds the /health system section; nil means sysmon.Sample.
	Sampler sysmon.Sampler
}

// Server serves /api/evaluate, /metrics and /health.
type Server struct {
	config  Config
	metrics *metrics.Metrics
	logger  logging.Logger
	tracer  trace.Tracer
}

// New creates a Server. The tracer comes from the global otel provider.
// A nil m is replaced by a fresh metrics.Metrics.
func New(config Config, m *metrics.Metrics, logger logging.Logger) *Server {
	if m == nil {
		m = metrics.New()
	}
	return &Server{
		config:  config,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}
}

// EvaluateResponse is the JSON body returned by /api/evaluate.
type EvaluateResponse struct {
	Display  string  `json:"display"`
	State    string  `json:"state"`
	OperandA Operand `json:"operandA"`
	OperandB Operand `json:"operandB"`
	Pending  string  `json:"pending"`
}

// Operand is an operand value in a JSON response. Saturated operands
// (±Inf) and NaN encode as null; the display still spells them out.
type Operand float64

// MarshalJSON implements json.Marshaler.
func (o Operand) MarshalJSON() ([]byte, error) {
	v := float64(o)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

type healthResponse struct {
	Status string       `json:"status"`
	System sysmon.Stats `json:"system"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	sec := s.config.Security
	mux.HandleFunc("/api/evaluate", SecurityMiddleware(sec, s.metricsMiddleware(s.handleEvaluate)))
	mux.HandleFunc("/metrics", SecurityMiddleware(sec, s.metricsMiddleware(s.handleMetrics)))
	mux.HandleFunc("/health", SecurityMiddleware(sec, s.metricsMiddleware(s.handleHealth)))
	return mux
}

// Run listens on the configured address and serves until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx ends, then shuts down within
// ShutdownTimeout. A nil error means a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server listening", logging.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		s.logger.Info("server shutting down", logging.String("timeout", s.config.ShutdownTimeout.String()))
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// handleEvaluate runs the keys form value on a fresh calculator. Keys come
// from the query string or a form body; "+" must be sent as %2B since form
// decoding turns a bare "+" into a space.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		s.methodNotAllowed(w, r, "GET, POST")
		return
	}

	limit := s.config.Security.MaxKeysLength
	if limit <= 0 {
		limit = DefaultMaxKeysLength
	}
	// Percent-encoding can triple the size of a key sequence.
	r.Body = http.MaxBytesReader(w, r.Body, int64(3*limit)+64)
	if err := r.ParseForm(); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid form: " + err.Error()})
		return
	}
	if !r.Form.Has("keys") {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing keys parameter"})
		return
	}
	keys := r.Form.Get("keys")
	if len(keys) > limit {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("keys parameter longer than %d bytes", limit),
		})
		return
	}

	ctx, span := s.tracer.Start(r.Context(), "calculator.evaluate",
		trace.WithAttributes(attribute.Int("calculator.keys.length", len(keys))))
	defer span.End()

	start := time.Now()
	m := s.newMachine()
	err := m.ApplyKeys(keys)
	s.metrics.ObserveEvaluation(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "input rejected")
		s.logger.Debug("evaluation rejected",
			logging.String("keys", keys),
			logging.String("trace_id", traceID(ctx)),
			logging.Err(err))
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	snap := m.Snapshot()
	span.SetAttributes(
		attribute.String("calculator.display", snap.Display),
		attribute.String("calculator.state", snap.State.String()),
	)
	if snap.State == calculator.StateError {
		span.SetStatus(codes.Error, calculator.ErrDivisionByZero.Error())
	}

	s.writeJSON(w, http.StatusOK, EvaluateResponse{
		Display:  snap.Display,
		State:    snap.State.String(),
		OperandA: Operand(snap.OperandA),
		OperandB: Operand(snap.OperandB),
		Pending:  snap.Pending.String(),
	})
}

func (s *Server) newMachine() *calculator.Machine {
	opts := make([]calculator.Option, 0, len(s.config.Observers)+1)
	opts = append(opts, calculator.WithObserver(s.metrics))
	for _, o := range s.config.Observers {
		opts = append(opts, calculator.WithObserver(o))
	}
	return calculator.New(opts...)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r, "GET")
		return
	}
	s.metrics.WritePrometheus(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r, "GET")
		return
	}
	sample := s.config.Sampler
	if sample == nil {
		sample = sysmon.Sample
	}
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", System: sample()})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request, allow string) {
	s.logger.Debug("method not allowed",
		logging.String("method", r.Method),
		logging.String("path", r.URL.Path))
	w.Header().Set("Allow", allow)
	s.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

// writeJSON encodes body before sending the status. An encoding failure
// is answered with a 500.
func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		if s.logger != nil {
			s.logger.Error("encode response", err, logging.Int("status", status))
		}
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func traceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
