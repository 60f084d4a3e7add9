package server

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/agbru/pocketcalc/internal/calculator"
	"github.com/agbru/pocketcalc/internal/logging"
	"github.com/agbru/pocketcalc/internal/metrics"
	"github.com/agbru/pocketcalc/internal/sysmon"
)

func newTestServer() *Server {
	return New(Config{
		Addr:            "127.0.0.1:0",
		ShutdownTimeout: time.Second,
		Security:        DefaultSecurityConfig(),
	}, metrics.New(), newTestLogger())
}

func evaluateURL(keys string) string {
	return "/api/evaluate?keys=" + url.QueryEscape(keys)
}

func TestServer_handleEvaluate(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want EvaluateResponse
	}{
		{"addition", "7+3=", EvaluateResponse{Display: "10", State: "entering_first_operand", OperandA: 10, Pending: "none"}},
		{"decimal result", "10,5*1=", EvaluateResponse{Display: "10.50", State: "entering_first_operand", OperandA: 10.5, Pending: "none"}},
		{"pending operation", "12+5", EvaluateResponse{Display: "5", State: "entering_second_operand", OperandA: 12, OperandB: 5, Pending: "+"}},
		{"division by zero", "8/0=", EvaluateResponse{Display: "Error", State: "error", OperandA: 8, Pending: "÷"}},
		{"empty sequence", "", EvaluateResponse{Display: "0", State: "entering_first_operand", Pending: "none"}},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, evaluateURL(tt.keys), http.NoBody)
			rec := httptest.NewRecorder()

			s.Handler().ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			var got EvaluateResponse
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.want {
				t.Errorf("response = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestServer_handleEvaluate_NonFiniteOperands(t *testing.T) {
	nines := strings.Repeat("9", 400)
	tests := []struct {
		name    string
		keys    string
		display string
	}{
		{"saturated literal", nines, nines},
		{"infinite result", nines + "*9=", "+Inf"},
		{"not a number", nines + "*0=", "NaN"},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, evaluateURL(tt.keys), http.NoBody)
			rec := httptest.NewRecorder()

			s.Handler().ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			var got map[string]any
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got["display"] != tt.display {
				t.Errorf("display = %v, want %q", got["display"], tt.display)
			}
			if v, ok := got["operandA"]; !ok || v != nil {
				t.Errorf("operandA = %v (present %v), want null", v, ok)
			}
		})
	}
}

func TestOperand_MarshalJSON(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{10.5, "10.5"},
		{-3, "-3"},
		{math.Inf(1), "null"},
		{math.Inf(-1), "null"},
		{math.NaN(), "null"},
	}
	for _, tt := range tests {
		got, err := json.Marshal(Operand(tt.in))
		if err != nil {
			t.Fatalf("Marshal(%v): %v", tt.in, err)
		}
		if string(got) != tt.want {
			t.Errorf("Marshal(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestServer_writeJSON_EncodeFailure(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()

	s.writeJSON(rec, http.StatusOK, map[string]float64{"value": math.Inf(1)})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rec.Body.String(), "internal error") {
		t.Errorf("body = %q, want an error message", rec.Body.String())
	}
}

func TestNew_NilMetrics(t *testing.T) {
	s := New(Config{Security: DefaultSecurityConfig()}, nil, newTestLogger())

	for _, target := range []string{evaluateURL("1+1="), "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", target, rec.Code, http.StatusOK)
		}
	}
}

func TestServer_handleEvaluate_Post(t *testing.T) {
	s := newTestServer()
	form := url.Values{"keys": {"6*7="}}
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"display":"42"`) {
		t.Errorf("body = %s, want display 42", rec.Body.String())
	}
}

func TestServer_handleEvaluate_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		status int
		errMsg string
	}{
		{"missing keys", http.MethodGet, "/api/evaluate", http.StatusBadRequest, "missing keys"},
		{"unknown key", http.MethodGet, evaluateURL("7%3"), http.StatusBadRequest, "invalid key"},
		{"too long", http.MethodGet, evaluateURL(strings.Repeat("1", DefaultMaxKeysLength+1)), http.StatusBadRequest, "longer than"},
		{"parse failure", http.MethodGet, evaluateURL(strings.Repeat("9", 400) + "*9=5"), http.StatusBadRequest, "not a number"},
		{"method", http.MethodDelete, evaluateURL("1"), http.StatusMethodNotAllowed, "method not allowed"},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, http.NoBody)
			rec := httptest.NewRecorder()

			s.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if !strings.Contains(rec.Body.String(), tt.errMsg) {
				t.Errorf("body = %s, want it to contain %q", rec.Body.String(), tt.errMsg)
			}
		})
	}
}

func TestServer_handleEvaluate_Observers(t *testing.T) {
	var events int
	s := New(Config{
		Security: DefaultSecurityConfig(),
		Observers: []calculator.Observer{
			calculator.ObserverFunc(func(calculator.Transition) { events++ }),
		},
	}, metrics.New(), newTestLogger())

	req := httptest.NewRequest(http.MethodGet, evaluateURL("1+2="), http.NoBody)
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)

	if events != 4 {
		t.Errorf("observed %d events, want 4", events)
	}
}

func TestServer_handleHealth(t *testing.T) {
	s := newTestServer()
	s.config.Sampler = func() sysmon.Stats {
		return sysmon.Stats{CPUPercent: 12.5, MemPercent: 40, Goroutines: 7}
	}

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	want := `{"status":"ok","system":{"cpuPercent":12.5,"memPercent":40,"goroutines":7}}`
	if strings.TrimSpace(rec.Body.String()) != want {
		t.Errorf("body = %s, want %s", rec.Body.String(), want)
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("security headers should be applied to /health")
	}
}

// TestServer_metricsMiddleware tests the metrics tracking middleware.
func TestServer_metricsMiddleware(t *testing.T) {
	t.Run("Next handler is called", func(t *testing.T) {
		s := &Server{
			metrics: metrics.New(),
		}

		nextCalled := false
		next := func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
			w.WriteHeader(http.StatusOK)
		}

		handler := s.metricsMiddleware(next)
		req := httptest.NewRequest("GET", "/test", http.NoBody)
		rec := httptest.NewRecorder()

		handler(rec, req)

		if !nextCalled {
			t.Error("next handler was not called")
		}
	})

	t.Run("Requests are counted by status", func(t *testing.T) {
		m := metrics.New()
		s := &Server{
			metrics: m,
		}

		next := func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}

		handler := s.metricsMiddleware(next)
		req := httptest.NewRequest("GET", "/test", http.NoBody)
		rec := httptest.NewRecorder()

		handler(rec, req)

		if rec.Code != http.StatusTeapot {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
		}
		n, err := testutil.GatherAndCount(m.Registry(), "pocketcalc_requests_total")
		if err != nil {
			t.Fatalf("GatherAndCount: %v", err)
		}
		if n != 1 {
			t.Errorf("requests_total series = %d, want 1", n)
		}
	})

	t.Run("Active requests return to zero", func(t *testing.T) {
		m := metrics.New()
		s := &Server{
			metrics: m,
		}

		handler := s.metricsMiddleware(func(w http.ResponseWriter, r *http.Request) {})
		handler(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", http.NoBody))

		body := scrape(t, m)
		if !strings.Contains(body, "pocketcalc_active_requests 0") {
			t.Errorf("active requests gauge should be back at 0:\n%s", body)
		}
	})
}

// TestServer_handleMetrics tests the /metrics endpoint handler.
func TestServer_handleMetrics(t *testing.T) {
	t.Run("GET returns metrics", func(t *testing.T) {
		s := &Server{
			metrics: metrics.New(),
		}

		req := httptest.NewRequest("GET", "/metrics", http.NoBody)
		rec := httptest.NewRecorder()

		s.handleMetrics(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		body := rec.Body.String()
		if !strings.Contains(body, "pocketcalc_") {
			t.Error("response should contain pocketcalc metrics")
		}
	})

	for _, method := range []string{"POST", "PUT"} {
		t.Run(method+" returns method not allowed", func(t *testing.T) {
			s := &Server{
				metrics: metrics.New(),
				logger:  newTestLogger(),
			}

			req := httptest.NewRequest(method, "/metrics", http.NoBody)
			rec := httptest.NewRecorder()

			s.handleMetrics(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
			}
			if rec.Header().Get("Allow") != "GET" {
				t.Errorf("Allow = %q, want GET", rec.Header().Get("Allow"))
			}
		})
	}
}

func TestServer_EvaluationMetrics(t *testing.T) {
	s := newTestServer()
	for _, keys := range []string{"1+1=", "8/0="} {
		req := httptest.NewRequest(http.MethodGet, evaluateURL(keys), http.NoBody)
		s.Handler().ServeHTTP(httptest.NewRecorder(), req)
	}

	body := scrape(t, s.metrics)
	for _, want := range []string{
		`pocketcalc_events_total{kind="equals"} 2`,
		`pocketcalc_errors_total{reason="division_by_zero"} 1`,
		`pocketcalc_requests_total{code="200",path="/api/evaluate"} 2`,
		`pocketcalc_evaluation_duration_seconds_count 2`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics should contain %q", want)
		}
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	s := newTestServer()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + evaluateURL("2*21="))
	if err != nil {
		cancel()
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `"display":"42"`) {
		t.Errorf("body = %s, want display 42", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v, want nil after cancellation", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_RunInvalidAddress(t *testing.T) {
	s := New(Config{Addr: "256.0.0.1:bad", ShutdownTimeout: time.Second}, metrics.New(), newTestLogger())
	if err := s.Run(context.Background()); err == nil {
		t.Fatal("Run should fail on an invalid address")
	}
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.WritePrometheus(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	return rec.Body.String()
}

// testLogger is a minimal logger for testing that implements logging.Logger.
type testLogger struct{}

func newTestLogger() *testLogger                                  { return &testLogger{} }
func (l *testLogger) Info(_ string, _ ...logging.Field)           {}
func (l *testLogger) Error(_ string, _ error, _ ...logging.Field) {}
func (l *testLogger) Debug(_ string, _ ...logging.Field)          {}
func (l *testLogger) Printf(_ string, _ ...any)                   {}
func (l *testLogger) Println(_ ...any)                            {}
