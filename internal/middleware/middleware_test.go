package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JonnyWalker81/patternlog/internal/apierror"
	"github.com/JonnyWalker81/patternlog/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLogger_RequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := logger.NewZapLoggerFrom(zap.New(core), logger.LevelInfo)

	var seen string
	r := gin.New()
	r.Use(Logger(base))
	r.GET("/reports/short", func(c *gin.Context) {
		seen = logger.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	// A client-provided id is propagated
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/short", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if seen != "req-123" {
		t.Errorf("request id in context = %q, want %q", seen, "req-123")
	}
	if got := w.Header().Get(RequestIDHeader); got != "req-123" {
		t.Errorf("%s header = %q, want %q", RequestIDHeader, got, "req-123")
	}

	// Otherwise one is generated
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/short", nil))
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a generated request id")
	}

	entries := logs.FilterMessage("request completed").All()
	if len(entries) != 2 {
		t.Fatalf("logged %d requests, want 2", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-123" {
		t.Errorf("request_id field = %v, want req-123", fields["request_id"])
	}
	if fields["path"] != "/reports/short" {
		t.Errorf("path field = %v, want /reports/short", fields["path"])
	}
	if fields["status"] != int64(http.StatusOK) {
		t.Errorf("status field = %v, want 200", fields["status"])
	}
}

func TestSecurityHeaders(t *testing.T) {
	for _, production := range []bool{false, true} {
		r := gin.New()
		r.Use(SecurityHeaders(production))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("X-Content-Type-Options = %q", got)
		}
		hsts := w.Header().Get("Strict-Transport-Security") != ""
		if hsts != production {
			t.Errorf("production=%v: HSTS set = %v", production, hsts)
		}
	}
}

func TestRateLimiter_Handler(t *testing.T) {
	limiter := NewRateLimiter(1, 2, "test")
	defer limiter.Stop()

	r := gin.New()
	r.Use(limiter.Handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := do(); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}

	w := do()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != apierror.ContentTypeProblemJSON {
		t.Errorf("Content-Type = %q", got)
	}
	if w.Header().Get("Retry-After") != "1" {
		t.Errorf("Retry-After = %q, want 1", w.Header().Get("Retry-After"))
	}

	var problem apierror.ProblemDetails
	if err := json.Unmarshal(w.Body.Bytes(), &problem); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if problem.Type != apierror.TypeRateLimit {
		t.Errorf("type = %q, want %q", problem.Type, apierror.TypeRateLimit)
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	limiter := NewRateLimiter(1, 1, "test-sweep")
	defer limiter.Stop()

	now := time.Now()
	limiter.reserve("10.0.0.1", now)
	limiter.reserve("10.0.0.2", now.Add(2*time.Minute))

	cleaned, remaining := limiter.sweep(now.Add(4 * time.Minute))
	if cleaned != 1 || remaining != 1 {
		t.Errorf("sweep() = (%d, %d), want (1, 1)", cleaned, remaining)
	}
}
