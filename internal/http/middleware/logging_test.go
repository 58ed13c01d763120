package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// captureLogger routes the global logger into a buffer for the test.
func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/rid", func(c *gin.Context) {
		v, _ := c.Get(requestIDKey)
		c.String(http.StatusOK, asString(v))
	})

	tests := []struct {
		name     string
		inbound  string
		wantSame bool
	}{
		{"absent", "", false},
		{"well formed", "Z-REQ-123", true},
		{"with colons and dots", "edge:1.2", true},
		{"spaces", "has space", false},
		{"header injection", "abc\r\nX-Evil: 1", false},
		{"too long", strings.Repeat("a", 129), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/rid", nil)
			if tc.inbound != "" {
				req.Header[http.CanonicalHeaderKey(requestIDHeader)] = []string{tc.inbound}
			}
			r.ServeHTTP(w, req)

			got := w.Header().Get(requestIDHeader)
			if got != w.Body.String() {
				t.Fatalf("header %q and context %q disagree", got, w.Body.String())
			}
			if tc.wantSame {
				if got != tc.inbound {
					t.Fatalf("want inbound id %q, got %q", tc.inbound, got)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("want a generated uuid, got %q", got)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{}), Recovery())
	r.POST("/feedback", func(*gin.Context) { panic("generator exploded") })
	r.GET("/partial", func(c *gin.Context) {
		c.String(http.StatusOK, "partial-body")
		panic("late")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/feedback", nil)
	req.Header.Set(requestIDHeader, "rid-panic")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body["code"] != "internal_error" || body["request_id"] != "rid-panic" {
		t.Fatalf("unexpected body: %v", body)
	}
	logs := buf.String()
	if !strings.Contains(logs, `"message":"panic recovered"`) || !strings.Contains(logs, `"panic":"generator exploded"`) {
		t.Fatalf("missing panic log:\n%s", logs)
	}
	// Logged through the request logger.
	if !strings.Contains(logs, `"path":"/feedback"`) {
		t.Fatalf("panic log should carry request fields:\n%s", logs)
	}

	// Once the body is on the wire no JSON envelope is appended.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/partial", nil))
	if strings.Contains(w.Body.String(), "internal_error") {
		t.Fatalf("envelope written after partial body: %q", w.Body.String())
	}
}

func TestLoggerFrom(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("fallback", func(t *testing.T) {
		buf := captureLogger(t)
		r := gin.New()
		r.Use(RequestID())
		r.GET("/use", func(c *gin.Context) {
			LoggerFrom(c).Info().Msg("custom")
			c.Status(http.StatusOK)
		})
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/use", nil))
		if !strings.Contains(buf.String(), `"message":"custom"`) || strings.Contains(buf.String(), `"request_id"`) {
			t.Fatalf("unexpected fallback output:\n%s", buf.String())
		}
	})

	t.Run("request scoped", func(t *testing.T) {
		buf := captureLogger(t)
		r := gin.New()
		r.Use(RequestID(), RedactingLogger(RedactOptions{}))
		r.GET("/use", func(c *gin.Context) {
			LoggerFrom(c).Info().Msg("from-gin")
			zerolog.Ctx(c.Request.Context()).Info().Msg("from-ctx")
			c.Status(http.StatusOK)
		})
		req := httptest.NewRequest(http.MethodGet, "/use", nil)
		req.Header.Set(requestIDHeader, "rid-scoped")
		r.ServeHTTP(httptest.NewRecorder(), req)

		for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
			if strings.Contains(line, "from-") && !strings.Contains(line, `"request_id":"rid-scoped"`) {
				t.Fatalf("scoped line without request id: %s", line)
			}
		}
		if strings.Count(buf.String(), "from-") != 2 {
			t.Fatalf("expected both scoped lines:\n%s", buf.String())
		}
	})
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"abcdefgh", 5, "abcde…"},
		{"abc", 0, "abc"},
		// "é" is two bytes; a cut inside it backs off to the rune start.
		{"caféteria", 4, "caf…"},
	}
	for _, tc := range tests {
		if got := truncate(tc.in, tc.max); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
	if asString("x") != "x" || asString(42) != "" {
		t.Fatalf("asString mismatch")
	}
}
