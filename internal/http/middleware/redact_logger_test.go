package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// logLines decodes the captured JSON lines whose message is http_request.
func logLines(t *testing.T, raw string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		if m["message"] == "http_request" {
			out = append(out, m)
		}
	}
	return out
}

func TestRedactor(t *testing.T) {
	red := NewRedactor()
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"late delivery", "late delivery"},
		{"mail me at jane.doe+shop@example.com", "mail me at [REDACTED:email]"},
		{"call 212-555-1212 please", "call [REDACTED:phone] please"},
		{"order 123e4567-e89b-12d3-a456-426614174000", "order [REDACTED:id]"},
		// Record ids are long digit runs, not phone numbers.
		{"20250314150926535897", "20250314150926535897"},
	}
	for _, tc := range tests {
		if got := red.Redact(tc.in); got != tc.want {
			t.Fatalf("Redact(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRedactingLogger_ScrubsQueryAndHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{MaskHeaders: []string{HeaderAdminSecret}}))
	r.GET("/admin/feedback/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet,
		"/admin/feedback/20250314150926535897?q=jane@example.com&rating=1&rating=2", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	req.Header.Set("Cookie", "sid=abc")
	req.Header.Set(HeaderAdminSecret, "s3cret")
	req.Header.Set("X-Note", "ring 555-123-4567")
	req.Header.Set(requestIDHeader, "rid-admin")
	r.ServeHTTP(httptest.NewRecorder(), req)

	lines := logLines(t, buf.String())
	if len(lines) != 1 {
		t.Fatalf("want 1 access line, got %d:\n%s", len(lines), buf.String())
	}
	got := lines[0]
	if got["level"] != "info" || got["path"] != "/admin/feedback/:id" || got["request_id"] != "rid-admin" {
		t.Fatalf("unexpected access line: %v", got)
	}

	q, _ := got["query"].(map[string]any)
	if q["q"] != "[REDACTED:email]" || q["rating"] != "1,2" {
		t.Fatalf("query = %v", q)
	}
	h, _ := got["headers"].(map[string]any)
	for _, k := range []string{"Authorization", "Cookie", HeaderAdminSecret} {
		if h[k] != redactedValue {
			t.Fatalf("header %s = %v, want masked", k, h[k])
		}
	}
	if h["X-Note"] != "ring [REDACTED:phone]" {
		t.Fatalf("X-Note = %v", h["X-Note"])
	}
	if strings.Contains(buf.String(), "s3cret") {
		t.Fatalf("secret leaked into logs:\n%s", buf.String())
	}
}

func TestRedactingLogger_Levels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{QuietPaths: []string{"/health"}}))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/down", func(c *gin.Context) {
		_ = c.Error(errStorage{})
		c.Status(http.StatusServiceUnavailable)
	})

	for _, p := range []string{"/health", "/bad", "/down", "/missing"} {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		req.Header.Set(requestIDHeader, "rid"+strings.ReplaceAll(p, "/", "-"))
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	want := map[string]string{
		"/health":  "debug",
		"/bad":     "warn",
		"/down":    "error",
		"/missing": "warn",
	}
	lines := logLines(t, buf.String())
	if len(lines) != len(want) {
		t.Fatalf("want %d lines, got %d", len(want), len(lines))
	}
	for _, l := range lines {
		path, _ := l["path"].(string)
		if l["level"] != want[path] {
			t.Fatalf("%s: level %v, want %s", path, l["level"], want[path])
		}
		// Without RequestID the inbound header is used.
		if l["request_id"] != "rid"+strings.ReplaceAll(path, "/", "-") {
			t.Fatalf("%s: request_id %v", path, l["request_id"])
		}
		if path == "/down" && l["errors"] == nil {
			t.Fatalf("gin errors should be logged")
		}
	}
}

func TestRedactingLogger_MarksReplays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.POST("/feedback", func(c *gin.Context) {
		c.Set(ctxKeyIdemReplay, "20250314150926535897")
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/feedback", nil))

	lines := logLines(t, buf.String())
	if len(lines) != 1 || lines[0]["replay"] != true {
		t.Fatalf("replay flag missing:\n%s", buf.String())
	}
}

type errStorage struct{}

func (errStorage) Error() string { return "storage unavailable" }
