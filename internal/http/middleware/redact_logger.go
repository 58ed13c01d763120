// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the access log. Reviews can carry
// customer contact details and admins search them through the q parameter,
// so query values and header values pass through a Redactor before they are
// written. Bodies are never logged.
package middleware

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const redactedValue = "[REDACTED]"

// Redactor replaces identifiers that look like personal data with typed
// placeholders such as [REDACTED:email].
type Redactor struct {
	rules []redactRule
}

type redactRule struct {
	re   *regexp.Regexp
	with string
}

// NewRedactor returns a Redactor for UUIDs, email addresses and phone
// numbers. UUIDs go first: their digit groups would otherwise satisfy the
// phone rule.
func NewRedactor() *Redactor {
	return &Redactor{rules: []redactRule{
		{regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`), "[REDACTED:id]"},
		{regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`), "[REDACTED:email]"},
		{regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`), "[REDACTED:phone]"},
	}}
}

// Redact applies every rule to s.
func (r *Redactor) Redact(s string) string {
	for _, rule := range r.rules {
		if s == "" {
			break
		}
		s = rule.re.ReplaceAllString(s, rule.with)
	}
	return s
}

// RedactOptions tunes RedactingLogger.
type RedactOptions struct {
	// MaskHeaders are replaced wholesale, in addition to Authorization,
	// Cookie and Set-Cookie. Matching ignores case.
	MaskHeaders []string
	// QuietPaths are logged at debug level while they succeed. Use it for
	// probes such as /health and /metrics.
	QuietPaths []string
}

// RedactingLogger attaches a request-scoped logger (request_id, method,
// route) to the Gin context and the request context, then writes one
// http_request line per request: info below 400, warn for 4xx, error for
// 5xx.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	red := NewRedactor()

	masked := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			masked[h] = struct{}{}
		}
	}
	quiet := make(map[string]struct{}, len(opts.QuietPaths))
	for _, p := range opts.QuietPaths {
		quiet[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		rid := requestIDOf(c)

		l := log.With().
			Str("request_id", rid).
			Str("method", c.Request.Method).
			Str("path", route).
			Logger()
		c.Set(loggerKey, &l)
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		default:
			if _, isQuiet := quiet[route]; isQuiet {
				ev = log.Debug()
			} else {
				ev = log.Info()
			}
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		if IsReplay(c) {
			ev = ev.Bool("replay", true)
		}

		ev.
			Str("request_id", rid).
			Str("method", c.Request.Method).
			Str("path", route).
			Dict("query", scrubQuery(c.Request.URL.Query(), red)).
			Dict("headers", scrubHeaders(c, masked, red)).
			Str("remote_ip", c.ClientIP()).
			Bool("admin", IsAdmin(c)).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("http_request")
	}
}

// requestIDOf also accepts the inbound header when RequestID is not
// installed.
func requestIDOf(c *gin.Context) string {
	if s := RequestIDFrom(c); s != "" {
		return s
	}
	return c.GetHeader(requestIDHeader)
}

func scrubQuery(q url.Values, red *Redactor) *zerolog.Event {
	d := zerolog.Dict()
	for _, k := range sortedKeys(q) {
		d = d.Str(k, red.Redact(truncate(strings.Join(q[k], ","), maxQueryLogLength)))
	}
	return d
}

func scrubHeaders(c *gin.Context, masked map[string]struct{}, red *Redactor) *zerolog.Event {
	d := zerolog.Dict()
	for _, k := range sortedKeys(c.Request.Header) {
		if _, hide := masked[strings.ToLower(k)]; hide {
			d = d.Str(k, redactedValue)
			continue
		}
		d = d.Str(k, red.Redact(strings.Join(c.Request.Header[k], ", ")))
	}
	return d
}

func sortedKeys[M ~map[string][]string](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
