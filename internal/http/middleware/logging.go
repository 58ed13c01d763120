// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file covers request correlation and panic recovery:
//
//   - RequestID gives every request a correlation id, reusing a well-formed
//     inbound X-Request-ID and minting a UUID otherwise.
//   - Recovery turns a panic into the standard JSON 500 envelope and logs it
//     through the request logger.
//   - LoggerFrom and RequestIDFrom hand handlers the logger attached by
//     RedactingLogger and the id attached by RequestID.
//
// Install in the order RequestID, RedactingLogger, Recovery so a recovered
// panic is logged with the request's fields.
package middleware

import (
	"net/http"
	"regexp"
	"runtime/debug"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"

	// maxQueryLogLength caps each logged query value, in bytes.
	maxQueryLogLength = 256
)

// inbound ids end up in logs and response headers, so only plain tokens are
// trusted.
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:\-]{1,128}$`)

// RequestID stores the correlation id under the "requestID" context key and
// echoes it in the X-Request-ID response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if !requestIDPattern.MatchString(rid) {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}

// RequestIDFrom returns the id set by RequestID, falling back to the
// response header for handlers mounted without it.
func RequestIDFrom(c *gin.Context) string {
	if rid := asString(c.Value(requestIDKey)); rid != "" {
		return rid
	}
	return c.Writer.Header().Get(requestIDHeader)
}

// Recovery converts a panic into 500 internal_error. When the handler had
// already started writing, only the status is recorded.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			abortJSON(c, http.StatusInternalServerError, "internal_error", "internal server error")
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or the global logger when
// RedactingLogger is not installed.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, found := c.Get(loggerKey); found {
		if lg, isLogger := v.(*zerolog.Logger); isLogger {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// truncate shortens s to at most max bytes without splitting a rune and
// marks the cut with an ellipsis. max <= 0 disables truncation.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
