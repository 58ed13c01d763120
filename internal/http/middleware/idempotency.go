// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file handles the Idempotency-Key header on feedback submissions. A
// client that retries a submission with the same key gets the record created
// by the first attempt instead of a duplicate record and three more generator
// calls. The middleware validates the key and asks an IdempotencyLookup
// whether it was seen; serving the stored record is left to the handler.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey carries the client-chosen key.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay" // string: id of the record created first
	ctxKeyRateBypass = "rate.bypass" // bool: RateLimiter lets the request through
)

var defaultIdemKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~:\-]+$`)

// GetIdempotencyKey returns the validated key, if the request carried one.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	s := asString(c.Value(ctxKeyIdemKey))
	return s, s != ""
}

// IsReplay reports whether the key matched an earlier submission.
func IsReplay(c *gin.Context) bool {
	_, replay := ReplayRecordID(c)
	return replay
}

// ReplayRecordID returns the id of the record created by the first request
// with this key.
func ReplayRecordID(c *gin.Context) (string, bool) {
	s := asString(c.Value(ctxKeyIdemReplay))
	return s, s != ""
}

// IdempotencyOptions bounds accepted keys.
type IdempotencyOptions struct {
	// MaxLen defaults to 200.
	MaxLen int
	// Pattern defaults to ^[A-Za-z0-9._~:-]+$.
	Pattern *regexp.Regexp
}

// IdempotencyLookup reports the record id stored for (clientID, scope, key)
// if it is still live at now. Expiry is the lookup's concern. Errors are
// treated as a miss so an unavailable key store never blocks submissions.
type IdempotencyLookup func(ctx context.Context, clientID, scope, key string, now time.Time) (recordID string, ok bool, err error)

// IdempotencyValidator rejects malformed keys with 400 bad_idempotency_key.
// A request without the header passes untouched. On a hit the request is
// marked as a replay and exempted from rate limiting.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultIdemKeyPattern
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			countRejection(RejectBadIdempotency)
			abortJSON(c, http.StatusBadRequest, RejectBadIdempotency, "invalid Idempotency-Key")
			return
		}

		c.Set(ctxKeyIdemKey, key)

		if lookup == nil {
			c.Next()
			return
		}
		id, hit, err := lookup(c.Request.Context(), ClientID(c), IdempotencyScope(c), key, time.Now().UTC())
		if err != nil {
			LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
		}
		if hit && id != "" {
			c.Set(ctxKeyIdemReplay, id)
			c.Set(ctxKeyRateBypass, true)
			idemReplays.Inc()
		}

		c.Next()
	}
}

// ClientID identifies the submitting client. Submissions are anonymous, so
// the client IP is the only stable identity.
func ClientID(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// IdempotencyScope names the operation a key belongs to: the method plus the
// registered route, falling back to the raw path when no route matched.
func IdempotencyScope(c *gin.Context) string {
	p := c.FullPath()
	if p == "" {
		p = c.Request.URL.Path
	}
	return c.Request.Method + " " + p
}
