// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements AdminAuth, the gate in front of the admin endpoints.
// The shared secret is injected from configuration and compared in constant
// time. A successful check is recorded on the request-scoped Gin context
// (IsAdmin) and nowhere else.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderAdminSecret is the alternative to "Authorization: Bearer <secret>".
const HeaderAdminSecret = "X-Admin-Secret"

const ctxKeyAdmin = "auth.admin"

// IsAdmin reports whether AdminAuth accepted this request.
func IsAdmin(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyAdmin)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// AdminAuth returns a middleware that admits requests carrying secret.
//
// Behavior:
//   - secret empty: every request is rejected with 503 admin_disabled, so a
//     missing configuration never opens the admin surface.
//   - credential missing or wrong: 401 unauthorized with
//     WWW-Authenticate: Bearer.
//   - otherwise the request proceeds with IsAdmin(c) == true.
func AdminAuth(secret string) gin.HandlerFunc {
	want := []byte(secret)
	return func(c *gin.Context) {
		if len(want) == 0 {
			countRejection(RejectAdminDisabled)
			abortJSON(c, http.StatusServiceUnavailable, RejectAdminDisabled, "admin access is not configured")
			return
		}
		got := adminCredential(c)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			c.Header("WWW-Authenticate", `Bearer realm="admin"`)
			countRejection(RejectUnauthorized)
			abortJSON(c, http.StatusUnauthorized, RejectUnauthorized, "invalid admin credentials")
			return
		}
		c.Set(ctxKeyAdmin, true)
		c.Next()
	}
}

// adminCredential extracts the presented secret, preferring the bearer token.
func adminCredential(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		const prefix = "bearer "
		if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
			return strings.TrimSpace(h[len(prefix):])
		}
	}
	return strings.TrimSpace(c.GetHeader(HeaderAdminSecret))
}

// abortJSON writes the standard error envelope and stops the chain.
func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": RequestIDFrom(c),
		"code":       code,
		"message":    msg,
	})
}
