package chi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

var (
	errNoCredentials = errors.New("missing authorization header")
	errNotBearer     = errors.New("authorization header must use Bearer scheme")
	errUnknownKey    = errors.New("invalid api key")
)

// Probes stay reachable without a key.
func isPublicPath(p string) bool {
	return p == "/health" || p == "/metrics"
}

// APIKeys checks "Authorization: Bearer <key>" against a fixed key set.
type APIKeys struct {
	keys [][]byte
}

// NewAPIKeys ignores blank entries. With no keys left every request is allowed.
func NewAPIKeys(keys []string) *APIKeys {
	a := &APIKeys{}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			a.keys = append(a.keys, []byte(k))
		}
	}
	return a
}

// Enabled reports whether any key is configured.
func (a *APIKeys) Enabled() bool { return len(a.keys) > 0 }

// Verify returns nil when the request carries a configured key.
func (a *APIKeys) Verify(r *http.Request) error {
	header := r.Header.Get("Authorization")
	if header == "" {
		return errNoCredentials
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return errNotBearer
	}

	// constant time across all keys
	match := 0
	for _, k := range a.keys {
		match |= subtle.ConstantTimeCompare(k, []byte(strings.TrimSpace(token)))
	}
	if match == 0 {
		return errUnknownKey
	}
	return nil
}

// Middleware rejects unauthenticated requests with 401 and a JSON error body.
func (a *APIKeys) Middleware(next http.Handler) http.Handler {
	if !a.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if err := a.Verify(r); err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="ragdex"`)
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// BearerAuthMiddleware is NewAPIKeys(apiKeys).Middleware.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	return NewAPIKeys(apiKeys).Middleware
}
