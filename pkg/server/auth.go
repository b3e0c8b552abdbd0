package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// authenticationMiddleware creates an HTTP middleware that validates requests using
// Bearer token in the Authorization header.
//
// The /health endpoint is excluded from authentication.
func authenticationMiddleware(authToken string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		const bearerPrefix = "Bearer "
		authHeader := r.Header.Get("Authorization")
		authenticated := false
		if len(authHeader) > len(bearerPrefix) && authHeader[:len(bearerPrefix)] == bearerPrefix {
			bearerToken := authHeader[len(bearerPrefix):]
			authenticated = subtle.ConstantTimeCompare([]byte(bearerToken), []byte(authToken)) == 1
		}

		if !authenticated {
			w.Header().Set("WWW-Authenticate", `Bearer realm="MCP Simple Server"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// originSecurityHandler rejects cross-origin browser requests that do not come
// from localhost, which blocks DNS rebinding against a server bound to 0.0.0.0.
// Requests without an Origin header (CLIs, SDKs, same-origin) pass.
func originSecurityHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && !isLocalOrigin(origin) {
			http.Error(w, "Forbidden: Invalid Origin header", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isLocalOrigin(origin string) bool {
	for _, host := range []string{"localhost", "127.0.0.1", "[::1]"} {
		for _, scheme := range []string{"http://", "https://"} {
			base := scheme + host
			if origin == base || strings.HasPrefix(origin, base+":") {
				return true
			}
		}
	}
	return false
}
