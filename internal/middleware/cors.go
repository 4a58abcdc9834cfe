// Package middleware provides HTTP middleware shared by the portal and
// the lab service.
package middleware

import "net/http"

const allowedMethods = "GET, POST, DELETE, OPTIONS"
const allowedHeaders = "Content-Type, Accept"

// CORS returns middleware that handles cross-origin headers for the
// browser screens.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
					w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
					// Credentials only for explicit origins: pairing
					// Allow-Credentials with a wildcard-echoed origin
					// enables CSRF.
					if o != "*" {
						w.Header().Set("Access-Control-Allow-Credentials", "true")
					}
					break
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
