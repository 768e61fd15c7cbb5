// Package requesttime pins a single "now" per request so decision
// timestamps, history rows and event payloads written by one request agree.
package requesttime

import (
	"net/http"
	"time"

	"bankeu/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
