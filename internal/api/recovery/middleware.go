// Package recovery converts handler panics into JSON 500 responses so one bad
// evaluation cannot take down the listener.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/focusgate/focusgate/internal/api/respond"
)

// Middleware recovers panics from downstream handlers. The panic value and
// stack are logged with request context; the client gets the same error shape
// every other endpoint produces.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			log.Error().
				Interface("panic", rec).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("userId", r.Header.Get("X-User-ID")).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")

			respond.WriteInternalError(w, "internal error")
		}()
		next.ServeHTTP(w, r)
	})
}
