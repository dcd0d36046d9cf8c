package recovery

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/FluffyKas/cooking-helper/server/internal/api/respond"
)

// headerTracker remembers whether the handler already committed a status line.
type headerTracker struct {
	http.ResponseWriter
	wrote bool
}

func (t *headerTracker) WriteHeader(code int) {
	t.wrote = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *headerTracker) Write(b []byte) (int, error) {
	t.wrote = true
	return t.ResponseWriter.Write(b)
}

// Middleware turns a handler panic into a logged 500 JSON error. When the
// handler had already started its response only the log entry is written.
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
func Middleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tw := &headerTracker{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error().
					Str("panic", fmt.Sprint(rec)).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Bool("response_started", tw.wrote).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				if !tw.wrote {
					respond.WriteInternalError(w, "unexpected server error")
				}
			}()
			next.ServeHTTP(tw, r)
		})
	}
}
