package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// parseLevel maps a per-request override to a zerolog level.
// Unknown values fall back to info.
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "disabled":
		return zerolog.Disabled
	case "error":
		return zerolog.ErrorLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "info":
		return zerolog.InfoLevel
	case "debug", "1":
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// requestLogLevel returns the level for r: ?log= wins over X-Log-Level, and
// both override def.
func requestLogLevel(r *http.Request, def zerolog.Level) zerolog.Level {
	if v := r.URL.Query().Get("log"); v != "" {
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return def
}

// requestLogger installs a per-request child of base in the request context,
// tagged with the request id and honoring per-request level overrides.
// Handlers and the service layer retrieve it with zerolog.Ctx.
func requestLogger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			zc := base.Level(requestLogLevel(r, base.GetLevel())).With().
				Str("method", r.Method).
				Str("path", r.URL.Path)
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				zc = zc.Str("request_id", rid)
			}
			l := zc.Logger()
			next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
		})
	}
}
