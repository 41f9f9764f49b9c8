package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"kloudcart/internal/model"
	"kloudcart/internal/repository"
	"kloudcart/internal/session"

	"github.com/rs/zerolog"
)

// contextKey is a private type for request-scoped values.
type contextKey int

const userKey contextKey = iota

// WithUser stores the authenticated user on the request context.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, or nil when the
// request passed through no auth middleware.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey).(*model.User)
	return user
}

// CORS adds CORS headers to the response.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SessionAuth resolves the session cookie into a user and stores it on
// the request context. Requests without a valid session get a 401, or a
// redirect to /login when the client asked for HTML.
func SessionAuth(sessions session.Store, users repository.UserRepository, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				rejectUnauthenticated(w, r, logger, "missing session cookie")
				return
			}

			email, err := sessions.Resolve(r.Context(), cookie.Value)
			if err != nil {
				logger.Error().Err(err).Msg("session lookup failed")
				writeAuthError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error")
				return
			}
			if email == "" {
				rejectUnauthenticated(w, r, logger, "expired or unknown session")
				return
			}

			user, err := users.GetByEmail(r.Context(), email)
			if err != nil {
				logger.Error().Err(err).Str("email", email).Msg("user lookup failed")
				writeAuthError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error")
				return
			}
			if user == nil {
				// Session outlived the account.
				rejectUnauthenticated(w, r, logger, "session for deleted account")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin rejects authenticated users without the admin flag. It
// must run after SessionAuth.
func RequireAdmin(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				writeAuthError(w, http.StatusUnauthorized, model.ErrCodeNotAuthenticated, model.ErrNotAuthenticated.Message)
				return
			}
			if !user.IsAdmin {
				logger.Warn().Str("email", user.Email).Str("path", r.URL.Path).Msg("admin route denied")
				writeAuthError(w, http.StatusForbidden, model.ErrCodeForbidden, model.ErrForbidden.Message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// rejectUnauthenticated answers an unauthenticated request. Browser
// navigations get a redirect to the login page; API clients get JSON.
func rejectUnauthenticated(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, reason string) {
	logger.Debug().Str("path", r.URL.Path).Str("reason", reason).Msg("unauthenticated request")

	if wantsHTML(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	writeAuthError(w, http.StatusUnauthorized, model.ErrCodeNotAuthenticated, model.ErrNotAuthenticated.Message)
}

// wantsHTML reports whether the client is a browser navigation rather
// than an API call.
func wantsHTML(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}

// writeAuthError writes a JSON error body without pulling in the
// handler package.
func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error": %q, "message": %q}`, code, message)
}

// Logging logs HTTP requests with timing information.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer wrapper to capture status code
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.statusCode).
				Dur("duration", duration).
				Str("remote_addr", r.RemoteAddr).
				Msg("http request")
		})
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error().
						Interface("panic", err).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Msg("panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error": "INTERNAL_ERROR", "message": "internal server error"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
