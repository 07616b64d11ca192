package http

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

type contextKey string

const (
	UserKey  contextKey = "user"
	flashKey contextKey = "flashes"
)

const (
	sessionCookieName = "session"
	flashCookieName   = "flash"
)

type flashes struct {
	messages []string
}

// CurrentUser returns the user loaded for this request, or nil.
func CurrentUser(ctx context.Context) *domain.User {
	user, _ := ctx.Value(UserKey).(*domain.User)
	return user
}

// AddFlash queues a message for the page rendered by this request.
func AddFlash(r *http.Request, message string) {
	if f, ok := r.Context().Value(flashKey).(*flashes); ok {
		f.messages = append(f.messages, message)
	}
}

func flashMessages(ctx context.Context) []string {
	if f, ok := ctx.Value(flashKey).(*flashes); ok {
		return f.messages
	}
	return nil
}

// LoadUser resolves the session cookie into the current user before any
// handler runs, and moves a flash left by a previous redirect into the
// request.
func LoadUser(auth ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			pending := &flashes{}
			if cookie, err := r.Cookie(flashCookieName); err == nil {
				if msg, err := base64.RawURLEncoding.DecodeString(cookie.Value); err == nil && len(msg) > 0 {
					pending.messages = append(pending.messages, string(msg))
				}
				expireCookie(w, flashCookieName)
			}
			ctx = context.WithValue(ctx, flashKey, pending)

			if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
				user, err := auth.CurrentUser(ctx, cookie.Value)
				switch {
				case err == nil:
					ctx = context.WithValue(ctx, UserKey, user)
				case errors.Is(err, domain.ErrInvalidSession):
					expireCookie(w, sessionCookieName)
				default:
					log.Error().Err(err).Msg("failed to load session user")
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin sends anonymous visitors to the login page.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAPIUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AccessLog writes one zerolog line per request.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		}()

		next.ServeHTTP(ww, r)
	})
}

func setFlashCookie(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
}
