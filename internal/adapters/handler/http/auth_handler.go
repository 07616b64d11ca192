package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

type AuthHandler struct {
	authService   ports.AuthService
	render        *Renderer
	sessionTTL    time.Duration
	secureCookies bool
}

func NewAuthHandler(authService ports.AuthService, render *Renderer, sessionTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		render:        render,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

type credentialsForm struct {
	Username string
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, r, http.StatusOK, "auth/register.html", credentialsForm{})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render.Error(w, r, http.StatusBadRequest, "Failed to parse form.")
		return
	}
	username := r.PostFormValue("username")

	if _, err := h.authService.Register(r.Context(), username, r.PostFormValue("password")); err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			AddFlash(r, vErr.Message)
			h.render.HTML(w, r, http.StatusOK, "auth/register.html", credentialsForm{Username: username})
			return
		}
		h.render.ServerError(w, r, err)
		return
	}

	setFlashCookie(w, "Registration successful. Please log in.")
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, r, http.StatusOK, "auth/login.html", credentialsForm{})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render.Error(w, r, http.StatusBadRequest, "Failed to parse form.")
		return
	}
	username := r.PostFormValue("username")

	token, _, err := h.authService.Login(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			AddFlash(r, vErr.Message)
			h.render.HTML(w, r, http.StatusOK, "auth/login.html", credentialsForm{Username: username})
			return
		}
		h.render.ServerError(w, r, err)
		return
	}

	h.setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			log.Error().Err(err).Msg("failed to revoke session")
		}
	}

	expireCookie(w, sessionCookieName)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessionTTL.Seconds()),
	})
}
