package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

// Handlers groups everything the router mounts. Live may be nil, which
// disables the websocket route.
type Handlers struct {
	Auth       *AuthHandler
	Blog       *BlogHandler
	Poll       *PollHandler
	Vote       *VoteHandler
	Calculator *CalculatorHandler
	User       *UserHandler
	Live       *LiveHandler
}

func NewHandler(authService ports.AuthService, h Handlers, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(LoadUser(authService))

	// Blog
	r.Get("/", h.Blog.Index)
	r.Get("/hello", h.Blog.Hello)
	r.Get("/posts/{id}", h.Blog.Show)
	r.Group(func(r chi.Router) {
		r.Use(RequireLogin)
		r.Get("/create", h.Blog.CreateForm)
		r.Post("/create", h.Blog.Create)
		r.Get("/{id}/update", h.Blog.UpdateForm)
		r.Post("/{id}/update", h.Blog.Update)
		r.Post("/{id}/delete", h.Blog.Delete)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Get("/register", h.Auth.RegisterForm)
		r.Post("/register", h.Auth.Register)
		r.Get("/login", h.Auth.LoginForm)
		r.Post("/login", h.Auth.Login)
		r.Get("/logout", h.Auth.Logout)
	})

	// Calculator
	r.Get("/calculator", h.Calculator.Page)
	r.Post("/compute", h.Calculator.Compute)

	// Polls
	r.Get("/polls", http.RedirectHandler("/polls/", http.StatusMovedPermanently).ServeHTTP)
	r.Route("/polls/", func(r chi.Router) {
		r.Get("/", h.Poll.Index)
		r.Get("/{id}/", h.Poll.Detail)
		r.Get("/{id}/results/", h.Poll.Results)
		r.Post("/{id}/vote/", h.Vote.Vote)
		if h.Live != nil {
			r.Get("/{id}/live", h.Live.Serve)
		}
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		r.With(RequireAPIUser).Get("/me", h.User.GetMe)

		r.Route("/questions", func(r chi.Router) {
			r.Get("/", h.Poll.ListQuestions)
			r.Get("/{id}", h.Poll.GetQuestion)
			r.With(RequireAPIUser).Post("/", h.Poll.CreateQuestion)
		})
	})

	return r
}
