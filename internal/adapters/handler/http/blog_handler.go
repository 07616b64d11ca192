package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

type BlogHandler struct {
	posts  ports.PostService
	render *Renderer
}

func NewBlogHandler(posts ports.PostService, render *Renderer) *BlogHandler {
	return &BlogHandler{
		posts:  posts,
		render: render,
	}
}

type postsPage struct {
	Posts []*domain.Post
}

type postPage struct {
	Post *domain.Post
}

type postForm struct {
	Post  *domain.Post
	Title string
	Body  string
}

func (h *BlogHandler) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		h.render.ServerError(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "blog/index.html", postsPage{Posts: posts})
}

func (h *BlogHandler) Hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Hello, World!"))
}

func (h *BlogHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, id.String(), err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "blog/post.html", postPage{Post: post})
}

func (h *BlogHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, r, http.StatusOK, "blog/create.html", postForm{})
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render.Error(w, r, http.StatusBadRequest, "Failed to parse form.")
		return
	}
	input := ports.PostInput{Title: r.PostFormValue("title"), Body: r.PostFormValue("body")}

	user := CurrentUser(r.Context())
	if _, err := h.posts.Create(r.Context(), user.ID, input); err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			AddFlash(r, vErr.Message)
			h.render.HTML(w, r, http.StatusOK, "blog/create.html", postForm{Title: input.Title, Body: input.Body})
			return
		}
		h.render.ServerError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *BlogHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.posts.GetForAuthor(r.Context(), id, CurrentUser(r.Context()).ID)
	if err != nil {
		h.fail(w, r, id.String(), err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "blog/update.html", postForm{Post: post, Title: post.Title, Body: post.Body})
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.render.Error(w, r, http.StatusBadRequest, "Failed to parse form.")
		return
	}
	input := ports.PostInput{Title: r.PostFormValue("title"), Body: r.PostFormValue("body")}
	userID := CurrentUser(r.Context()).ID

	if _, err := h.posts.Update(r.Context(), id, userID, input); err != nil {
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			h.fail(w, r, id.String(), err)
			return
		}

		post, err := h.posts.GetForAuthor(r.Context(), id, userID)
		if err != nil {
			h.fail(w, r, id.String(), err)
			return
		}
		AddFlash(r, vErr.Message)
		h.render.HTML(w, r, http.StatusOK, "blog/update.html", postForm{Post: post, Title: input.Title, Body: input.Body})
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	if err := h.posts.Delete(r.Context(), id, CurrentUser(r.Context()).ID); err != nil {
		h.fail(w, r, id.String(), err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// postID parses the {id} path segment. Anything that is not a UUID cannot
// name a post, so it gets the same 404 as a missing one.
func (h *BlogHandler) postID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		h.fail(w, r, raw, domain.ErrPostNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func (h *BlogHandler) fail(w http.ResponseWriter, r *http.Request, id string, err error) {
	switch {
	case errors.Is(err, domain.ErrPostNotFound):
		h.render.Error(w, r, http.StatusNotFound, fmt.Sprintf("Post id %s doesn't exist.", id))
	case errors.Is(err, domain.ErrForbidden):
		h.render.Error(w, r, http.StatusForbidden, "You are not the author of this post.")
	default:
		h.render.ServerError(w, r, err)
	}
}
