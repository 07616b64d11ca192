package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
)

//go:embed templates
var templateFS embed.FS

const layoutTemplate = "templates/layout.html"

// Renderer holds one parsed template set per page, each combined with the
// shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

type pageData struct {
	User    *domain.User
	Flashes []string
	Now     time.Time
	Data    interface{}
}

type errorPage struct {
	Status  int
	Title   string
	Message string
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
	"percent": func(p float64) string {
		return fmt.Sprintf("%.1f%%", p)
	},
	"pluralize": func(n int64, singular, plural string) string {
		if n == 1 {
			return singular
		}
		return plural
	},
	"recent": func(q *domain.Question, now time.Time) bool {
		return q.WasPublishedRecently(now)
	},
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}

	err := fs.WalkDir(templateFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path == layoutTemplate || !strings.HasSuffix(path, ".html") {
			return nil
		}

		tmpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, layoutTemplate, path)
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", path, err)
		}
		r.pages[strings.TrimPrefix(path, "templates/")] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// HTML renders page inside the layout. The output is buffered so a template
// failure still produces a clean 500.
func (rd *Renderer) HTML(w http.ResponseWriter, r *http.Request, status int, page string, data interface{}) {
	tmpl, ok := rd.pages[page]
	if !ok {
		log.Error().Str("page", page).Msg("unknown template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "layout", pageData{
		User:    CurrentUser(r.Context()),
		Flashes: flashMessages(r.Context()),
		Now:     time.Now(),
		Data:    data,
	})
	if err != nil {
		log.Error().Err(err).Str("page", page).Msg("failed to render template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	rd.HTML(w, r, status, "error.html", errorPage{
		Status:  status,
		Title:   http.StatusText(status),
		Message: message,
	})
}

func (rd *Renderer) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	rd.Error(w, r, http.StatusInternalServerError, "Something went wrong.")
}
