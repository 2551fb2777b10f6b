// ABOUTME: Server-rendered HTML pages for browsing, posting and editing servers
// ABOUTME: Renders embedded html/template files on top of the core services

package pages

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"serverlist-api/core/domain"
	"serverlist-api/core/interfaces"
	"serverlist-api/core/render"
	"serverlist-api/pkg/featureflags"
	"serverlist-api/web"
)

const excerptLength = 160

const (
	notFoundMessage = "Pagina non trovata."
	errorMessage    = "Qualcosa e' andato storto. Riprova tra poco."
)

// Config holds the collaborators of the HTML pages
type Config struct {
	Servers     interfaces.ServerService
	Tags        interfaces.TagService
	Submissions interfaces.SubmissionService
	Flags       featureflags.Manager
	Logger      interfaces.Logger

	// BaseURL is the public origin used for absolute links in the feed
	BaseURL string

	// RulesMarkdown is shown beside the form; empty uses the embedded rules
	RulesMarkdown string

	// Templates and Static override the embedded web assets
	Templates fs.FS
	Static    fs.FS
}

// Pages serves the HTML front end
type Pages struct {
	cfg       Config
	templates map[string]*template.Template
	rulesHTML template.HTML
	now       func() time.Time
}

var pageFiles = []string{"home", "detail", "form", "confirm", "error"}

// New parses every page template and renders the posting rules once
func New(cfg Config) (*Pages, error) {
	if cfg.Flags == nil {
		cfg.Flags = featureflags.NewStaticManager(featureflags.Defaults)
	}
	if cfg.RulesMarkdown == "" {
		cfg.RulesMarkdown = web.Rules
	}
	if cfg.Templates == nil {
		cfg.Templates = web.Templates
	}
	if cfg.Static == nil {
		cfg.Static = web.Static()
	}

	rules, err := render.Markdown(cfg.RulesMarkdown)
	if err != nil {
		return nil, fmt.Errorf("failed to render rules: %w", err)
	}

	p := &Pages{
		cfg:       cfg,
		templates: make(map[string]*template.Template, len(pageFiles)),
		rulesHTML: template.HTML(rules),
		now:       time.Now,
	}

	for _, name := range pageFiles {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(cfg.Templates, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		p.templates[name] = tmpl
	}

	return p, nil
}

// RegisterRoutes mounts the pages, the feed and the static assets on r
func (p *Pages) RegisterRoutes(r chi.Router) {
	r.Get("/", p.home)

	r.Get("/server/{id}", p.detail)
	r.Get("/server/{id}/{slug}", p.detail)
	r.Get("/server/{id}/{slug}/edit", p.editForm)
	r.Post("/server/{id}/{slug}/edit", p.submitEdit)

	r.Get("/servers/new", p.newForm)
	r.Post("/servers/new", p.submitNew)

	r.Get("/submissions/{token}", p.confirmPage)
	r.Post("/submissions/{token}/confirm", p.confirm)
	r.Post("/submissions/{token}/cancel", p.cancel)

	r.Get("/feed.xml", p.feed)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(p.cfg.Static))))
}

// base carries the fields the layout reads on every page
type base struct {
	PageTitle  string
	Image      string
	RSS        bool
	Notice     string
	NoticeKind string
}

func (p *Pages) base(r *http.Request, title string) base {
	b := base{
		PageTitle: title,
		RSS:       p.cfg.Flags.IsEnabled(r.Context(), featureflags.RSSFeed),
	}
	switch r.URL.Query().Get("notice") {
	case "created":
		b.Notice, b.NoticeKind = domain.NoticeCreated, "success"
	case "updated":
		b.Notice, b.NoticeKind = domain.NoticeUpdated, "success"
	}
	return b
}

type errorPage struct {
	base
	Message string
}

// render executes a page into a buffer so a template failure never sends a
// half-written body
func (p *Pages) render(w http.ResponseWriter, r *http.Request, status int, page string, data interface{}) {
	var buf bytes.Buffer
	if err := p.templates[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		p.logError("Failed to render page", err, map[string]interface{}{
			"page": page,
			"path": r.URL.Path,
		})
		http.Error(w, errorMessage, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (p *Pages) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	b := p.base(r, message)
	b.Notice = ""
	p.render(w, r, status, "error", errorPage{base: b, Message: message})
}

func (p *Pages) notFound(w http.ResponseWriter, r *http.Request) {
	p.renderError(w, r, http.StatusNotFound, notFoundMessage)
}

func (p *Pages) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	p.logError(msg, err, map[string]interface{}{"path": r.URL.Path})
	p.renderError(w, r, http.StatusInternalServerError, errorMessage)
}

func (p *Pages) logError(msg string, err error, fields map[string]interface{}) {
	if p.cfg.Logger == nil {
		return
	}
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["error"] = err.Error()
	p.cfg.Logger.Error(msg, fields)
}

func (p *Pages) logWarn(msg string, fields map[string]interface{}) {
	if p.cfg.Logger != nil {
		p.cfg.Logger.Warn(msg, fields)
	}
}

type fieldData struct {
	Label       string
	Name        string
	Kind        string
	Value       string
	Placeholder string
	Help        string
	Error       string
}

type buttonData struct {
	Text       string
	Formaction string
	Secondary  bool
}

var funcs = template.FuncMap{
	"excerpt": func(content string) string {
		return render.Excerpt(content, excerptLength)
	},
	"date": func(t time.Time) string {
		return t.Format("02/01/2006")
	},
	"clock": func(t time.Time) string {
		return t.Format("15:04")
	},
	"hasTag": func(tags []string, slug string) bool {
		for _, t := range tags {
			if t == slug {
				return true
			}
		}
		return false
	},
	"field": func(label, name, kind, value, placeholder, help, err string) fieldData {
		return fieldData{
			Label:       label,
			Name:        name,
			Kind:        kind,
			Value:       value,
			Placeholder: placeholder,
			Help:        help,
			Error:       err,
		}
	},
	"button": func(text, formaction string, secondary bool) buttonData {
		return buttonData{Text: text, Formaction: formaction, Secondary: secondary}
	},
}
