// ABOUTME: Server detail and form page handlers
// ABOUTME: Redirects to canonical slugs and turns form posts into pending submissions

package pages

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"serverlist-api/core/domain"
	coreerrors "serverlist-api/core/errors"
	"serverlist-api/core/render"
	"serverlist-api/pkg/utils/parse"
)

type detailPage struct {
	base
	Server      *domain.Server
	EditPath    string
	ContentHTML template.HTML
	Screenshots []string
}

type formPage struct {
	base
	RulesHTML  template.HTML
	Heading    string
	Action     string
	SubmitText string
	Draft      domain.ServerDraft
	Errors     map[string]string
	Tags       []domain.Tag
}

// loadServer resolves the {id} route parameter. It writes the error page and
// returns nil when the server cannot be shown.
func (p *Pages) loadServer(w http.ResponseWriter, r *http.Request) *domain.Server {
	id, ok := parse.ID(chi.URLParam(r, "id"))
	if !ok {
		p.notFound(w, r)
		return nil
	}

	srv, err := p.cfg.Servers.Get(r.Context(), id, domain.WindowMonth)
	if err != nil {
		if coreerrors.IsNotFound(err) {
			p.notFound(w, r)
		} else {
			p.internalError(w, r, "Failed to load server", err)
		}
		return nil
	}
	return srv
}

// redirectCanonical sends a 301 when the slug in the URL is not the server's
func redirectCanonical(w http.ResponseWriter, r *http.Request, target string) bool {
	if r.URL.Path == target {
		return false
	}
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
	return true
}

func (p *Pages) detail(w http.ResponseWriter, r *http.Request) {
	srv := p.loadServer(w, r)
	if srv == nil || redirectCanonical(w, r, srv.Path()) {
		return
	}

	if err := p.cfg.Servers.RecordView(r.Context(), srv.ID); err != nil {
		p.logWarn("Failed to record view", map[string]interface{}{
			"server_id": srv.ID,
			"error":     err.Error(),
		})
	} else {
		srv.Views++
	}

	content, err := render.Markdown(srv.Content)
	if err != nil {
		p.internalError(w, r, "Failed to render description", err)
		return
	}

	page := detailPage{
		base:        p.base(r, srv.Title),
		Server:      srv,
		EditPath:    srv.Path() + "/edit",
		ContentHTML: template.HTML(content),
		Screenshots: render.Images(content),
	}
	page.Image = srv.Cover
	if page.Image == "" && len(page.Screenshots) > 0 {
		page.Image = page.Screenshots[0]
	}

	p.render(w, r, http.StatusOK, "detail", page)
}

func (p *Pages) newForm(w http.ResponseWriter, r *http.Request) {
	p.renderForm(w, r, http.StatusOK, 0, domain.ServerDraft{}, nil, "")
}

func (p *Pages) editForm(w http.ResponseWriter, r *http.Request) {
	srv := p.loadServer(w, r)
	if srv == nil || redirectCanonical(w, r, srv.Path()+"/edit") {
		return
	}
	p.renderForm(w, r, http.StatusOK, srv.ID, srv.Draft(), nil, "")
}

func (p *Pages) submitNew(w http.ResponseWriter, r *http.Request) {
	p.submit(w, r, 0)
}

func (p *Pages) submitEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := parse.ID(chi.URLParam(r, "id"))
	if !ok {
		p.notFound(w, r)
		return
	}
	p.submit(w, r, id)
}

// submit validates the posted draft and parks it behind the confirmation page
func (p *Pages) submit(w http.ResponseWriter, r *http.Request, serverID int64) {
	if err := r.ParseForm(); err != nil {
		p.renderError(w, r, http.StatusBadRequest, "Modulo non valido.")
		return
	}
	draft := draftFromForm(r)

	sub, err := p.cfg.Submissions.Prepare(r.Context(), draft, serverID)
	if err != nil {
		if fields, ok := coreerrors.AsValidationErrors(err); ok {
			p.renderForm(w, r, http.StatusBadRequest, serverID, draft, fields.Fields(), "")
			return
		}
		if coreerrors.IsNotFound(err) {
			p.notFound(w, r)
			return
		}
		p.logError("Failed to prepare submission", err, map[string]interface{}{"server_id": serverID})
		p.renderForm(w, r, http.StatusInternalServerError, serverID, draft, nil, domain.Failure(serverID != 0))
		return
	}

	http.Redirect(w, r, "/submissions/"+sub.Token, http.StatusSeeOther)
}

// renderForm shows the create form (serverID 0) or the edit form prefilled
// with draft. A non-empty failure is shown as an error notice.
func (p *Pages) renderForm(w http.ResponseWriter, r *http.Request, status int, serverID int64, draft domain.ServerDraft, errs map[string]string, failure string) {
	tags, err := p.cfg.Tags.List(r.Context())
	if err != nil {
		p.internalError(w, r, "Failed to load tags", err)
		return
	}

	page := formPage{
		RulesHTML:  p.rulesHTML,
		Heading:    "Aggiungi il tuo server",
		Action:     "/servers/new",
		SubmitText: "Posta",
		Draft:      draft,
		Errors:     errs,
		Tags:       tags,
	}
	if serverID != 0 {
		page.Heading = "Modifica il tuo server"
		page.Action = domain.ServerPath(serverID, draft.Title) + "/edit"
		page.SubmitText = "Modifica"
	}

	page.base = p.base(r, page.Heading)
	if failure != "" {
		page.Notice, page.NoticeKind = failure, "error"
	}

	p.render(w, r, status, "form", page)
}

func draftFromForm(r *http.Request) domain.ServerDraft {
	return domain.ServerDraft{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
		IP:      r.PostFormValue("ip"),
		Tags:    r.PostForm["tags"],
		Cover:   r.PostFormValue("cover"),
	}
}
