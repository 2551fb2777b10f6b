// ABOUTME: Confirmation page handlers for pending server submissions
// ABOUTME: Confirming performs the single create or update; cancelling returns to the form

package pages

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"serverlist-api/core/domain"
	coreerrors "serverlist-api/core/errors"
	"serverlist-api/core/render"
)

type confirmPage struct {
	base
	Prompt      string
	Submission  *domain.Submission
	PreviewHTML template.HTML
}

// loadSubmission resolves {token}. Unknown and expired tokens render the
// expiry notice.
func (p *Pages) loadSubmission(w http.ResponseWriter, r *http.Request) *domain.Submission {
	sub, err := p.cfg.Submissions.Get(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		if coreerrors.IsNotFound(err) {
			p.renderError(w, r, http.StatusNotFound, domain.NoticeExpired)
		} else {
			p.internalError(w, r, "Failed to load submission", err)
		}
		return nil
	}
	return sub
}

func (p *Pages) confirmPage(w http.ResponseWriter, r *http.Request) {
	sub := p.loadSubmission(w, r)
	if sub == nil {
		return
	}

	preview, err := render.Markdown(sub.Draft.Content)
	if err != nil {
		p.internalError(w, r, "Failed to render preview", err)
		return
	}

	prompt := domain.Prompt(sub.IsUpdate())

	p.render(w, r, http.StatusOK, "confirm", confirmPage{
		base:        p.base(r, prompt),
		Prompt:      prompt,
		Submission:  sub,
		PreviewHTML: template.HTML(preview),
	})
}

func (p *Pages) confirm(w http.ResponseWriter, r *http.Request) {
	sub := p.loadSubmission(w, r)
	if sub == nil {
		return
	}

	res, err := p.cfg.Submissions.Confirm(r.Context(), sub.Token)
	if err != nil {
		if coreerrors.IsNotFound(err) {
			p.renderError(w, r, http.StatusNotFound, domain.NoticeExpired)
			return
		}
		if fields, ok := coreerrors.AsValidationErrors(err); ok {
			p.renderForm(w, r, http.StatusBadRequest, sub.ServerID, sub.Draft, fields.Fields(), domain.Failure(sub.IsUpdate()))
			return
		}
		p.logError("Failed to confirm submission", err, map[string]interface{}{
			"server_id": sub.ServerID,
		})
		p.renderForm(w, r, http.StatusInternalServerError, sub.ServerID, sub.Draft, nil, domain.Failure(sub.IsUpdate()))
		return
	}

	notice := "created"
	if res.Updated {
		notice = "updated"
	}
	http.Redirect(w, r, res.Server.Path()+"?notice="+notice, http.StatusSeeOther)
}

func (p *Pages) cancel(w http.ResponseWriter, r *http.Request) {
	sub := p.loadSubmission(w, r)
	if sub == nil {
		return
	}

	if err := p.cfg.Submissions.Cancel(r.Context(), sub.Token); err != nil {
		p.logWarn("Failed to cancel submission", map[string]interface{}{
			"error": err.Error(),
		})
	}

	p.renderForm(w, r, http.StatusOK, sub.ServerID, sub.Draft, nil, "")
}
