package app

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/chalani/chalani/internal/i18n"
	"github.com/chalani/chalani/internal/shared"
)

// switchLanguage stores the chosen UI language and returns to the page the
// link was clicked on when that page belongs to this site.
func switchLanguage(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code != i18n.English && code != i18n.Nepali {
		http.NotFound(w, r)
		return
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.SetLang(code)
	}
	http.Redirect(w, r, localReferer(r), http.StatusSeeOther)
}

func localReferer(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || ref.Path[0] != '/' {
		return "/home"
	}
	if ref.Host != "" && ref.Host != r.Host {
		return "/home"
	}
	target := ref.Path
	if ref.RawQuery != "" {
		target += "?" + ref.RawQuery
	}
	return target
}
