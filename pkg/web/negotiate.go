package web

import (
	"net/http"

	"github.com/munnerz/goautoneg"

	"github.com/mchmarny/toolbar/pkg/toolbar"
)

const (
	contentTypeHTML   = "text/html"
	contentTypeScript = "text/javascript"
	contentTypeAppJS  = "application/javascript"
)

var offers = []string{contentTypeHTML, contentTypeScript, contentTypeAppJS}

// Negotiate decides how the toolbar of a request is represented. An explicit
// format query parameter ("js" or "html") wins, then the Accept header. Anything
// that does not ask for a script gets the full page.
func Negotiate(r *http.Request) toolbar.Representation {
	if f := r.URL.Query().Get("format"); f != "" {
		if rep, err := toolbar.ParseRepresentation(f); err == nil {
			return rep
		}
	}

	switch goautoneg.Negotiate(r.Header.Get("Accept"), offers) {
	case contentTypeScript, contentTypeAppJS:
		return toolbar.Script
	default:
		return toolbar.Fragment
	}
}
