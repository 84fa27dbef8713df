// Package web serves the pages carrying the toolbar.
//
// The request layer decides the representation of the toolbar (full page or
// script update), resolves the current subject and the locale, and hands
// everything else to the toolbar package.
package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/mchmarny/toolbar/pkg/i18n"
	"github.com/mchmarny/toolbar/pkg/mailbox"
	"github.com/mchmarny/toolbar/pkg/menu"
	"github.com/mchmarny/toolbar/pkg/toolbar"
)

const (
	// SubjectHeader carries the id of the signed-in subject.
	SubjectHeader = "X-Subject-ID"

	// SubjectCookie carries the id of the signed-in subject when the header is absent.
	SubjectCookie = "subject"
)

var (
	errUnauthorized = errors.New("unauthorized")
	errBadRequest   = errors.New("bad request")
)

// Handler serves the toolbar pages.
type Handler struct {
	store    mailbox.Store
	catalog  *i18n.Catalog
	renderer *toolbar.Renderer
	builder  *toolbar.MenuBuilder
}

// New returns a Handler.
func New(store mailbox.Store, catalog *i18n.Catalog, renderer *toolbar.Renderer, builder *toolbar.MenuBuilder) *Handler {
	return &Handler{
		store:    store,
		catalog:  catalog,
		renderer: renderer,
		builder:  builder,
	}
}

// Routes returns the handlers keyed by their mux pattern.
func (h *Handler) Routes() map[string]http.Handler {
	return map[string]http.Handler{
		"GET /{$}":           h.page(h.home),
		"GET /profiles/{id}": h.page(h.profile),
		"GET /conversations": h.page(h.conversations),
		"GET /menu.json":     h.menuJSON(),
	}
}

// result is what a page produces besides its toolbar.
type result struct {
	title   string
	main    g.Node
	toolbar toolbar.Output
}

type pageFunc func(r *http.Request, v *toolbar.View, rep toolbar.Representation) (result, error)

// page wraps a pageFunc: it builds the request view, negotiates the representation
// and writes either the script update or the full page.
func (h *Handler) page(fn pageFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Info("handling",
			"method", r.Method,
			"url", r.URL.Path,
		)

		v, lang, err := h.view(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		rep := Negotiate(r)

		res, err := fn(r, v, rep)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		var body, contentType string
		if rep == toolbar.Script {
			body, contentType = res.toolbar.Script, contentTypeScript
		} else {
			body, err = renderNode(layout(lang, res.title, v.Regions, res.main))
			if err != nil {
				h.fail(w, r, fmt.Errorf("failed to render page: %w", err))
				return
			}
			contentType = contentTypeHTML
		}

		w.Header().Set("Content-Type", contentType+"; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(body)); err != nil {
			slog.Error("failed to write response", "error", err)
			return
		}

		slog.Info("completed",
			"method", r.Method,
			"url", r.URL.Path,
			"representation", rep.String(),
			"regions", v.Regions.Names(),
			"status", http.StatusOK,
		)
	})
}

// view resolves the current subject and the locale of the request.
func (h *Handler) view(r *http.Request) (*toolbar.View, string, error) {
	current, err := h.current(r)
	if err != nil {
		return nil, "", err
	}

	tag := h.catalog.Match(r.Header.Get("Accept-Language"))

	return toolbar.NewView(current, h.catalog.Translator(tag)), tag.String(), nil
}

// current returns the signed-in subject, nil for anonymous requests.
func (h *Handler) current(r *http.Request) (*mailbox.Subject, error) {
	id := r.Header.Get(SubjectHeader)
	if id == "" {
		if c, err := r.Cookie(SubjectCookie); err == nil {
			id = c.Value
		}
	}

	if id == "" {
		return nil, nil
	}

	s, err := h.store.Subject(r.Context(), id)
	if errors.Is(err, mailbox.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", errUnauthorized, err)
	}

	return s, err
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, mailbox.ErrNotFound):
		status = http.StatusNotFound
	}

	slog.Error("request failed",
		"method", r.Method,
		"url", r.URL.Path,
		"status", status,
		"error", err,
	)

	http.Error(w, http.StatusText(status), status)
}

func (h *Handler) home(r *http.Request, v *toolbar.View, rep toolbar.Representation) (result, error) {
	title, err := v.T.T("toolbar.home")
	if err != nil {
		return result{}, err
	}

	out, err := h.renderer.Render(r.Context(), v, rep, toolbar.Options{Option: r.URL.Query().Get("option")}, nil)
	if err != nil {
		return result{}, err
	}

	return result{title: title, main: html.H1(g.Text(title)), toolbar: out}, nil
}

func (h *Handler) profile(r *http.Request, v *toolbar.View, rep toolbar.Representation) (result, error) {
	subject, err := h.store.Subject(r.Context(), r.PathValue("id"))
	if err != nil {
		return result{}, err
	}

	opts := toolbar.Options{Profile: subject, Option: r.URL.Query().Get("option")}
	out, err := h.renderer.Render(r.Context(), v, rep, opts, nil)
	if err != nil {
		return result{}, err
	}

	return result{title: subject.Name, main: html.H1(g.Text(subject.Name)), toolbar: out}, nil
}

// conversations lists a box. The messages section of the toolbar is replaced by
// a summary of every box and expanded.
func (h *Handler) conversations(r *http.Request, v *toolbar.View, rep toolbar.Representation) (result, error) {
	if v.Current == nil {
		return result{}, errUnauthorized
	}

	box, err := mailbox.ParseBox(r.URL.Query().Get("box"))
	if err != nil {
		return result{}, fmt.Errorf("%w: %w", errBadRequest, err)
	}

	opts := toolbar.Options{Option: toolbar.SectionMessages}
	out, err := h.renderer.Render(r.Context(), v, rep, opts, func() (string, error) {
		return h.boxes(r, v, box)
	})
	if err != nil {
		return result{}, err
	}

	title, err := v.T.T("message." + string(box))
	if err != nil {
		return result{}, err
	}

	total, err := h.store.Count(r.Context(), v.Current.ID, box, false)
	if err != nil {
		return result{}, err
	}

	main := g.Group{
		html.H1(g.Text(title)),
		html.P(html.Class("count"), g.Text(strconv.Itoa(total))),
	}

	return result{title: title, main: main, toolbar: out}, nil
}

// boxes renders the box summary shown in place of the messages section:
// one link per box labeled "<name> (<unread>/<total>)".
func (h *Handler) boxes(r *http.Request, v *toolbar.View, active mailbox.Box) (string, error) {
	items := make([]g.Node, 0, len(mailbox.Boxes))

	for _, box := range mailbox.Boxes {
		name, err := v.T.T("message." + string(box))
		if err != nil {
			return "", err
		}

		unread, err := h.store.Count(r.Context(), v.Current.ID, box, true)
		if err != nil {
			return "", err
		}

		total, err := h.store.Count(r.Context(), v.Current.ID, box, false)
		if err != nil {
			return "", err
		}

		link := box
		if box == mailbox.Inbox {
			link = ""
		}

		items = append(items, html.Li(
			g.If(box == active, html.Class("active")),
			html.A(
				html.Href(h.builder.Routes.Conversations(link)),
				g.Attr("data-remote", "true"),
				g.Textf("%s (%d/%d)", name, unread, total),
			),
		))
	}

	return renderNode(html.Ul(html.Class("boxes"), g.Group(items)))
}

// menuJSON serves the default menu of the current subject.
func (h *Handler) menuJSON() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, _, err := h.view(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		if v.Current == nil {
			h.fail(w, r, errUnauthorized)
			return
		}

		menu.Handler(func(r *http.Request) ([]menu.Item, error) {
			return h.builder.Items(r.Context(), v.Current, v.T)
		}).ServeHTTP(w, r)
	})
}
