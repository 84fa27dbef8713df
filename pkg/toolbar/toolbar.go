// Package toolbar renders the top navigation of a page.
//
// The toolbar shows either the home menu or the profile menu of a user or group.
// A view can replace one named slot of the toolbar with its own content and ask the
// client to expand one section of the menu. Depending on the request the result is
// either registered in the page regions (full page) or returned as a script that
// updates the page in place (partial update).
//
// Typical calls, given a view v built per request:
//
//	// home toolbar
//	r.Render(ctx, v, toolbar.Fragment, toolbar.Options{}, nil)
//
//	// profile toolbar of a group with its contacts section expanded
//	r.Render(ctx, v, toolbar.Fragment, toolbar.Options{Profile: group, Option: "contacts"}, nil)
//
//	// home toolbar with the messages section replaced and expanded
//	r.Render(ctx, v, toolbar.Script, toolbar.Options{Option: "messages"}, func() (string, error) {
//		return renderBoxes(ctx)
//	})
package toolbar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mchmarny/toolbar/pkg/i18n"
	"github.com/mchmarny/toolbar/pkg/mailbox"
	"github.com/mchmarny/toolbar/pkg/metric"
	"github.com/mchmarny/toolbar/pkg/page"
	"github.com/mchmarny/toolbar/pkg/script"
)

// ErrNoView is returned by Render when it is given no view.
var ErrNoView = errors.New("toolbar render requires a view")

// Representation is the form of the rendered toolbar.
type Representation int

const (
	// Fragment registers the toolbar in the page regions of a full page render.
	Fragment Representation = iota

	// Script returns a script replacing the toolbar of an already loaded page.
	Script
)

// String returns the representation name.
func (r Representation) String() string {
	if r == Script {
		return "script"
	}
	return "fragment"
}

// ParseRepresentation maps a requested format ("js", "html", "") to a Representation.
func ParseRepresentation(format string) (Representation, error) {
	switch format {
	case "", "html":
		return Fragment, nil
	case "js", "script":
		return Script, nil
	default:
		return Fragment, fmt.Errorf("unknown format %q", format)
	}
}

// Options selects what the toolbar shows.
type Options struct {
	// Profile is the user or group whose profile menu is shown. Nil shows the home menu.
	Profile *mailbox.Subject

	// Option names the section to expand on the client (messages, contacts, groups...).
	// It also names the slot replaced by the block passed to Render.
	// Values matching no section are valid and expand nothing.
	Option string
}

// Slots caches content replacing named toolbar regions for the current request.
type Slots map[string]string

// Set stores content for the slot, replacing any previous content.
func (s Slots) Set(name, content string) {
	s[name] = content
}

// Get returns the content stored for the slot.
func (s Slots) Get(name string) (string, bool) {
	content, ok := s[name]
	return content, ok
}

// View is the request-scoped state of a page render.
type View struct {
	// Current is the signed-in subject, nil for anonymous visitors.
	Current *mailbox.Subject

	// T translates interface strings into the locale of the request.
	T i18n.Translator

	// Slots holds the slot overrides of this request.
	Slots Slots

	// Regions receives the named page content in Fragment mode.
	Regions *page.Regions
}

// NewView returns a View with empty slots and regions.
func NewView(current *mailbox.Subject, t i18n.Translator) *View {
	return &View{
		Current: current,
		T:       t,
		Slots:   Slots{},
		Regions: page.NewRegions(),
	}
}

// Output is the result of a render.
type Output struct {
	Representation Representation

	// Body is the composed toolbar markup.
	Body string

	// Script is the update payload, set in Script mode only.
	Script string
}

// String returns what should be written to the client: the script in Script mode,
// the body otherwise.
func (o Output) String() string {
	if o.Representation == Script {
		return o.Script
	}
	return o.Body
}

// Renderer composes and formats toolbars.
type Renderer struct {
	partials Partials
	counter  metric.IncrementalCounter
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithCounter counts renders by menu ("home", "profile") and representation.
func WithCounter(c metric.IncrementalCounter) RendererOption {
	return func(r *Renderer) { r.counter = c }
}

// NewRenderer returns a Renderer composing toolbars from partials.
func NewRenderer(partials Partials, opts ...RendererOption) *Renderer {
	r := &Renderer{partials: partials}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render composes the toolbar for opts and formats it as rep.
//
// When both opts.Option and block are given, the block output is stored in the slot
// named by opts.Option before the toolbar is composed, replacing that region. A block
// without an option is ignored. In Fragment mode the body is appended to the
// page.Toolbar region and the expansion request to the page.JavaScript region. In
// Script mode the regions are left untouched and Output.Script carries the update.
// A nil v yields ErrNoView.
func (r *Renderer) Render(ctx context.Context, v *View, rep Representation, opts Options, block func() (string, error)) (Output, error) {
	if v == nil {
		return Output{}, ErrNoView
	}

	if v.Slots == nil {
		v.Slots = Slots{}
	}
	if v.Regions == nil {
		v.Regions = page.NewRegions()
	}

	if opts.Option != "" && block != nil {
		content, err := block()
		if err != nil {
			return Output{}, fmt.Errorf("failed to capture %s slot: %w", opts.Option, err)
		}
		v.Slots.Set(opts.Option, content)
	}

	kind := "home"
	var (
		body string
		err  error
	)
	if opts.Profile != nil {
		kind = "profile"
		body, err = r.partials.Profile(ctx, v, opts.Profile)
	} else {
		body, err = r.partials.Home(ctx, v)
	}
	if err != nil {
		return Output{}, fmt.Errorf("failed to render %s toolbar: %w", kind, err)
	}

	out := Output{Representation: rep, Body: body}

	switch rep {
	case Script:
		out.Script = script.ToolbarUpdate(body, opts.Option).String()
	default:
		v.Regions.Append(page.Toolbar, body)
		v.Regions.Append(page.JavaScript, script.Expand(opts.Option).String())
	}

	if r.counter != nil {
		r.counter.Increment(kind, rep.String())
	}

	slog.Debug("toolbar rendered",
		"menu", kind,
		"representation", rep.String(),
		"option", opts.Option,
	)

	return out, nil
}
