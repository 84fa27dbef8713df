package toolbar

import (
	"context"
	"fmt"
	"strings"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/mchmarny/toolbar/pkg/mailbox"
)

// HeaderSlot is the slot holding the title area of the toolbar.
const HeaderSlot = "header"

// Partials produce the toolbar body.
type Partials interface {
	// Home renders the home toolbar.
	Home(ctx context.Context, v *View) (string, error)

	// Profile renders the profile toolbar of subject.
	Profile(ctx context.Context, v *View, subject *mailbox.Subject) (string, error)
}

// DefaultPartials renders a header followed by the default menu of the current subject.
// The header and every top-level menu section can be replaced through the view slots.
type DefaultPartials struct {
	Menu *MenuBuilder
}

// Home implements Partials.
func (p DefaultPartials) Home(ctx context.Context, v *View) (string, error) {
	title, err := v.T.T("toolbar.home")
	if err != nil {
		return "", err
	}

	header := html.A(html.Href(p.Menu.Routes.Home()), g.Text(title))

	return p.render(ctx, v, "home", header)
}

// Profile implements Partials.
func (p DefaultPartials) Profile(ctx context.Context, v *View, subject *mailbox.Subject) (string, error) {
	kind, err := v.T.T("subject." + string(subject.Kind))
	if err != nil {
		return "", err
	}

	header := g.Group{
		html.A(
			html.Href(p.Menu.Routes.Profile(subject.ID)),
			html.Class("subject "+string(subject.Kind)),
			g.Text(subject.Name),
		),
		html.Span(html.Class("kind"), g.Text(kind)),
	}

	return p.render(ctx, v, "profile", header)
}

func (p DefaultPartials) render(ctx context.Context, v *View, class string, header g.Node) (string, error) {
	if content, ok := v.Slots.Get(HeaderSlot); ok {
		header = g.Raw(content)
	}

	var menu string
	if v.Current != nil {
		var err error
		menu, err = p.Menu.Render(ctx, v.Current, v.T, v.Slots)
		if err != nil {
			return "", err
		}
	}

	node := html.Div(
		html.Class("toolbar "+class),
		html.Div(html.Class(HeaderSlot), header),
		g.Raw(menu),
	)

	var sb strings.Builder
	if err := node.Render(&sb); err != nil {
		return "", fmt.Errorf("failed to render %s toolbar: %w", class, err)
	}

	return sb.String(), nil
}
