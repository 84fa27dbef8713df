// Package nav turns a menu item tree into nested-list markup.
package nav

import (
	"fmt"
	"strings"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/mchmarny/toolbar/pkg/menu"
)

// MenuClass is the layout class carried by the top-level list.
const MenuClass = "menu"

// Renderer converts menu items into markup.
type Renderer interface {
	Render(items []menu.Item) (string, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(items []menu.Item) (string, error)

// Render calls f(items).
func (f RendererFunc) Render(items []menu.Item) (string, error) {
	return f(items)
}

// HTMLRenderer renders items as nested unordered lists. The top-level list is
// emitted without attributes. Top-level links carry the id "<key>_menu" which
// the client uses to expand a section.
type HTMLRenderer struct{}

// Render implements Renderer.
func (HTMLRenderer) Render(items []menu.Item) (string, error) {
	var b strings.Builder
	if err := list(items, 0).Render(&b); err != nil {
		return "", fmt.Errorf("failed to render menu: %w", err)
	}

	return b.String(), nil
}

// SectionID returns the DOM id of the link expanding the section with the given key.
func SectionID(key string) string {
	return key + "_menu"
}

func list(items []menu.Item, depth int) g.Node {
	return html.Ul(g.Map(items, func(item menu.Item) g.Node {
		return entry(item, depth)
	}))
}

// entry renders the link of an item followed by its content: the override when
// set, the sub-items otherwise. The link is kept either way so the section can
// still be expanded.
func entry(item menu.Item, depth int) g.Node {
	return html.Li(
		html.A(
			html.Href(item.URL),
			g.If(depth == 0, html.ID(SectionID(item.Key))),
			g.If(item.Link.Remote, g.Attr("data-remote", "true")),
			g.Raw(item.Label),
		),
		g.If(item.Override != "", g.Raw(item.Override)),
		g.If(item.Override == "" && item.IsGroup(), list(item.Items, depth+1)),
	)
}

// AddMenuClass gives the top-level list of markup the MenuClass layout class.
// Only the first bare list element is rewritten, nested lists are left alone.
func AddMenuClass(markup string) string {
	return strings.Replace(markup, "<ul>", `<ul class="`+MenuClass+`">`, 1)
}

// RenderMenu renders items with r and applies AddMenuClass to the result.
func RenderMenu(r Renderer, items []menu.Item) (string, error) {
	out, err := r.Render(items)
	if err != nil {
		return "", err
	}

	return AddMenuClass(out), nil
}
