package web

import (
	"strings"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/mchmarny/toolbar/pkg/page"
)

// layout is the full page: the toolbar region in #toolbar, the main content and
// the javascript region run once the document is ready.
func layout(lang, title string, regions *page.Regions, main g.Node) g.Node {
	return html.Doctype(
		html.HTML(
			html.Lang(lang),
			html.Head(
				html.Meta(html.Charset("utf-8")),
				g.El("title", g.Text(title)),
				html.Script(html.Src("/javascripts/jquery.js")),
				html.Script(html.Src("/javascripts/menu.js")),
			),
			html.Body(
				html.Div(html.ID("toolbar"), g.Raw(regions.Content(page.Toolbar))),
				html.Main(main),
				g.If(regions.Has(page.JavaScript),
					html.Script(g.Raw("$(function() {\n"+regions.Content(page.JavaScript)+"\n});")),
				),
			),
		),
	)
}

func renderNode(n g.Node) (string, error) {
	var sb strings.Builder
	if err := n.Render(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
