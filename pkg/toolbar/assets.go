package toolbar

import (
	"net/url"
	"path"
	"strings"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/mchmarny/toolbar/pkg/mailbox"
)

// DefaultImagePath is where icons are served from when Icons.BasePath is empty.
const DefaultImagePath = "/images"

// Icons builds image tags for menu icons.
type Icons struct {
	BasePath string
}

// Tag returns the image tag of a button icon, e.g. Tag("new.png").
func (i Icons) Tag(name string) g.Node {
	base := i.BasePath
	if base == "" {
		base = DefaultImagePath
	}

	return html.Img(html.Src(path.Join(base, "btn", name)), html.Class("menu_icon"))
}

// Routes builds the links of the menu.
type Routes struct {
	// Base is prepended to every path, e.g. "/social".
	Base string
}

func (r Routes) path(p string) string {
	return strings.TrimSuffix(r.Base, "/") + p
}

// Home is the home page.
func (r Routes) Home() string {
	return r.path("/")
}

// Profile is the profile page of a subject.
func (r Routes) Profile(id string) string {
	return r.path("/profiles/" + url.PathEscape(id))
}

// Notifications lists the notifications.
func (r Routes) Notifications() string {
	return r.path("/notifications")
}

// NewMessage is the compose form.
func (r Routes) NewMessage() string {
	return r.path("/messages/new")
}

// Conversations lists a box, the inbox when box is empty.
func (r Routes) Conversations(box mailbox.Box) string {
	p := r.path("/conversations")
	if box == "" {
		return p
	}

	return p + "?" + url.Values{"box": {string(box)}}.Encode()
}

// NewInvitation is the invitation form.
func (r Routes) NewInvitation() string {
	return r.path("/invitations/new")
}
