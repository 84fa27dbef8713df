// Package script builds the client-side update payloads sent for partial-update requests.
package script

import (
	"strings"
	"text/template"
)

const (
	// ToolbarSelector is the DOM container of the toolbar.
	ToolbarSelector = "#toolbar"

	// InitMenu reinitializes menu interactivity after the toolbar is replaced.
	InitMenu = "initMenu"

	// ExpandSubMenu opens the section whose root link id is "<option>_menu".
	ExpandSubMenu = "expandSubMenu"
)

// Call is a client-side function invocation with string arguments.
type Call struct {
	Func string
	Args []string
}

// String renders the call as a statement, e.g. expandSubMenu('messages');
func (c Call) String() string {
	var b strings.Builder
	c.write(&b)
	return b.String()
}

func (c Call) write(b *strings.Builder) {
	b.WriteString(c.Func)
	b.WriteByte('(')
	for i, arg := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		b.WriteString(Escape(arg))
		b.WriteByte('\'')
	}
	b.WriteString(");")
}

// Update replaces the contents of Selector with HTML and then runs PostActions in order.
type Update struct {
	Selector    string
	HTML        string
	PostActions []Call
}

// String serializes the update as a script.
func (u Update) String() string {
	var b strings.Builder

	b.WriteString("$('")
	b.WriteString(Escape(u.Selector))
	b.WriteString("').html(\"")
	b.WriteString(Escape(u.HTML))
	b.WriteString("\");")

	for _, c := range u.PostActions {
		b.WriteByte(' ')
		c.write(&b)
	}

	return b.String()
}

// Escape makes s safe to embed in a single- or double-quoted JavaScript string literal.
// Quotes, backslashes, angle brackets, ampersands, equal signs and control characters
// (newlines included) are escaped.
func Escape(s string) string {
	return template.JSEscapeString(s)
}

// ToolbarUpdate is the partial-update payload for the toolbar: replace its contents with
// body, reinitialize the menu and expand the section named by option (which may be empty).
func ToolbarUpdate(body, option string) Update {
	return Update{
		Selector: ToolbarSelector,
		HTML:     body,
		PostActions: []Call{
			{Func: InitMenu},
			Expand(option),
		},
	}
}

// Expand requests the expansion of the section named by option.
func Expand(option string) Call {
	return Call{Func: ExpandSubMenu, Args: []string{option}}
}
