package toolbar

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mchmarny/toolbar/pkg/i18n"
	"github.com/mchmarny/toolbar/pkg/mailbox"
	"github.com/mchmarny/toolbar/pkg/page"
)

func newRenderer(t *testing.T, store mailbox.Store) *Renderer {
	t.Helper()
	return NewRenderer(DefaultPartials{Menu: NewMenuBuilder(store)})
}

func TestDefaultPartialsHome(t *testing.T) {
	r := newRenderer(t, newStore(t, 2, 5))

	out, err := r.Render(context.Background(), NewView(alice, english(t)), Fragment, Options{}, nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out.Body, `<div class="toolbar home"><div class="header"><a href="/">Home</a></div><ul class="menu">`), out.Body)
	assert.NotContains(t, out.Body, "toolbar profile")
}

func TestDefaultPartialsProfile(t *testing.T) {
	r := newRenderer(t, newStore(t, 2, 5))
	group := &mailbox.Subject{ID: "chess", Name: "Chess & Go", Kind: mailbox.KindGroup}

	out, err := r.Render(context.Background(), NewView(alice, english(t)), Fragment, Options{Profile: group}, nil)
	require.NoError(t, err)

	assert.Contains(t, out.Body, `<div class="toolbar profile">`)
	assert.Contains(t, out.Body, `<a href="/profiles/chess" class="subject group">Chess &amp; Go</a><span class="kind">Group</span>`)
	assert.Contains(t, out.Body, `<ul class="menu">`)
	assert.NotContains(t, out.Body, "toolbar home")
}

func TestDefaultPartialsAnonymous(t *testing.T) {
	r := newRenderer(t, newStore(t, 2, 5))

	out, err := r.Render(context.Background(), NewView(nil, english(t)), Fragment, Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, `<div class="toolbar home"><div class="header"><a href="/">Home</a></div></div>`, out.Body)
}

func TestDefaultPartialsSlotOverride(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, 2, 5)

	plain, err := newRenderer(t, store).Render(ctx, NewView(alice, english(t)), Fragment, Options{}, nil)
	require.NoError(t, err)

	v := NewView(alice, english(t))
	out, err := newRenderer(t, store).Render(ctx, v, Fragment, Options{Option: SectionMessages}, func() (string, error) {
		return `<div class="boxes">my boxes</div>`, nil
	})
	require.NoError(t, err)

	assert.Contains(t, out.Body, `<div class="boxes">my boxes</div></li>`)
	assert.NotContains(t, out.Body, "message_new")

	// the expansion target survives the override
	messages := sectionOf(t, out.Body, SectionMessages)
	assert.Contains(t, messages, `<a href="#" id="messages_menu">`)
	assert.Contains(t, messages, "Messages (5)")
	assert.True(t, strings.HasSuffix(messages, `</a><div class="boxes">my boxes</div></li>`), messages)

	// siblings are unchanged
	for _, section := range []string{SectionNotifications, SectionContacts} {
		assert.Equal(t, sectionOf(t, plain.Body, section), sectionOf(t, out.Body, section))
	}
	assert.Equal(t, "expandSubMenu('messages');", v.Regions.Content(page.JavaScript))
}

// sectionOf extracts the top-level <li> holding the link with id "<key>_menu".
func sectionOf(t *testing.T, body, key string) string {
	t.Helper()

	at := strings.Index(body, `id="`+key+`_menu"`)
	require.GreaterOrEqual(t, at, 0, "no section %s in %s", key, body)

	start := strings.LastIndex(body[:at], "<li>")
	require.GreaterOrEqual(t, start, 0)

	depth := 0
	for i := start; i < len(body); i++ {
		switch {
		case strings.HasPrefix(body[i:], "<li>"):
			depth++
		case strings.HasPrefix(body[i:], "</li>"):
			depth--
			if depth == 0 {
				return body[start : i+len("</li>")]
			}
		}
	}

	t.Fatalf("unterminated section %s", key)
	return ""
}

func TestDefaultPartialsHeaderSlot(t *testing.T) {
	r := newRenderer(t, newStore(t, 0, 0))
	v := NewView(alice, english(t))

	out, err := r.Render(context.Background(), v, Fragment, Options{Option: HeaderSlot}, func() (string, error) {
		return "<h1>Inbox</h1>", nil
	})
	require.NoError(t, err)
	assert.Contains(t, out.Body, `<div class="header"><h1>Inbox</h1></div>`)
	assert.Contains(t, out.Body, "messages_menu")
}

func TestDefaultPartialsLocale(t *testing.T) {
	c, err := i18n.Default()
	require.NoError(t, err)

	r := newRenderer(t, newStore(t, 1, 1))
	out, err := r.Render(context.Background(), NewView(alice, c.Translator(language.Spanish)), Fragment, Options{}, nil)
	require.NoError(t, err)

	assert.Contains(t, out.Body, "Inicio")
	assert.Contains(t, out.Body, "Mensajes (1)")
	assert.Contains(t, out.Body, "Notificaciones (1)")
}

// Home menu, messages expanded, 2 unread notifications and 5 unread messages.
func TestHomeMessagesScenario(t *testing.T) {
	r := newRenderer(t, newStore(t, 2, 5))

	for _, rep := range []Representation{Fragment, Script} {
		t.Run(rep.String(), func(t *testing.T) {
			v := NewView(alice, english(t))
			out, err := r.Render(context.Background(), v, rep, Options{Option: "messages"}, nil)
			require.NoError(t, err)

			assert.Contains(t, out.Body, "toolbar home")
			assert.Contains(t, out.Body, "Messages (5)")
			assert.Contains(t, out.Body, "Notifications (2)")

			if rep == Script {
				assert.True(t, strings.HasPrefix(out.Script, `$('#toolbar').html("`))
				assert.True(t, strings.HasSuffix(out.Script, `"); initMenu(); expandSubMenu('messages');`))
				assert.NotContains(t, out.Script, "\n")
			} else {
				assert.Equal(t, out.Body, v.Regions.Content(page.Toolbar))
				assert.Equal(t, "expandSubMenu('messages');", v.Regions.Content(page.JavaScript))
			}
		})
	}
}
