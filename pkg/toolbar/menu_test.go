package toolbar

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mchmarny/toolbar/pkg/i18n"
	"github.com/mchmarny/toolbar/pkg/mailbox"
	"github.com/mchmarny/toolbar/pkg/menu"
)

var alice = &mailbox.Subject{ID: "alice", Name: "Alice", Kind: mailbox.KindUser}

// newStore returns a store where alice has the given unread notifications and messages.
func newStore(t *testing.T, notifications, messages int) *mailbox.MemoryStore {
	t.Helper()

	ctx := context.Background()
	s := mailbox.NewMemoryStore()
	require.NoError(t, s.AddSubject(ctx, *alice))
	require.NoError(t, s.AddSubject(ctx, mailbox.Subject{ID: "chess", Name: "Chess Club", Kind: mailbox.KindGroup}))

	for range notifications {
		require.NoError(t, s.Notify(ctx, alice.ID, false, false))
	}
	for range messages {
		require.NoError(t, s.Deliver(ctx, alice.ID, mailbox.Inbox, false))
	}

	// noise that must not be counted
	require.NoError(t, s.Notify(ctx, alice.ID, true, false))
	require.NoError(t, s.Notify(ctx, alice.ID, false, true))
	require.NoError(t, s.Deliver(ctx, alice.ID, mailbox.Inbox, true))
	require.NoError(t, s.Deliver(ctx, alice.ID, mailbox.Sentbox, false))

	return s
}

func english(t *testing.T) i18n.Translator {
	t.Helper()

	c, err := i18n.Default()
	require.NoError(t, err)
	return c.Translator(language.English)
}

func keys(items []menu.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Key)
	}
	return out
}

func TestMenuBuilderItems(t *testing.T) {
	b := NewMenuBuilder(newStore(t, 2, 5))

	items, err := b.Items(context.Background(), alice, english(t))
	require.NoError(t, err)
	require.NoError(t, menu.Validate(items))

	assert.Equal(t, []string{SectionNotifications, SectionMessages, SectionContacts}, keys(items))

	notifications := items[0]
	assert.False(t, notifications.IsGroup())
	assert.Equal(t, "/notifications", notifications.URL)
	assert.Equal(t, `<img src="/images/btn/btn_notification.png" class="menu_icon">Notifications (2)`, notifications.Label)

	messages := items[1]
	assert.Equal(t, menu.Placeholder, messages.URL)
	assert.Equal(t, `<img src="/images/btn/new.png" class="menu_icon">Messages (5)`, messages.Label)
	assert.Equal(t, []string{"message_new", "message_inbox", "message_sentbox", "message_trash"}, keys(messages.Items))
	assert.Equal(t, "/messages/new", messages.Items[0].URL)
	assert.Equal(t, "/conversations", messages.Items[1].URL)
	assert.True(t, messages.Items[1].Link.Remote)
	assert.Contains(t, messages.Items[1].Label, "Inbox (5)")
	assert.Equal(t, "/conversations?box=sentbox", messages.Items[2].URL)
	assert.Equal(t, "/conversations?box=trash", messages.Items[3].URL)

	contacts := items[2]
	assert.Equal(t, menu.Placeholder, contacts.URL)
	assert.Equal(t, `<img src="/images/btn/btn_friend.png" class="menu_icon">Contacts`, contacts.Label)
	assert.Equal(t, []string{"invitations", "message_inbox", "message_sentbox", "message_trash"}, keys(contacts.Items))
	assert.Equal(t, "/invitations/new", contacts.Items[0].URL)
	assert.Contains(t, contacts.Items[1].Label, "Inbox (5)")
}

func TestMenuBuilderCountIsolation(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, 1, 3)
	b := NewMenuBuilder(store)
	tr := english(t)

	before, err := b.Items(ctx, alice, tr)
	require.NoError(t, err)

	require.NoError(t, store.Notify(ctx, alice.ID, false, false))

	after, err := b.Items(ctx, alice, tr)
	require.NoError(t, err)

	assert.Contains(t, before[0].Label, "(1)")
	assert.Contains(t, after[0].Label, "(2)")
	if diff := cmp.Diff(before[1:], after[1:]); diff != "" {
		t.Errorf("only the notifications item should change (-before +after):\n%s", diff)
	}
}

func TestMenuBuilderRoutesAndIcons(t *testing.T) {
	b := NewMenuBuilder(newStore(t, 0, 0))
	b.Routes = Routes{Base: "/social/"}
	b.Icons = Icons{BasePath: "/static/img"}

	items, err := b.Items(context.Background(), alice, english(t))
	require.NoError(t, err)

	assert.Equal(t, "/social/notifications", items[0].URL)
	assert.Contains(t, items[0].Label, `src="/static/img/btn/btn_notification.png"`)
	assert.Contains(t, items[0].Label, "(0)")
	assert.Equal(t, "/social/conversations?box=trash", items[1].Items[3].URL)
}

func TestMenuBuilderRender(t *testing.T) {
	b := NewMenuBuilder(newStore(t, 2, 5))

	out, err := b.Render(context.Background(), alice, english(t), Slots{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `<ul class="menu"><li>`), out)
	assert.Contains(t, out, `id="messages_menu"`)
	assert.Contains(t, out, `id="contacts_menu"`)
	assert.Contains(t, out, `data-remote="true"`)

	out, err = b.Render(context.Background(), alice, english(t), Slots{SectionContacts: "<b>friends</b>"})
	require.NoError(t, err)
	assert.Contains(t, out, "<li><b>friends</b></li>")
	assert.NotContains(t, out, "contacts_menu")
	assert.Contains(t, out, "messages_menu")
}

type failingStore struct {
	mailbox.Store
	err error
}

func (f failingStore) UnreadNotifications(context.Context, string) (int, error) {
	return 0, f.err
}

func (f failingStore) Count(context.Context, string, mailbox.Box, bool) (int, error) {
	return 1, nil
}

func TestMenuBuilderErrors(t *testing.T) {
	t.Run("count lookup", func(t *testing.T) {
		boom := errors.New("database is down")
		b := NewMenuBuilder(failingStore{err: boom})

		_, err := b.Items(context.Background(), alice, english(t))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("missing translation", func(t *testing.T) {
		c := i18n.New(language.English)
		require.NoError(t, c.Add(language.English, map[string]string{"notification.other": "Notifications"}))

		b := NewMenuBuilder(newStore(t, 0, 0))
		_, err := b.Render(context.Background(), alice, c.Translator(language.English), Slots{})
		assert.ErrorIs(t, err, i18n.ErrMissingTranslation)
	})
}
