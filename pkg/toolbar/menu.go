package toolbar

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	g "maragu.dev/gomponents"

	"github.com/mchmarny/toolbar/pkg/i18n"
	"github.com/mchmarny/toolbar/pkg/mailbox"
	"github.com/mchmarny/toolbar/pkg/menu"
	"github.com/mchmarny/toolbar/pkg/nav"
)

// Top-level sections of the default menu.
const (
	SectionNotifications = "notifications"
	SectionMessages      = "messages"
	SectionContacts      = "contacts"
)

// MenuBuilder builds the default toolbar menu of a subject.
type MenuBuilder struct {
	Store  mailbox.Store
	Icons  Icons
	Routes Routes
	Nav    nav.Renderer
}

// NewMenuBuilder returns a MenuBuilder reading counts from store and rendering
// with nav.HTMLRenderer.
func NewMenuBuilder(store mailbox.Store) *MenuBuilder {
	return &MenuBuilder{
		Store: store,
		Nav:   nav.HTMLRenderer{},
	}
}

type counts struct {
	notifications int
	unread        int
}

// counts reads every count the menu shows. Both lookups complete before any
// label is built.
func (b *MenuBuilder) counts(ctx context.Context, subjectID string) (counts, error) {
	var c counts

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		n, err := b.Store.UnreadNotifications(ctx, subjectID)
		if err != nil {
			return fmt.Errorf("failed to count notifications: %w", err)
		}
		c.notifications = n
		return nil
	})
	eg.Go(func() error {
		n, err := b.Store.Count(ctx, subjectID, mailbox.Inbox, true)
		if err != nil {
			return fmt.Errorf("failed to count unread messages: %w", err)
		}
		c.unread = n
		return nil
	})

	if err := eg.Wait(); err != nil {
		return counts{}, err
	}

	return c, nil
}

// label composes icon, translated text and an optional " (n)" count suffix.
func (b *MenuBuilder) label(t i18n.Translator, icon, key string, count *int) (string, error) {
	text, err := t.T(key)
	if err != nil {
		return "", err
	}

	nodes := g.Group{b.Icons.Tag(icon), g.Text(text)}
	if count != nil {
		nodes = append(nodes, g.Text(" ("+strconv.Itoa(*count)+")"))
	}

	var sb strings.Builder
	if err := nodes.Render(&sb); err != nil {
		return "", fmt.Errorf("failed to render label %s: %w", key, err)
	}

	return sb.String(), nil
}

type entry struct {
	key   string
	icon  string
	text  string
	count *int
	url   string
	link  menu.Link
}

func (b *MenuBuilder) items(t i18n.Translator, entries []entry) ([]menu.Item, error) {
	items := make([]menu.Item, 0, len(entries))
	for _, e := range entries {
		label, err := b.label(t, e.icon, e.text, e.count)
		if err != nil {
			return nil, err
		}
		items = append(items, menu.Item{Key: e.key, Label: label, URL: e.url, Link: e.link})
	}
	return items, nil
}

// mailboxEntries are the inbox, sentbox and trash links.
func (b *MenuBuilder) mailboxEntries(unread *int) []entry {
	return []entry{
		{key: "message_inbox", icon: "message_inbox.png", text: "message.inbox", count: unread,
			url: b.Routes.Conversations(""), link: menu.Link{Remote: true}},
		{key: "message_sentbox", icon: "message_sentbox.png", text: "message.sentbox",
			url: b.Routes.Conversations(mailbox.Sentbox)},
		{key: "message_trash", icon: "message_trash.png", text: "message.trash",
			url: b.Routes.Conversations(mailbox.Trash)},
	}
}

// Items builds the default menu of subject: notifications, messages and contacts,
// in that order, labeled with the current unread counts.
func (b *MenuBuilder) Items(ctx context.Context, subject *mailbox.Subject, t i18n.Translator) ([]menu.Item, error) {
	c, err := b.counts(ctx, subject.ID)
	if err != nil {
		return nil, err
	}

	top, err := b.items(t, []entry{
		{key: SectionNotifications, icon: "btn_notification.png", text: "notification.other",
			count: &c.notifications, url: b.Routes.Notifications()},
		{key: SectionMessages, icon: "new.png", text: "message.other",
			count: &c.unread, url: menu.Placeholder},
		{key: SectionContacts, icon: "btn_friend.png", text: "contact.other",
			url: menu.Placeholder},
	})
	if err != nil {
		return nil, err
	}

	messages, err := b.items(t, append([]entry{
		{key: "message_new", icon: "message_new.png", text: "message.new", url: b.Routes.NewMessage()},
	}, b.mailboxEntries(&c.unread)...))
	if err != nil {
		return nil, err
	}

	contacts, err := b.items(t, append([]entry{
		{key: "invitations", icon: "btn_invitation.png", text: "invitation.other", url: b.Routes.NewInvitation()},
	}, b.mailboxEntries(&c.unread)...))
	if err != nil {
		return nil, err
	}

	top[1].Items = messages
	top[2].Items = contacts

	if err := menu.Validate(top); err != nil {
		return nil, err
	}

	return top, nil
}

// Render builds the default menu of subject, replaces the sections that have a slot
// override and renders it as a list carrying the nav.MenuClass class.
func (b *MenuBuilder) Render(ctx context.Context, subject *mailbox.Subject, t i18n.Translator, slots Slots) (string, error) {
	items, err := b.Items(ctx, subject, t)
	if err != nil {
		return "", err
	}

	for name := range slots {
		if _, ok := menu.Find(items, name); !ok && name != HeaderSlot {
			slog.Debug("slot matches no menu section", "slot", name)
		}
	}

	return nav.RenderMenu(b.Nav, menu.WithOverrides(items, slots))
}
