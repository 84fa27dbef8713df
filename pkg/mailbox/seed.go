package mailbox

import (
	"context"
	"fmt"
)

// Writer is implemented by stores that can be populated.
type Writer interface {
	AddSubject(ctx context.Context, s Subject) error
	Notify(ctx context.Context, subjectID string, read, trashed bool) error
	Deliver(ctx context.Context, subjectID string, box Box, read bool) error
}

// Seed populates w with demo data: users alice and bob and the group chess.
// Alice has 2 unread notifications and 5 unread messages.
func Seed(ctx context.Context, w Writer) error {
	subjects := []Subject{
		{ID: "alice", Name: "Alice", Kind: KindUser},
		{ID: "bob", Name: "Bob", Kind: KindUser},
		{ID: "chess", Name: "Chess Club", Kind: KindGroup},
	}
	for _, s := range subjects {
		if err := w.AddSubject(ctx, s); err != nil {
			return fmt.Errorf("failed to seed subject: %w", err)
		}
	}

	type delivery struct {
		subject string
		box     Box
		read    bool
		count   int
	}
	deliveries := []delivery{
		{"alice", Inbox, false, 5},
		{"alice", Inbox, true, 7},
		{"alice", Sentbox, true, 4},
		{"alice", Trash, true, 1},
		{"bob", Inbox, false, 1},
		{"bob", Sentbox, true, 2},
	}
	for _, d := range deliveries {
		for range d.count {
			if err := w.Deliver(ctx, d.subject, d.box, d.read); err != nil {
				return fmt.Errorf("failed to seed messages: %w", err)
			}
		}
	}

	notifications := []struct {
		subject       string
		read, trashed bool
	}{
		{"alice", false, false},
		{"alice", false, false},
		{"alice", true, false},
		{"alice", false, true},
		{"bob", true, false},
	}
	for _, n := range notifications {
		if err := w.Notify(ctx, n.subject, n.read, n.trashed); err != nil {
			return fmt.Errorf("failed to seed notifications: %w", err)
		}
	}

	return nil
}
