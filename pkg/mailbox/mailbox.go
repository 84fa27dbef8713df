// Package mailbox provides the subjects of the site and read access to their
// notifications and message boxes.
package mailbox

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a subject does not exist.
var ErrNotFound = errors.New("not found")

// Kind is the type of a subject.
type Kind string

const (
	KindUser  Kind = "user"
	KindGroup Kind = "group"
)

// Subject is a user or group that owns a mailbox and has a profile.
type Subject struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Kind Kind   `json:"kind" db:"kind"`
}

// Box is a message folder of a mailbox.
type Box string

const (
	Inbox   Box = "inbox"
	Sentbox Box = "sentbox"
	Trash   Box = "trash"
)

// Boxes lists the message folders in display order.
var Boxes = []Box{Inbox, Sentbox, Trash}

// Valid reports whether b is a known box.
func (b Box) Valid() bool {
	switch b {
	case Inbox, Sentbox, Trash:
		return true
	}
	return false
}

// ParseBox converts s into a Box. An empty string selects the Inbox.
func ParseBox(s string) (Box, error) {
	if s == "" {
		return Inbox, nil
	}

	b := Box(s)
	if !b.Valid() {
		return "", fmt.Errorf("unknown box %q", s)
	}

	return b, nil
}

// Store gives access to subjects and their mailboxes.
type Store interface {
	// Subject returns the subject with the given id or ErrNotFound.
	Subject(ctx context.Context, id string) (*Subject, error)

	// UnreadNotifications counts the unread notifications that are not in the trash.
	UnreadNotifications(ctx context.Context, subjectID string) (int, error)

	// Count counts the messages of a box, only the unread ones when unreadOnly is set.
	Count(ctx context.Context, subjectID string, box Box, unreadOnly bool) (int, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}
