package mailbox

import (
	"context"
	"fmt"
	"sync"
)

type notification struct {
	read    bool
	trashed bool
}

type message struct {
	box  Box
	read bool
}

// MemoryStore is an in-process Store used for demos and tests.
type MemoryStore struct {
	mu            sync.RWMutex
	subjects      map[string]Subject
	notifications map[string][]notification
	messages      map[string][]message
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subjects:      map[string]Subject{},
		notifications: map[string][]notification{},
		messages:      map[string][]message{},
	}
}

// AddSubject registers a subject, replacing any previous one with the same id.
func (m *MemoryStore) AddSubject(_ context.Context, s Subject) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subjects[s.ID] = s
	return nil
}

// Notify adds a notification for the subject.
func (m *MemoryStore) Notify(_ context.Context, subjectID string, read, trashed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subjects[subjectID]; !ok {
		return fmt.Errorf("subject %q: %w", subjectID, ErrNotFound)
	}

	m.notifications[subjectID] = append(m.notifications[subjectID], notification{read: read, trashed: trashed})
	return nil
}

// Deliver puts a message in a box of the subject.
func (m *MemoryStore) Deliver(_ context.Context, subjectID string, box Box, read bool) error {
	if !box.Valid() {
		return fmt.Errorf("unknown box %q", box)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subjects[subjectID]; !ok {
		return fmt.Errorf("subject %q: %w", subjectID, ErrNotFound)
	}

	m.messages[subjectID] = append(m.messages[subjectID], message{box: box, read: read})
	return nil
}

// Subject implements Store.
func (m *MemoryStore) Subject(_ context.Context, id string) (*Subject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.subjects[id]
	if !ok {
		return nil, fmt.Errorf("subject %q: %w", id, ErrNotFound)
	}

	return &s, nil
}

// UnreadNotifications implements Store.
func (m *MemoryStore) UnreadNotifications(_ context.Context, subjectID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, note := range m.notifications[subjectID] {
		if !note.read && !note.trashed {
			n++
		}
	}

	return n, nil
}

// Count implements Store.
func (m *MemoryStore) Count(_ context.Context, subjectID string, box Box, unreadOnly bool) (int, error) {
	if !box.Valid() {
		return 0, fmt.Errorf("unknown box %q", box)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, msg := range m.messages[subjectID] {
		if msg.box == box && (!unreadOnly || !msg.read) {
			n++
		}
	}

	return n, nil
}

// Ping implements Store.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}
