// Package storage keeps the set of chats that receive the daily reminder.
package storage

import (
	"context"
	"slices"
	"sync"
)

// Recipients is the registry of active chat IDs.
// Add is idempotent and removing an unknown chat is a no-op.
type Recipients interface {
	Add(ctx context.Context, chatID int64) error
	Remove(ctx context.Context, chatID int64) error
	List(ctx context.Context) ([]int64, error)
}

// Memory is an in-process Recipients set. Its content is lost on restart.
type Memory struct {
	mu    sync.RWMutex
	chats map[int64]struct{}
}

// NewMemory returns an empty in-memory registry.
func NewMemory() *Memory {
	return &Memory{chats: make(map[int64]struct{})}
}

func (m *Memory) Add(ctx context.Context, chatID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chats[chatID] = struct{}{}
	return nil
}

func (m *Memory) Remove(ctx context.Context, chatID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.chats, chatID)
	return nil
}

// List returns the chat IDs in ascending order.
func (m *Memory) List(ctx context.Context) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	ids := make([]int64, 0, len(m.chats))
	for id := range m.chats {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	slices.Sort(ids)
	return ids, nil
}
