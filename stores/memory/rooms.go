package memory

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"roombook/core"
)

// roomStore keeps the saved state in memory. It is the fallback when
// no durable storage is configured and the round-trip double in tests.
type roomStore struct {
	mu    sync.RWMutex
	saved map[string]*core.Room
}

// NewRoomStore creates a new in-memory store.
func NewRoomStore() *roomStore {
	return &roomStore{saved: make(map[string]*core.Room)}
}

// LoadRooms returns deep copies of the last saved state so callers
// never alias the store's own rooms.
func (s *roomStore) LoadRooms(ctx context.Context) ([]*core.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]*core.Room, 0, len(s.saved))
	for _, room := range s.saved {
		rooms = append(rooms, room.Clone())
	}
	logrus.WithField("rooms", len(rooms)).Debug("Loaded rooms from memory")
	return rooms, nil
}

// SaveRooms replaces the saved state with deep copies of rooms.
func (s *roomStore) SaveRooms(ctx context.Context, rooms []*core.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saved = make(map[string]*core.Room, len(rooms))
	for _, room := range rooms {
		s.saved[room.RoomNo] = room.Clone()
	}
	logrus.WithField("rooms", len(rooms)).Debug("Saved rooms to memory")
	return nil
}
