package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"roombook/core"
)

// Criteria narrows FindRooms. Nil fields are skipped; the set fields
// are ANDed together.
type Criteria struct {
	Building    *string
	MinCapacity *int
	FreeAtHour  *int
}

// Registry owns every room, keyed by room number. Rooms have no
// identity outside it. The mutex covers the two check-then-act
// sequences (existence check on add, free check on book) so the
// registry stays correct if callers ever overlap.
type Registry struct {
	mu    sync.RWMutex
	store core.RoomStore
	rooms map[string]*core.Room
}

// New builds a registry over store and immediately pulls in whatever
// state the store holds.
func New(ctx context.Context, store core.RoomStore) *Registry {
	r := &Registry{
		store: store,
		rooms: make(map[string]*core.Room),
	}
	r.Load(ctx)
	return r
}

// Load reads persisted rooms into the registry. A store failure is
// reported through the log, never returned: the registry keeps
// whatever partial state the store managed to read, and an absent
// store simply means starting empty.
func (g *Registry) Load(ctx context.Context) {
	rooms, err := g.store.LoadRooms(ctx)

	g.mu.Lock()
	for _, room := range rooms {
		g.rooms[room.RoomNo] = room
	}
	loaded := len(g.rooms)
	g.mu.Unlock()

	if err != nil {
		logrus.WithError(err).WithField("rooms", loaded).Warn("Loading rooms failed, continuing with what was read")
		return
	}
	logrus.WithField("rooms", loaded).Info("Rooms loaded")
}

// Save writes every held room through the store, replacing the stored
// state entirely. A write failure is logged and swallowed; in-memory
// state is left untouched either way.
func (g *Registry) Save(ctx context.Context) {
	g.mu.RLock()
	rooms := g.sortedLocked()
	g.mu.RUnlock()

	if err := g.store.SaveRooms(ctx, rooms); err != nil {
		logrus.WithError(err).WithField("rooms", len(rooms)).Error("Saving rooms failed")
		return
	}
	logrus.WithField("rooms", len(rooms)).Info("Rooms saved")
}

// AddRoom creates and inserts a new room. The room number and building
// are trimmed; a duplicate number fails with core.ErrRoomExists.
func (g *Registry) AddRoom(roomNo, building string, capacity int) (*core.Room, error) {
	roomNo = strings.TrimSpace(roomNo)
	if roomNo == "" {
		return nil, fmt.Errorf("room number must not be empty")
	}
	if capacity < 0 {
		return nil, fmt.Errorf("capacity must not be negative, got %d", capacity)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.rooms[roomNo]; ok {
		return nil, fmt.Errorf("room %q: %w", roomNo, core.ErrRoomExists)
	}
	room := core.NewRoom(roomNo, strings.TrimSpace(building), capacity)
	g.rooms[roomNo] = room

	logrus.WithFields(logrus.Fields{
		"room_no":  room.RoomNo,
		"building": room.Building,
		"capacity": room.Capacity,
	}).Info("Room created")
	return room, nil
}

// GetRoom returns the room with the trimmed number, or
// core.ErrRoomNotFound.
func (g *Registry) GetRoom(roomNo string) (*core.Room, error) {
	roomNo = strings.TrimSpace(roomNo)

	g.mu.RLock()
	defer g.mu.RUnlock()

	room, ok := g.rooms[roomNo]
	if !ok {
		return nil, fmt.Errorf("room %q: %w", roomNo, core.ErrRoomNotFound)
	}
	return room, nil
}

// BookRoom books one hour in the named room. It fails with
// core.ErrRoomNotFound or core.ErrTimeslotBooked, unchanged.
func (g *Registry) BookRoom(roomNo string, hour int) (*core.Room, error) {
	roomNo = strings.TrimSpace(roomNo)

	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[roomNo]
	if !ok {
		return nil, fmt.Errorf("room %q: %w", roomNo, core.ErrRoomNotFound)
	}
	if err := room.BookHour(hour); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"room_no": room.RoomNo,
		"hour":    hour,
	}).Info("Hour booked")
	return room, nil
}

// FindRooms returns every room matching all set criteria, ascending by
// room number. Building matches are case-insensitive and exact.
func (g *Registry) FindRooms(c Criteria) []*core.Room {
	g.mu.RLock()
	defer g.mu.RUnlock()

	matches := make([]*core.Room, 0, len(g.rooms))
	for _, room := range g.rooms {
		if c.Building != nil && !strings.EqualFold(room.Building, *c.Building) {
			continue
		}
		if c.MinCapacity != nil && room.Capacity < *c.MinCapacity {
			continue
		}
		if c.FreeAtHour != nil && !room.IsFreeAt(*c.FreeAtHour) {
			continue
		}
		matches = append(matches, room)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].RoomNo < matches[j].RoomNo })
	return matches
}

// ListRooms returns every room ascending by room number.
func (g *Registry) ListRooms() []*core.Room {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sortedLocked()
}

// Len returns the number of rooms held.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

func (g *Registry) sortedLocked() []*core.Room {
	rooms := make([]*core.Room, 0, len(g.rooms))
	for _, room := range g.rooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].RoomNo < rooms[j].RoomNo })
	return rooms
}
