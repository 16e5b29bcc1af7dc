package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Domain errors. Callers match them with errors.Is; the wrapped message
// carries the offending room number or hour.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomExists     = errors.New("room already exists")
	ErrTimeslotBooked = errors.New("timeslot already booked")
)

type (
	// Room is one bookable room: its identity, where it is, how many
	// people fit, and the hours of the day it is already taken for.
	// RoomNo is unique across the registry and never changes after
	// creation. BookedHours holds integers in [0,23].
	Room struct {
		RoomNo      string
		Building    string
		Capacity    int
		BookedHours map[int]struct{}
	}

	// RoomStore is the durable round trip for the whole room set.
	// LoadRooms returns the rooms it could read; when reading fails
	// midway it returns what it read so far together with the error.
	// SaveRooms replaces the stored state entirely.
	RoomStore interface {
		LoadRooms(ctx context.Context) ([]*Room, error)
		SaveRooms(ctx context.Context, rooms []*Room) error
	}
)

func NewRoom(roomNo, building string, capacity int) *Room {
	return &Room{
		RoomNo:      roomNo,
		Building:    building,
		Capacity:    capacity,
		BookedHours: make(map[int]struct{}),
	}
}

// IsFreeAt reports whether the room has no booking at hour. Hours
// outside [0,23] can never have been booked, so they report free.
func (r *Room) IsFreeAt(hour int) bool {
	_, taken := r.BookedHours[hour]
	return !taken
}

// BookHour marks hour as taken. Bounding hour to [0,23] is the
// caller's job; this only enforces the one-booking-per-hour rule.
func (r *Room) BookHour(hour int) error {
	if _, taken := r.BookedHours[hour]; taken {
		return fmt.Errorf("room %s at hour %d: %w", r.RoomNo, hour, ErrTimeslotBooked)
	}
	r.BookedHours[hour] = struct{}{}
	return nil
}

// HoursSorted returns the booked hours in ascending order.
func (r *Room) HoursSorted() []int {
	hours := make([]int, 0, len(r.BookedHours))
	for h := range r.BookedHours {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}

// BookedHoursString renders the booked hours for storage: ascending,
// semicolon-joined, empty when nothing is booked.
func (r *Room) BookedHoursString() string {
	hours := r.HoursSorted()
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = strconv.Itoa(h)
	}
	return strings.Join(parts, ";")
}

// ParseBookedHours is the inverse of BookedHoursString. Tokens that
// are not integers in [0,23] are dropped; the valid ones survive.
func ParseBookedHours(s string) map[int]struct{} {
	hours := make(map[int]struct{})
	for _, piece := range strings.Split(s, ";") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		h, err := strconv.Atoi(piece)
		if err != nil || h < 0 || h > 23 {
			continue
		}
		hours[h] = struct{}{}
	}
	return hours
}

// Clone returns a deep copy so stores can hand out rooms without
// aliasing their own state.
func (r *Room) Clone() *Room {
	c := NewRoom(r.RoomNo, r.Building, r.Capacity)
	for h := range r.BookedHours {
		c.BookedHours[h] = struct{}{}
	}
	return c
}

func (r *Room) String() string {
	booked := "No bookings"
	if len(r.BookedHours) > 0 {
		hours := r.HoursSorted()
		parts := make([]string, len(hours))
		for i, h := range hours {
			parts[i] = strconv.Itoa(h)
		}
		booked = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("Room: %s | Building: %s | Capacity: %d | Booked hours: %s",
		r.RoomNo, r.Building, r.Capacity, booked)
}
