package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"roombook/core"
)

// headerColumns is the canonical column order written on every save.
// Loads accept the columns in any order as long as all four exist.
var headerColumns = []string{"room_no", "building", "capacity", "booked_hours"}

type roomStore struct {
	path string
}

// NewRoomStore creates a store backed by one CSV file at path. The
// file does not have to exist yet.
func NewRoomStore(path string) *roomStore {
	return &roomStore{path: path}
}

// LoadRooms reads the CSV file. A missing file means an empty state,
// not an error. A file whose header does not carry all four expected
// columns is rejected whole. Within a row, an empty room number skips
// the row, an unreadable capacity falls back to zero, and invalid
// booked-hour tokens are dropped individually.
func (s *roomStore) LoadRooms(ctx context.Context) ([]*core.Room, error) {
	log := logrus.WithField("path", s.path)

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("No saved state found, starting empty")
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("file %s has no header row", s.path)
		}
		return nil, err
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, want := range headerColumns {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("header %v is missing column %q", header, want)
		}
	}

	var rooms []*core.Room
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rooms, err
		}

		roomNo := strings.TrimSpace(field(record, cols["room_no"]))
		if roomNo == "" {
			log.Debug("Skipping row without a room number")
			continue
		}
		capacity, err := strconv.Atoi(strings.TrimSpace(field(record, cols["capacity"])))
		if err != nil {
			log.WithField("room_no", roomNo).Debug("Unreadable capacity, falling back to 0")
			capacity = 0
		}

		room := core.NewRoom(roomNo, strings.TrimSpace(field(record, cols["building"])), capacity)
		room.BookedHours = core.ParseBookedHours(field(record, cols["booked_hours"]))
		rooms = append(rooms, room)
	}

	log.WithField("rooms", len(rooms)).Info("Rooms loaded from file")
	return rooms, nil
}

// SaveRooms writes all rooms to a uniquely named temp file next to the
// destination, then renames it into place, so a failed write never
// clobbers the previous state.
func (s *roomStore) SaveRooms(ctx context.Context, rooms []*core.Room) error {
	log := logrus.WithFields(logrus.Fields{"path": s.path, "rooms": len(rooms)})

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.WithError(err).Error("Failed to create storage directory")
		return err
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(s.path), ulid.Make()))

	f, err := os.Create(tmp)
	if err != nil {
		log.WithError(err).Error("Failed to create temp file")
		return err
	}

	w := csv.NewWriter(f)
	records := make([][]string, 0, len(rooms)+1)
	records = append(records, headerColumns)
	for _, room := range rooms {
		records = append(records, []string{
			room.RoomNo,
			room.Building,
			strconv.Itoa(room.Capacity),
			room.BookedHoursString(),
		})
	}
	err = w.WriteAll(records)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		log.WithError(err).Error("Failed to write rooms")
		return err
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		log.WithError(err).Error("Failed to replace saved state")
		return err
	}
	log.Info("Rooms saved to file")
	return nil
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return record[idx]
}
