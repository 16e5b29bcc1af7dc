package sqlite

import (
	"context"
	"database/sql"
	stdlog "log"
	"strings"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"roombook/core"
)

type roomStore struct {
	db *sql.DB
}

// NewRoomStore opens (or creates) the sqlite database at
// dataSourceName and makes sure the rooms table exists.
func NewRoomStore(dataSourceName string) *roomStore {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		stdlog.Fatal(err)
	}

	sts := `CREATE TABLE IF NOT EXISTS rooms (
		room_no TEXT PRIMARY KEY,
		building TEXT NOT NULL DEFAULT '',
		capacity INTEGER NOT NULL DEFAULT 0,
		booked_hours TEXT NOT NULL DEFAULT ''
	);`
	if _, err := db.Exec(sts); err != nil {
		stdlog.Fatal(err)
	}

	return &roomStore{db}
}

// LoadRooms reads every stored room. Row tolerance matches the CSV
// store: rows with an empty room number are skipped and invalid
// booked-hour tokens are dropped.
func (s *roomStore) LoadRooms(ctx context.Context) ([]*core.Room, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT room_no, building, capacity, booked_hours FROM rooms ORDER BY room_no ASC")
	if err != nil {
		logrus.WithError(err).Error("Failed to query rooms")
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			logrus.WithError(cerr).Warn("Failed to close room rows")
		}
	}()

	var rooms []*core.Room
	for rows.Next() {
		var roomNo, building, booked string
		var capacity int
		if err := rows.Scan(&roomNo, &building, &capacity, &booked); err != nil {
			logrus.WithError(err).Error("Failed to scan room row")
			return rooms, err
		}
		roomNo = strings.TrimSpace(roomNo)
		if roomNo == "" {
			continue
		}
		if capacity < 0 {
			capacity = 0
		}
		room := core.NewRoom(roomNo, strings.TrimSpace(building), capacity)
		room.BookedHours = core.ParseBookedHours(booked)
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return rooms, err
	}

	logrus.WithField("rooms", len(rooms)).Info("Rooms loaded from sqlite")
	return rooms, nil
}

// SaveRooms replaces the whole table with rooms inside one
// transaction, mirroring the full-overwrite file save.
func (s *roomStore) SaveRooms(ctx context.Context, rooms []*core.Room) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to begin save transaction")
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM rooms"); err != nil {
		tx.Rollback()
		logrus.WithError(err).Error("Failed to clear rooms table")
		return err
	}
	for _, room := range rooms {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO rooms (room_no, building, capacity, booked_hours) VALUES (?, ?, ?, ?)",
			room.RoomNo, room.Building, room.Capacity, room.BookedHoursString())
		if err != nil {
			tx.Rollback()
			logrus.WithError(err).WithField("room_no", room.RoomNo).Error("Failed to insert room")
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		logrus.WithError(err).Error("Failed to commit saved rooms")
		return err
	}

	logrus.WithField("rooms", len(rooms)).Info("Rooms saved to sqlite")
	return nil
}
