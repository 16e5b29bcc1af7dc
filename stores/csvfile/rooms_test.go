package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"roombook/core"
)

func tempStore(t *testing.T) (*roomStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rooms.csv")
	return NewRoomStore(path), path
}

func TestLoadRooms_MissingFileStartsEmpty(t *testing.T) {
	store, _ := tempStore(t)

	rooms, err := store.LoadRooms(context.Background())
	if err != nil {
		t.Fatalf("LoadRooms() on missing file failed: %v", err)
	}
	if len(rooms) != 0 {
		t.Errorf("LoadRooms() returned %d rooms, want 0", len(rooms))
	}
}

func TestSaveRooms_WritesCanonicalHeaderAndRows(t *testing.T) {
	store, path := tempStore(t)

	r1 := core.NewRoom("R1", "Main", 30)
	for _, hour := range []int{14, 9} {
		if err := r1.BookHour(hour); err != nil {
			t.Fatalf("BookHour(%d) failed: %v", hour, err)
		}
	}
	r2 := core.NewRoom("R2", "Annex", 10)

	if err := store.SaveRooms(context.Background(), []*core.Room{r1, r2}); err != nil {
		t.Fatalf("SaveRooms() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file failed: %v", err)
	}
	want := "room_no,building,capacity,booked_hours\nR1,Main,30,9;14\nR2,Annex,10,\n"
	if string(data) != want {
		t.Errorf("saved file:\n%q\nwant:\n%q", data, want)
	}
}

func TestSaveRooms_RoundTrip(t *testing.T) {
	store, _ := tempStore(t)
	ctx := context.Background()

	r1 := core.NewRoom("R1", "Main", 30)
	for _, hour := range []int{0, 23, 7} {
		if err := r1.BookHour(hour); err != nil {
			t.Fatalf("BookHour(%d) failed: %v", hour, err)
		}
	}
	if err := store.SaveRooms(ctx, []*core.Room{r1}); err != nil {
		t.Fatalf("SaveRooms() failed: %v", err)
	}

	rooms, err := store.LoadRooms(ctx)
	if err != nil {
		t.Fatalf("LoadRooms() failed: %v", err)
	}
	if len(rooms) != 1 {
		t.Fatalf("LoadRooms() returned %d rooms, want 1", len(rooms))
	}
	got := rooms[0]
	if got.RoomNo != "R1" || got.Building != "Main" || got.Capacity != 30 {
		t.Errorf("loaded %q/%q/%d, want R1/Main/30", got.RoomNo, got.Building, got.Capacity)
	}
	if s := got.BookedHoursString(); s != "0;7;23" {
		t.Errorf("loaded booked hours %q, want \"0;7;23\"", s)
	}
}

func TestSaveRooms_OverwritesPreviousState(t *testing.T) {
	store, _ := tempStore(t)
	ctx := context.Background()

	many := []*core.Room{
		core.NewRoom("R1", "Main", 30),
		core.NewRoom("R2", "Main", 10),
	}
	if err := store.SaveRooms(ctx, many); err != nil {
		t.Fatalf("first SaveRooms() failed: %v", err)
	}
	if err := store.SaveRooms(ctx, many[:1]); err != nil {
		t.Fatalf("second SaveRooms() failed: %v", err)
	}

	rooms, err := store.LoadRooms(ctx)
	if err != nil {
		t.Fatalf("LoadRooms() failed: %v", err)
	}
	if len(rooms) != 1 || rooms[0].RoomNo != "R1" {
		t.Errorf("LoadRooms() after overwrite = %d rooms, want just R1", len(rooms))
	}
}

func TestLoadRooms_RejectsForeignHeader(t *testing.T) {
	store, path := tempStore(t)
	contents := "id,name,seats\n1,Big Hall,100\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing fixture failed: %v", err)
	}

	rooms, err := store.LoadRooms(context.Background())
	if err == nil {
		t.Fatal("LoadRooms() accepted a foreign header, want error")
	}
	if len(rooms) != 0 {
		t.Errorf("LoadRooms() returned %d rooms from rejected file, want 0", len(rooms))
	}
}

func TestLoadRooms_HeaderOrderIndependent(t *testing.T) {
	store, path := tempStore(t)
	contents := "booked_hours,capacity,room_no,building\n9;14,30,R1,Main\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing fixture failed: %v", err)
	}

	rooms, err := store.LoadRooms(context.Background())
	if err != nil {
		t.Fatalf("LoadRooms() failed: %v", err)
	}
	if len(rooms) != 1 {
		t.Fatalf("LoadRooms() returned %d rooms, want 1", len(rooms))
	}
	got := rooms[0]
	if got.RoomNo != "R1" || got.Building != "Main" || got.Capacity != 30 {
		t.Errorf("loaded %q/%q/%d, want R1/Main/30", got.RoomNo, got.Building, got.Capacity)
	}
	if s := got.BookedHoursString(); s != "9;14" {
		t.Errorf("loaded booked hours %q, want \"9;14\"", s)
	}
}

func TestLoadRooms_RowTolerance(t *testing.T) {
	store, path := tempStore(t)
	contents := "room_no,building,capacity,booked_hours\n" +
		",Main,30,9\n" + // no room number: skipped
		"R1,Main,lots,5;99;abc;7\n" + // bad capacity and hour tokens
		"R2,Annex,10,\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing fixture failed: %v", err)
	}

	rooms, err := store.LoadRooms(context.Background())
	if err != nil {
		t.Fatalf("LoadRooms() failed: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("LoadRooms() returned %d rooms, want 2", len(rooms))
	}

	r1 := rooms[0]
	if r1.RoomNo != "R1" {
		t.Fatalf("first loaded room = %s, want R1", r1.RoomNo)
	}
	if r1.Capacity != 0 {
		t.Errorf("malformed capacity loaded as %d, want 0", r1.Capacity)
	}
	if s := r1.BookedHoursString(); s != "5;7" {
		t.Errorf("booked hours from \"5;99;abc;7\" = %q, want \"5;7\"", s)
	}

	if rooms[1].RoomNo != "R2" || rooms[1].Capacity != 10 {
		t.Errorf("second loaded room = %s/%d, want R2/10", rooms[1].RoomNo, rooms[1].Capacity)
	}
}

func TestSaveRooms_LeavesNoTempFiles(t *testing.T) {
	store, path := tempStore(t)
	if err := store.SaveRooms(context.Background(), []*core.Room{core.NewRoom("R1", "Main", 30)}); err != nil {
		t.Fatalf("SaveRooms() failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("reading storage dir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != filepath.Base(path) {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("storage dir holds %v, want only %s", names, filepath.Base(path))
	}
}
