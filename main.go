package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"roombook/config"
	"roombook/core"
	"roombook/registry"
	"roombook/stores"
)

func setupLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	store := stores.ForConfig(cfg)
	reg := registry.New(context.Background(), store)

	go saveOnShutdown(reg)

	fmt.Println("Welcome to the room booking console.")
	fmt.Printf("Loaded %d room(s).\n", reg.Len())
	fmt.Println("Type the number for the desired action and press Enter.")

	in := bufio.NewScanner(os.Stdin)
	for {
		printSeparator()
		fmt.Println("Menu:")
		fmt.Println("1) Create a new room")
		fmt.Println("2) Book a room for a single hour")
		fmt.Println("3) Find/filter rooms")
		fmt.Println("4) View bookings for a room")
		fmt.Println("5) List all rooms")
		fmt.Println("6) Exit (save state and quit)")

		choice, ok := readLine(in, "Choose an option (1-6): ")
		if !ok {
			// stdin closed, same as choosing exit
			choice = "6"
		}

		switch choice {
		case "1":
			createRoom(in, reg)
		case "2":
			bookRoom(in, reg)
		case "3":
			findRooms(in, reg)
		case "4":
			viewRoom(in, reg)
		case "5":
			listRooms(reg)
		case "6":
			fmt.Println("Saving state and exiting...")
			reg.Save(context.Background())
			fmt.Printf("Saved %d room(s). Goodbye!\n", reg.Len())
			return
		default:
			fmt.Println("Invalid choice. Please enter a number between 1 and 6.")
		}
	}
}

// saveOnShutdown makes a best-effort save of the live registry when
// the process is interrupted mid-session.
func saveOnShutdown(reg *registry.Registry) {
	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	<-signalC
	fmt.Println("\nInterrupted. Saving state before exiting...")
	reg.Save(context.Background())
	os.Exit(0)
}

func createRoom(in *bufio.Scanner, reg *registry.Registry) {
	roomNo, ok := askNonEmpty(in, "Enter room number (unique id, e.g., NAB101): ")
	if !ok {
		return
	}
	building, ok := askNonEmpty(in, "Enter building/name (e.g., NAB): ")
	if !ok {
		return
	}
	capacity, ok := askInt(in, "Enter capacity (integer): ", 0, noBound)
	if !ok {
		return
	}

	if _, err := reg.AddRoom(roomNo, building, capacity); err != nil {
		reportError(err)
		return
	}
	fmt.Printf("Room %q created successfully.\n", roomNo)
}

func bookRoom(in *bufio.Scanner, reg *registry.Registry) {
	roomNo, ok := askNonEmpty(in, "Enter room number to book: ")
	if !ok {
		return
	}
	hour, ok := askInt(in, "Enter hour to book (0-23): ", 0, 23)
	if !ok {
		return
	}

	if _, err := reg.BookRoom(roomNo, hour); err != nil {
		reportError(err)
		return
	}
	fmt.Printf("Successfully booked room %q at hour %d.\n", roomNo, hour)
}

func findRooms(in *bufio.Scanner, reg *registry.Registry) {
	fmt.Println("Enter search criteria. Leave blank to skip a criterion.")
	var criteria registry.Criteria

	if s, ok := readLine(in, "Building (exact match): "); ok && s != "" {
		criteria.Building = &s
	}
	if s, ok := readLine(in, "Minimum capacity (integer): "); ok && s != "" {
		if v, err := strconv.Atoi(s); err != nil || v < 0 {
			fmt.Println("Minimum capacity must be a non-negative integer. Ignoring this criterion.")
		} else {
			criteria.MinCapacity = &v
		}
	}
	if s, ok := readLine(in, "Free at hour (0-23): "); ok && s != "" {
		if v, err := strconv.Atoi(s); err != nil || v < 0 || v > 23 {
			fmt.Println("Hour must be between 0 and 23. Ignoring this criterion.")
		} else {
			criteria.FreeAtHour = &v
		}
	}

	matches := reg.FindRooms(criteria)
	printSeparator()
	fmt.Printf("Found %d room(s) matching criteria:\n", len(matches))
	showRooms(matches)
}

func viewRoom(in *bufio.Scanner, reg *registry.Registry) {
	roomNo, ok := askNonEmpty(in, "Enter room number to view bookings: ")
	if !ok {
		return
	}
	room, err := reg.GetRoom(roomNo)
	if err != nil {
		reportError(err)
		return
	}
	printSeparator()
	fmt.Println(room)
}

func listRooms(reg *registry.Registry) {
	rooms := reg.ListRooms()
	printSeparator()
	fmt.Printf("All rooms (%d):\n", len(rooms))
	showRooms(rooms)
}

func showRooms(rooms []*core.Room) {
	if len(rooms) == 0 {
		fmt.Println("(no rooms found)")
		return
	}
	for _, room := range rooms {
		fmt.Println(room)
	}
}

func reportError(err error) {
	switch {
	case errors.Is(err, core.ErrRoomNotFound),
		errors.Is(err, core.ErrRoomExists),
		errors.Is(err, core.ErrTimeslotBooked):
		fmt.Printf("[Error] %v\n", err)
	default:
		fmt.Printf("[Unexpected error] %v\n", err)
	}
}

func printSeparator() {
	fmt.Println("------------------------------------------------------------")
}

// readLine prompts once and returns the trimmed input. ok is false
// when stdin has been closed.
func readLine(in *bufio.Scanner, prompt string) (string, bool) {
	fmt.Print(prompt)
	if !in.Scan() {
		return "", false
	}
	return strings.TrimSpace(in.Text()), true
}

// askNonEmpty re-prompts until a non-empty line arrives.
func askNonEmpty(in *bufio.Scanner, prompt string) (string, bool) {
	for {
		s, ok := readLine(in, prompt)
		if !ok {
			return "", false
		}
		if s != "" {
			return s, true
		}
		fmt.Println("Input cannot be empty. Please try again.")
	}
}

const noBound = -1

// askInt re-prompts until a valid integer within [min, max] arrives.
// Pass noBound as max to leave the upper end open.
func askInt(in *bufio.Scanner, prompt string, min, max int) (int, bool) {
	for {
		s, ok := readLine(in, prompt)
		if !ok {
			return 0, false
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			fmt.Println("Please enter a valid integer.")
			continue
		}
		if v < min || (max != noBound && v > max) {
			if max != noBound {
				fmt.Printf("Please enter an integer >= %d and <= %d.\n", min, max)
			} else {
				fmt.Printf("Please enter an integer >= %d.\n", min)
			}
			continue
		}
		return v, true
	}
}
