// Package game describes the observable state of a running Galerians game
// and the backends that can observe it.
// The memory backend reads emulator RAM directly. The capture backend infers
// the current room from video frames. Both satisfy Source.
package game

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned by backends that cannot answer a query.
var ErrUnsupported = errors.New("game: operation not supported by this source")

// Map identifies one of the game's maps (an area made of rooms).
type Map uint16

const (
	Hospital15F   Map = 0
	Hospital14F   Map = 1
	Hospital13F   Map = 2
	YourHouse1F   Map = 3
	YourHouse2F   Map = 4
	Hotel1F       Map = 5
	Hotel2F       Map = 6
	Hotel3F       Map = 7
	MushroomTower Map = 8
)

var mapNames = [...]string{
	"Hospital15F", "Hospital14F", "Hospital13F",
	"YourHouse1F", "YourHouse2F",
	"Hotel1F", "Hotel2F", "Hotel3F",
	"MushroomTower",
}

func (m Map) String() string {
	if int(m) < len(mapNames) {
		return mapNames[m]
	}
	return fmt.Sprintf("Map(%d)", uint16(m))
}

// Stage is one of the four chapters of the game. Each has its own flag banks.
type Stage uint32

const (
	StageA Stage = 0
	StageB Stage = 1
	StageC Stage = 2
	StageD Stage = 3
)

func (s Stage) String() string {
	if s <= StageD {
		return string(rune('A' + s))
	}
	return fmt.Sprintf("Stage(%d)", uint32(s))
}

// Item is an inventory item id as stored in game memory.
type Item int16

const (
	MemoryChip15F                Item = 0
	SecurityCard                 Item = 1
	Beeject                      Item = 2
	FreezerRoomKey               Item = 3
	PpecStorageKey               Item = 4
	Fuse                         Item = 5
	LiquidExplosive              Item = 6
	MemoryChip14F                Item = 7
	SecurityCardReformatted      Item = 8
	SpecialPpecOfficeKey         Item = 9
	MemoryChip13F                Item = 10
	TestLabKey                   Item = 11
	ControlRoomKey               Item = 12
	ResearchLabKey               Item = 13
	TwoHeadedSnake               Item = 14
	TwoHeadedMonkey              Item = 15
	TwoHeadedWolf                Item = 16
	TwoHeadedEagle               Item = 17
	YourHouseMemoryChip          Item = 18
	BackdoorKey                  Item = 19
	DoorKnob                     Item = 20
	NineBall                     Item = 21
	MothersRing                  Item = 22
	FathersRing                  Item = 23
	LiliasDoll                   Item = 24
	Metamorphosis                Item = 25
	BedroomKey                   Item = 26
	SecondFloorKey               Item = 27
	MedicalStaffNotes            Item = 28
	GProjectReport               Item = 29
	PhotoOfParents               Item = 30
	RionsTestData                Item = 31
	DrLemsNotes                  Item = 32
	NewReplicativeComputerTheory Item = 33
	DrPascallesDiary             Item = 34
	LetterFromElsa               Item = 35
	Newspaper                    Item = 36
	ThreeBall                    Item = 37
	ShedKey                      Item = 38
	LetterFromLilia              Item = 39
	DFelon                       Item = 40
)

// MaxItems is the capacity of the in-memory inventory list.
const MaxItems = 41

// Location is where the player currently is. Compared by value.
type Location struct {
	Map  Map
	Room uint16
}

// At is shorthand for building a Location.
func At(m Map, room uint16) Location {
	return Location{Map: m, Room: room}
}

func (l Location) String() string {
	return fmt.Sprintf("%s/%d", l.Map, l.Room)
}

// Well-known locations.
var (
	// NoLocation is the placeholder last-seen location at the start of a run.
	NoLocation = At(Hospital15F, 0)
	// SecondRoom is the first room after the untracked intro.
	SecondRoom = At(Hospital15F, 1)
	// FinalBossRoom can only be left by beating the game.
	FinalBossRoom = At(MushroomTower, 7)
)

// Health is the result of checking a source between ticks.
type Health int

const (
	// HealthUnchanged means the same game is still loaded and readable.
	HealthUnchanged Health = iota
	// HealthChanged means a different recognized game version is now loaded.
	HealthChanged
	// HealthUnavailable means no recognized game can be read.
	HealthUnavailable
)

func (h Health) String() string {
	switch h {
	case HealthUnchanged:
		return "unchanged"
	case HealthChanged:
		return "changed"
	default:
		return "unavailable"
	}
}

// Source is the read-only view of the game that the orchestrator consumes.
type Source interface {
	// Name describes the backend and, when known, the game version.
	Name() string

	// Alive reports whether the backing process or device still exists.
	// It may be expensive and is called at keep-alive cadence.
	Alive() bool

	// Update refreshes the source and reports whether the game changed
	// underneath it. Called once per tick while connected.
	Update() Health

	// Reconnect probes for the game without blocking for long.
	// It returns true once a recognized game is readable.
	Reconnect() (bool, error)

	Location() Location
	AtMainMenu() bool
	NewRunStarted() bool
	Flag(stage Stage, index uint32) bool
	HasItem(item Item) bool
	DefeatedFinalBoss() bool
}
