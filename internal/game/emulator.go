package game

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Discoverer finds emulator memory. It returns an error wrapping a
// not-found condition when no emulator is running yet.
type Discoverer func() (Memory, error)

// EmulatorSource reads game state directly from emulator RAM.
type EmulatorSource struct {
	discover Discoverer
	mem      Memory
	version  *Version
}

// NewEmulatorSource creates a source that locates emulator memory with
// discover. Nothing is read until Reconnect succeeds.
func NewEmulatorSource(discover Discoverer) *EmulatorSource {
	return &EmulatorSource{discover: discover}
}

// NewEmulatorSourceWithMemory creates a source over already-mapped memory.
// If that memory goes away, discover is used to find a replacement; it may
// be nil when the memory is fixed.
func NewEmulatorSourceWithMemory(mem Memory, discover Discoverer) *EmulatorSource {
	return &EmulatorSource{discover: discover, mem: mem}
}

// Name describes the backend and detected version.
func (e *EmulatorSource) Name() string {
	if e.version == nil {
		return "emulator"
	}
	return "emulator " + e.version.Name
}

// Version returns the detected game version, or nil.
func (e *EmulatorSource) Version() *Version {
	return e.version
}

// Alive reports whether the emulator process is still running.
func (e *EmulatorSource) Alive() bool {
	return e.mem != nil && e.mem.Alive()
}

// Update checks that the loaded game is still the one we detected.
func (e *EmulatorSource) Update() Health {
	if e.mem == nil || e.version == nil {
		return HealthUnavailable
	}
	if e.version.Validate(e.mem) {
		return HealthUnchanged
	}
	return e.searchForGame()
}

func (e *EmulatorSource) searchForGame() Health {
	v := DetectVersion(e.mem)
	if v == nil {
		e.version = nil
		return HealthUnavailable
	}
	log.Info().Str("version", v.Name).Msg("detected game version")
	e.version = v
	return HealthChanged
}

// Reconnect replaces a dead emulator mapping and then looks for a known game.
func (e *EmulatorSource) Reconnect() (bool, error) {
	if e.mem == nil || !e.mem.Alive() {
		if e.mem != nil {
			e.mem.Close()
			e.mem = nil
			e.version = nil
		}
		if e.discover == nil {
			return false, errors.New("emulator memory is gone and cannot be rediscovered")
		}
		mem, err := e.discover()
		if err != nil {
			return false, fmt.Errorf("discover emulator: %w", err)
		}
		e.mem = mem
	}

	if e.version != nil && e.version.Validate(e.mem) {
		return true, nil
	}
	return e.searchForGame() != HealthUnavailable, nil
}

// Close releases the emulator mapping.
func (e *EmulatorSource) Close() error {
	if e.mem == nil {
		return nil
	}
	err := e.mem.Close()
	e.mem = nil
	e.version = nil
	return err
}

func (e *EmulatorSource) mainMenuState() int32 {
	if readI16(e.mem, e.version.MenuModuleIDAddress) != e.version.MainMenuModuleID {
		return -1
	}
	return readI32(e.mem, e.version.MainMenuStateAddress)
}

// AtMainMenu reports whether the title menu is showing.
func (e *EmulatorSource) AtMainMenu() bool {
	s := e.mainMenuState()
	return s >= 0 && s < newGameMenuState
}

// NewRunStarted reports whether "new game" was just chosen.
func (e *EmulatorSource) NewRunStarted() bool {
	s := e.mainMenuState()
	return s >= newGameMenuState && s < trailerMenuState
}

// Location returns the current map and room.
func (e *EmulatorSource) Location() Location {
	return Location{
		Map:  Map(readU16(e.mem, e.version.MapIDAddress)),
		Room: readU16(e.mem, e.version.RoomIDAddress),
	}
}

// Flag reads one story flag.
func (e *EmulatorSource) Flag(stage Stage, index uint32) bool {
	address, mask := e.version.FlagAddress(stage, index)
	return readU64(e.mem, address)&mask != 0
}

// DefeatedFinalBoss reports whether all of the ending flags are set.
func (e *EmulatorSource) DefeatedFinalBoss() bool {
	for _, f := range finalBossFlags {
		if !e.Flag(StageD, f) {
			return false
		}
	}
	return true
}

// HasItem reports whether item is in the inventory.
func (e *EmulatorSource) HasItem(item Item) bool {
	count := int(readU16(e.mem, e.version.InventoryCountAddress))
	if count > MaxItems {
		count = MaxItems
	}
	for i := 0; i < count; i++ {
		if readI16(e.mem, e.version.InventoryAddress+uint32(i)*2) == int16(item) {
			return true
		}
	}
	return false
}
