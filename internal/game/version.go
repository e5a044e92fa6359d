package game

import (
	"bytes"
	"encoding/binary"
)

var searchString = []byte("GALERIANS")

const (
	newGameMenuState = 99
	trailerMenuState = 200
	flagBankSize     = 4 * 8
)

// finalBossFlags must all be set in stage D once the final boss is defeated.
var finalBossFlags = [...]uint32{37, 38, 39, 80}

// Memory is readable console RAM addressed by console address.
type Memory interface {
	ReadAt(address uint32, buf []byte)
	Alive() bool
	Close() error
}

// Version holds the memory layout of one release of the game.
type Version struct {
	Name                  string
	SearchStringAddress   uint32
	MainMenuStateAddress  uint32
	MenuModuleIDAddress   uint32
	MainMenuModuleID      int16
	MapIDAddress          uint32
	RoomIDAddress         uint32
	FlagBanksAddress      uint32
	InventoryAddress      uint32
	InventoryCountAddress uint32
}

// Versions lists every release we know how to read.
var Versions = []*Version{
	{
		Name:                  "NTSC-U",
		SearchStringAddress:   0x8011AE40,
		MainMenuStateAddress:  0x801FCF00,
		MenuModuleIDAddress:   0x80190E9C,
		MainMenuModuleID:      111,
		MapIDAddress:          0x801912DC,
		RoomIDAddress:         0x801912DE,
		FlagBanksAddress:      0x801AF9A0,
		InventoryAddress:      0x801AFAAC,
		InventoryCountAddress: 0x801AFAFE,
	},
	{
		Name:                  "NTSC-J",
		SearchStringAddress:   0x80193830,
		MainMenuStateAddress:  0x801FE2E0,
		MenuModuleIDAddress:   0x80190E08,
		MainMenuModuleID:      112,
		MapIDAddress:          0x801912B4,
		RoomIDAddress:         0x801912B6,
		FlagBanksAddress:      0x801AFFA0,
		InventoryAddress:      0x801B00AC,
		InventoryCountAddress: 0x801B00FE,
	},
}

// FlagAddress returns the address of the 64-bit bank holding a flag and the
// bit mask for the flag within it.
func (v *Version) FlagAddress(stage Stage, index uint32) (uint32, uint64) {
	var bankOffset, bit uint32
	switch {
	case index >= 128:
		bankOffset, bit = flagBankSize*2, index-128
	case index >= 64:
		bankOffset, bit = flagBankSize, index-64
	default:
		bankOffset, bit = 0, index
	}

	stageOffset := uint32(stage) * 8
	return v.FlagBanksAddress + bankOffset + stageOffset, uint64(1) << bit
}

// Validate reports whether this version's identification string is present.
func (v *Version) Validate(mem Memory) bool {
	buf := make([]byte, len(searchString))
	mem.ReadAt(v.SearchStringAddress, buf)
	return bytes.Equal(buf, searchString)
}

// DetectVersion returns the first known version present in mem, or nil.
func DetectVersion(mem Memory) *Version {
	for _, v := range Versions {
		if v.Validate(mem) {
			return v
		}
	}
	return nil
}

func readU16(mem Memory, address uint32) uint16 {
	var buf [2]byte
	mem.ReadAt(address, buf[:])
	return binary.LittleEndian.Uint16(buf[:])
}

func readI16(mem Memory, address uint32) int16 {
	return int16(readU16(mem, address))
}

func readI32(mem Memory, address uint32) int32 {
	var buf [4]byte
	mem.ReadAt(address, buf[:])
	return int32(binary.LittleEndian.Uint32(buf[:]))
}

func readU64(mem Memory, address uint32) uint64 {
	var buf [8]byte
	mem.ReadAt(address, buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}
