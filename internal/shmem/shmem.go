// Package shmem locates and maps the RAM that an emulator exports through a
// POSIX shared memory object.
package shmem

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultDir is where POSIX shared memory objects appear on Linux.
const DefaultDir = "/dev/shm"

// addressMask folds PlayStation addresses (KUSEG/KSEG0/KSEG1 mirrors) into
// an offset within the exported RAM.
const addressMask = 0x1FFFFFF

// ErrNotFound is returned by Discover when no live emulator memory exists.
var ErrNotFound = errors.New("shmem: no emulator shared memory found")

// Emulators whose shared memory objects are named <prefix><pid>.
var emulatorPrefixes = []string{"duckstation_", "pcsx-redux-wram-"}

// Offset converts a console address into an offset in the mapped region.
func Offset(address uint32) int {
	return int(address & addressMask)
}

// candidate is a shared memory object that looks like emulator RAM.
type candidate struct {
	path string
	pid  int
}

// findCandidates lists objects in dir whose names match a known emulator.
// Objects with an unparseable PID are skipped with a warning.
func findCandidates(dir string) ([]candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var found []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		for _, prefix := range emulatorPrefixes {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			pid, err := strconv.Atoi(strings.TrimPrefix(name, prefix))
			if err != nil {
				log.Warn().Str("name", name).Msg("shared memory object looks like emulator RAM but has no PID")
				continue
			}
			found = append(found, candidate{path: filepath.Join(dir, name), pid: pid})
		}
	}
	return found, nil
}

// pidFromPath extracts the owning PID from an emulator object name, or 0.
func pidFromPath(path string) int {
	name := filepath.Base(path)
	for _, prefix := range emulatorPrefixes {
		if strings.HasPrefix(name, prefix) {
			if pid, err := strconv.Atoi(strings.TrimPrefix(name, prefix)); err == nil {
				return pid
			}
		}
	}
	return 0
}
