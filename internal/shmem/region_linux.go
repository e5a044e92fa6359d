//go:build linux

package shmem

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// Region is a read-only mapping of emulator RAM.
type Region struct {
	path string
	pid  int
	data []byte
}

// Open maps the shared memory object at path. The owning PID is taken from
// the object name when it follows an emulator naming scheme.
func Open(path string) (*Region, error) {
	return open(path, pidFromPath(path))
}

func open(path string, pid int) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shared memory %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat shared memory %s: %w", path, err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("shared memory %s is empty", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("map shared memory %s: %w", path, err)
	}

	return &Region{path: path, pid: pid, data: data}, nil
}

// Discover maps the first emulator RAM object in dir whose owner is alive.
// Some emulators leave stale objects behind after exiting, hence the check.
func Discover(dir string) (*Region, error) {
	candidates, err := findCandidates(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	for _, c := range candidates {
		if !pidAlive(c.pid) {
			continue
		}
		log.Info().Str("path", c.path).Int("pid", c.pid).Msg("found emulator shared memory")
		return open(c.path, c.pid)
	}
	return nil, ErrNotFound
}

func pidAlive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || !errors.Is(err, unix.ESRCH)
}

// Path returns the mapped object's path.
func (r *Region) Path() string {
	return r.path
}

// ReadAt copies len(buf) bytes from the given console address. Bytes that
// fall outside the mapping read as zero.
func (r *Region) ReadAt(address uint32, buf []byte) {
	off := Offset(address)
	n := 0
	if off < len(r.data) {
		n = copy(buf, r.data[off:])
	}
	clear(buf[n:])
}

// Alive reports whether the emulator that owns the mapping is still running.
// Without a known PID, the object merely has to still exist.
func (r *Region) Alive() bool {
	if r.pid > 0 {
		return pidAlive(r.pid)
	}
	_, err := os.Stat(r.path)
	return err == nil
}

// Close unmaps the region.
func (r *Region) Close() error {
	if r.data == nil {
		return nil
	}
	err := unix.Munmap(r.data)
	r.data = nil
	if err != nil {
		return fmt.Errorf("unmap %s: %w", r.path, err)
	}
	return nil
}
