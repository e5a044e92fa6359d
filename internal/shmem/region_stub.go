//go:build !linux

package shmem

import "errors"

var errUnsupported = errors.New("shmem: not supported on this platform (requires Linux)")

// Region is not available on non-Linux platforms.
type Region struct{}

// Open returns an error on non-Linux platforms.
func Open(path string) (*Region, error) {
	return nil, errUnsupported
}

// Discover returns an error on non-Linux platforms.
func Discover(dir string) (*Region, error) {
	return nil, errUnsupported
}

// Path is not implemented on non-Linux platforms.
func (r *Region) Path() string {
	return ""
}

// ReadAt is not implemented on non-Linux platforms.
func (r *Region) ReadAt(address uint32, buf []byte) {
	clear(buf)
}

// Alive is not implemented on non-Linux platforms.
func (r *Region) Alive() bool {
	return false
}

// Close is not implemented on non-Linux platforms.
func (r *Region) Close() error {
	return nil
}
