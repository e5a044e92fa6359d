package shmem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOffsetMasksMirrors(t *testing.T) {
	tests := []struct {
		address uint32
		want    int
	}{
		{0x80000000, 0},
		{0x8011AE40, 0x11AE40},
		{0xA011AE40, 0x11AE40},
		{0x0011AE40, 0x11AE40},
	}
	for _, tt := range tests {
		if got := Offset(tt.address); got != tt.want {
			t.Errorf("Offset(%#x): got %#x, want %#x", tt.address, got, tt.want)
		}
	}
}

func TestFindCandidates(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"duckstation_123", "pcsx-redux-wram-456", "duckstation_abc", "unrelated"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte{0}, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "duckstation_789"), 0o700); err != nil {
		t.Fatal(err)
	}

	got, err := findCandidates(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(got), got)
	}

	pids := map[int]bool{}
	for _, c := range got {
		pids[c.pid] = true
	}
	if !pids[123] || !pids[456] {
		t.Errorf("expected PIDs 123 and 456, got %v", pids)
	}
}

func TestFindCandidatesMissingDir(t *testing.T) {
	if _, err := findCandidates(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestPIDFromPath(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"/dev/shm/duckstation_4242", 4242},
		{"/dev/shm/pcsx-redux-wram-17", 17},
		{"/dev/shm/duckstation_x", 0},
		{"/tmp/ram.bin", 0},
	}
	for _, tt := range tests {
		if got := pidFromPath(tt.path); got != tt.want {
			t.Errorf("pidFromPath(%q): got %d, want %d", tt.path, got, tt.want)
		}
	}
}
