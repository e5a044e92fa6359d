package game

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// Frames is a video capture device plus the image matching needed to
// recognize room backgrounds in its frames.
type Frames interface {
	// Next grabs a new frame. All other queries refer to the last frame grabbed.
	Next() error

	// Matches reports whether the frame shows the given background image.
	Matches(background string) (bool, error)

	// IsBlack reports whether the frame has faded to black.
	IsBlack() (bool, error)

	// Opened reports whether the capture device is still available.
	Opened() bool

	Close() error
}

// Link is a room reachable from another room, and the background the
// destination shows when entered through that door.
type Link struct {
	To         Location
	Background string
}

// RoomLinks maps each room to the rooms reachable from it.
type RoomLinks map[Location][]Link

// LoadRoomLinks reads a bg_map.json file. Each entry is
// [[srcMap, srcRoom, dstMap, dstRoom], "file.png"]; file names are resolved
// against dir.
func LoadRoomLinks(r io.Reader, dir string) (RoomLinks, error) {
	var entries [][2]json.RawMessage
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode room links: %w", err)
	}

	links := make(RoomLinks)
	for i, e := range entries {
		var route [4]uint16
		var file string
		if err := json.Unmarshal(e[0], &route); err != nil {
			return nil, fmt.Errorf("room link %d: %w", i, err)
		}
		if err := json.Unmarshal(e[1], &file); err != nil {
			return nil, fmt.Errorf("room link %d: %w", i, err)
		}

		from := At(Map(route[0]), route[1])
		links[from] = append(links[from], Link{
			To:         At(Map(route[2]), route[3]),
			Background: filepath.Join(dir, file),
		})
	}
	return links, nil
}

// LoadRoomLinksFile opens a bg_map.json and resolves images beside it.
func LoadRoomLinksFile(path string) (RoomLinks, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open room links: %w", err)
	}
	defer f.Close()
	return LoadRoomLinks(f, filepath.Dir(path))
}

// CaptureSource infers game state from a video capture of a real console.
// Only location and game completion can be observed; flags and items cannot.
// It needs a Frames implementation backed by a capture device and image
// matcher, which this module does not provide, so the daemon only builds
// an EmulatorSource.
type CaptureSource struct {
	frames   Frames
	links    RoomLinks
	location Location
	defeated bool
	warnOnce sync.Once
}

// NewCaptureSource starts tracking at the first room of the game.
func NewCaptureSource(frames Frames, links RoomLinks) *CaptureSource {
	return &CaptureSource{
		frames:   frames,
		links:    links,
		location: NoLocation,
	}
}

// Name describes the backend.
func (c *CaptureSource) Name() string {
	return "capture"
}

// Alive reports whether the capture device is still open.
func (c *CaptureSource) Alive() bool {
	return c.frames.Opened()
}

// Update grabs a frame and follows any door the player went through.
func (c *CaptureSource) Update() Health {
	if err := c.checkFrame(); err != nil {
		log.Error().Err(err).Msg("failed to check capture frame")
		return HealthUnavailable
	}
	return HealthUnchanged
}

func (c *CaptureSource) checkFrame() error {
	if err := c.frames.Next(); err != nil {
		return fmt.Errorf("grab frame: %w", err)
	}

	for _, link := range c.links[c.location] {
		ok, err := c.frames.Matches(link.Background)
		if err != nil {
			return fmt.Errorf("match %s: %w", link.Background, err)
		}
		if ok {
			c.location = link.To
			c.defeated = false
			return nil
		}
	}

	// The ending begins with a fade to black from the final boss room.
	if c.location == FinalBossRoom && !c.defeated {
		black, err := c.frames.IsBlack()
		if err != nil {
			return fmt.Errorf("check fade: %w", err)
		}
		c.defeated = black
	}
	return nil
}

// Reconnect is not possible once the capture device is lost.
func (c *CaptureSource) Reconnect() (bool, error) {
	if c.frames.Opened() {
		return true, nil
	}
	return false, fmt.Errorf("capture device reconnect: %w", ErrUnsupported)
}

// Close releases the capture device.
func (c *CaptureSource) Close() error {
	return c.frames.Close()
}

// Location returns the last room recognized from the video.
func (c *CaptureSource) Location() Location {
	return c.location
}

// AtMainMenu cannot be observed from video.
func (c *CaptureSource) AtMainMenu() bool {
	return false
}

// NewRunStarted cannot be observed from video; runs are started by the timer.
func (c *CaptureSource) NewRunStarted() bool {
	return false
}

// Flag is unsupported and always false.
func (c *CaptureSource) Flag(stage Stage, index uint32) bool {
	c.warnUnsupported()
	return false
}

// HasItem is unsupported and always false.
func (c *CaptureSource) HasItem(item Item) bool {
	c.warnUnsupported()
	return false
}

func (c *CaptureSource) warnUnsupported() {
	c.warnOnce.Do(func() {
		log.Warn().Msg("flag and item splits cannot be detected from video capture; use the all-doors split type")
	})
}

// DefeatedFinalBoss reports whether the ending fade was seen.
func (c *CaptureSource) DefeatedFinalBoss() bool {
	return c.defeated
}
