package session

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ironsheep/door-ar-mcp/internal/imaging"
)

// FrameSource supplies native-resolution frames. Open is the one blocking
// acquisition; Frame is polled each render tick and reports false while no
// frame is available. Close releases the source and is always called once
// Open has been attempted.
type FrameSource interface {
	Open(ctx context.Context) error
	Frame() (image.Image, bool)
	Close() error
}

// StillSource serves a single image, either given directly or loaded from
// a file on Open.
type StillSource struct {
	cache *imaging.ImageCache
	path  string

	mu  sync.Mutex
	img image.Image
}

// NewStillSource serves img.
func NewStillSource(img image.Image) *StillSource {
	return &StillSource{img: img}
}

// NewStillFile serves the image at path, decoded through cache on Open.
func NewStillFile(cache *imaging.ImageCache, path string) *StillSource {
	return &StillSource{cache: cache, path: path}
}

func (s *StillSource) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		if s.img == nil {
			return fmt.Errorf("%w: no image", ErrSourceUnavailable)
		}
		return nil
	}
	img, err := s.cache.Load(s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	s.img = img
	return nil
}

func (s *StillSource) Frame() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img, s.img != nil
}

func (s *StillSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path != "" {
		s.img = nil
	}
	return nil
}

// SequenceSource plays the image files of a directory in name order, one
// frame per Frame call, looping at the end.
type SequenceSource struct {
	dir   string
	cache *imaging.ImageCache

	mu     sync.Mutex
	files  []string
	next   int
	opened bool
}

// NewSequenceSource plays the PNG, JPEG and GIF files in dir.
func NewSequenceSource(cache *imaging.ImageCache, dir string) *SequenceSource {
	return &SequenceSource{dir: dir, cache: cache}
}

func (s *SequenceSource) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".gif":
			files = append(files, filepath.Join(s.dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no frames in %s", ErrSourceUnavailable, s.dir)
	}
	sort.Strings(files)

	s.mu.Lock()
	s.files, s.next, s.opened = files, 0, true
	s.mu.Unlock()
	return nil
}

// Frame decodes the next file. Undecodable files are skipped for this
// tick.
func (s *SequenceSource) Frame() (image.Image, bool) {
	s.mu.Lock()
	if !s.opened {
		s.mu.Unlock()
		return nil, false
	}
	path := s.files[s.next]
	s.next = (s.next + 1) % len(s.files)
	s.mu.Unlock()

	img, err := s.cache.Load(path)
	if err != nil {
		return nil, false
	}
	return img, true
}

// Len returns the number of frames found by Open.
func (s *SequenceSource) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

func (s *SequenceSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.files {
		s.cache.Evict(f)
	}
	s.files, s.opened = nil, false
	return nil
}
