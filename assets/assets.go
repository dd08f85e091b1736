// Package assets ties archives, palettes and sprites together for renderers.
//
// A Library owns an archive set and the caches built on top of it: parsed
// sprites, parsed palettes and decoded frame images. Everything cached is
// immutable and is thrown away as a whole when the archive set is replaced
// with Reload.
package assets

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"badc0de.net/pkg/go-genie/drs"
	"badc0de.net/pkg/go-genie/pal"
	"badc0de.net/pkg/go-genie/slp"
)

const (
	DefaultImageCacheSize  = 4096
	DefaultSpriteCacheSize = 512
)

// Options configures a Library. A nil *Options is valid and uses the
// defaults.
type Options struct {
	ImageCacheSize  int
	SpriteCacheSize int

	// SLP is passed to slp.Open for every sprite.
	SLP *slp.Options
}

// ImageKey identifies one decoded image. Frame is always within the sprite's
// frame table, and Slot is slp.NeutralSlot for sprites that are not dynamic.
type ImageKey struct {
	Sprite uint32
	Frame  int
	Slot   int
}

func (k ImageKey) String() string {
	return fmt.Sprintf("%d/%d/%d", k.Sprite, k.Frame, k.Slot)
}

// Library resolves sprites, palettes and images by resource id. It is safe
// for concurrent use.
type Library struct {
	opts *Options

	mu       sync.RWMutex
	set      *drs.Set
	gen      uint64 // bumped by Reload
	sprites  *lru.Cache[uint32, *slp.Sprite]
	images   *lru.Cache[ImageKey, *slp.Image]
	palettes map[uint32]*pal.Palette

	group singleflight.Group
}

// New creates a library over the passed archive set.
func New(set *drs.Set, opts *Options) (*Library, error) {
	if opts == nil {
		opts = &Options{}
	}
	imageSize, spriteSize := opts.ImageCacheSize, opts.SpriteCacheSize
	if imageSize <= 0 {
		imageSize = DefaultImageCacheSize
	}
	if spriteSize <= 0 {
		spriteSize = DefaultSpriteCacheSize
	}

	l := &Library{opts: opts, set: set, palettes: make(map[uint32]*pal.Palette)}
	var err error
	if l.sprites, err = lru.New[uint32, *slp.Sprite](spriteSize); err != nil {
		return nil, errors.Wrap(err, "creating sprite cache")
	}
	if l.images, err = lru.New[ImageKey, *slp.Image](imageSize); err != nil {
		return nil, errors.Wrap(err, "creating image cache")
	}
	return l, nil
}

// Set returns the archive set currently in use.
func (l *Library) Set() *drs.Set {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.set
}

// Reload replaces the archive set and empties every cache, since ids may now
// resolve to different resources.
func (l *Library) Reload(set *drs.Set) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.set = set
	l.gen++
	l.sprites.Purge()
	l.images.Purge()
	l.palettes = make(map[uint32]*pal.Palette)
	glog.Infof("assets: reloaded with %d archives", set.Len())
}

// Sprite returns the parsed sprite with the passed id.
func (l *Library) Sprite(id uint32) (*slp.Sprite, error) {
	l.mu.RLock()
	set, gen := l.set, l.gen
	s, ok := l.sprites.Get(id)
	l.mu.RUnlock()
	if ok {
		return s, nil
	}

	v, err, _ := l.group.Do(fmt.Sprintf("%d/slp/%d", gen, id), func() (interface{}, error) {
		if s, ok := l.sprites.Get(id); ok && l.current(gen) {
			return s, nil
		}
		b, err := set.Item(drs.TypeSLP, id)
		if err != nil {
			return nil, err
		}
		s, err := slp.Open(b, l.opts.SLP)
		if err != nil {
			return nil, errors.Wrapf(err, "opening slp %d", id)
		}
		l.mu.RLock()
		if l.gen == gen {
			l.sprites.Add(id, s)
		}
		l.mu.RUnlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*slp.Sprite), nil
}

// Palette returns the palette stored as the bina resource with the passed id.
func (l *Library) Palette(id uint32) (*pal.Palette, error) {
	l.mu.RLock()
	set, gen := l.set, l.gen
	p, ok := l.palettes[id]
	l.mu.RUnlock()
	if ok {
		return p, nil
	}

	b, err := set.Item(drs.TypeBINA, id)
	if err != nil {
		return nil, err
	}
	p, err = pal.Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing palette %d", id)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen == gen {
		if cached, ok := l.palettes[id]; ok {
			return cached, nil
		}
		l.palettes[id] = p
	}
	return p, nil
}

// Key normalizes a request for an image into its cache key: the frame index
// is wrapped into the frame table and, for sprites without player colors,
// every slot maps to the neutral image.
func (l *Library) Key(spriteID uint32, frame, slot int) (ImageKey, *slp.Sprite, error) {
	s, err := l.Sprite(spriteID)
	if err != nil {
		return ImageKey{}, nil, err
	}
	i, err := s.FrameIndex(frame)
	if err != nil {
		return ImageKey{}, nil, errors.Wrapf(err, "slp %d", spriteID)
	}
	if slot < 0 || slot > slp.NeutralSlot {
		return ImageKey{}, nil, errors.Wrapf(slp.ErrBadSlot, "slp %d: slot %d", spriteID, slot)
	}
	if !s.Dynamic() {
		slot = slp.NeutralSlot
	}
	return ImageKey{Sprite: spriteID, Frame: i, Slot: slot}, s, nil
}

// Image returns the decoded image for the passed sprite, frame and player
// slot. Each distinct image is decoded at most once while it stays cached,
// no matter how many goroutines ask for it at the same time.
func (l *Library) Image(spriteID uint32, frame, slot int) (*slp.Image, error) {
	k, s, err := l.Key(spriteID, frame, slot)
	if err != nil {
		return nil, err
	}

	l.mu.RLock()
	img, ok := l.images.Get(k)
	gen := l.gen
	l.mu.RUnlock()
	if ok {
		return img, nil
	}

	v, err, shared := l.group.Do(fmt.Sprintf("%d/img/%v", gen, k), func() (interface{}, error) {
		if img, ok := l.images.Get(k); ok && l.current(gen) {
			return img, nil
		}
		glog.V(2).Infof("assets: decoding %v", k)
		img, err := s.Subimage(k.Frame, k.Slot)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding slp %d frame %d", k.Sprite, k.Frame)
		}
		l.mu.RLock()
		if l.gen == gen {
			l.images.Add(k, img)
		}
		l.mu.RUnlock()
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		glog.V(3).Infof("assets: shared decode of %v", k)
	}
	return v.(*slp.Image), nil
}

func (l *Library) current(gen uint64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.gen == gen
}

// CachedImages returns the number of decoded images currently cached.
func (l *Library) CachedImages() int {
	return l.images.Len()
}
