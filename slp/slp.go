package slp

// This file contains code directly related to the slp header and frame
// table, and the public decoding entry points.

import (
	"bytes"
	"context"
	"encoding/binary"
	"runtime"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Known version tags.
const (
	Version2N = "2.0N"
	Version2P = "2.0P"
)

const (
	headerSize      = 32
	frameRecordSize = 32
	rowEdgeSize     = 4

	// transparentRow in either margin of a row edge marks the row as fully
	// transparent.
	transparentRow = -0x8000
)

// Options configures decoding. A nil *Options is valid and uses the
// defaults.
type Options struct {
	// Versions lists accepted version tags. Defaults to Version2N and
	// Version2P.
	Versions []string

	// Strict makes content errors (unrecognized opcodes, runs overflowing a
	// row) fatal for the frame instead of being recovered from.
	Strict bool

	// Parallelism bounds the number of frames DecodeAll decodes at once.
	// Defaults to GOMAXPROCS.
	Parallelism int

	// MaxFramePixels bounds the pixels allocated for one decoded frame,
	// counting every player variant of a dynamic sprite. Defaults to
	// DefaultMaxFramePixels.
	MaxFramePixels int
}

const (
	// DefaultMaxFramePixels is the default pixel budget of one decoded frame.
	DefaultMaxFramePixels = 1 << 22

	// MaxFrameSide is the largest width or height a frame may declare.
	MaxFrameSide = 1 << 13
)

func (o *Options) maxFramePixels() int64 {
	if o == nil || o.MaxFramePixels <= 0 {
		return DefaultMaxFramePixels
	}
	return int64(o.MaxFramePixels)
}

func (o *Options) versions() []string {
	if o == nil || len(o.Versions) == 0 {
		return []string{Version2N, Version2P}
	}
	return o.Versions
}

func (o *Options) strict() bool {
	return o != nil && o.Strict
}

func (o *Options) parallelism() int {
	if o == nil || o.Parallelism <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Parallelism
}

// Header is the fixed-size header at the start of every sprite.
type Header struct {
	Version    [4]byte
	FrameCount int32
	Comment    [24]byte
}

// FrameInfo is one record of the frame table.
type FrameInfo struct {
	CmdTableOffset     uint32
	OutlineTableOffset uint32
	PaletteOffset      uint32 // Unused by decoding.
	Properties         uint32 // Unused by decoding.
	Width, Height      int32
	HotspotX, HotspotY int32
}

type frame struct {
	info    FrameInfo
	dynamic bool
	err     error
}

// Sprite is a parsed sprite. Its frames are decoded on demand; decoding is
// pure and a Sprite is safe for concurrent use.
type Sprite struct {
	data    []byte
	header  Header
	frames  []frame
	dynamic bool
	opts    *Options
}

// Open parses the header and frame table of the passed sprite bytes and scans
// every frame's command stream once to find whether the sprite uses player
// colors.
//
// Problems confined to one frame, such as negative dimensions or a corrupt
// command stream, do not fail Open; they are returned when that frame is
// decoded.
func Open(b []byte, opts *Options) (*Sprite, error) {
	all, err := newWindow(b, 0, uint64(len(b)))
	if err != nil {
		return nil, err
	}
	hb, err := all.bytes(0, headerSize)
	if err != nil {
		return nil, errors.Wrap(err, "reading slp header")
	}

	s := &Sprite{data: b, opts: opts}
	if err := binary.Read(bytes.NewReader(hb), binary.LittleEndian, &s.header); err != nil {
		return nil, errors.Wrap(ErrTruncated, err.Error())
	}

	ok := false
	for _, v := range opts.versions() {
		if v == string(s.header.Version[:]) {
			ok = true
			break
		}
	}
	if !ok {
		return nil, errors.Wrapf(ErrBadVersion, "version %q", s.header.Version[:])
	}
	if s.header.FrameCount < 0 {
		return nil, errors.Wrapf(ErrBadFrameCount, "%d frames", s.header.FrameCount)
	}

	n := int(s.header.FrameCount)
	table, err := all.bytes(headerSize, n*frameRecordSize)
	if err != nil {
		return nil, errors.Wrapf(err, "reading frame table of %d frames", n)
	}
	infos := make([]FrameInfo, n)
	if err := binary.Read(bytes.NewReader(table), binary.LittleEndian, infos); err != nil {
		return nil, errors.Wrap(ErrTruncated, err.Error())
	}

	s.frames = make([]frame, n)
	for i, fi := range infos {
		f := &s.frames[i]
		f.info = fi
		if fi.Width < 0 || fi.Height < 0 {
			f.err = errors.Wrapf(ErrNegativeDimension, "frame %d is %dx%d", i, fi.Width, fi.Height)
			glog.Warningf("slp: %v", f.err)
			continue
		}
		if err := s.checkSize(i, 1); err != nil {
			f.err = err
			glog.Warningf("slp: %v", err)
			continue
		}
		res, err := s.run(i, nil, NeutralSlot)
		if err != nil {
			f.err = err
			glog.Warningf("slp: frame %d: %v", i, err)
			continue
		}
		for _, issue := range res.issues {
			glog.Warningf("slp: recovered: %v", issue)
		}
		f.dynamic = res.dynamic
		s.dynamic = s.dynamic || res.dynamic
	}
	glog.V(2).Infof("slp: opened sprite %q: %d frames, dynamic=%t", s.header.Version[:], n, s.dynamic)
	return s, nil
}

// checkSize fails frame i when decoding it into the passed number of images
// would exceed the side or pixel limits. Width is not tied to the bytes
// present, so a few bytes can declare a huge frame.
func (s *Sprite) checkSize(i, images int) error {
	fi := s.frames[i].info
	w, h := int64(fi.Width), int64(fi.Height)
	if w > MaxFrameSide || h > MaxFrameSide {
		return errors.Wrapf(ErrFrameCorrupt, "frame %d: %dx%d exceeds %d pixels per side", i, w, h, MaxFrameSide)
	}
	if limit := s.opts.maxFramePixels(); w*h*int64(images) > limit {
		return errors.Wrapf(ErrFrameCorrupt, "frame %d: %dx%d in %d images exceeds %d pixels", i, w, h, images, limit)
	}
	return nil
}

// Header returns the sprite header.
func (s *Sprite) Header() Header {
	return s.header
}

// Version returns the version tag of the sprite.
func (s *Sprite) Version() string {
	return string(s.header.Version[:])
}

// FrameCount returns the number of frames in the sprite.
func (s *Sprite) FrameCount() int {
	return len(s.frames)
}

// Frame returns the frame table record for frame i.
func (s *Sprite) Frame(i int) FrameInfo {
	return s.frames[i].info
}

// Dynamic reports whether any frame of the sprite draws in player color.
func (s *Sprite) Dynamic() bool {
	return s.dynamic
}

// FrameDynamic reports whether frame i itself draws in player color.
func (s *Sprite) FrameDynamic(i int) bool {
	return s.frames[i].dynamic
}

// FrameErr returns the error that makes frame i undecodable, if any.
func (s *Sprite) FrameErr(i int) error {
	return s.frames[i].err
}

// DecodeFrame decodes every variant of frame i: one image for a non-dynamic
// sprite, or one per player slot followed by the neutral image for a dynamic
// one.
func (s *Sprite) DecodeFrame(i int) (*Frame, error) {
	if i < 0 || i >= len(s.frames) {
		return nil, errors.Errorf("slp: frame %d out of range [0,%d)", i, len(s.frames))
	}
	if err := s.frames[i].err; err != nil {
		return nil, err
	}
	f := &Frame{Info: s.frames[i].info}

	slots := []int{NeutralSlot}
	if s.dynamic {
		slots = make([]int, Variants)
		for slot := range slots {
			slots[slot] = slot
		}
	}
	if err := s.checkSize(i, len(slots)); err != nil {
		return nil, err
	}
	for _, slot := range slots {
		img := newImage(f.Info)
		res, err := s.run(i, img, slot)
		if err != nil {
			return nil, err
		}
		f.Images = append(f.Images, img)
		f.Issues = res.issues
	}
	return f, nil
}

// Subimage decodes frame frameIdx for the passed player slot (0 to 7, or
// NeutralSlot).
//
// The frame index wraps around the frame count, so looping animations can
// pass an ever increasing counter. Non-dynamic sprites return the same
// neutral image for every slot.
func (s *Sprite) Subimage(frameIdx, slot int) (*Image, error) {
	i, err := s.FrameIndex(frameIdx)
	if err != nil {
		return nil, err
	}
	if slot < 0 || slot > NeutralSlot {
		return nil, errors.Wrapf(ErrBadSlot, "slot %d", slot)
	}
	if !s.dynamic {
		slot = NeutralSlot
	}
	if err := s.frames[i].err; err != nil {
		return nil, err
	}
	img := newImage(s.frames[i].info)
	if _, err := s.run(i, img, slot); err != nil {
		return nil, err
	}
	return img, nil
}

// FrameIndex wraps an arbitrary frame counter into the frame table.
func (s *Sprite) FrameIndex(frameIdx int) (int, error) {
	n := len(s.frames)
	if n == 0 {
		return 0, ErrNoFrames
	}
	i := frameIdx % n
	if i < 0 {
		i += n
	}
	return i, nil
}

// DecodeAll decodes every frame, several at a time. It stops at the first
// frame that fails to decode.
func (s *Sprite) DecodeAll(ctx context.Context) ([]*Frame, error) {
	frames := make([]*Frame, len(s.frames))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.parallelism())
	for i := range frames {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := s.DecodeFrame(i)
			if err != nil {
				return errors.Wrapf(err, "frame %d", i)
			}
			frames[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}
