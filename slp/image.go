package slp

// This file contains the decoded image types and their conversion into
// image.Image values. Painting itself is the caller's business.

import (
	"image"
	"image/color"
)

const (
	// PlayerSlots is the number of recolorable player slots.
	PlayerSlots = 8
	// NeutralSlot selects the unshifted image of a dynamic frame.
	NeutralSlot = PlayerSlots
	// Variants is the number of images a dynamic frame decodes into.
	Variants = PlayerSlots + 1
)

// PlayerOffset returns the amount added to player colored indices for the
// passed slot: 0x10*(slot+1) for slots 0 to 7, and zero for NeutralSlot.
func PlayerOffset(slot int) uint8 {
	if slot < 0 || slot >= PlayerSlots {
		return 0
	}
	return uint8(0x10 * (slot + 1))
}

// PixelKind records which command produced a pixel.
type PixelKind uint8

const (
	KindTransparent PixelKind = iota
	KindColor
	KindPlayer
	KindShadow
	KindOutline
	KindShield
)

// Image is one decoded frame variant: a Width*Height buffer of palette
// indices, row major, together with the frame's hotspot.
//
// Images are shared by caches and must not be modified.
type Image struct {
	Width, Height      int
	HotspotX, HotspotY int

	Pix  []uint8
	Kind []PixelKind
}

func newImage(fi FrameInfo) *Image {
	w, h := int(fi.Width), int(fi.Height)
	return &Image{
		Width:    w,
		Height:   h,
		HotspotX: int(fi.HotspotX),
		HotspotY: int(fi.HotspotY),
		Pix:      make([]uint8, w*h),
		Kind:     make([]PixelKind, w*h),
	}
}

// Index returns the palette index at (x, y).
func (m *Image) Index(x, y int) uint8 {
	return m.Pix[y*m.Width+x]
}

// Bounds returns the image rectangle, with the origin at the top left corner.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// Paletted returns a copy of the image as an image.Paletted using p, which
// should have 256 entries.
func (m *Image) Paletted(p color.Palette) *image.Paletted {
	img := image.NewPaletted(m.Bounds(), p)
	copy(img.Pix, m.Pix)
	return img
}

// RGBA paints the image using p. Transparent pixels get zero alpha, shadow
// pixels are translucent black, and indices missing from p are left
// transparent.
func (m *Image) RGBA(p color.Palette) *image.RGBA {
	img := image.NewRGBA(m.Bounds())
	for i, idx := range m.Pix {
		var c color.Color
		switch m.Kind[i] {
		case KindTransparent:
			continue
		case KindShadow:
			c = color.RGBA{A: 0x80}
		default:
			if int(idx) >= len(p) {
				continue
			}
			c = p[idx]
		}
		img.Set(i%m.Width, i/m.Width, c)
	}
	return img
}

// Frame holds the decoded images of one frame. Images has one entry for a
// non-dynamic sprite and Variants entries for a dynamic one.
type Frame struct {
	Info   FrameInfo
	Images []*Image

	// Issues lists the content errors recovered from while decoding.
	Issues []ContentError
}

// Image returns the image for the passed player slot. Non-dynamic frames
// return their single image for every slot.
func (f *Frame) Image(slot int) *Image {
	if len(f.Images) == 1 {
		return f.Images[0]
	}
	if slot < 0 || slot >= len(f.Images) {
		return nil
	}
	return f.Images[slot]
}

// Origin returns where the top left corner of m lies when its hotspot is
// placed at (0, 0).
func (m *Image) Origin() image.Point {
	return image.Pt(-m.HotspotX, -m.HotspotY)
}

// Extent returns the smallest rectangle covering every passed image, each
// drawn with its hotspot at (0, 0). Animation frames drawn into a canvas of
// this size at Origin()-Extent().Min stay aligned.
func Extent(images ...*Image) image.Rectangle {
	var r image.Rectangle
	for _, m := range images {
		if m == nil {
			continue
		}
		r = r.Union(m.Bounds().Add(m.Origin()))
	}
	return r
}
