// Package pal decodes JASC-PAL text palettes into a fixed 256 entry color
// table.
//
// The format is a three line preamble ("JASC-PAL", "0100" and the decimal
// color count) followed by one "r g b" line per color. There is no alpha
// channel; every decoded entry is fully opaque.
package pal

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	MaxColors = 256

	formatTag     = "JASC-PAL"
	formatVersion = "0100"
)

var (
	ErrBadHeader     = errors.New("pal: bad header")
	ErrBadColorCount = errors.New("pal: bad color count")
	ErrBadEntry      = errors.New("pal: bad entry")
)

// EntryError reports a color line that is missing or is not exactly three
// integers in the range 0..255.
type EntryError struct {
	Index int // Color index of the entry, from 0.
	Line  int // Line number in the text, from 1.
	Text  string
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("pal: bad entry %d on line %d: %q", e.Index, e.Line, e.Text)
}

func (e *EntryError) Unwrap() error {
	return ErrBadEntry
}

// Palette is an immutable indexed color table.
type Palette struct {
	entries [MaxColors]color.RGBA
	n       int
}

// Len returns the number of colors declared by the palette.
func (p *Palette) Len() int {
	return p.n
}

// At returns the color at index i. Indices past Len return opaque black, as
// in ColorPalette.
func (p *Palette) At(i uint8) color.RGBA {
	if int(i) >= p.n {
		return color.RGBA{A: 0xFF}
	}
	return p.entries[i]
}

// ColorPalette returns a 256 entry color.Palette usable with image.Paletted.
// Entries past Len are opaque black so every 8-bit index resolves.
func (p *Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, MaxColors)
	for i := range cp {
		if i < p.n {
			cp[i] = p.entries[i]
		} else {
			cp[i] = color.RGBA{A: 0xFF}
		}
	}
	return cp
}

// Parse decodes a JASC-PAL palette.
//
// Lines may end in "\n" or "\r\n". Text after the last declared color is
// ignored.
func Parse(text []byte) (*Palette, error) {
	lines := strings.Split(string(text), "\n")
	line := func(i int) (string, bool) {
		if i >= len(lines) {
			return "", false
		}
		return strings.TrimSuffix(lines[i], "\r"), true
	}

	if l, _ := line(0); l != formatTag {
		return nil, errors.Wrapf(ErrBadHeader, "format tag %q, want %q", l, formatTag)
	}
	if l, _ := line(1); l != formatVersion {
		return nil, errors.Wrapf(ErrBadHeader, "format version %q, want %q", l, formatVersion)
	}
	l, _ := line(2)
	n, err := strconv.Atoi(strings.TrimSpace(l))
	if err != nil {
		return nil, errors.Wrapf(ErrBadHeader, "color count %q", l)
	}
	if n < 0 || n > MaxColors {
		return nil, errors.Wrapf(ErrBadColorCount, "%d colors, want 0 to %d", n, MaxColors)
	}

	p := &Palette{n: n}
	for i := 0; i < n; i++ {
		l, ok := line(3 + i)
		c, good := parseEntry(l)
		if !ok || !good {
			return nil, &EntryError{Index: i, Line: 4 + i, Text: l}
		}
		p.entries[i] = c
	}
	return p, nil
}

func parseEntry(l string) (color.RGBA, bool) {
	f := strings.Fields(l)
	if len(f) != 3 {
		return color.RGBA{}, false
	}
	var rgb [3]uint8
	for i, s := range f {
		v, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return color.RGBA{}, false
		}
		rgb[i] = uint8(v)
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xFF}, true
}
