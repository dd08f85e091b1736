package pal

import (
	"fmt"
	"image/color"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-genie/ttesting"
)

func grayscale(n int, eol string) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "JASC-PAL%s0100%s%d%s", eol, eol, n, eol)
	for i := 0; i < n; i++ {
		fmt.Fprintf(b, "%d %d %d%s", i, i, i, eol)
	}
	return b.String()
}

func TestParseGrayscale(t *testing.T) {
	for _, eol := range []string{"\r\n", "\n"} {
		t.Run(fmt.Sprintf("eol=%q", eol), func(t *testing.T) {
			p, err := Parse([]byte(grayscale(256, eol)))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			ttesting.AssertEqualInt(t, "color count", p.Len(), 256)
			if got, want := p.At(5), (color.RGBA{5, 5, 5, 255}); got != want {
				t.Errorf("At(5) = %v; want %v", got, want)
			}
			for i := 0; i < 256; i++ {
				if p.At(uint8(i)).A != 255 {
					t.Fatalf("At(%d).A = %d; want 255", i, p.At(uint8(i)).A)
				}
			}
		})
	}
}

func TestParseShortPalette(t *testing.T) {
	p, err := Parse([]byte("JASC-PAL\r\n0100\r\n2\r\n255 0 0\r\n0  255\t0\r\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ttesting.AssertEqualInt(t, "color count", p.Len(), 2)
	if got, want := p.At(1), (color.RGBA{0, 255, 0, 255}); got != want {
		t.Errorf("At(1) = %v; want %v", got, want)
	}
	if got, want := p.At(2), (color.RGBA{A: 255}); got != want {
		t.Errorf("At(2) past Len = %v; want %v", got, want)
	}

	cp := p.ColorPalette()
	ttesting.AssertEqualInt(t, "color.Palette size", len(cp), 256)
	if got, want := cp[200], color.Color(color.RGBA{A: 255}); got != want {
		t.Errorf("padding entry = %v; want %v", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"empty", "", ErrBadHeader},
		{"tag", "JASC-PAK\r\n0100\r\n1\r\n1 2 3\r\n", ErrBadHeader},
		{"version", "JASC-PAL\r\n0200\r\n1\r\n1 2 3\r\n", ErrBadHeader},
		{"count not a number", "JASC-PAL\r\n0100\r\nlots\r\n", ErrBadHeader},
		{"too many colors", grayscale(257, "\r\n"), ErrBadColorCount},
		{"negative count", "JASC-PAL\r\n0100\r\n-1\r\n", ErrBadColorCount},
		{"two components", "JASC-PAL\r\n0100\r\n1\r\n1 2\r\n", ErrBadEntry},
		{"four components", "JASC-PAL\r\n0100\r\n1\r\n1 2 3 4\r\n", ErrBadEntry},
		{"out of range", "JASC-PAL\r\n0100\r\n1\r\n1 256 3\r\n", ErrBadEntry},
		{"missing line", "JASC-PAL\r\n0100\r\n3\r\n1 2 3\r\n4 5 6\r\n", ErrBadEntry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse([]byte(tt.text))
			if err == nil {
				t.Fatalf("Parse succeeded with %d colors; want error %v", p.Len(), tt.want)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v; want %v", err, tt.want)
			}
		})
	}
}

func TestParseEntryErrorPosition(t *testing.T) {
	_, err := Parse([]byte("JASC-PAL\r\n0100\r\n3\r\n1 2 3\r\nx y z\r\n4 5 6\r\n"))
	var ee *EntryError
	if !errors.As(err, &ee) {
		t.Fatalf("got %v; want *EntryError", err)
	}
	ttesting.AssertEqualInt(t, "index", ee.Index, 1)
	ttesting.AssertEqualInt(t, "line", ee.Line, 5)
}

func ExampleParse() {
	p, err := Parse([]byte("JASC-PAL\r\n0100\r\n2\r\n0 0 0\r\n255 128 0\r\n"))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(p.Len(), p.At(1))
	// Output: 2 {255 128 0 255}
}
