package imageprint

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-genie/slp"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(1, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(2, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	return img
}

func TestPrintNoColor(t *testing.T) {
	b := &bytes.Buffer{}
	p := &Printer{W: b, Mode: ModeNoColor}
	require.NoError(t, p.Print(testImage()))
	assert.Equal(t, "  ##..\n", b.String())
}

func TestPrint24bit(t *testing.T) {
	b := &bytes.Buffer{}
	p := &Printer{W: b, Mode: Mode24bit, Blanks: true}
	require.NoError(t, p.Print(testImage()))
	assert.Equal(t,
		"\x1b[0m  "+
			"\x1b[48;2;255;255;255m  \x1b[0m"+
			"\x1b[48;2;10;20;30m  \x1b[0m"+
			"\x1b[0m\n",
		b.String())
}

func TestPrintITerm(t *testing.T) {
	b := &bytes.Buffer{}
	p := &Printer{W: b, Mode: ModeITerm, Name: "unit.png"}
	require.NoError(t, p.Print(testImage()))
	assert.True(t, strings.HasPrefix(b.String(), "\n\033]1337;File=name=dW5pdC5wbmc=;inline=1;"), b.String())
	assert.Contains(t, b.String(), "width=3px;height=1px:")
}

func TestParseMode(t *testing.T) {
	for name, want := range modeNames {
		got, err := ParseMode(strings.ToUpper(name))
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, name, got.String())
	}
	_, err := ParseMode("sixel")
	assert.Error(t, err)
	assert.True(t, ModeRasTerm.Native())
	assert.False(t, Mode256Color.Native())
}

func TestPrintKinds(t *testing.T) {
	m := &slp.Image{
		Width:  3,
		Height: 2,
		Pix:    make([]uint8, 6),
		Kind: []slp.PixelKind{
			slp.KindTransparent, slp.KindColor, slp.KindPlayer,
			slp.KindShadow, slp.KindOutline, slp.KindShield,
		},
	}
	b := &bytes.Buffer{}
	require.NoError(t, PrintKinds(b, m))
	assert.Equal(t, ".#P\nsoS\n", b.String())
}
