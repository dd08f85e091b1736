package main

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-genie/slp"
)

var testPalette = color.Palette{
	color.RGBA{A: 255},
	color.RGBA{R: 255, A: 255},
	color.RGBA{G: 255, A: 255},
}

func pixel(idx uint8, hx int) *slp.Image {
	return &slp.Image{Width: 1, Height: 1, HotspotX: hx, Pix: []uint8{idx}, Kind: []slp.PixelKind{slp.KindColor}}
}

func TestScale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(1, 0, color.RGBA{R: 255, A: 255})

	assert.True(t, scale(img, 1) == image.Image(img))
	got := scale(img, 3)
	assert.Equal(t, image.Rect(0, 0, 6, 3), got.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, color.RGBAModel.Convert(got.At(5, 2)))
	assert.Equal(t, uint8(0), color.RGBAModel.Convert(got.At(0, 0)).(color.RGBA).A)
}

func TestAnimate(t *testing.T) {
	g, err := animate([]*slp.Image{pixel(1, 0), pixel(2, -1)}, testPalette, 2, 7)
	require.NoError(t, err)
	require.Len(t, g.Image, 2)
	assert.Equal(t, []int{7, 7}, g.Delay)

	// Both frames share the aligned canvas, doubled.
	assert.Equal(t, image.Rect(0, 0, 4, 2), g.Image[0].Bounds())
	assert.Equal(t, image.Rect(0, 0, 4, 2), g.Image[1].Bounds())
	assert.Equal(t, color.Transparent, g.Image[0].Palette[0])

	assert.Equal(t, uint8(0), g.Image[0].ColorIndexAt(3, 1))
	assert.Equal(t, uint8(0), g.Image[1].ColorIndexAt(0, 0))
	assert.NotEqual(t, uint8(0), g.Image[0].ColorIndexAt(0, 0))
	assert.NotEqual(t, uint8(0), g.Image[1].ColorIndexAt(3, 1))
}

func TestAnimateRejectsEmptySprites(t *testing.T) {
	_, err := animate(nil, testPalette, 1, 10)
	assert.Error(t, err)
	_, err = animate([]*slp.Image{{}}, testPalette, 1, 10)
	assert.Error(t, err)
}
