package main

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-genie/slp"
)

// scale enlarges img by an integer factor without smoothing, so the pixels
// stay sharp.
func scale(img image.Image, factor uint) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	return resize.Resize(uint(b.Dx())*factor, uint(b.Dy())*factor, img, resize.NearestNeighbor)
}

// animate aligns every frame on its hotspot, scales it, and turns the
// result into GIF frames sharing one palette computed over all of them.
func animate(imgs []*slp.Image, p color.Palette, factor uint, delay int) (*gif.GIF, error) {
	if len(imgs) == 0 {
		return nil, errors.New("sprite has no frames")
	}
	extent := slp.Extent(imgs...)
	if extent.Empty() {
		return nil, errors.New("sprite frames are all empty")
	}
	canvas := image.Rect(0, 0, extent.Dx(), extent.Dy())

	frames := make([]image.Image, len(imgs))
	var sheet *image.RGBA
	for i, m := range imgs {
		img := image.NewRGBA(canvas)
		draw.Draw(img, m.Bounds().Add(m.Origin().Sub(extent.Min)), m.RGBA(p), image.Point{}, draw.Src)
		frames[i] = scale(img, factor)
		if sheet == nil {
			b := frames[i].Bounds()
			sheet = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()*len(imgs)))
		}
		b := frames[i].Bounds()
		draw.Draw(sheet, b.Add(image.Pt(0, b.Dy()*i)), frames[i], b.Min, draw.Src)
	}

	// One palette for the whole animation keeps colors from flickering
	// between frames. The first entry is reserved for transparency.
	q := quantize.MedianCutQuantizer{}
	shared := q.Quantize(make(color.Palette, 0, 255), sheet)
	shared = append(color.Palette{color.Transparent}, shared...)

	g := &gif.GIF{}
	for _, f := range frames {
		pm := image.NewPaletted(f.Bounds(), shared)
		draw.Draw(pm, pm.Bounds(), f, f.Bounds().Min, draw.Over)
		g.Image = append(g.Image, pm)
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	return g, nil
}
