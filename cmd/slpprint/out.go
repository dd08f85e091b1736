package main

import (
	"fmt"
	"image"
	"os"

	"github.com/nfnt/resize"

	"badc0de.net/pkg/go-genie/imageprint"
	"badc0de.net/pkg/go-genie/pal"
	"badc0de.net/pkg/go-genie/slp"
)

func out(pr *imageprint.Printer, m *slp.Image, p *pal.Palette) error {
	if p == nil {
		return imageprint.PrintKinds(os.Stdout, m)
	}
	fmt.Fprintf(os.Stdout, "%dx%d, hotspot %d,%d\n", m.Width, m.Height, m.HotspotX, m.HotspotY)

	var img image.Image = m.RGBA(p.ColorPalette())
	if *downsize {
		termSize, err := GetTermSize()
		if err == nil {
			if (termSize.WSXPixel != 0 && termSize.WSYPixel != 0) && pr.Mode.Native() {
				// Prefer the native size if the terminal draws the image itself.
				img = resize.Thumbnail(termSize.WSXPixel/2, termSize.WSYPixel/2, img, resize.Lanczos3)
			} else {
				// Every pixel takes two columns.
				img = resize.Thumbnail(termSize.WSCol/2, termSize.WSRow, img, resize.NearestNeighbor)
			}
		}
	}
	return pr.Print(img)
}
