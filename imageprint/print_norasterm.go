//go:build windows

package imageprint

import (
	"image"
	"io"
)

func printRasTerm(w io.Writer, i image.Image) error {
	return ErrNoRasTerm
}
