// Package imageprint prints images on terminal. UNSUPPORTED debug package.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/pkg/errors"
)

// ErrNoRasTerm is returned in ModeRasTerm when the terminal speaks none of
// the supported graphics protocols.
var ErrNoRasTerm = errors.New("imageprint: terminal has no graphics protocol")

// Mode selects how pixels reach the terminal.
type Mode int

const (
	Mode24bit Mode = iota
	Mode256Color
	ModeNoColor
	ModeITerm
	ModeRasTerm
)

var modeNames = map[string]Mode{
	"24bit":   Mode24bit,
	"256":     Mode256Color,
	"nocolor": ModeNoColor,
	"iterm":   ModeITerm,
	"rasterm": ModeRasTerm,
}

// ParseMode parses one of "24bit", "256", "nocolor", "iterm" or "rasterm".
func ParseMode(s string) (Mode, error) {
	m, ok := modeNames[strings.ToLower(s)]
	if !ok {
		return 0, errors.Errorf("imageprint: unknown mode %q", s)
	}
	return m, nil
}

func (m Mode) String() string {
	for name, mode := range modeNames {
		if mode == m {
			return name
		}
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Native reports whether the mode sends the image itself rather than one
// character cell per pixel.
func (m Mode) Native() bool {
	return m == ModeITerm || m == ModeRasTerm
}

// Printer draws images to W.
type Printer struct {
	W    io.Writer
	Mode Mode

	// Blanks uses colored blanks instead of some bad ascii art.
	Blanks bool
	// Name is the file name reported to iTerm.
	Name string
}

// Print draws i.
func (p *Printer) Print(i image.Image) error {
	switch p.Mode {
	case ModeITerm:
		return p.printITerm(i)
	case ModeRasTerm:
		return printRasTerm(p.W, i)
	}

	b := &bytes.Buffer{}
	r := i.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p.shade(b, i.At(x, y))
		}
		if p.Mode != ModeNoColor {
			b.WriteString("\x1b[0m")
		}
		b.WriteString("\n")
	}
	_, err := p.W.Write(b.Bytes())
	return err
}

func (p *Printer) cell(col ic.Color) string {
	if p.Blanks {
		return "  "
	}
	cR, cG, cB, _ := col.RGBA()
	a := ((cR + cG + cB) / 3) >> 8
	switch {
	case a < 32:
		return ".."
	case a < 64:
		return "--"
	case a < 128:
		return "=="
	default:
		return "##"
	}
}

func (p *Printer) shade(b *bytes.Buffer, col ic.Color) {
	_, _, _, cA := col.RGBA()
	if cA == 0 {
		if p.Mode == ModeNoColor {
			b.WriteString("  ")
		} else {
			b.WriteString("\x1b[0m  ")
		}
		return
	}

	c := ic.RGBAModel.Convert(col).(ic.RGBA)
	switch p.Mode {
	case ModeNoColor:
		b.WriteString(p.cell(col))
	case Mode256Color:
		b.WriteString(color.RGB(c.R, c.G, c.B, true).Sprint(p.cell(col)))
	default:
		fmt.Fprintf(b, "\x1b[48;2;%d;%d;%dm%s\x1b[0m", c.R, c.G, c.B, p.cell(col))
	}
}

// printITerm draws an image using iTerm2's escape sequences.
//
// https://www.iterm2.com/documentation-images.html
func (p *Printer) printITerm(i image.Image) error {
	fn := p.Name
	if fn == "" {
		fn = "image.png"
	}
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	if err := png.Encode(bEnc, i); err != nil {
		return errors.Wrap(err, "imageprint: encoding png")
	}
	bEnc.Close()
	_, err := fmt.Fprintf(p.W, "\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n", name, b.Len(), i.Bounds().Size().X, i.Bounds().Size().Y, b.String())
	return err
}
