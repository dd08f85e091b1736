package imageprint

import (
	"bufio"
	"io"

	"badc0de.net/pkg/go-genie/slp"
)

var kindRunes = map[slp.PixelKind]byte{
	slp.KindTransparent: '.',
	slp.KindColor:       '#',
	slp.KindPlayer:      'P',
	slp.KindShadow:      's',
	slp.KindOutline:     'o',
	slp.KindShield:      'S',
}

// PrintKinds draws one character per pixel of m showing which kind of
// command produced it. Useful when there is no palette at hand.
func PrintKinds(w io.Writer, m *slp.Image) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < m.Height; y++ {
		for _, k := range m.Kind[y*m.Width : (y+1)*m.Width] {
			r, ok := kindRunes[k]
			if !ok {
				r = '?'
			}
			bw.WriteByte(r)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
