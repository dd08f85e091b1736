package slp

import (
	"bytes"
	"encoding/binary"
)

type testFrame struct {
	w, h   int32
	hx, hy int32
	edges  [][2]int16 // one per row; nil means {0,0} for every row
	cmds   []byte
}

// buildSprite lays out a sprite: header, frame table, then for each frame its
// row edge table, the reserved per-row command table and the command stream.
func buildSprite(version string, frames ...testFrame) []byte {
	buf := &bytes.Buffer{}
	var h Header
	copy(h.Version[:], version)
	h.FrameCount = int32(len(frames))
	copy(h.Comment[:], "test sprite")
	binary.Write(buf, binary.LittleEndian, h)

	cur := headerSize + len(frames)*frameRecordSize
	var body bytes.Buffer
	for _, f := range frames {
		rows := int(f.h)
		if rows < 0 {
			rows = 0
		}
		fi := FrameInfo{
			OutlineTableOffset: uint32(cur),
			CmdTableOffset:     uint32(cur + rows*rowEdgeSize),
			Width:              f.w,
			Height:             f.h,
			HotspotX:           f.hx,
			HotspotY:           f.hy,
		}
		binary.Write(buf, binary.LittleEndian, fi)

		for y := 0; y < rows; y++ {
			var e [2]int16
			if f.edges != nil {
				e = f.edges[y]
			}
			binary.Write(&body, binary.LittleEndian, e)
		}
		body.Write(make([]byte, rows*4))
		body.Write(f.cmds)
		cur += rows*rowEdgeSize + rows*4 + len(f.cmds)
	}
	buf.Write(body.Bytes())
	return buf.Bytes()
}

// Command stream builders.

func fillRun(lit ...byte) []byte {
	if len(lit) < 64 {
		return append([]byte{byte(len(lit)) << 2}, lit...)
	}
	return append([]byte{0x00, byte(len(lit))}, lit...)
}

func skipRun(n int) []byte {
	if n < 64 {
		return []byte{byte(n)<<2 | 0x01}
	}
	return []byte{0x01, byte(n)}
}

func largeFillRun(lit ...byte) []byte {
	n := len(lit)
	return append([]byte{byte(n>>4)&0xF0 | 0x02, byte(n)}, lit...)
}

func largeSkipRun(n int) []byte {
	return []byte{byte(n>>4)&0xF0 | 0x03, byte(n)}
}

func playerRun(lit ...byte) []byte {
	if len(lit) < 16 {
		return append([]byte{byte(len(lit))<<4 | 0x06}, lit...)
	}
	return append([]byte{0x06, byte(len(lit))}, lit...)
}

func colorFill(n int, c byte) []byte {
	return []byte{byte(n)<<4 | 0x07, c}
}

func playerFill(n int, c byte) []byte {
	return []byte{byte(n)<<4 | 0x0A, c}
}

func shadowRun(n int) []byte {
	return []byte{byte(n)<<4 | 0x0B}
}

func eor() []byte {
	return []byte{endOfRow}
}

func cat(parts ...[]byte) []byte {
	var b []byte
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}
