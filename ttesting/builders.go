package ttesting

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Resource type codes, as stored in archive list records.
const (
	TypeSLP  = 0x736c7020
	TypeBINA = 0x62696e61
)

// tribeMagic is the header prefix of archives written by the original tools.
const tribeMagic = "Copyright (c) 1997 Ensemble Studios.\x1a\x00\x00\x00" + "1.00" + "tribe\x00\x00\x00\x00\x00\x00\x00"

// Entry is one resource stored by Archive.
type Entry struct {
	Type uint32
	ID   uint32
	Data []byte
}

// Archive lays out a well-formed archive holding the passed entries, with
// one resource list per type in order of first appearance.
func Archive(entries ...Entry) []byte {
	var types []uint32
	byType := map[uint32][]Entry{}
	for _, e := range entries {
		if _, ok := byType[e.Type]; !ok {
			types = append(types, e.Type)
		}
		byType[e.Type] = append(byType[e.Type], e)
	}

	const header, record = 64, 12
	tableEnd := header + len(types)*record + len(entries)*record

	buf := &bytes.Buffer{}
	buf.WriteString(tribeMagic)
	binary.Write(buf, binary.LittleEndian, []uint32{uint32(len(types)), uint32(tableEnd)})

	itemTable := header + len(types)*record
	for _, t := range types {
		binary.Write(buf, binary.LittleEndian, []uint32{t, uint32(itemTable), uint32(len(byType[t]))})
		itemTable += len(byType[t]) * record
	}
	payload := tableEnd
	for _, t := range types {
		for _, e := range byType[t] {
			binary.Write(buf, binary.LittleEndian, []uint32{e.ID, uint32(payload), uint32(len(e.Data))})
			payload += len(e.Data)
		}
	}
	for _, t := range types {
		for _, e := range byType[t] {
			buf.Write(e.Data)
		}
	}
	return buf.Bytes()
}

// Sprite lays out a "2.0N" sprite whose frames are one row high and width
// pixels wide, one frame per passed command stream.
func Sprite(width int32, rows ...[]byte) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("2.0N")
	binary.Write(buf, binary.LittleEndian, int32(len(rows)))
	buf.Write(make([]byte, 24))

	cur := 32 + len(rows)*32
	var body bytes.Buffer
	for _, cmds := range rows {
		// command table, row edge table, palette offset, properties
		binary.Write(buf, binary.LittleEndian, []uint32{uint32(cur + 4), uint32(cur), 0, 0})
		binary.Write(buf, binary.LittleEndian, []int32{width, 1, 0, 0})
		body.Write(make([]byte, 8))
		body.Write(cmds)
		cur += 8 + len(cmds)
	}
	buf.Write(body.Bytes())
	return buf.Bytes()
}

// Palette renders a JASC-PAL text palette with CRLF line endings.
func Palette(colors ...[3]uint8) []byte {
	b := &bytes.Buffer{}
	fmt.Fprintf(b, "JASC-PAL\r\n0100\r\n%d\r\n", len(colors))
	for _, c := range colors {
		fmt.Fprintf(b, "%d %d %d\r\n", c[0], c[1], c[2])
	}
	return b.Bytes()
}
