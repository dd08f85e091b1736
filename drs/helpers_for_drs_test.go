package drs

import (
	"bytes"
	"encoding/binary"
)

type testItem struct {
	id   uint32
	data []byte
}

type testList struct {
	typ   ResourceType
	items []testItem
}

// buildArchive lays out a well-formed archive: header, list records, item
// tables, then the payloads in list order.
func buildArchive(lists ...testList) []byte {
	nItems := 0
	for _, l := range lists {
		nItems += len(l.items)
	}
	tableEnd := headerSize + len(lists)*listRecordSize + nItems*itemRecordSize

	buf := &bytes.Buffer{}
	buf.Write(MagicTribe)
	binary.Write(buf, binary.LittleEndian, uint32(len(lists)))
	binary.Write(buf, binary.LittleEndian, uint32(tableEnd))

	itemTable := headerSize + len(lists)*listRecordSize
	for _, l := range lists {
		binary.Write(buf, binary.LittleEndian, listRecord{Type: l.typ, ItemTableOffset: uint32(itemTable), ItemCount: uint32(len(l.items))})
		itemTable += len(l.items) * itemRecordSize
	}

	payload := tableEnd
	for _, l := range lists {
		for _, it := range l.items {
			binary.Write(buf, binary.LittleEndian, Item{ID: it.id, Offset: uint32(payload), Size: uint32(len(it.data))})
			payload += len(it.data)
		}
	}
	for _, l := range lists {
		for _, it := range l.items {
			buf.Write(it.data)
		}
	}
	return buf.Bytes()
}

func putUint32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}
