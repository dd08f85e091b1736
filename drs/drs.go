package drs

// This file contains code directly related to decoding the drs container
// format: the header, the resource list table and the item tables.

import (
	"bytes"
	"encoding/binary"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var (
	ErrBadHeader     = errors.New("drs: bad header")
	ErrBadListOffset = errors.New("drs: resource list offset out of range")
	ErrBadList       = errors.New("drs: resource list item table truncated")
	ErrBadItem       = errors.New("drs: item extends past end of archive")
	ErrNotFound      = errors.New("drs: item not found")
)

const (
	magicSize      = 56
	headerSize     = magicSize + 4 + 4
	listRecordSize = 12
	itemRecordSize = 12
)

// MagicTribe is the header prefix written by the 1997 Ensemble Studios tools:
// a 40 byte copyright banner, the "1.00" version and the "tribe" file type.
var MagicTribe = []byte("Copyright (c) 1997 Ensemble Studios.\x1a\x00\x00\x00" + "1.00" + "tribe\x00\x00\x00\x00\x00\x00\x00")

// Options configures how archives are opened. A nil *Options is valid and
// uses the defaults.
type Options struct {
	// Magics lists the accepted header prefixes. Each must be exactly 56
	// bytes long. Defaults to MagicTribe.
	Magics [][]byte
}

func (o *Options) magics() [][]byte {
	if o == nil || len(o.Magics) == 0 {
		return [][]byte{MagicTribe}
	}
	return o.Magics
}

// Header is the fixed-size header at the start of every archive.
type Header struct {
	Magic        [magicSize]byte
	ListCount    uint32
	ListTableEnd uint32 // Offset of the first payload byte.
}

// Version returns the version field embedded in the magic, e.g. "1.00".
func (h Header) Version() string {
	return string(h.Magic[40:44])
}

// ResourceList is a directory entry grouping all items of one type.
type ResourceList struct {
	Type            ResourceType
	ItemTableOffset uint32
	ItemCount       uint32

	Items []Item
}

// Item is a single resource in a list.
type Item struct {
	ID     uint32
	Offset uint32
	Size   uint32
}

type listRecord struct {
	Type            ResourceType
	ItemTableOffset uint32
	ItemCount       uint32
}

// Archive is an immutable view over the bytes of one DRS file.
//
// The archive borrows the slice passed to Open; the caller keeps ownership
// and must not modify it while the archive is in use.
type Archive struct {
	data   []byte
	header Header
	lists  []ResourceList
}

// Open verifies the header of the passed archive bytes and parses its
// resource lists and item tables.
//
// Every offset is validated against len(b) before it is used, so a
// truncated or corrupt archive yields an error rather than an out of range
// read.
func Open(b []byte, opts *Options) (*Archive, error) {
	if len(b) < headerSize {
		return nil, errors.Wrapf(ErrBadHeader, "archive is %d bytes, want at least %d", len(b), headerSize)
	}

	ok := false
	for _, m := range opts.magics() {
		if bytes.Equal(b[:magicSize], m) {
			ok = true
			break
		}
	}
	if !ok {
		return nil, errors.Wrapf(ErrBadHeader, "unrecognized magic %q", b[:magicSize])
	}

	a := &Archive{data: b}
	if err := binary.Read(bytes.NewReader(b[:headerSize]), binary.LittleEndian, &a.header); err != nil {
		return nil, errors.Wrap(ErrBadHeader, err.Error())
	}
	if err := a.parseLists(); err != nil {
		return nil, err
	}
	glog.V(2).Infof("drs: opened archive: version %q, %d lists, %d bytes", a.header.Version(), len(a.lists), len(b))
	return a, nil
}

// parseLists reads the resource list records following the header, then each
// list's item table.
func (a *Archive) parseLists() error {
	n := uint64(a.header.ListCount)
	size := uint64(len(a.data))
	if headerSize+n*listRecordSize > size {
		return errors.Wrapf(ErrBadHeader, "list table of %d lists does not fit in %d bytes", n, size)
	}

	a.lists = make([]ResourceList, 0, n)
	for i := uint64(0); i < n; i++ {
		off := headerSize + i*listRecordSize
		var rec listRecord
		if err := binary.Read(bytes.NewReader(a.data[off:off+listRecordSize]), binary.LittleEndian, &rec); err != nil {
			return errors.Wrapf(ErrBadHeader, "reading list %d: %v", i, err)
		}
		if uint64(rec.ItemTableOffset) > size {
			return errors.Wrapf(ErrBadListOffset, "list %d (%s): item table at %d, archive is %d bytes", i, rec.Type, rec.ItemTableOffset, size)
		}

		list := ResourceList{
			Type:            rec.Type,
			ItemTableOffset: rec.ItemTableOffset,
			ItemCount:       rec.ItemCount,
		}
		for k := uint64(0); k < uint64(rec.ItemCount); k++ {
			start := uint64(rec.ItemTableOffset) + k*itemRecordSize
			if start+itemRecordSize > size {
				return errors.Wrapf(ErrBadList, "list %d (%s): item %d of %d at %d", i, rec.Type, k, rec.ItemCount, start)
			}
			var item Item
			if err := binary.Read(bytes.NewReader(a.data[start:start+itemRecordSize]), binary.LittleEndian, &item); err != nil {
				return errors.Wrapf(ErrBadList, "list %d (%s): reading item %d: %v", i, rec.Type, k, err)
			}
			if uint64(item.Offset)+uint64(item.Size) > size {
				return errors.Wrapf(ErrBadItem, "list %d (%s): item %d: %d+%d exceeds %d", i, rec.Type, item.ID, item.Offset, item.Size, size)
			}
			list.Items = append(list.Items, item)
		}
		a.lists = append(a.lists, list)
	}
	return nil
}

// Header returns the archive header.
func (a *Archive) Header() Header {
	return a.header
}

// Lists returns the resource lists in file order.
func (a *Archive) Lists() []ResourceList {
	return a.lists
}

// Len returns the size of the archive in bytes.
func (a *Archive) Len() int {
	return len(a.data)
}

// Lookup finds the byte range of the item with the passed type and id.
//
// It scans linearly; callers that look up the same items repeatedly should
// cache the result (Set does).
func (a *Archive) Lookup(t ResourceType, id uint32) (offset, size uint32, ok bool) {
	for _, l := range a.lists {
		if l.Type != t {
			continue
		}
		for _, item := range l.Items {
			if item.ID == id {
				return item.Offset, item.Size, true
			}
		}
	}
	return 0, 0, false
}

// Item returns the bytes of the item with the passed type and id. The
// returned slice aliases the archive bytes and has its capacity clipped to
// the item size.
func (a *Archive) Item(t ResourceType, id uint32) ([]byte, error) {
	off, size, ok := a.Lookup(t, id)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%s %d", t, id)
	}
	return a.slice(off, size), nil
}

func (a *Archive) slice(off, size uint32) []byte {
	end := uint64(off) + uint64(size)
	return a.data[off:end:end]
}
