package slp

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// window is a bounds-checked view of part of the sprite buffer. Every read
// checks the requested range against the window before touching the bytes.
type window struct {
	buf   []byte
	start int
	n     int
}

func newWindow(buf []byte, start, n uint64) (window, error) {
	if start > uint64(len(buf)) || n > uint64(len(buf))-start {
		return window{}, errors.Wrapf(ErrTruncated, "range %d+%d exceeds %d byte buffer", start, n, len(buf))
	}
	return window{buf: buf, start: int(start), n: int(n)}, nil
}

func (w window) check(off, n int) error {
	if off < 0 || n < 0 || off > w.n || n > w.n-off {
		return errors.Wrapf(ErrTruncated, "read %d+%d outside window of %d bytes at %d", off, n, w.n, w.start)
	}
	return nil
}

func (w window) bytes(off, n int) ([]byte, error) {
	if err := w.check(off, n); err != nil {
		return nil, err
	}
	s := w.start + off
	return w.buf[s : s+n : s+n], nil
}

func (w window) u8(off int) (uint8, error) {
	if err := w.check(off, 1); err != nil {
		return 0, err
	}
	return w.buf[w.start+off], nil
}

func (w window) i16(off int) (int16, error) {
	b, err := w.bytes(off, 2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

// stream is a forward cursor over a window, used for the command stream.
type stream struct {
	w   window
	pos int
}

func (s *stream) next() (byte, error) {
	b, err := s.w.u8(s.pos)
	if err != nil {
		return 0, err
	}
	s.pos++
	return b, nil
}

func (s *stream) peek() (byte, bool) {
	b, err := s.w.u8(s.pos)
	return b, err == nil
}

func (s *stream) take(n int) ([]byte, error) {
	b, err := s.w.bytes(s.pos, n)
	if err != nil {
		return nil, err
	}
	s.pos += n
	return b, nil
}

// seek moves the cursor just past the next occurrence of c, reporting
// whether one was found.
func (s *stream) seek(c byte) bool {
	for i := s.pos; i < s.w.n; i++ {
		if s.w.buf[s.w.start+i] == c {
			s.pos = i + 1
			return true
		}
	}
	s.pos = s.w.n
	return false
}

// offset returns the absolute buffer offset of the cursor.
func (s *stream) offset() int {
	return s.w.start + s.pos
}
