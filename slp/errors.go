package slp

import (
	"fmt"

	"github.com/pkg/errors"
)

// Structural errors. They abort decoding of the sprite or frame they occur in.
var (
	ErrBadVersion        = errors.New("slp: unrecognized version")
	ErrTruncated         = errors.New("slp: truncated")
	ErrBadFrameCount     = errors.New("slp: bad frame count")
	ErrNegativeDimension = errors.New("slp: negative frame dimension")
	ErrBadOutline        = errors.New("slp: bad row edge")
	ErrFrameCorrupt      = errors.New("slp: frame corrupt")
)

// Content errors. They are recovered from inside the decoder unless
// Options.Strict is set.
var (
	ErrBadOpcode   = errors.New("slp: unrecognized opcode")
	ErrRowOverflow = errors.New("slp: run overflows row")
)

// Lookup errors.
var (
	ErrNoFrames = errors.New("slp: sprite has no frames")
	ErrBadSlot  = errors.New("slp: player slot out of range")
)

// IsStructural reports whether err is a structural error, i.e. one that made
// a sprite or frame undecodable as opposed to a recoverable content defect.
func IsStructural(err error) bool {
	for _, e := range []error{ErrBadVersion, ErrTruncated, ErrBadFrameCount, ErrNegativeDimension, ErrBadOutline, ErrFrameCorrupt} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// ContentError describes a defect in a frame's command stream that the
// decoder recovered from.
type ContentError struct {
	Frame  int
	Row    int
	Offset int // Offset of the offending opcode in the sprite bytes.
	Opcode byte
	Err    error
}

func (e ContentError) Error() string {
	return fmt.Sprintf("%v: frame %d row %d: opcode 0x%02x at offset %d", e.Err, e.Frame, e.Row, e.Opcode, e.Offset)
}

func (e ContentError) Unwrap() error {
	return e.Err
}
