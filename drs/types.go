package drs

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

// ResourceType identifies the kind of resources grouped in a resource list.
//
// On disk it is stored as a reversed four character extension, so reading it
// as a little-endian uint32 and printing it big-endian yields e.g. "slp ".
type ResourceType uint32

const (
	TypeSLP  ResourceType = 0x736c7020 // "slp "
	TypeWAVE ResourceType = 0x77617620 // "wav "
	TypeBINA ResourceType = 0x62696e61 // "bina"
)

// String returns the four character code of the type, e.g. "slp ". Types
// containing non-printable bytes are rendered in hex.
func (t ResourceType) String() string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(t))
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("0x%08x", uint32(t))
		}
	}
	return string(b[:])
}

// ParseResourceType converts a code such as "slp" or "wav " into a
// ResourceType. Codes shorter than four characters are padded with spaces.
func ParseResourceType(s string) (ResourceType, error) {
	if len(s) == 0 || len(s) > 4 {
		return 0, errors.Errorf("bad resource type %q: want 1 to 4 characters", s)
	}
	b := [4]byte{' ', ' ', ' ', ' '}
	copy(b[:], s)
	return ResourceType(binary.BigEndian.Uint32(b[:])), nil
}
