package paths

import (
	"bytes"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

const zstdSuffix = ".zst"

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// Provider supplies the bytes of named data files.
type Provider interface {
	ReadFile(name string) ([]byte, error)
}

// Dirs is a Provider reading from an ordered list of directories; the first
// directory containing a file wins. Zstandard compressed files are inflated
// transparently.
type Dirs []string

// ReadFile reads the named file. Absolute paths and paths containing a
// directory separator are read as they are; bare names are searched for.
func (d Dirs) ReadFile(name string) ([]byte, error) {
	path := name
	if !strings.ContainsRune(name, os.PathSeparator) {
		if path = d.Find(name); path == "" {
			return nil, errors.Wrapf(os.ErrNotExist, "paths: %q not found in %d directories", name, len(d))
		}
	}
	return ReadFile(path)
}

// ReadFile reads the file at path, inflating it if it is zstd compressed.
func ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "paths: reading %q", path)
	}
	if !bytes.HasPrefix(b, zstdMagic) {
		return b, nil
	}
	b, err = inflate(b)
	if err != nil {
		return nil, errors.Wrapf(err, "paths: inflating %q", path)
	}
	return b, nil
}

func inflate(b []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(b, nil)
}
