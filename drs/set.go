package drs

import (
	"sync"

	"github.com/pkg/errors"
)

type itemKey struct {
	Type ResourceType
	ID   uint32
}

// location records where an item lives. Misses are stored too, with found
// unset, until the next Add.
type location struct {
	found        bool
	archive      int
	offset, size uint32
}

// Set is an ordered collection of archives. Items are resolved by trying
// archives in the order they were added; the first archive containing an
// item wins.
//
// Set is safe for concurrent use.
type Set struct {
	mu       sync.RWMutex
	archives []*Archive
	names    []string
	index    map[itemKey]location
}

// NewSet returns an empty archive set.
func NewSet() *Set {
	return &Set{index: make(map[itemKey]location)}
}

// Add appends an archive to the search path. Archives added earlier take
// priority over archives added later.
func (s *Set) Add(name string, a *Archive) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archives = append(s.archives, a)
	s.names = append(s.names, name)
	s.index = make(map[itemKey]location)
}

// Len returns the number of archives in the set.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.archives)
}

// Archives returns the names and archives in priority order.
func (s *Set) Archives() ([]string, []*Archive) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.names...), append([]*Archive(nil), s.archives...)
}

func (s *Set) locate(t ResourceType, id uint32) (location, bool) {
	k := itemKey{t, id}

	s.mu.RLock()
	loc, ok := s.index[k]
	if ok {
		s.mu.RUnlock()
		return loc, loc.found
	}
	n := len(s.archives)
	for i, a := range s.archives {
		if off, size, ok := a.Lookup(t, id); ok {
			loc = location{found: true, archive: i, offset: off, size: size}
			break
		}
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	// Archives are only ever appended; a changed count means the index was
	// reset by Add and the scan above may be stale.
	if len(s.archives) == n {
		s.index[k] = loc
	}
	return loc, loc.found
}

// Item returns the bytes of the first item with the passed type and id found
// in the set.
func (s *Set) Item(t ResourceType, id uint32) ([]byte, error) {
	loc, ok := s.locate(t, id)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%s %d in %d archives", t, id, s.Len())
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.archives[loc.archive].slice(loc.offset, loc.size), nil
}

// Locate returns the name of the archive that Item would read the passed
// item from.
func (s *Set) Locate(t ResourceType, id uint32) (string, bool) {
	loc, ok := s.locate(t, id)
	if !ok {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.names[loc.archive], true
}
