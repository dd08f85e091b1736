package assets

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-genie/drs"
)

func mustSet(archives ...[]byte) *drs.Set {
	set := drs.NewSet()
	for i, b := range archives {
		a, err := drs.Open(b, nil)
		if err != nil {
			panic(err)
		}
		set.Add(fmt.Sprintf("archive%d.drs", i), a)
	}
	return set
}

// memProvider serves files from memory.
type memProvider map[string][]byte

func (m memProvider) ReadFile(name string) ([]byte, error) {
	b, ok := m[name]
	if !ok {
		return nil, errors.Wrap(os.ErrNotExist, name)
	}
	return b, nil
}
