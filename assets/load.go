package assets

import (
	"github.com/cespare/xxhash/v2"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-genie/drs"
	"badc0de.net/pkg/go-genie/paths"
)

// Load reads the named archives from p and returns them as a set, in the
// passed priority order. An archive whose contents are identical to one
// already loaded is skipped.
func Load(p paths.Provider, opts *drs.Options, names ...string) (*drs.Set, error) {
	set := drs.NewSet()
	seen := make(map[uint64]string, len(names))
	for _, name := range names {
		b, err := p.ReadFile(name)
		if err != nil {
			return nil, errors.Wrapf(err, "loading archive %q", name)
		}
		sum := xxhash.Sum64(b)
		if prev, ok := seen[sum]; ok {
			glog.Warningf("assets: %q has the same contents as %q, skipping", name, prev)
			continue
		}
		seen[sum] = name

		a, err := drs.Open(b, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "opening archive %q", name)
		}
		glog.V(1).Infof("assets: loaded %q: %d lists, %d bytes", name, len(a.Lists()), a.Len())
		set.Add(name, a)
	}
	return set, nil
}
