// Package paths locates data files and reads them into memory for the format
// packages, which never perform I/O themselves.
package paths

import (
	"os"
	"path/filepath"

	"github.com/golang/glog"
)

// DataDirEnv names the environment variable that, when set, is searched
// before the built-in locations.
const DataDirEnv = "GENIE_DATA_DIR"

// DefaultDirs returns the directories Find searches, in order.
func DefaultDirs() []string {
	var dirs []string
	if d := os.Getenv(DataDirEnv); d != "" {
		dirs = append(dirs, d)
	}
	dirs = append(dirs,
		"data",
		"datafiles",
		os.Args[0]+".runfiles/go_genie/datafiles",
	)
	if td := os.Getenv("TEST_SRCDIR"); td != "" {
		dirs = append(dirs, filepath.Join(td, "go_genie", "datafiles"))
	}
	return dirs
}

// Find locates the passed datafile shortname and returns a path to find the
// datafile at, or an empty string if it is in none of the DefaultDirs.
//
// For example, for "graphics.drs" it may return "data/graphics.drs".
func Find(fileName string) string {
	return Dirs(DefaultDirs()).Find(fileName)
}

// Find returns the path of fileName in the first directory containing it.
// A compressed copy (fileName + ".zst") is accepted too.
func (d Dirs) Find(fileName string) string {
	for _, dir := range d {
		for _, name := range []string{fileName, fileName + zstdSuffix} {
			path := filepath.Join(dir, name)
			if st, err := os.Stat(path); err == nil && !st.IsDir() {
				glog.V(1).Infof("paths.Find(%q)=%s", fileName, path)
				return path
			}
		}
	}
	return ""
}
