package paths

import (
	"flag"
	"strings"
)

// SetupFilePathFlag creates a new string flag with the passed name with a sane
// default for the path to the file, if found using the Find function. If not,
// the flag defaults to an empty string.
func SetupFilePathFlag(fileName, flagName string, flagPtr *string) {
	flag.StringVar(flagPtr, flagName, Find(fileName), "Path to "+fileName)
}

// ListFlag is a comma separated list of paths, usable with flag.Var.
type ListFlag []string

func (l *ListFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *ListFlag) Set(s string) error {
	*l = nil
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			*l = append(*l, p)
		}
	}
	return nil
}

// SetupArchivesFlag registers a flag listing archives in priority order. Its
// default lists those of the passed names that Find locates.
func SetupArchivesFlag(flagName string, names []string, flagPtr *ListFlag) {
	for _, n := range names {
		if p := Find(n); p != "" {
			*flagPtr = append(*flagPtr, p)
		}
	}
	flag.Var(flagPtr, flagName, "Comma separated archives, highest priority first, e.g. "+strings.Join(names, ","))
}
