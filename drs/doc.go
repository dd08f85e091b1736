// Package drs implements a reader for DRS resource archives.
//
// A DRS archive bundles many resources (sprites, sounds, palettes) into one
// file. Its directory is a list of typed resource lists, each of which lists
// items by numeric id, offset and size. Archives are opened over a byte slice
// that is already resident in memory; the package never performs I/O and never
// copies the archive bytes.
//
// Several archives may be combined into a Set, which resolves (type, id) pairs
// by trying archives in the order they were added.
package drs
