// Package ttesting contains assertion helpers shared by the format packages'
// tests. Each assertion runs as a named subtest so failures read like a
// checklist.
package ttesting

import (
	"bytes"
	"testing"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualUint8(t *testing.T, name string, got, want uint8) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got 0x%02x; want 0x%02x", got, want)
		}
	})
}

func AssertEqualBool(t *testing.T, name string, got, want bool) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %t; want %t", got, want)
		}
	})
}

// AssertEqualPixels compares two index buffers and reports the first
// differing offset.
func AssertEqualPixels(t *testing.T, name string, got, want []uint8) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if bytes.Equal(got, want) {
			return
		}
		if len(got) != len(want) {
			t.Errorf("got %d pixels; want %d", len(got), len(want))
			return
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("pixel %d: got 0x%02x; want 0x%02x (got %x, want %x)", i, got[i], want[i], got, want)
				return
			}
		}
	})
}
