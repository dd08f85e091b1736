package assets

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-genie/drs"
	"badc0de.net/pkg/go-genie/slp"
	"badc0de.net/pkg/go-genie/ttesting"
)

var (
	// Two frames of two plain pixels each.
	plainSprite = ttesting.Sprite(2,
		[]byte{0x08, 0x05, 0x06, 0x0F},
		[]byte{0x08, 0x07, 0x08, 0x0F},
	)
	// One frame with a single player colored pixel.
	playerSprite = ttesting.Sprite(1, []byte{0x16, 0x05, 0x0F})

	grayPalette = ttesting.Palette([3]uint8{0, 0, 0}, [3]uint8{255, 128, 0})
)

func newLibrary(t *testing.T, set *drs.Set) *Library {
	t.Helper()
	l, err := New(set, nil)
	require.NoError(t, err)
	return l
}

func TestSpriteIsCached(t *testing.T) {
	l := newLibrary(t, mustSet(ttesting.Archive(ttesting.Entry{Type: ttesting.TypeSLP, ID: 1, Data: plainSprite})))

	a, err := l.Sprite(1)
	require.NoError(t, err)
	b, err := l.Sprite(1)
	require.NoError(t, err)
	assert.True(t, a == b, "second lookup should return the cached sprite")
	assert.Equal(t, 2, a.FrameCount())

	_, err = l.Sprite(2)
	assert.True(t, errors.Is(err, drs.ErrNotFound))
}

func TestImageOfPlainSprite(t *testing.T) {
	l := newLibrary(t, mustSet(ttesting.Archive(ttesting.Entry{Type: ttesting.TypeSLP, ID: 1, Data: plainSprite})))

	k, _, err := l.Key(1, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, ImageKey{Sprite: 1, Frame: 1, Slot: slp.NeutralSlot}, k)
	assert.Equal(t, "1/1/8", k.String())

	img, err := l.Image(1, 0, 0)
	require.NoError(t, err)
	ttesting.AssertEqualPixels(t, "frame 0", img.Pix, []uint8{0x05, 0x06})

	// Every slot and every wrapped counter share the cached image.
	for _, req := range [][2]int{{0, 5}, {0, slp.NeutralSlot}, {2, 1}, {-2, 0}} {
		other, err := l.Image(1, req[0], req[1])
		require.NoError(t, err)
		assert.True(t, img == other, "frame %d slot %d", req[0], req[1])
	}
	assert.Equal(t, 1, l.CachedImages())

	img, err = l.Image(1, 1, 0)
	require.NoError(t, err)
	ttesting.AssertEqualPixels(t, "frame 1", img.Pix, []uint8{0x07, 0x08})
	assert.Equal(t, 2, l.CachedImages())
}

func TestImageOfPlayerSprite(t *testing.T) {
	l := newLibrary(t, mustSet(ttesting.Archive(ttesting.Entry{Type: ttesting.TypeSLP, ID: 7, Data: playerSprite})))

	want := map[int]uint8{0: 0x15, 2: 0x35, 7: 0x85, slp.NeutralSlot: 0x05}
	for slot, idx := range want {
		img, err := l.Image(7, 0, slot)
		require.NoError(t, err)
		ttesting.AssertEqualUint8(t, "slot", img.Pix[0], idx)
	}
	assert.Equal(t, len(want), l.CachedImages())
}

func TestImageRejectsBadSlot(t *testing.T) {
	l := newLibrary(t, mustSet(ttesting.Archive(ttesting.Entry{Type: ttesting.TypeSLP, ID: 1, Data: plainSprite})))

	for _, slot := range []int{-1, slp.Variants} {
		_, err := l.Image(1, 0, slot)
		assert.True(t, errors.Is(err, slp.ErrBadSlot), "slot %d: %v", slot, err)
	}
	assert.Equal(t, 0, l.CachedImages())
}

func TestImageConcurrentRequestsShareOneDecode(t *testing.T) {
	l := newLibrary(t, mustSet(ttesting.Archive(ttesting.Entry{Type: ttesting.TypeSLP, ID: 7, Data: playerSprite})))

	const n = 32
	got := make([]*slp.Image, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			img, err := l.Image(7, 0, 3)
			assert.NoError(t, err)
			got[i] = img
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.True(t, got[0] == got[i], "request %d got a different image", i)
	}
	assert.Equal(t, 1, l.CachedImages())
}

func TestReloadDropsCaches(t *testing.T) {
	l := newLibrary(t, mustSet(ttesting.Archive(ttesting.Entry{Type: ttesting.TypeSLP, ID: 1, Data: plainSprite})))
	img, err := l.Image(1, 0, 0)
	require.NoError(t, err)
	require.Equal(t, uint8(0x05), img.Pix[0])

	patched := ttesting.Sprite(2, []byte{0x08, 0x09, 0x0A, 0x0F})
	l.Reload(mustSet(
		ttesting.Archive(ttesting.Entry{Type: ttesting.TypeSLP, ID: 1, Data: patched}),
		ttesting.Archive(ttesting.Entry{Type: ttesting.TypeSLP, ID: 1, Data: plainSprite}),
	))
	assert.Equal(t, 0, l.CachedImages())
	assert.Equal(t, 2, l.Set().Len())

	img, err = l.Image(1, 0, 0)
	require.NoError(t, err)
	ttesting.AssertEqualPixels(t, "patched frame", img.Pix, []uint8{0x09, 0x0A})

	s, err := l.Sprite(1)
	require.NoError(t, err)
	assert.Equal(t, 1, s.FrameCount())
}

func TestPalette(t *testing.T) {
	l := newLibrary(t, mustSet(ttesting.Archive(
		ttesting.Entry{Type: ttesting.TypeBINA, ID: 50500, Data: grayPalette},
		ttesting.Entry{Type: ttesting.TypeBINA, ID: 50501, Data: []byte("not a palette")},
	)))

	p, err := l.Palette(50500)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, uint8(128), p.At(1).G)

	again, err := l.Palette(50500)
	require.NoError(t, err)
	assert.True(t, p == again)

	_, err = l.Palette(50501)
	assert.Error(t, err)
	_, err = l.Palette(1)
	assert.True(t, errors.Is(err, drs.ErrNotFound))
}

func TestLoad(t *testing.T) {
	base := ttesting.Archive(ttesting.Entry{Type: ttesting.TypeSLP, ID: 1, Data: plainSprite})
	patch := ttesting.Archive(ttesting.Entry{Type: ttesting.TypeSLP, ID: 7, Data: playerSprite})
	p := memProvider{
		"graphics.drs": base,
		"copy.drs":     base,
		"patch.drs":    patch,
		"broken.drs":   []byte("short"),
	}

	set, err := Load(p, nil, "patch.drs", "graphics.drs", "copy.drs")
	require.NoError(t, err)
	names, _ := set.Archives()
	assert.Equal(t, []string{"patch.drs", "graphics.drs"}, names)

	_, err = Load(p, nil, "graphics.drs", "missing.drs")
	assert.Error(t, err)
	_, err = Load(p, nil, "broken.drs")
	assert.True(t, errors.Is(err, drs.ErrBadHeader))
}
