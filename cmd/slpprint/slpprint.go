// Command slpprint prints frames of a sprite stored in the game archives on
// the terminal.
package main

import (
	"flag"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/pkg/profile"

	"badc0de.net/pkg/go-genie/assets"
	"badc0de.net/pkg/go-genie/imageprint"
	"badc0de.net/pkg/go-genie/pal"
	"badc0de.net/pkg/go-genie/paths"
	"badc0de.net/pkg/go-genie/slp"
)

var (
	slpID     = flag.Uint("slp", 0, "id of the sprite to print")
	frameIdx  = flag.Int("frame", 0, "frame to print; wraps around the frame count")
	allFrames = flag.Bool("all", false, "print every frame instead of just -frame")
	player    = flag.Int("player", slp.NeutralSlot, "player color slot, 0 to 7, or 8 for no player color")
	paletteID = flag.Uint("pal", 50500, "id of the bina resource holding the palette")
	mode      = flag.String("mode", "24bit", "output mode: 24bit, 256, nocolor, iterm or rasterm")
	blanks    = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	kinds     = flag.Bool("kinds", false, "print which kind of command drew each pixel instead of colors")
	downsize  = flag.Bool("downsize", true, "whether to shrink images that do not fit the terminal")
	strict    = flag.Bool("strict", false, "fail on unknown opcodes and overflowing rows instead of recovering")
	cpuProf   = flag.Bool("profile", false, "write a cpu profile into the current directory")

	archives paths.ListFlag
	palFile  string
)

func setupFilePathFlags() {
	paths.SetupArchivesFlag("archives", []string{"graphics.drs", "interfac.drs", "terrain.drs"}, &archives)
	paths.SetupFilePathFlag("palette.pal", "pal_file", &palFile)
}

func loadPalette(lib *assets.Library) (*pal.Palette, error) {
	if palFile == "" {
		return lib.Palette(uint32(*paletteID))
	}
	b, err := paths.ReadFile(palFile)
	if err != nil {
		return nil, err
	}
	return pal.Parse(b)
}

func run() error {
	m, err := imageprint.ParseMode(*mode)
	if err != nil {
		return err
	}
	if len(archives) == 0 {
		return errors.New("no archives found; pass -archives")
	}

	set, err := assets.Load(paths.Dirs(paths.DefaultDirs()), nil, archives...)
	if err != nil {
		return err
	}
	lib, err := assets.New(set, &assets.Options{SLP: &slp.Options{Strict: *strict}})
	if err != nil {
		return err
	}
	s, err := lib.Sprite(uint32(*slpID))
	if err != nil {
		return err
	}
	glog.Infof("slp %d: version %s, %d frames, dynamic=%t", *slpID, s.Version(), s.FrameCount(), s.Dynamic())

	var p *pal.Palette
	if !*kinds {
		if p, err = loadPalette(lib); err != nil {
			return errors.Wrap(err, "loading palette")
		}
	}

	frames := []int{*frameIdx}
	if *allFrames {
		frames = frames[:0]
		for i := 0; i < s.FrameCount(); i++ {
			frames = append(frames, i)
		}
	}
	pr := &imageprint.Printer{W: os.Stdout, Mode: m, Blanks: *blanks}
	for _, fr := range frames {
		img, err := lib.Image(uint32(*slpID), fr, *player)
		if err != nil {
			return err
		}
		if err := out(pr, img, p); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	setupFilePathFlags()
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	var prof interface{ Stop() }
	if *cpuProf {
		prof = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	}
	err := run()
	if prof != nil {
		prof.Stop()
	}
	if err != nil {
		glog.Errorf("slpprint: %v", err)
		os.Exit(1)
	}
}
