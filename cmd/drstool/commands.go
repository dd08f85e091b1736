package main

import (
	"fmt"
	"image/gif"
	"image/png"
	"os"
	"text/tabwriter"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"badc0de.net/pkg/go-genie/assets"
	"badc0de.net/pkg/go-genie/drs"
	"badc0de.net/pkg/go-genie/paths"
	"badc0de.net/pkg/go-genie/slp"
)

// open loads the archives named on the command line, highest priority
// first.
func open(c *cli.Context, opts *slp.Options) (*assets.Library, error) {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
	set, err := assets.Load(paths.Dirs(paths.DefaultDirs()), nil, c.Args().Slice()...)
	if err != nil {
		return nil, err
	}
	return assets.New(set, &assets.Options{SLP: opts})
}

func listAction(c *cli.Context) error {
	lib, err := open(c, nil)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	names, archives := lib.Set().Archives()

	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)
	defer tw.Flush()
	for i, a := range archives {
		h := a.Header()
		fmt.Fprintf(tw, "%s\tversion %s\t%d lists\n", names[i], h.Version(), h.ListCount)
		for _, l := range a.Lists() {
			for _, it := range l.Items {
				shadowed := ""
				if where, _ := lib.Set().Locate(l.Type, it.ID); where != names[i] {
					shadowed = "shadowed by " + where
				}
				fmt.Fprintf(tw, "\t%s\t%d\t%d\t%d\t%s\n", l.Type, it.ID, it.Offset, it.Size, shadowed)
			}
		}
	}
	return nil
}

func extractAction(c *cli.Context) error {
	t, err := drs.ParseResourceType(c.String("type"))
	if err != nil {
		return cli.NewExitError(err, 2)
	}
	lib, err := open(c, nil)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	b, err := lib.Set().Item(t, uint32(c.Uint("id")))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := os.WriteFile(c.String("out"), b, 0644); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

type export struct {
	lib     *assets.Library
	id      uint32
	slot    int
	palette uint32
	scale   uint
}

func newExport(c *cli.Context) (*export, error) {
	lib, err := open(c, nil)
	if err != nil {
		return nil, err
	}
	e := &export{
		lib:     lib,
		id:      uint32(c.Uint("id")),
		slot:    c.Int("player"),
		palette: uint32(c.Uint("pal")),
		scale:   c.Uint("scale"),
	}
	if e.scale == 0 {
		return nil, errors.New("scale must be at least 1")
	}
	return e, nil
}

func writeFile(name string, encode func(f *os.File) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func pngAction(c *cli.Context) error {
	e, err := newExport(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	img, err := e.lib.Image(e.id, c.Int("frame"), e.slot)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	p, err := e.lib.Palette(e.palette)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	out := scale(img.RGBA(p.ColorPalette()), e.scale)
	err = writeFile(c.String("out"), func(f *os.File) error { return png.Encode(f, out) })
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func gifAction(c *cli.Context) error {
	e, err := newExport(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	s, err := e.lib.Sprite(e.id)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	imgs := make([]*slp.Image, s.FrameCount())
	for i := range imgs {
		if imgs[i], err = e.lib.Image(e.id, i, e.slot); err != nil {
			return cli.NewExitError(err, 1)
		}
	}
	p, err := e.lib.Palette(e.palette)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	g, err := animate(imgs, p.ColorPalette(), e.scale, c.Int("delay"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	err = writeFile(c.String("out"), func(f *os.File) error { return gif.EncodeAll(f, g) })
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

// validateAction decodes every sprite of every archive with strict options,
// so that anything the lenient decoder would recover from is reported.
func validateAction(c *cli.Context) error {
	lib, err := open(c, &slp.Options{Strict: true})
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	_, archives := lib.Set().Archives()

	bad, total := 0, 0
	seen := map[uint32]bool{}
	for _, a := range archives {
		for _, l := range a.Lists() {
			if l.Type != drs.TypeSLP {
				continue
			}
			for _, it := range l.Items {
				if seen[it.ID] {
					continue
				}
				seen[it.ID] = true
				total++
				if errs := validate(lib, it.ID); len(errs) > 0 {
					bad++
					for _, err := range errs {
						fmt.Printf("slp %d: %v\n", it.ID, err)
					}
				}
			}
		}
	}
	glog.Infof("validated %d sprites, %d with errors", total, bad)
	if bad > 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d sprites failed validation", bad, total), 1)
	}
	return nil
}

func validate(lib *assets.Library, id uint32) []error {
	s, err := lib.Sprite(id)
	if err != nil {
		return []error{err}
	}
	var errs []error
	for i := 0; i < s.FrameCount(); i++ {
		if _, err := s.DecodeFrame(i); err != nil {
			errs = append(errs, errors.Wrapf(err, "frame %d", i))
		}
	}
	return errs
}
