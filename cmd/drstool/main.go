// Command drstool inspects game archives and exports the sprites stored in
// them.
package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/golang/glog"
	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"
)

var exportFlags = []cli.Flag{
	&cli.UintFlag{
		Name:     "id",
		Usage:    "sprite id",
		Required: true,
	},
	&cli.IntFlag{
		Name:  "player",
		Value: 8,
		Usage: "player color slot, 0 to 7, or 8 for no player color",
	},
	&cli.UintFlag{
		Name:  "pal",
		Value: 50500,
		Usage: "id of the bina resource holding the palette",
	},
	&cli.UintFlag{
		Name:  "scale",
		Value: 1,
		Usage: "integer scale factor",
	},
	&cli.StringFlag{
		Name:     "out",
		Aliases:  []string{"o"},
		Usage:    "output file",
		Required: true,
	},
}

func main() {
	app := cli.NewApp()

	app.Name = "drstool"
	app.Usage = "Inspect DRS archives and the sprites inside them"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:  "verbosity",
			Value: 0,
			Usage: "glog verbosity level",
		},
		&cli.BoolFlag{
			Name:  "profile",
			Usage: "write a cpu profile into the current directory",
		},
	}

	var prof interface{ Stop() }
	app.Before = func(c *cli.Context) error {
		flag.Set("logtostderr", "true")
		flag.Set("v", strconv.Itoa(c.Int("verbosity")))
		if c.Bool("profile") {
			prof = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		}
		return nil
	}
	app.After = func(c *cli.Context) error {
		if prof != nil {
			prof.Stop()
		}
		return nil
	}

	app.Commands = []*cli.Command{
		{
			Name:      "list",
			Usage:     "List the resources of every archive",
			ArgsUsage: "ARCHIVE...",
			Action:    listAction,
		},
		{
			Name:      "extract",
			Usage:     "Write the raw bytes of one resource, as resolved across the archives",
			ArgsUsage: "ARCHIVE...",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "type",
					Value: "slp",
					Usage: "resource type: slp, wav or bina",
				},
				&cli.UintFlag{
					Name:     "id",
					Usage:    "resource id",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "out",
					Aliases:  []string{"o"},
					Usage:    "output file",
					Required: true,
				},
			},
			Action: extractAction,
		},
		{
			Name:      "png",
			Usage:     "Export one frame of a sprite as PNG",
			ArgsUsage: "ARCHIVE...",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  "frame",
					Usage: "frame index; wraps around the frame count",
				},
			}, exportFlags...),
			Action: pngAction,
		},
		{
			Name:      "gif",
			Usage:     "Export every frame of a sprite as an animated GIF",
			ArgsUsage: "ARCHIVE...",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  "delay",
					Value: 10,
					Usage: "delay between frames in hundredths of a second",
				},
			}, exportFlags...),
			Action: gifAction,
		},
		{
			Name:      "validate",
			Usage:     "Decode every sprite strictly and report the frames that fail",
			ArgsUsage: "ARCHIVE...",
			Action:    validateAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		glog.Exit(err)
	}
}
