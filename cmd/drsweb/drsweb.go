// Command drsweb serves the sprites of the game archives over HTTP.
package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"badc0de.net/pkg/go-genie/assets"
	"badc0de.net/pkg/go-genie/paths"
	"badc0de.net/pkg/go-genie/web"
)

var (
	listenAddress = flag.String("listen_address", ":8080", "http listen address for drsweb")
	paletteID     = flag.Uint("pal", web.DefaultPalette, "id of the bina resource holding the default palette")
	imageCache    = flag.Int("image_cache", assets.DefaultImageCacheSize, "number of decoded images to keep")
	spriteCache   = flag.Int("sprite_cache", assets.DefaultSpriteCacheSize, "number of parsed sprites to keep")

	archives paths.ListFlag
)

func load(lib *assets.Library) error {
	set, err := assets.Load(paths.Dirs(paths.DefaultDirs()), nil, archives...)
	if err != nil {
		return err
	}
	lib.Reload(set)
	return nil
}

func main() {
	paths.SetupArchivesFlag("archives", []string{"graphics.drs", "interfac.drs", "terrain.drs", "sounds.drs"}, &archives)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	set, err := assets.Load(paths.Dirs(paths.DefaultDirs()), nil, archives...)
	if err != nil {
		glog.Exitf("drsweb: %v", err)
	}
	lib, err := assets.New(set, &assets.Options{ImageCacheSize: *imageCache, SpriteCacheSize: *spriteCache})
	if err != nil {
		glog.Exitf("drsweb: %v", err)
	}
	glog.Infof("drsweb: serving %d archives on %s", set.Len(), *listenAddress)

	// SIGHUP rereads the archives, e.g. after a patch was installed.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			if err := load(lib); err != nil {
				glog.Errorf("drsweb: reloading archives: %v", err)
			}
		}
	}()

	r := mux.NewRouter()
	web.NewHandler(lib, uint32(*paletteID)).RegisterRoutes(r)

	glog.Fatal(http.ListenAndServe(*listenAddress, handlers.CombinedLoggingHandler(os.Stderr, r)))
}
