// Package web serves decoded sprites over HTTP for previewing assets in a
// browser.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"net/http"
	"strconv"
	"text/tabwriter"

	"github.com/andybons/gogif"
	"github.com/cespare/xxhash/v2"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"

	"badc0de.net/pkg/go-genie/assets"
	"badc0de.net/pkg/go-genie/drs"
	"badc0de.net/pkg/go-genie/slp"
)

// DefaultPalette is the id of the bina resource holding the main game
// palette.
const DefaultPalette = 50500

const generation = 1 // bump if the way we generate images changes

type Handler struct {
	lib     *assets.Library
	palette uint32
}

// NewHandler constructs a web handler serving sprites from lib, painted with
// the palette stored under the passed bina id unless a request asks for
// another one.
func NewHandler(lib *assets.Library, palette uint32) *Handler {
	return &Handler{lib: lib, palette: palette}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/drs", h.listHandler)
	r.HandleFunc("/slp/{id:[0-9]+}", h.sheetHandler)
	r.HandleFunc("/slp/{id:[0-9]+}.gif", h.gifHandler)
	r.HandleFunc("/slp/{id:[0-9]+}/{frame:-?[0-9]+}.png", h.frameHandler)
}

type request struct {
	id      uint32
	slot    int
	palette uint32
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request) (request, bool) {
	req := request{slot: slp.NeutralSlot, palette: h.palette}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "id not a number", http.StatusBadRequest)
		return req, false
	}
	req.id = uint32(id)

	if player := r.URL.Query().Get("player"); player != "" {
		if req.slot, err = strconv.Atoi(player); err != nil {
			http.Error(w, "player not a number", http.StatusBadRequest)
			return req, false
		}
	}
	if pal := r.URL.Query().Get("pal"); pal != "" {
		p, err := strconv.ParseUint(pal, 10, 32)
		if err != nil {
			http.Error(w, "pal not a number", http.StatusBadRequest)
			return req, false
		}
		req.palette = uint32(p)
	}
	return req, true
}

// signature hashes the bytes an image of req is produced from.
func (h *Handler) signature(req request) (uint64, error) {
	set := h.lib.Set()
	d := xxhash.New()
	for _, it := range []struct {
		t  drs.ResourceType
		id uint32
	}{{drs.TypeSLP, req.id}, {drs.TypeBINA, req.palette}} {
		b, err := set.Item(it.t, it.id)
		if err != nil {
			return 0, err
		}
		d.Write(b)
	}
	return d.Sum64(), nil
}

func (h *Handler) etag(req request, kind string, frame, slot int, mime string) (string, error) {
	sig, err := h.signature(req)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`W/"%s:%d:%016x:%d:%d:%d:%d:%s"`, kind, generation, sig, req.id, req.palette, frame, slot, mime), nil
}

// notModified sets the caching headers and reports whether the client's
// copy is still current.
func notModified(w http.ResponseWriter, r *http.Request, etag string) bool {
	w.Header().Set("Cache-Control", "public; max-age=36000") // 36000 = 10h
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func httpError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, drs.ErrNotFound), errors.Is(err, slp.ErrNoFrames):
		code = http.StatusNotFound
	case errors.Is(err, slp.ErrBadSlot):
		code = http.StatusBadRequest
	default:
		glog.Errorf("web: %v", err)
	}
	http.Error(w, err.Error(), code)
}

func (h *Handler) colors(req request) (color.Palette, error) {
	p, err := h.lib.Palette(req.palette)
	if err != nil {
		return nil, err
	}
	return p.ColorPalette(), nil
}

func (h *Handler) frameHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r)
	if !ok {
		return
	}
	frame, err := strconv.Atoi(mux.Vars(r)["frame"])
	if err != nil {
		http.Error(w, "frame not a number", http.StatusBadRequest)
		return
	}

	k, _, err := h.lib.Key(req.id, frame, req.slot)
	if err != nil {
		httpError(w, err)
		return
	}
	mime := "image/png"
	etag, err := h.etag(req, "frame", k.Frame, k.Slot, mime)
	if err != nil {
		httpError(w, err)
		return
	}
	if notModified(w, r, etag) {
		return
	}

	img, err := h.lib.Image(k.Sprite, k.Frame, k.Slot)
	if err != nil {
		httpError(w, err)
		return
	}
	p, err := h.colors(req)
	if err != nil {
		httpError(w, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("X-Hotspot", fmt.Sprintf("%d,%d", img.HotspotX, img.HotspotY))
	w.WriteHeader(http.StatusOK)
	png.Encode(w, img.RGBA(p))
}

// frames decodes every frame of the sprite for the requested slot.
func (h *Handler) frames(req request) ([]*slp.Image, error) {
	s, err := h.lib.Sprite(req.id)
	if err != nil {
		return nil, err
	}
	if s.FrameCount() == 0 {
		return nil, errors.Wrapf(slp.ErrNoFrames, "slp %d", req.id)
	}
	imgs := make([]*slp.Image, s.FrameCount())
	for i := range imgs {
		if imgs[i], err = h.lib.Image(req.id, i, req.slot); err != nil {
			return nil, err
		}
	}
	return imgs, nil
}

func (h *Handler) gifHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r)
	if !ok {
		return
	}
	k, _, err := h.lib.Key(req.id, 0, req.slot)
	if err != nil {
		httpError(w, err)
		return
	}
	req.slot = k.Slot

	mime := "image/gif"
	etag, err := h.etag(req, "anim", -1, req.slot, mime)
	if err != nil {
		httpError(w, err)
		return
	}
	if notModified(w, r, etag) {
		return
	}

	imgs, err := h.frames(req)
	if err != nil {
		httpError(w, err)
		return
	}
	p, err := h.colors(req)
	if err != nil {
		httpError(w, err)
		return
	}

	delay := 10
	if d := r.URL.Query().Get("delay"); d != "" {
		delay, _ = strconv.Atoi(d)
		// ignore invalid delay
	}

	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	gif.EncodeAll(w, Animation(imgs, p, delay))
}

// Animation renders imgs into an animated GIF, keeping the frames aligned on
// their hotspots. delay is in hundredths of a second.
func Animation(imgs []*slp.Image, p color.Palette, delay int) *gif.GIF {
	g := &gif.GIF{}
	extent := slp.Extent(imgs...)
	canvas := image.Rect(0, 0, extent.Dx(), extent.Dy())

	quantizer := gogif.MedianCutQuantizer{NumColor: 255} // Up to 255 colors plus 1 space for transparency.
	for _, m := range imgs {
		img := image.NewRGBA(canvas)
		at := m.Origin().Sub(extent.Min)
		draw.Draw(img, m.Bounds().Add(at), m.RGBA(p), image.Point{}, draw.Src)

		pal := image.NewPaletted(canvas, nil)
		quantizer.Quantize(pal, canvas, img, image.Point{})

		// Quantize does not keep transparency, so redraw onto a palette whose
		// first, default entry is transparent.
		palTransparent := image.NewPaletted(canvas, append(color.Palette{color.Transparent}, pal.Palette...))
		draw.Draw(palTransparent, canvas, img, image.Point{}, draw.Over)

		g.Image = append(g.Image, palTransparent)
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	g.BackgroundIndex = 0 // image.Transparent
	return g
}

var sheetTemplate = template.Must(template.New("sheet").Parse(`<!DOCTYPE html>
<html>
<head><title>slp {{.ID}}</title></head>
<body>
<h1>slp {{.ID}}</h1>
<p>{{.Frames}} frames, version {{.Version}}{{if .Dynamic}}, player colored{{end}}.
<a href="{{.ID}}.gif?player={{.Slot}}&amp;pal={{.Palette}}">animation</a></p>
<table>
<tr><th>frame</th><th>size</th><th>hotspot</th><th>image</th></tr>
{{range .Rows}}<tr>
<td>{{.Index}}</td><td>{{.Width}}x{{.Height}}</td><td>{{.HotspotX}},{{.HotspotY}}</td>
<td>{{if .Err}}{{.Err}}{{else}}<img src="{{.Src}}">{{end}}</td>
</tr>
{{end}}</table>
</body>
</html>
`))

type sheetRow struct {
	Index              int
	Width, Height      int32
	HotspotX, HotspotY int32
	Src                template.URL
	Err                error
}

// sheetHandler renders an HTML page with every frame of a sprite embedded
// as a data URL.
func (h *Handler) sheetHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r)
	if !ok {
		return
	}
	s, err := h.lib.Sprite(req.id)
	if err != nil {
		httpError(w, err)
		return
	}
	if req.slot < 0 || req.slot > slp.NeutralSlot {
		httpError(w, errors.Wrapf(slp.ErrBadSlot, "slot %d", req.slot))
		return
	}
	p, err := h.colors(req)
	if err != nil {
		httpError(w, err)
		return
	}

	data := struct {
		ID, Palette uint32
		Slot        int
		Frames      int
		Version     string
		Dynamic     bool
		Rows        []sheetRow
	}{ID: req.id, Palette: req.palette, Slot: req.slot, Frames: s.FrameCount(), Version: s.Version(), Dynamic: s.Dynamic()}

	for i := 0; i < s.FrameCount(); i++ {
		fi := s.Frame(i)
		row := sheetRow{Index: i, Width: fi.Width, Height: fi.Height, HotspotX: fi.HotspotX, HotspotY: fi.HotspotY}
		img, err := h.lib.Image(req.id, i, req.slot)
		if err != nil {
			row.Err = err
			data.Rows = append(data.Rows, row)
			continue
		}
		buf := &bytes.Buffer{}
		png.Encode(buf, img.RGBA(p))
		byt, err := dataurl.New(buf.Bytes(), "image/png").MarshalText()
		if err != nil {
			row.Err = errors.Wrap(err, "encoding data url")
		}
		row.Src = template.URL(byt)
		data.Rows = append(data.Rows, row)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := sheetTemplate.Execute(w, data); err != nil {
		glog.Errorf("web: rendering sheet for slp %d: %v", req.id, err)
	}
}

// listHandler lists the contents of every archive in priority order.
func (h *Handler) listHandler(w http.ResponseWriter, r *http.Request) {
	names, archives := h.lib.Set().Archives()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintf(tw, "archive\ttype\tid\toffset\tsize\n")
	for i, a := range archives {
		for _, l := range a.Lists() {
			for _, it := range l.Items {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", names[i], l.Type, it.ID, it.Offset, it.Size)
			}
		}
	}
	tw.Flush()
}
