// Package osmmap is an in-process OpenStreetMap slippy map. It keeps the
// view, the markers and the click listeners of a map and renders the view
// as an openstreetmap.org link.
package osmmap

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/chronophylos/locfinder/location"
	"github.com/chronophylos/locfinder/mapview"
	"github.com/chronophylos/locfinder/util"
	"github.com/pkg/errors"
)

const (
	// MaxLatitude is the northern edge of the Web Mercator projection.
	MaxLatitude = 85.0511287798

	MinZoom = 0
	MaxZoom = 19

	DefaultTileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = "© OpenStreetMap contributors"
	DefaultSubdomains  = "abc"
)

// ErrRemoved is returned when a removed map is used.
var ErrRemoved = errors.New("map has been removed")

// Options configures a Map.
type Options struct {
	// Out receives the rendered view whenever a marker moves. May be nil.
	Out io.Writer

	// Subdomains replace {s} in the tile URL.
	Subdomains string
}

type tileLayer struct {
	template    string
	attribution string
}

type clickListener struct {
	id int
	fn func(at location.Coordinate)
}

// Map is a slippy map widget.
type Map struct {
	mu         sync.Mutex
	out        io.Writer
	subdomains string

	center    location.Coordinate
	zoom      int
	layers    []tileLayer
	markers   []*Marker
	listeners []clickListener
	nextID    int
	removed   bool
}

// New creates a Map at 0,0 with zoom 0.
func New(opts Options) *Map {
	if opts.Subdomains == "" {
		opts.Subdomains = DefaultSubdomains
	}

	return &Map{
		out:        opts.Out,
		subdomains: opts.Subdomains,
	}
}

// Factory creates maps for a mapview.Adapter and keeps the latest one
// around for the console.
type Factory struct {
	opts Options

	mu      sync.Mutex
	current *Map
}

func NewFactory(opts Options) *Factory {
	return &Factory{opts: opts}
}

// Load implements mapview.Loader.
func (f *Factory) Load(ctx context.Context) (mapview.Widget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := New(f.opts)

	f.mu.Lock()
	f.current = m
	f.mu.Unlock()

	return m, nil
}

// Current returns the map created last or nil.
func (f *Factory) Current() *Map {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.current
}

// SetView centers the map. The latitude is clamped to the projection, the
// longitude wrapped and the zoom clamped to the tile pyramid.
func (m *Map) SetView(center location.Coordinate, zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.removed {
		return
	}

	m.center = normalize(center)
	m.zoom = int(util.Clamp(float64(zoom), MinZoom, MaxZoom))
}

// AddTileLayer adds a base layer. The template needs {z}, {x} and {y}.
func (m *Map) AddTileLayer(template, attribution string) error {
	if err := validateTemplate(template); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.removed {
		return ErrRemoved
	}

	m.layers = append(m.layers, tileLayer{template: template, attribution: attribution})
	return nil
}

// AddMarker places a marker.
func (m *Map) AddMarker(at location.Coordinate) (mapview.Marker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.removed {
		return nil, ErrRemoved
	}

	marker := &Marker{m: m, at: normalize(at)}
	m.markers = append(m.markers, marker)
	m.render()

	return marker, nil
}

// OnClick registers fn for clicks.
func (m *Map) OnClick(fn func(at location.Coordinate)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners = append(m.listeners, clickListener{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// Click delivers a click at the given coordinate to all listeners.
func (m *Map) Click(at location.Coordinate) error {
	m.mu.Lock()
	if m.removed {
		m.mu.Unlock()
		return ErrRemoved
	}
	listeners := append([]clickListener{}, m.listeners...)
	m.mu.Unlock()

	at = normalize(at)
	for _, l := range listeners {
		l.fn(at)
	}
	return nil
}

// Remove disposes the map. Every later call is a no-op or returns ErrRemoved.
func (m *Map) Remove() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removed = true
	m.listeners = nil
	m.markers = nil
	m.layers = nil
}

// Removed reports whether Remove was called.
func (m *Map) Removed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.removed
}

// View returns center and zoom.
func (m *Map) View() (location.Coordinate, int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.center, m.zoom
}

// Markers returns the marker positions.
func (m *Map) Markers() []location.Coordinate {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]location.Coordinate, 0, len(m.markers))
	for _, marker := range m.markers {
		res = append(res, marker.at)
	}
	return res
}

// Permalink returns the openstreetmap.org link of the current view with
// the first marker highlighted.
func (m *Map) Permalink() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.permalink()
}

// TileURL returns the URL of the base layer tile under the center.
func (m *Map) TileURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.tileURL()
}

// Render writes the current view to w.
func (m *Map) Render(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.renderTo(w)
}

func (m *Map) permalink() string {
	params := url.Values{}
	if len(m.markers) > 0 {
		params.Set("mlat", location.FormatCoordinate(round(m.markers[0].at.Lat)))
		params.Set("mlon", location.FormatCoordinate(round(m.markers[0].at.Lon)))
	}

	link := "https://www.openstreetmap.org/"
	if len(params) > 0 {
		link += "?" + params.Encode()
	}

	return fmt.Sprintf("%s#map=%d/%s/%s", link, m.zoom,
		location.FormatCoordinate(round(m.center.Lat)),
		location.FormatCoordinate(round(m.center.Lon)),
	)
}

func (m *Map) tileURL() string {
	if len(m.layers) == 0 {
		return ""
	}

	x, y := TileAt(m.center, m.zoom)

	s := ""
	if len(m.subdomains) > 0 {
		i := (x + y) % len(m.subdomains)
		s = m.subdomains[i : i+1]
	}

	return strings.NewReplacer(
		"{s}", s,
		"{z}", strconv.Itoa(m.zoom),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
	).Replace(m.layers[0].template)
}

// render writes to the configured output. m.mu must be held.
func (m *Map) render() {
	if m.out != nil {
		m.renderTo(m.out)
	}
}

func (m *Map) renderTo(w io.Writer) {
	fmt.Fprintf(w, "Map: %s\n", m.permalink())
	if tile := m.tileURL(); tile != "" {
		fmt.Fprintf(w, "Tile: %s (%s)\n", tile, m.layers[0].attribution)
	}
}

// Marker is a marker on a Map.
type Marker struct {
	m  *Map
	at location.Coordinate
}

// SetLatLng moves the marker.
func (mk *Marker) SetLatLng(at location.Coordinate) {
	mk.m.mu.Lock()
	defer mk.m.mu.Unlock()

	if mk.m.removed {
		return
	}

	mk.at = normalize(at)
	mk.m.render()
}

// TileAt returns the x and y index of the tile containing c at zoom.
func TileAt(c location.Coordinate, zoom int) (int, int) {
	c = normalize(c)
	n := math.Exp2(float64(zoom))

	x := int(math.Floor((c.Lon + 180) / 360 * n))

	lat := c.Lat * math.Pi / 180
	y := int(math.Floor((1 - math.Log(math.Tan(lat)+1/math.Cos(lat))/math.Pi) / 2 * n))

	last := n - 1
	return int(util.Clamp(float64(x), 0, last)), int(util.Clamp(float64(y), 0, last))
}

func normalize(c location.Coordinate) location.Coordinate {
	return location.Coordinate{
		Lat: util.Clamp(c.Lat, -MaxLatitude, MaxLatitude),
		Lon: util.Wrap(c.Lon, -180, 180),
	}
}

func round(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

func validateTemplate(template string) error {
	for _, placeholder := range []string{"{z}", "{x}", "{y}"} {
		if !strings.Contains(template, placeholder) {
			return errors.Errorf("tile url %q is missing %s", template, placeholder)
		}
	}

	u, err := url.Parse(strings.NewReplacer("{s}", "a", "{z}", "0", "{x}", "0", "{y}", "0").Replace(template))
	if err != nil {
		return errors.Wrapf(err, "tile url %q is invalid", template)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("tile url %q needs http or https", template)
	}

	return nil
}
