// Package mapview keeps one map widget in sync with the search state.
package mapview

import (
	"context"
	"sync"

	"github.com/chronophylos/locfinder/location"
	"github.com/chronophylos/locfinder/search"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrorMessage is shown in place of the map when it could not be loaded.
const ErrorMessage = "Failed to load map. Please try again later."

// DefaultCenter is London.
var DefaultCenter = location.Coordinate{Lat: 51.505, Lon: -0.09}

const (
	DefaultZoom   = 13
	SelectionZoom = 14
)

// Widget is the map widget port.
type Widget interface {
	SetView(center location.Coordinate, zoom int)
	AddTileLayer(urlTemplate, attribution string) error
	AddMarker(at location.Coordinate) (Marker, error)
	// OnClick registers fn for clicks and returns a function that removes it.
	OnClick(fn func(at location.Coordinate)) func()
	Remove()
}

// Marker is a marker placed on a Widget.
type Marker interface {
	SetLatLng(at location.Coordinate)
}

// Loader loads the map library and creates a widget.
type Loader func(ctx context.Context) (Widget, error)

// ReverseGeocoder resolves a clicked coordinate. It returns nil on failure.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) *location.Location
}

// Coordinator is the part of search.Coordinator the adapter uses.
type Coordinator interface {
	State() search.State
	Subscribe(fn search.Listener) func()
	OnMapClicked(loc location.Location)
}

// Status of the adapter.
type Status int

const (
	Unmounted Status = iota
	Loading
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unmounted"
	}
}

// Options configures an Adapter.
type Options struct {
	TileURL     string
	Attribution string

	Center        location.Coordinate
	Zoom          int
	SelectionZoom int

	Log zerolog.Logger
}

// Adapter owns one widget per mount.
type Adapter struct {
	load     Loader
	geocoder ReverseGeocoder
	coord    Coordinator
	opts     Options
	log      zerolog.Logger

	mu          sync.Mutex
	status      Status
	err         error
	widget      Widget
	marker      Marker
	selection   uint64
	ctx         context.Context
	cancel      context.CancelFunc
	detach      func()
	unsubscribe func()

	clicks sync.WaitGroup
}

// New creates an unmounted Adapter.
func New(load Loader, geocoder ReverseGeocoder, coord Coordinator, opts Options) *Adapter {
	if opts.Center == (location.Coordinate{}) {
		opts.Center = DefaultCenter
	}
	if opts.Zoom == 0 {
		opts.Zoom = DefaultZoom
	}
	if opts.SelectionZoom == 0 {
		opts.SelectionZoom = SelectionZoom
	}

	return &Adapter{
		load:     load,
		geocoder: geocoder,
		coord:    coord,
		opts:     opts,
		log:      opts.Log.With().Str("component", "mapview").Logger(),
	}
}

// Status returns the current status and, when Failed, the message to show.
func (a *Adapter) Status() (Status, string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status == Failed {
		return a.status, ErrorMessage
	}
	return a.status, ""
}

// Err returns the initialization error, if any.
func (a *Adapter) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.err
}

// Mount creates the widget. A failure leaves the adapter in the Failed
// state; it is not retried.
func (a *Adapter) Mount(ctx context.Context) error {
	a.mu.Lock()
	if a.status == Loading || a.status == Ready {
		a.mu.Unlock()
		return errors.New("map is already mounted")
	}
	a.status = Loading
	a.err = nil
	a.mu.Unlock()

	widget, marker, err := a.initWidget(ctx)
	if err != nil {
		a.log.Error().Err(err).Msg("Error initializing map")

		a.mu.Lock()
		a.status = Failed
		a.err = err
		a.mu.Unlock()
		return err
	}

	clickCtx, cancel := context.WithCancel(context.Background())

	a.mu.Lock()
	a.widget = widget
	a.marker = marker
	a.ctx = clickCtx
	a.cancel = cancel
	a.selection = 0
	a.status = Ready
	a.mu.Unlock()

	// registered after the fields are set so that a click never sees a
	// half initialized adapter
	detach := widget.OnClick(a.handleClick)
	unsubscribe := a.coord.Subscribe(a.onStateChange)

	a.mu.Lock()
	a.detach = detach
	a.unsubscribe = unsubscribe
	a.mu.Unlock()

	a.sync(a.coord.State())

	a.log.Info().Msg("Map initialized")

	return nil
}

func (a *Adapter) initWidget(ctx context.Context) (Widget, Marker, error) {
	widget, err := a.load(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not load map")
	}

	widget.SetView(a.opts.Center, a.opts.Zoom)

	if err = widget.AddTileLayer(a.opts.TileURL, a.opts.Attribution); err != nil {
		widget.Remove()
		return nil, nil, errors.Wrap(err, "could not add tile layer")
	}

	marker, err := widget.AddMarker(a.opts.Center)
	if err != nil {
		widget.Remove()
		return nil, nil, errors.Wrap(err, "could not add marker")
	}

	return widget, marker, nil
}

// Unmount disposes the widget and waits for running click handlers. It is
// safe to call on an adapter that is not mounted.
func (a *Adapter) Unmount() {
	a.mu.Lock()
	widget := a.widget
	detach, unsubscribe, cancel := a.detach, a.unsubscribe, a.cancel
	a.widget = nil
	a.marker = nil
	a.detach = nil
	a.unsubscribe = nil
	a.cancel = nil
	if a.status != Failed {
		a.status = Unmounted
	}
	a.mu.Unlock()

	if detach != nil {
		detach()
	}
	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel != nil {
		cancel()
	}

	a.clicks.Wait()

	if widget != nil {
		widget.Remove()
		a.log.Info().Msg("Map removed")
	}
}

func (a *Adapter) handleClick(at location.Coordinate) {
	a.mu.Lock()
	if a.widget == nil {
		a.mu.Unlock()
		return
	}
	ctx := a.ctx
	a.clicks.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.clicks.Done()

		loc := a.geocoder.Reverse(ctx, at.Lat, at.Lon)
		if loc == nil {
			a.log.Warn().
				Float64("lat", at.Lat).
				Float64("lon", at.Lon).
				Msg("Could not resolve map click")
			return
		}

		if ctx.Err() != nil {
			return
		}

		a.coord.OnMapClicked(*loc)
	}()
}

func (a *Adapter) onStateChange(prev, next search.State) {
	if prev.Selection == next.Selection {
		return
	}
	a.sync(next)
}

// sync moves view and marker to the selected location if the selection is
// newer than the last one shown.
func (a *Adapter) sync(state search.State) {
	if state.Selected == nil {
		return
	}

	at, err := state.Selected.Coordinate()
	if err != nil {
		a.log.Error().
			Err(err).
			Int64("place_id", state.Selected.PlaceID).
			Msg("Selected location has no usable coordinate")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.widget == nil || state.Selection <= a.selection {
		return
	}
	a.selection = state.Selection

	a.widget.SetView(at, a.opts.SelectionZoom)
	a.marker.SetLatLng(at)

	a.log.Debug().
		Str("place", state.Selected.ShortName()).
		Float64("lat", at.Lat).
		Float64("lon", at.Lon).
		Msg("Moved marker to selection")
}
