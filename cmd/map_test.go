package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/chronophylos/locfinder/cmd/view"
	"github.com/chronophylos/locfinder/history"
	"github.com/chronophylos/locfinder/location"
	"github.com/chronophylos/locfinder/mapview"
	"github.com/chronophylos/locfinder/osmmap"
	"github.com/chronophylos/locfinder/search"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticGeocoder struct {
	place location.Location
}

func (g staticGeocoder) Search(context.Context, string) []location.Location {
	return []location.Location{g.place}
}

func (g staticGeocoder) Reverse(_ context.Context, lat, lon float64) *location.Location {
	loc := g.place
	loc.Lat = location.FormatCoordinate(lat)
	loc.Lon = location.FormatCoordinate(lon)
	return &loc
}

type syncBuffer struct {
	ch chan string
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.ch <- string(p)
	return len(p), nil
}

func TestConsole(t *testing.T) {
	geocoder := staticGeocoder{place: location.Location{PlaceID: 42, DisplayName: "Thames, London", Type: "Unknown"}}

	coordinator := search.New(context.Background(), geocoder, history.NewStore(history.NewMemoryBackend(), "", zerolog.Nop()), search.Options{
		Debounce: time.Millisecond,
		Log:      zerolog.Nop(),
	})
	defer coordinator.Close()

	factory := osmmap.NewFactory(osmmap.Options{})
	adapter := mapview.New(factory.Load, geocoder, coordinator, mapview.Options{
		TileURL: osmmap.DefaultTileURL,
		Log:     zerolog.Nop(),
	})

	var out bytes.Buffer
	manager := NewManager(zerolog.Nop(), &out, coordinator, NewMap(adapter, factory))

	// not mounted yet
	manager.RunActions("~click 1 2")
	assert.Equal(t, "Error: map is unmounted\n", out.String())

	require.NoError(t, adapter.Mount(context.Background()))
	defer adapter.Unmount()

	// subscribed after the adapter so the map is up to date once a change
	// is printed
	rendered := &syncBuffer{ch: make(chan string, 16)}
	unsubscribe := coordinator.Subscribe(view.NewRenderer(rendered).OnStateChange)
	defer unsubscribe()

	manager.RunActions("Thames")
	assert.Equal(t, view.LoadingMessage+"\n", <-rendered.ch)
	assert.Contains(t, <-rendered.ch, "1. [Thames], London")

	manager.RunActions("~click 51.5 -0.1")
	assert.Equal(t, "Selected location\n  Thames, London\n  Lat: 51.5\n  Lon: -0.1\n", <-rendered.ch)

	out.Reset()
	manager.RunActions("~map")
	assert.Contains(t, out.String(), "Map: https://www.openstreetmap.org/?mlat=51.5&mlon=-0.1#map=14/51.5/-0.1")

	assert.Equal(t, int64(42), coordinator.State().History[0].PlaceID)
}
