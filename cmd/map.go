package cmd

import (
	"io"

	"github.com/chronophylos/locfinder/location"
	"github.com/chronophylos/locfinder/mapview"
	"github.com/chronophylos/locfinder/osmmap"
	"github.com/pkg/errors"
)

// Map joins the adapter that owns the map with the factory that built it.
type Map struct {
	adapter *mapview.Adapter
	factory *osmmap.Factory
}

func NewMap(adapter *mapview.Adapter, factory *osmmap.Factory) *Map {
	return &Map{adapter: adapter, factory: factory}
}

func (m *Map) Status() (mapview.Status, string) {
	return m.adapter.Status()
}

func (m *Map) current() (*osmmap.Map, error) {
	if status, msg := m.adapter.Status(); status != mapview.Ready {
		if status == mapview.Failed {
			return nil, errors.New(msg)
		}
		return nil, errors.Errorf("map is %s", status)
	}

	current := m.factory.Current()
	if current == nil {
		return nil, errors.New("map is not loaded")
	}
	return current, nil
}

// Click clicks the mounted map.
func (m *Map) Click(at location.Coordinate) error {
	current, err := m.current()
	if err != nil {
		return err
	}
	return current.Click(at)
}

// Render writes the mounted map's view.
func (m *Map) Render(w io.Writer) {
	current, err := m.current()
	if err != nil {
		io.WriteString(w, err.Error()+"\n")
		return
	}
	current.Render(w)
}
