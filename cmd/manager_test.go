package cmd

import (
	"bytes"
	"io"
	"testing"

	"github.com/chronophylos/locfinder/history"
	"github.com/chronophylos/locfinder/location"
	"github.com/chronophylos/locfinder/mapview"
	"github.com/chronophylos/locfinder/search"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeSearch struct {
	state   search.State
	queries []string
	cleared int
	picked  []location.Location
}

func (f *fakeSearch) State() search.State                   { return f.state }
func (f *fakeSearch) OnQueryChanged(text string)            { f.queries = append(f.queries, text) }
func (f *fakeSearch) OnQueryCleared()                       { f.cleared++ }
func (f *fakeSearch) OnSuggestionPicked(l location.Location) { f.picked = append(f.picked, l) }

type fakeMap struct {
	status mapview.Status
	clicks []location.Coordinate
}

func (f *fakeMap) Status() (mapview.Status, string) {
	if f.status == mapview.Failed {
		return f.status, mapview.ErrorMessage
	}
	return f.status, ""
}

func (f *fakeMap) Click(at location.Coordinate) error {
	f.clicks = append(f.clicks, at)
	return nil
}

func (f *fakeMap) Render(w io.Writer) {
	io.WriteString(w, "Map: rendered\n")
}

func place(id int64, name string) location.Location {
	return location.Location{PlaceID: id, Lat: "1", Lon: "2", DisplayName: name, Type: "City"}
}

func newTestManager() (*Manager, *fakeSearch, *fakeMap, *bytes.Buffer) {
	s := &fakeSearch{}
	m := &fakeMap{status: mapview.Ready}
	out := &bytes.Buffer{}

	return NewManager(zerolog.Nop(), out, s, m), s, m, out
}

func TestTypedText(t *testing.T) {
	m, s, _, out := newTestManager()

	assert.False(t, m.RunActions("Eiffel Tower\n"))
	assert.False(t, m.RunActions("~search  Berlin"))
	assert.False(t, m.RunActions("~SEARCH"))
	assert.False(t, m.RunActions(" padded "))

	assert.Equal(t, []string{"Eiffel Tower", "Berlin", "", " padded "}, s.queries)
	assert.Empty(t, out.String())
}

func TestEmptyLine(t *testing.T) {
	m, s, _, out := newTestManager()

	assert.False(t, m.RunActions("\n"))
	assert.Empty(t, s.queries)
	assert.Empty(t, out.String())
}

func TestClear(t *testing.T) {
	m, s, _, _ := newTestManager()

	m.RunActions("~clear")
	assert.Equal(t, 1, s.cleared)
}

func TestPick(t *testing.T) {
	m, s, _, out := newTestManager()
	s.state.Suggestions = []location.Location{place(1, "One"), place(2, "Two")}

	m.RunActions("~pick 2")
	assert.Equal(t, []location.Location{place(2, "Two")}, s.picked)

	m.RunActions("~pick 3")
	assert.Equal(t, "Error: no suggestion 3 (choose 1 to 2)\n", out.String())

	out.Reset()
	s.state.Suggestions = nil
	m.RunActions("  ~Pick 1  ")
	assert.Equal(t, "Error: there is no suggestion to choose\n", out.String())
	assert.Len(t, s.picked, 1)
}

func TestRecent(t *testing.T) {
	m, s, _, out := newTestManager()
	s.state.History = history.List{place(5, "Five")}

	m.RunActions("~recent 1")
	assert.Equal(t, []location.Location{place(5, "Five")}, s.picked)

	m.RunActions("~recent 0")
	assert.Contains(t, out.String(), "no recent search 0")
}

func TestClick(t *testing.T) {
	tests := []struct {
		line   string
		want   []location.Coordinate
		output string
	}{
		{"~click 51.5 -0.1", []location.Coordinate{{Lat: 51.5, Lon: -0.1}}, "Looking up 51.5, -0.1...\n"},
		{"~click 48.8584,2.2945", []location.Coordinate{{Lat: 48.8584, Lon: 2.2945}}, "Looking up 48.8584, 2.2945...\n"},
		{"~click 91 0", nil, "Error: usage: ~click <lat> <lon> (lat between -90 and 90)\n"},
		{"~click 0 east", nil, "Error: usage: ~click <lat> <lon> (lon between -180 and 180)\n"},
	}

	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			m, _, maps, out := newTestManager()

			m.RunActions(test.line)

			assert.Equal(t, test.want, maps.clicks)
			assert.Equal(t, test.output, out.String())
		})
	}
}

func TestMapAction(t *testing.T) {
	m, _, maps, out := newTestManager()

	m.RunActions("~map")
	assert.Equal(t, "Map: rendered\n", out.String())

	out.Reset()
	maps.status = mapview.Failed
	m.RunActions("~map")
	assert.Equal(t, mapview.ErrorMessage+"\n", out.String())

	out.Reset()
	maps.status = mapview.Loading
	m.RunActions("~map")
	assert.Equal(t, "Map is loading\n", out.String())
}

func TestInfoActions(t *testing.T) {
	m, s, _, out := newTestManager()

	m.RunActions("~history")
	assert.Equal(t, "No recent searches\n", out.String())

	out.Reset()
	s.state = search.State{Query: "Berlin", IsLoading: true}
	m.RunActions("~state")
	assert.Contains(t, out.String(), "Loading suggestions...")

	out.Reset()
	m.RunActions("~version")
	assert.Contains(t, out.String(), "locfinder dev")

	out.Reset()
	m.RunActions("~help")
	assert.Contains(t, out.String(), "~pick <n>")
	assert.Contains(t, out.String(), "~click <lat> <lon>")
	assert.NotContains(t, out.String(), "unknown")

	out.Reset()
	m.RunActions("~frobnicate")
	assert.Equal(t, "Unknown command, try ~help\n", out.String())
	assert.Empty(t, s.queries)
}

func TestQuit(t *testing.T) {
	m, _, _, _ := newTestManager()

	assert.True(t, m.RunActions("~quit"))
	assert.True(t, m.RunActions("~exit\r\n"))
	assert.False(t, m.RunActions("quit"))
}
