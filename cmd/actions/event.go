package actions

import (
	"fmt"
	"io"

	"github.com/chronophylos/locfinder/location"
	"github.com/chronophylos/locfinder/mapview"
	"github.com/chronophylos/locfinder/search"
	"github.com/rs/zerolog"
)

// Search is the part of search.Coordinator actions drive.
type Search interface {
	State() search.State
	OnQueryChanged(text string)
	OnQueryCleared()
	OnSuggestionPicked(loc location.Location)
}

// Map is the mounted map as seen from the console.
type Map interface {
	Status() (mapview.Status, string)
	Click(at location.Coordinate) error
	Render(w io.Writer)
}

type Event struct {
	Log    zerolog.Logger
	Out    io.Writer
	Search Search
	Map    Map

	Line  string
	Match []string

	Quit    bool
	Skipped bool
}

// Say writes one line to the console.
func (e *Event) Say(message string) {
	fmt.Fprintln(e.Out, message)
}

func (e *Event) Sayf(format string, args ...interface{}) {
	e.Say(fmt.Sprintf(format, args...))
}

// Skip skips this action and allows other actions to run.
func (e *Event) Skip() {
	e.Skipped = true
}
