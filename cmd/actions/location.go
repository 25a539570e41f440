package actions

import (
	"regexp"
	"strconv"

	"github.com/chronophylos/locfinder/location"
)

type pickAction struct {
	options *Options
}

func newPickAction() *pickAction {
	return &pickAction{
		options: &Options{
			Name:  "pick",
			Re:    regexp.MustCompile(`(?i)^~pick\s+(\d+)$`),
			Usage: "~pick <n>",
		},
	}
}

func (a pickAction) GetOptions() *Options {
	return a.options
}

func (a pickAction) Run(e *Event) error {
	suggestions := e.Search.State().Suggestions

	loc, err := nth(e.Match[1], "suggestion", suggestions)
	if err != nil {
		return err
	}

	e.Search.OnSuggestionPicked(loc)

	return nil
}

type recentAction struct {
	options *Options
}

func newRecentAction() *recentAction {
	return &recentAction{
		options: &Options{
			Name:  "recent",
			Re:    regexp.MustCompile(`(?i)^~recent\s+(\d+)$`),
			Usage: "~recent <n>",
		},
	}
}

func (a recentAction) GetOptions() *Options {
	return a.options
}

func (a recentAction) Run(e *Event) error {
	list := e.Search.State().History

	loc, err := nth(e.Match[1], "recent search", list)
	if err != nil {
		return err
	}

	e.Search.OnSuggestionPicked(loc)

	return nil
}

// nth returns the 1-based entry n of locs.
func nth(n, what string, locs []location.Location) (location.Location, error) {
	i, err := strconv.Atoi(n)
	if err != nil || i < 1 || i > len(locs) {
		return location.Location{}, &outOfRangeError{what: what, index: i, count: len(locs)}
	}
	return locs[i-1], nil
}

type clickAction struct {
	options *Options
}

func newClickAction() *clickAction {
	return &clickAction{
		options: &Options{
			Name:  "click",
			Re:    regexp.MustCompile(`(?i)^~click\s+(\S+?)[\s,]+(\S+)$`),
			Usage: "~click <lat> <lon>",
		},
	}
}

func (a clickAction) GetOptions() *Options {
	return a.options
}

func (a clickAction) Run(e *Event) error {
	lat, err := strconv.ParseFloat(e.Match[1], 64)
	if err != nil || lat < -90 || lat > 90 {
		return &usageError{usage: a.options.Usage + " (lat between -90 and 90)"}
	}

	lon, err := strconv.ParseFloat(e.Match[2], 64)
	if err != nil || lon < -180 || lon > 180 {
		return &usageError{usage: a.options.Usage + " (lon between -180 and 180)"}
	}

	at := location.Coordinate{Lat: lat, Lon: lon}
	if err := e.Map.Click(at); err != nil {
		return err
	}

	e.Sayf("Looking up %s, %s...", location.FormatCoordinate(lat), location.FormatCoordinate(lon))

	e.Log.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Msg("Clicked map")

	return nil
}
