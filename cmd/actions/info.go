package actions

import (
	"bytes"
	"regexp"

	"github.com/chronophylos/locfinder/cmd/view"
	"github.com/chronophylos/locfinder/mapview"
)

type historyAction struct {
	options *Options
}

func newHistoryAction() *historyAction {
	return &historyAction{
		options: &Options{
			Name:  "history",
			Re:    regexp.MustCompile(`(?i)^~history$`),
			Usage: "~history",
		},
	}
}

func (a historyAction) GetOptions() *Options {
	return a.options
}

func (a historyAction) Run(e *Event) error {
	var buf bytes.Buffer
	view.Recent(&buf, e.Search.State().History)
	e.Out.Write(buf.Bytes())

	return nil
}

type stateAction struct {
	options *Options
}

func newStateAction() *stateAction {
	return &stateAction{
		options: &Options{
			Name:  "state",
			Re:    regexp.MustCompile(`(?i)^~state$`),
			Usage: "~state",
		},
	}
}

func (a stateAction) GetOptions() *Options {
	return a.options
}

func (a stateAction) Run(e *Event) error {
	var buf bytes.Buffer
	view.State(&buf, e.Search.State())
	e.Out.Write(buf.Bytes())

	return nil
}

type mapAction struct {
	options *Options
}

func newMapAction() *mapAction {
	return &mapAction{
		options: &Options{
			Name:  "map",
			Re:    regexp.MustCompile(`(?i)^~map$`),
			Usage: "~map",
		},
	}
}

func (a mapAction) GetOptions() *Options {
	return a.options
}

func (a mapAction) Run(e *Event) error {
	status, msg := e.Map.Status()

	switch status {
	case mapview.Failed:
		e.Say(msg)
	case mapview.Ready:
		var buf bytes.Buffer
		e.Map.Render(&buf)
		e.Out.Write(buf.Bytes())
	default:
		e.Sayf("Map is %s", status)
	}

	return nil
}

type helpAction struct {
	options *Options
}

func newHelpAction() *helpAction {
	return &helpAction{
		options: &Options{
			Name:  "help",
			Re:    regexp.MustCompile(`(?i)^~help$`),
			Usage: "~help",
		},
	}
}

func (a helpAction) GetOptions() *Options {
	return a.options
}

func (a helpAction) Run(e *Event) error {
	var buf bytes.Buffer

	buf.WriteString("Type text to search or use one of\n")
	for _, action := range GetAll() {
		if usage := action.GetOptions().Usage; usage != "" {
			buf.WriteString("  " + usage + "\n")
		}
	}

	e.Out.Write(buf.Bytes())

	return nil
}

type quitAction struct {
	options *Options
}

func newQuitAction() *quitAction {
	return &quitAction{
		options: &Options{
			Name:  "quit",
			Re:    regexp.MustCompile(`(?i)^~(quit|exit)$`),
			Usage: "~quit",
		},
	}
}

func (a quitAction) GetOptions() *Options {
	return a.options
}

func (a quitAction) Run(e *Event) error {
	e.Quit = true
	return nil
}

// unknownAction catches commands no other action understood.
type unknownAction struct {
	options *Options
}

func newUnknownAction() *unknownAction {
	return &unknownAction{
		options: &Options{
			Name: "unknown",
			Re:   regexp.MustCompile(`^~`),
		},
	}
}

func (a unknownAction) GetOptions() *Options {
	return a.options
}

func (a unknownAction) Run(e *Event) error {
	e.Say("Unknown command, try ~help")
	return nil
}
