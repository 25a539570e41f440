package actions

import (
	"regexp"
)

type searchAction struct {
	options *Options
}

func newSearchAction() *searchAction {
	return &searchAction{
		options: &Options{
			Name:  "search",
			Re:    regexp.MustCompile(`(?i)^~search(?:\s+(.*))?$`),
			Usage: "~search <text>",
		},
	}
}

func (a searchAction) GetOptions() *Options {
	return a.options
}

func (a searchAction) Run(e *Event) error {
	e.Search.OnQueryChanged(e.Match[1])
	return nil
}

// typeAction treats every line that is not a command as typed text.
type typeAction struct {
	options *Options
}

func newTypeAction() *typeAction {
	return &typeAction{
		options: &Options{
			Name: "type",
			Re:   regexp.MustCompile(`^([^~].*)$`),
		},
	}
}

func (a typeAction) GetOptions() *Options {
	return a.options
}

func (a typeAction) Run(e *Event) error {
	e.Search.OnQueryChanged(e.Match[1])
	return nil
}

type clearAction struct {
	options *Options
}

func newClearAction() *clearAction {
	return &clearAction{
		options: &Options{
			Name:  "clear",
			Re:    regexp.MustCompile(`(?i)^~clear$`),
			Usage: "~clear",
		},
	}
}

func (a clearAction) GetOptions() *Options {
	return a.options
}

func (a clearAction) Run(e *Event) error {
	e.Search.OnQueryCleared()
	return nil
}
