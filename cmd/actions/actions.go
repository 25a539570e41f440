package actions

import (
	"regexp"
)

// Options describe an action.
type Options struct {
	Name  string
	Re    *regexp.Regexp
	Usage string
}

type Action interface {
	GetOptions() *Options
	Run(*Event) error
}

// actions are tried in this order; the first match that does not skip wins.
var actions = []Action{
	newSearchAction(),
	newClearAction(),
	newPickAction(),
	newRecentAction(),
	newClickAction(),
	newHistoryAction(),
	newStateAction(),
	newMapAction(),
	newVersionAction(),
	newHelpAction(),
	newQuitAction(),
	newUnknownAction(),
	newTypeAction(),
}

func GetAll() []Action { return actions }
