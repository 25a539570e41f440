// Package cmd turns console lines into search intents.
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/chronophylos/locfinder/cmd/actions"
	"github.com/rs/zerolog"
)

type Manager struct {
	log    zerolog.Logger
	out    io.Writer
	search actions.Search
	maps   actions.Map
}

func NewManager(log zerolog.Logger, out io.Writer, search actions.Search, maps actions.Map) *Manager {
	return &Manager{
		log:    log.With().Str("component", "cmd").Logger(),
		out:    out,
		search: search,
		maps:   maps,
	}
}

// RunActions runs the first action matching line. It reports whether the
// user asked to quit.
func (m *Manager) RunActions(line string) bool {
	line = strings.TrimRight(line, "\r\n")
	if strings.HasPrefix(strings.TrimSpace(line), "~") {
		line = strings.TrimSpace(line)
	}

	for _, action := range actions.GetAll() {
		opt := action.GetOptions()

		match := opt.Re.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		log := m.log.With().
			Str("action", opt.Name).
			Logger()

		log.Debug().
			Strs("match", match).
			Str("line", line).
			Msg("Found matching action")

		e := &actions.Event{
			Log:    log,
			Out:    m.out,
			Search: m.search,
			Map:    m.maps,
			Line:   line,
			Match:  match,
		}

		if err := action.Run(e); err != nil {
			log.Debug().Err(err).Msg("action failed")
			fmt.Fprintf(m.out, "Error: %v\n", err)
			return false
		}

		if !e.Skipped {
			return e.Quit
		}
	}

	return false
}
