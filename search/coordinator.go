// Package search owns the search and selection state and sequences
// geocoding requests for it.
package search

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/chronophylos/locfinder/history"
	"github.com/chronophylos/locfinder/location"
	"github.com/rs/zerolog"
)

// Defaults for Options.
const (
	DefaultDebounce       = 300 * time.Millisecond
	DefaultMinQueryLength = 2
)

// Geocoder runs forward searches. Failures come back as an empty slice.
type Geocoder interface {
	Search(ctx context.Context, query string) []location.Location
}

// HistoryStore is the part of history.Store the Coordinator needs.
type HistoryStore interface {
	Load(ctx context.Context) history.List
	Record(loc location.Location, current history.List) history.List
	Persist(ctx context.Context, list history.List)
}

// State is a snapshot of the Coordinator.
type State struct {
	Query       string
	Suggestions []location.Location
	Selected    *location.Location
	IsLoading   bool

	History history.List

	// Selection increases with every selection, also when the same
	// location is selected again.
	Selection uint64
}

// Listener is called with the previous and the new state after every
// change. It runs while the Coordinator is locked and must not call back
// into the Coordinator.
type Listener func(prev, next State)

type subscription struct {
	id int
	fn Listener
}

// Options configures a Coordinator.
type Options struct {
	// Debounce is how long input has to stay unchanged before a search is
	// issued. Zero searches immediately.
	Debounce time.Duration

	MinQueryLength int

	Log zerolog.Logger
}

// Coordinator is the search state machine.
type Coordinator struct {
	geocoder Geocoder
	history  HistoryStore
	debounce time.Duration
	minLen   int
	log      zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	state     State
	gen       uint64
	timer     *time.Timer
	listeners []subscription
	nextID    int
	closed    bool
}

// New creates a Coordinator in the idle state and loads the history.
func New(ctx context.Context, geocoder Geocoder, store HistoryStore, opts Options) *Coordinator {
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	if opts.MinQueryLength <= 0 {
		opts.MinQueryLength = DefaultMinQueryLength
	}

	runCtx, cancel := context.WithCancel(context.Background())

	return &Coordinator{
		geocoder: geocoder,
		history:  store,
		debounce: opts.Debounce,
		minLen:   opts.MinQueryLength,
		log:      opts.Log.With().Str("component", "search").Logger(),
		ctx:      runCtx,
		cancel:   cancel,
		state: State{
			Suggestions: []location.Location{},
			History:     store.Load(ctx),
		},
	}
}

// State returns a copy of the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.clone()
}

// Subscribe registers fn for state changes and returns a function that
// removes it again.
func (c *Coordinator) Subscribe(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, subscription{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		for i, s := range c.listeners {
			if s.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// OnQueryChanged handles new input text.
func (c *Coordinator) OnQueryChanged(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	prev := c.state.clone()
	c.invalidate()
	c.state.Query = text

	query := strings.TrimSpace(text)
	if utf8.RuneCountInString(query) < c.minLen {
		c.state.Suggestions = []location.Location{}
		c.state.IsLoading = false
		c.notify(prev)
		return
	}

	c.state.IsLoading = true
	gen := c.gen

	if c.debounce == 0 {
		c.startSearch(gen, text)
	} else {
		c.timer = time.AfterFunc(c.debounce, func() {
			c.mu.Lock()
			defer c.mu.Unlock()

			if c.closed || gen != c.gen {
				return
			}
			c.timer = nil
			c.startSearch(gen, text)
		})
	}

	c.log.Debug().
		Str("query", text).
		Uint64("generation", gen).
		Msg("Scheduled search")

	c.notify(prev)
}

// OnQueryCleared empties the input. The selection stays.
func (c *Coordinator) OnQueryCleared() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	prev := c.state.clone()
	c.invalidate()
	c.state.Query = ""
	c.state.Suggestions = []location.Location{}
	c.state.IsLoading = false
	c.notify(prev)
}

// OnSuggestionPicked selects a location from the suggestion list or the
// history.
func (c *Coordinator) OnSuggestionPicked(loc location.Location) {
	c.selectLocation(loc, "suggestion")
}

// OnMapClicked selects a location that was reverse geocoded from a map click.
func (c *Coordinator) OnMapClicked(loc location.Location) {
	c.selectLocation(loc, "map")
}

func (c *Coordinator) selectLocation(loc location.Location, source string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	prev := c.state.clone()
	c.invalidate()

	selected := loc
	c.state.Selected = &selected
	c.state.Selection++
	c.state.Query = loc.DisplayName
	c.state.Suggestions = []location.Location{}
	c.state.IsLoading = false

	next := c.history.Record(loc, c.state.History)
	if !next.Equal(c.state.History) {
		c.state.History = next
		c.history.Persist(c.ctx, next)
	}

	c.log.Info().
		Str("source", source).
		Int64("place_id", loc.PlaceID).
		Str("name", loc.DisplayName).
		Msg("Selected location")

	c.notify(prev)
}

// Close stops pending work and waits for running searches. Their results
// are dropped.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.invalidate()
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

// invalidate stops the debounce timer and makes every running search stale.
// c.mu must be held.
func (c *Coordinator) invalidate() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// startSearch runs the geocoder in the background. c.mu must be held.
func (c *Coordinator) startSearch(gen uint64, query string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		results := c.geocoder.Search(c.ctx, strings.TrimSpace(query))
		c.applyResults(gen, query, results)
	}()
}

func (c *Coordinator) applyResults(gen uint64, query string, results []location.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen {
		c.log.Debug().
			Str("query", query).
			Uint64("generation", gen).
			Msg("Dropping stale search results")
		return
	}

	if results == nil {
		results = []location.Location{}
	}

	prev := c.state.clone()
	c.state.Suggestions = results
	c.state.IsLoading = false
	c.notify(prev)
}

// notify calls all listeners. c.mu must be held.
func (c *Coordinator) notify(prev State) {
	if len(c.listeners) == 0 {
		return
	}

	next := c.state.clone()
	for _, s := range c.listeners {
		s.fn(prev, next)
	}
}

func (s State) clone() State {
	out := s
	out.Suggestions = append([]location.Location{}, s.Suggestions...)
	out.History = append(history.List{}, s.History...)
	if s.Selected != nil {
		selected := *s.Selected
		out.Selected = &selected
	}
	return out
}
