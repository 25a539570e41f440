// Package view prints the search state to a terminal.
package view

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/chronophylos/locfinder/history"
	"github.com/chronophylos/locfinder/location"
	"github.com/chronophylos/locfinder/search"
)

const (
	LoadingMessage   = "Loading suggestions..."
	NoResultsMessage = "No results found"
	RecentHeader     = "Recent searches"
	SuggestionHeader = "Suggestions"
	SelectedHeader   = "Selected location"
	NoHistoryMessage = "No recent searches"
)

// Highlight puts every case-insensitive occurrence of query in text between
// square brackets. The query is matched literally.
func Highlight(text, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return text
	}

	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
	return re.ReplaceAllStringFunc(text, func(m string) string {
		return "[" + m + "]"
	})
}

func writeItem(w io.Writer, n int, name string, loc location.Location) {
	fmt.Fprintf(w, "%2d. %s\n", n, name)
	fmt.Fprintf(w, "    %s: %s, %s\n", loc.Type, loc.Lat, loc.Lon)
}

// Suggestions writes the numbered suggestions with query highlighted.
func Suggestions(w io.Writer, query string, suggestions []location.Location) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, NoResultsMessage)
		return
	}

	fmt.Fprintln(w, SuggestionHeader)
	for i, s := range suggestions {
		writeItem(w, i+1, Highlight(s.DisplayName, query), s)
	}
}

// Recent writes the history list.
func Recent(w io.Writer, list history.List) {
	if len(list) == 0 {
		fmt.Fprintln(w, NoHistoryMessage)
		return
	}

	fmt.Fprintln(w, RecentHeader)
	for i, loc := range list {
		writeItem(w, i+1, loc.DisplayName, loc)
	}
}

// Selected writes the panel of the selected location.
func Selected(w io.Writer, loc location.Location) {
	fmt.Fprintln(w, SelectedHeader)
	fmt.Fprintf(w, "  %s\n", loc.DisplayName)
	fmt.Fprintf(w, "  Lat: %s\n", loc.Lat)
	fmt.Fprintf(w, "  Lon: %s\n", loc.Lon)
}

// State writes the whole state: the dropdown as the search box would show
// it followed by the selected location.
func State(w io.Writer, s search.State) {
	fmt.Fprintf(w, "Query: %q\n", s.Query)

	switch {
	case s.IsLoading:
		fmt.Fprintln(w, LoadingMessage)
	case strings.TrimSpace(s.Query) == "":
		if len(s.History) > 0 {
			Recent(w, s.History)
		}
	case s.Selected != nil && s.Query == s.Selected.DisplayName:
		// the box shows the selection, there is no dropdown
	default:
		Suggestions(w, s.Query, s.Suggestions)
	}

	if s.Selected != nil {
		Selected(w, *s.Selected)
	}
}

// Renderer prints state changes as they happen. Each change is written with
// a single Write call.
type Renderer struct {
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// OnStateChange is a search.Listener.
func (r *Renderer) OnStateChange(prev, next search.State) {
	var buf bytes.Buffer

	switch {
	case prev.Selection != next.Selection && next.Selected != nil:
		Selected(&buf, *next.Selected)

	case !prev.IsLoading && next.IsLoading:
		fmt.Fprintln(&buf, LoadingMessage)

	case prev.IsLoading && !next.IsLoading && strings.TrimSpace(next.Query) != "":
		Suggestions(&buf, next.Query, next.Suggestions)

	case prev.Query != next.Query && strings.TrimSpace(next.Query) == "" && len(next.History) > 0:
		Recent(&buf, next.History)
	}

	if buf.Len() > 0 {
		r.out.Write(buf.Bytes())
	}
}
