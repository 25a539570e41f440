package main

import (
	"github.com/chronophylos/locfinder/search"
	"github.com/rs/zerolog"
)

const maxAnalyticsName = 120

// trackSelections writes one analytics event per selection.
func trackSelections(analytics zerolog.Logger) search.Listener {
	return func(prev, next search.State) {
		if prev.Selection == next.Selection || next.Selected == nil {
			return
		}

		loc := next.Selected
		analytics.Log().
			Str("event", "select").
			Int64("place_id", loc.PlaceID).
			Str("name", truncate(loc.DisplayName, maxAnalyticsName)).
			Str("type", loc.Type).
			Str("lat", loc.Lat).
			Str("lon", loc.Lon).
			Int("history", len(next.History)).
			Send()
	}
}
