package location

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Location is a geocoded place. Values are never modified after they are
// built; a different place is a different Location.
type Location struct {
	PlaceID int64 `json:"place_id"`

	// Lat and Lon keep the provider's decimal text so that it survives
	// round-trips unchanged.
	Lat string `json:"lat"`
	Lon string `json:"lon"`

	DisplayName string `json:"display_name"`
	Type        string `json:"type"`

	// Importance is derived from PlaceID and carries no ranking meaning.
	Importance float64 `json:"importance"`

	Address *Address `json:"address,omitempty"`
}

// Address is the partial structured address of a Location.
type Address struct {
	Road        string `json:"road,omitempty"`
	HouseNumber string `json:"house_number,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
}

// Coordinate is a numeric latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Coordinate parses Lat and Lon. Conversion happens here and nowhere else.
func (l Location) Coordinate() (Coordinate, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(l.Lat), 64)
	if err != nil {
		return Coordinate{}, errors.Wrapf(err, "parse latitude %q", l.Lat)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(l.Lon), 64)
	if err != nil {
		return Coordinate{}, errors.Wrapf(err, "parse longitude %q", l.Lon)
	}

	return Coordinate{Lat: lat, Lon: lon}, nil
}

// ShortName returns the first comma separated part of the display name.
func (l Location) ShortName() string {
	name := l.DisplayName
	if i := strings.Index(name, ","); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// Equal reports whether both locations carry the same values.
func (l Location) Equal(o Location) bool {
	if l.PlaceID != o.PlaceID ||
		l.Lat != o.Lat ||
		l.Lon != o.Lon ||
		l.DisplayName != o.DisplayName ||
		l.Type != o.Type ||
		l.Importance != o.Importance {
		return false
	}

	switch {
	case l.Address == nil && o.Address == nil:
		return true
	case l.Address == nil || o.Address == nil:
		return false
	default:
		return *l.Address == *o.Address
	}
}

// FormatCoordinate renders a coordinate component the way the provider
// expects it in query strings.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
