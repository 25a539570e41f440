package nominatim

import "github.com/chronophylos/locfinder/location"

type apiPlace struct {
	Licence string `json:"licence"`

	PlaceID int64  `json:"place_id"`
	OSMType string `json:"osm_type"`
	OSMID   int64  `json:"osm_id"`

	Lat string `json:"lat"`
	Lon string `json:"lon"`

	Name        string            `json:"display_name"`
	Address     map[string]string `json:"address"`
	BoundingBox []string          `json:"boundingbox"`

	// only set by /reverse when nothing was found
	Error string `json:"error"`
}

// newLocationFromAPI maps a raw provider record to a Location.
func newLocationFromAPI(p apiPlace) location.Location {
	return location.Location{
		PlaceID:     p.PlaceID,
		Lat:         p.Lat,
		Lon:         p.Lon,
		DisplayName: p.Name,
		Type:        Classify(p.Address),
		Importance:  float64(p.PlaceID) / 1000000,
		Address:     newAddress(p.Address),
	}
}

func newAddress(a map[string]string) *location.Address {
	if len(a) == 0 {
		return nil
	}

	return &location.Address{
		Road:        a["road"],
		HouseNumber: a["house_number"],
		City:        pickCity(a),
		State:       a["state"],
		Country:     a["country"],
		Postcode:    a["postcode"],
	}
}

func pickCity(a map[string]string) string {
	for _, key := range []string{"city", "town", "village"} {
		if a[key] != "" {
			return a[key]
		}
	}
	return ""
}
