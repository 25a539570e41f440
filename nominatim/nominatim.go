// Package nominatim talks to the OpenStreetMap Nominatim geocoding API and
// turns its answers into location.Location values.
package nominatim

// Location types, in the order they are checked.
const (
	TypeAmenity  = "Amenity"
	TypeBuilding = "Building"
	TypeShop     = "Shop"
	TypeTourism  = "Tourism"
	TypeLeisure  = "Leisure"
	TypeAddress  = "Address"
	TypeStreet   = "Street"
	TypeSuburb   = "Suburb"
	TypeCity     = "City"
	TypeCounty   = "County"
	TypeState    = "State"
	TypeCountry  = "Country"

	// TypeLocation is used when an address exists but nothing in it is known.
	TypeLocation = "Location"
	// TypeUnknown is used when there is no address at all.
	TypeUnknown = "Unknown"
)

type rule struct {
	keys []string
	typ  string
}

var rules = []rule{
	{[]string{"amenity"}, TypeAmenity},
	{[]string{"building"}, TypeBuilding},
	{[]string{"shop"}, TypeShop},
	{[]string{"tourism"}, TypeTourism},
	{[]string{"leisure"}, TypeLeisure},
	{[]string{"house_number"}, TypeAddress},
	{[]string{"road"}, TypeStreet},
	{[]string{"suburb"}, TypeSuburb},
	{[]string{"city", "town", "village"}, TypeCity},
	{[]string{"county"}, TypeCounty},
	{[]string{"state"}, TypeState},
	{[]string{"country"}, TypeCountry},
}

// Classify derives a coarse type from which address fields are present.
// The first matching rule wins. An empty address counts as no address.
func Classify(address map[string]string) string {
	if len(address) == 0 {
		return TypeUnknown
	}

	for _, r := range rules {
		for _, key := range r.keys {
			if address[key] != "" {
				return r.typ
			}
		}
	}

	return TypeLocation
}
