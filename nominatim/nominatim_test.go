package nominatim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		address map[string]string
		want    string
	}{
		{"house number before road", map[string]string{"house_number": "10", "road": "Main St"}, TypeAddress},
		{"city before country", map[string]string{"city": "Paris", "country": "France"}, TypeCity},
		{"town counts as city", map[string]string{"town": "Bath", "county": "Somerset"}, TypeCity},
		{"village counts as city", map[string]string{"village": "Hallstatt"}, TypeCity},
		{"amenity wins", map[string]string{"amenity": "cafe", "building": "yes", "road": "x"}, TypeAmenity},
		{"building", map[string]string{"building": "yes", "shop": "bakery"}, TypeBuilding},
		{"shop", map[string]string{"shop": "bakery", "tourism": "x"}, TypeShop},
		{"tourism", map[string]string{"tourism": "attraction", "leisure": "park"}, TypeTourism},
		{"leisure", map[string]string{"leisure": "park", "road": "x"}, TypeLeisure},
		{"road", map[string]string{"road": "Main St", "suburb": "x"}, TypeStreet},
		{"suburb", map[string]string{"suburb": "Soho", "city": "London"}, TypeSuburb},
		{"county", map[string]string{"county": "Kent", "state": "England"}, TypeCounty},
		{"state", map[string]string{"state": "Bavaria", "country": "Germany"}, TypeState},
		{"country", map[string]string{"country": "France", "country_code": "fr"}, TypeCountry},
		{"nothing known", map[string]string{"country_code": "fr", "postcode": "75007"}, TypeLocation},
		{"empty values ignored", map[string]string{"road": "", "postcode": "1"}, TypeLocation},
		{"empty address", map[string]string{}, TypeUnknown},
		{"missing address", nil, TypeUnknown},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Classify(test.address))
		})
	}
}

func TestNewLocationFromAPI(t *testing.T) {
	assert := assert.New(t)

	loc := newLocationFromAPI(apiPlace{
		PlaceID: 12345,
		Lat:     "48.8584",
		Lon:     "2.2945",
		Name:    "Tour Eiffel, Paris, France",
		Address: map[string]string{
			"tourism":  "Tour Eiffel",
			"road":     "Avenue Anatole France",
			"village":  "Paris",
			"country":  "France",
			"postcode": "75007",
		},
	})

	assert.Equal(int64(12345), loc.PlaceID)
	assert.Equal("48.8584", loc.Lat)
	assert.Equal("2.2945", loc.Lon)
	assert.Equal(TypeTourism, loc.Type)
	assert.Equal(0.012345, loc.Importance)
	if assert.NotNil(loc.Address) {
		assert.Equal("Avenue Anatole France", loc.Address.Road)
		assert.Equal("Paris", loc.Address.City)
		assert.Equal("France", loc.Address.Country)
		assert.Equal("75007", loc.Address.Postcode)
	}

	assert.Nil(newLocationFromAPI(apiPlace{PlaceID: 1}).Address)
}
