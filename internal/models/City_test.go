package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCity(code, location string) City {
	base := "https://stables.donkey.bike/api/public/"
	return City{
		Name:           "Test",
		MembershipsURL: base + "plans?location=" + location + "&country_code=" + code,
		PayPerRideURL:  base + "pricings?pricing_type=location&location=" + location,
		DayPassURL:     base + "nearby?location=" + location + "&filter_type=radius&radius=5000",
	}
}

func TestCity_Country(t *testing.T) {
	tests := []struct {
		code     string
		expected Country
	}{
		{"DK", CountryDenmark},
		{"NL", CountryNetherlands},
		{"BE", CountryBelgium},
		{"ES", CountrySpain},
		{"DE", CountryGermany},
		{"FI", CountryFinland},
		{"CH", CountrySwitzerland},
		{"SE", CountrySweden},
		{"FR", CountryUnknown},
		{"", CountryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, testCity(tt.code, "55.6,12.5").Country())
		})
	}
}

func TestCountry_Code(t *testing.T) {
	assert.Equal(t, "DK", CountryDenmark.Code())
	assert.Equal(t, "CH", CountrySwitzerland.Code())
	assert.Equal(t, "", CountryUnknown.Code())
	assert.Equal(t, CountrySweden, CountryFromCode(" se "))
}

func TestCity_Location(t *testing.T) {
	lat, lng, ok := testCity("DK", "55.6760968,12.5683372").Location()
	assert.True(t, ok)
	assert.InDelta(t, 55.6760968, lat, 1e-9)
	assert.InDelta(t, 12.5683372, lng, 1e-9)

	_, _, ok = testCity("DK", "nowhere").Location()
	assert.False(t, ok)
}

func TestCity_URLAndAcceptVersion(t *testing.T) {
	c := testCity("DK", "1,2")
	assert.Equal(t, c.MembershipsURL, c.URL(KindMemberships))
	assert.Equal(t, c.PayPerRideURL, c.URL(KindPayPerRide))
	assert.Equal(t, c.DayPassURL, c.URL(KindDayPass))

	assert.Equal(t, "application/com.donkeyrepublic.v8", KindMemberships.AcceptVersion())
	assert.Equal(t, "application/com.donkeyrepublic.v4", KindPayPerRide.AcceptVersion())
	assert.Equal(t, "application/com.donkeyrepublic.v8", KindDayPass.AcceptVersion())

	assert.Equal(t, "memberships", KindMemberships.String())
	assert.Equal(t, "justRide", KindPayPerRide.String())
	assert.Equal(t, "dayDeals", KindDayPass.String())
}
