package models

import (
	"net/url"
	"strconv"
	"strings"
)

type Country string

const (
	CountryDenmark     Country = "Denmark"
	CountryNetherlands Country = "Netherlands"
	CountryBelgium     Country = "Belgium"
	CountrySpain       Country = "Spain"
	CountryGermany     Country = "Germany"
	CountryFinland     Country = "Finland"
	CountrySwitzerland Country = "Switzerland"
	CountrySweden      Country = "Sweden"
	CountryUnknown     Country = "Unknown"
)

var countryCodes = map[string]Country{
	"DK": CountryDenmark,
	"NL": CountryNetherlands,
	"BE": CountryBelgium,
	"ES": CountrySpain,
	"DE": CountryGermany,
	"FI": CountryFinland,
	"CH": CountrySwitzerland,
	"SE": CountrySweden,
}

func CountryFromCode(code string) Country {
	if c, ok := countryCodes[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return c
	}
	return CountryUnknown
}

// Code returns the ISO 3166-1 alpha-2 code, empty for CountryUnknown.
func (c Country) Code() string {
	for code, country := range countryCodes {
		if country == c {
			return code
		}
	}
	return ""
}

// Kind is one of the three pricing families fetched per city.
type Kind int

const (
	KindMemberships Kind = iota
	KindPayPerRide
	KindDayPass
)

var Kinds = []Kind{KindMemberships, KindPayPerRide, KindDayPass}

func (k Kind) String() string {
	switch k {
	case KindMemberships:
		return "memberships"
	case KindPayPerRide:
		return "justRide"
	case KindDayPass:
		return "dayDeals"
	}
	return "unknown"
}

// AcceptVersion is the vendor media type the upstream API expects per kind.
func (k Kind) AcceptVersion() string {
	if k == KindPayPerRide {
		return "application/com.donkeyrepublic.v4"
	}
	return "application/com.donkeyrepublic.v8"
}

type City struct {
	Name           string `json:"city_name" validate:"required"`
	AppID          int    `json:"city_app_id"`
	MembershipsURL string `json:"memberships_api_url" validate:"required|fullUrl"`
	PayPerRideURL  string `json:"just_ride_api_url" validate:"required|fullUrl"`
	DayPassURL     string `json:"day_deals_api_url" validate:"required|fullUrl"`
}

func (c City) URL(k Kind) string {
	switch k {
	case KindMemberships:
		return c.MembershipsURL
	case KindPayPerRide:
		return c.PayPerRideURL
	case KindDayPass:
		return c.DayPassURL
	}
	return ""
}

func (c City) queryParam(name string) string {
	for _, raw := range []string{c.MembershipsURL, c.PayPerRideURL, c.DayPassURL} {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		if v := u.Query().Get(name); v != "" {
			return v
		}
	}
	return ""
}

// Country is derived from the country_code query parameter of the endpoint URLs.
func (c City) Country() Country {
	return CountryFromCode(c.queryParam("country_code"))
}

// Location returns the "lat,lng" pair embedded in the endpoint URLs.
func (c City) Location() (lat, lng float64, ok bool) {
	parts := strings.Split(c.queryParam("location"), ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLng != nil {
		return 0, 0, false
	}
	return lat, lng, true
}
