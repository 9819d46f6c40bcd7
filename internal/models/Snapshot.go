package models

import (
	json "github.com/goccy/go-json"
	"sort"
)

// Snapshot maps a city display name to its normalized pricing.
type Snapshot map[string]*CityPricing

func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s Snapshot) Records(k Kind) int {
	total := 0
	for _, p := range s {
		total += p.Count(k)
	}
	return total
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]*CityPricing
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Snapshot, len(raw))
	for name, pricing := range raw {
		if pricing == nil {
			pricing = NewCityPricing(name)
		}
		pricing.CityName = name
		pricing.ensureLists()
		out[name] = pricing
	}
	*s = out
	return nil
}
