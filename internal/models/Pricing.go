package models

import (
	"bytes"
	"fmt"
	json "github.com/goccy/go-json"
)

type MembershipPlan struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Price            int64  `json:"price"`
	Currency         string `json:"currency"`
	Period           string `json:"period"`
	ShortDescription string `json:"short_description"`
	Popular          bool   `json:"popular"`
}

type PricingTier struct {
	DurationMinutes   int     `json:"duration_minutes"`
	Price             float64 `json:"price"`
	Currency          string  `json:"currency"`
	IsIntervalPricing bool    `json:"is_interval_pricing"`
	IntervalLabel     string  `json:"interval_label,omitempty"`
}

// IntervalPricing charges CostPerInterval for every IntervalLengthMinutes,
// with StartingFee covering the first StartingFeeDurationMinutes.
type IntervalPricing struct {
	IntervalLengthMinutes          int     `json:"interval_length_minutes"`
	NormalizationPeriodMinutes     int     `json:"normalization_period_mins,omitempty"`
	StartingFee                    float64 `json:"starting_fee_in_major_units"`
	StartingFeeDurationMinutes     int     `json:"starting_fee_duration_minutes"`
	CostPerInterval                float64 `json:"cost_per_interval_in_major_units"`
	MaxPricePerNormalizationPeriod float64 `json:"max_price_per_normalization_period_in_major_units,omitempty"`
}

func (ip *IntervalPricing) Label() string {
	return fmt.Sprintf("every %d minutes", ip.IntervalLengthMinutes)
}

// DurationModel holds exactly one of Tiers or Interval. On the wire the tier
// arm is a JSON array and the interval arm a JSON object.
type DurationModel struct {
	Tiers    []PricingTier
	Interval *IntervalPricing
}

func TieredDuration(tiers []PricingTier) DurationModel {
	if tiers == nil {
		tiers = []PricingTier{}
	}
	return DurationModel{Tiers: tiers}
}

func IntervalDuration(ip IntervalPricing) DurationModel {
	return DurationModel{Interval: &ip}
}

func (d DurationModel) IsInterval() bool {
	return d.Interval != nil
}

// FallbackTiers renders the interval arm as a single tier for consumers that
// only understand tier lists.
func (d DurationModel) FallbackTiers(currency string) []PricingTier {
	if d.Interval == nil {
		return d.Tiers
	}
	return []PricingTier{{
		DurationMinutes:   d.Interval.IntervalLengthMinutes,
		Price:             d.Interval.StartingFee,
		Currency:          currency,
		IsIntervalPricing: true,
		IntervalLabel:     d.Interval.Label(),
	}}
}

func (d DurationModel) MarshalJSON() ([]byte, error) {
	if d.Interval != nil {
		return json.Marshal(d.Interval)
	}
	if d.Tiers == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.Tiers)
}

func (d *DurationModel) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*d = DurationModel{}
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		d.Tiers = []PricingTier{}
		return nil
	case trimmed[0] == '[':
		tiers := []PricingTier{}
		if err := json.Unmarshal(trimmed, &tiers); err != nil {
			return err
		}
		d.Tiers = tiers
		return nil
	case trimmed[0] == '{':
		var ip IntervalPricing
		if err := json.Unmarshal(trimmed, &ip); err != nil {
			return err
		}
		d.Interval = &ip
		return nil
	}
	return fmt.Errorf("duration must be an array or an object, got %q", string(trimmed[:1]))
}

type PayPerRidePricing struct {
	ID                      string        `json:"id"`
	VehicleType             string        `json:"vehicle_type"`
	Currency                string        `json:"currency"`
	Strategy                string        `json:"strategy"`
	ReservationEnabled      bool          `json:"reservation_enabled"`
	ReservationFee          *float64      `json:"reservation_fee,omitempty"`
	ReservationTimeMinutes  *int          `json:"reservation_time_minutes,omitempty"`
	TheftInsurance          float64       `json:"theft_insurance"`
	TheftInsuranceFactor    *float64      `json:"theft_insurance_factor,omitempty"`
	TheftInsuranceHourPrice float64       `json:"theft_insurance_hour_price"`
	Duration                DurationModel `json:"duration"`
	AdditionalDay           *float64      `json:"additional_day,omitempty"`
}

type DayDeal struct {
	ID            string            `json:"id"`
	VehicleType   string            `json:"vehicle_type"`
	Duration      string            `json:"duration"`
	FreeTime      map[string]string `json:"free_time"`
	Price         float64           `json:"price"`
	Currency      string            `json:"currency"`
	AccountID     string            `json:"account_id"`
	Tag           *string           `json:"tag"`
	Name          *string           `json:"name"`
	AutoRenewable bool              `json:"auto_renewable"`
	BikeType      string            `json:"bike_type"`
	DurationHours float64           `json:"duration_hours"`
	Title         string            `json:"title"`
}

const (
	TitleEBike     = "E-bike"
	TitlePedalBike = "Pedal bike"
)

type CityPricing struct {
	CityName    string              `json:"-"`
	Memberships []MembershipPlan    `json:"memberships"`
	JustRide    []PayPerRidePricing `json:"justRide"`
	DayDeals    []DayDeal           `json:"dayDeals"`
	Warning     string              `json:"warning,omitempty"`
}

func NewCityPricing(name string) *CityPricing {
	return &CityPricing{
		CityName:    name,
		Memberships: []MembershipPlan{},
		JustRide:    []PayPerRidePricing{},
		DayDeals:    []DayDeal{},
	}
}

func (p *CityPricing) IsEmpty() bool {
	return len(p.Memberships) == 0 && len(p.JustRide) == 0 && len(p.DayDeals) == 0
}

func (p *CityPricing) Count(k Kind) int {
	switch k {
	case KindMemberships:
		return len(p.Memberships)
	case KindPayPerRide:
		return len(p.JustRide)
	case KindDayPass:
		return len(p.DayDeals)
	}
	return 0
}

func (p *CityPricing) ensureLists() {
	if p.Memberships == nil {
		p.Memberships = []MembershipPlan{}
	}
	if p.JustRide == nil {
		p.JustRide = []PayPerRidePricing{}
	}
	if p.DayDeals == nil {
		p.DayDeals = []DayDeal{}
	}
}
