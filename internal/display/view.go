package display

import (
	"bikeprice/internal/models"
	"fmt"
	"sort"
	"strings"
)

const (
	MessageNoCity     = "No pricing data found for this city."
	MessageNoPasses   = "No passes available"
	messageNoPricing  = "Pricing information is not currently available for %s."
	unknownBikeLabel  = "Unknown Bike"
	otherVehicleOrder = 99
)

var vehicleLabels = map[string]string{
	"bike":   "Classic Bike",
	"ebike":  "Electric Bike",
	"cargo":  "Cargo Bike",
	"ecargo": "E-Cargo Bike",
}

var vehicleOrder = map[string]int{
	"bike":   0,
	"ebike":  1,
	"cargo":  2,
	"ecargo": 3,
}

func VehicleLabel(vehicleType string) string {
	if label, ok := vehicleLabels[vehicleType]; ok {
		return label
	}
	return unknownBikeLabel
}

func vehicleRank(vehicleType string) int {
	if rank, ok := vehicleOrder[vehicleType]; ok {
		return rank
	}
	return otherVehicleOrder
}

func isEBike(bikeType string) bool {
	return strings.EqualFold(bikeType, "ebike")
}

type TierLine struct {
	Label string `json:"label"`
	Price string `json:"price"`
}

type RideCard struct {
	ID            string     `json:"id"`
	VehicleType   string     `json:"vehicleType"`
	Title         string     `json:"title"`
	Interval      []string   `json:"interval,omitempty"`
	Tiers         []TierLine `json:"tiers,omitempty"`
	AdditionalDay string     `json:"additionalDay,omitempty"`
}

type MembershipCard struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	Period      string `json:"period"`
	Popular     bool   `json:"popular"`
}

type DayDealCard struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	EBike      bool   `json:"ebike"`
	Price      string `json:"price"`
	RidingTime string `json:"ridingTime,omitempty"`
	ValidFor   string `json:"validFor"`
}

// CityView is everything the pricing page renders for one city.
type CityView struct {
	City            string           `json:"city"`
	Country         string           `json:"country,omitempty"`
	Message         string           `json:"message,omitempty"`
	Warning         string           `json:"warning,omitempty"`
	JustRide        []RideCard       `json:"justRide"`
	Memberships     []MembershipCard `json:"memberships"`
	DayDeals        []DayDealCard    `json:"dayDeals"`
	DayDealsMessage string           `json:"dayDealsMessage,omitempty"`
}

// BuildCityView renders pricing for name. A nil pricing means the city is
// not in the snapshot.
func BuildCityView(name string, pricing *models.CityPricing) CityView {
	view := CityView{
		City:        name,
		JustRide:    []RideCard{},
		Memberships: []MembershipCard{},
		DayDeals:    []DayDealCard{},
	}
	if pricing == nil {
		view.Message = MessageNoCity
		return view
	}
	view.Warning = pricing.Warning
	if pricing.IsEmpty() {
		view.Message = fmt.Sprintf(messageNoPricing, name)
		return view
	}

	rides := make([]models.PayPerRidePricing, len(pricing.JustRide))
	copy(rides, pricing.JustRide)
	sort.SliceStable(rides, func(i, j int) bool {
		return vehicleRank(rides[i].VehicleType) < vehicleRank(rides[j].VehicleType)
	})
	for _, p := range rides {
		view.JustRide = append(view.JustRide, rideCard(p))
	}

	for _, m := range pricing.Memberships {
		view.Memberships = append(view.Memberships, MembershipCard{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.ShortDescription,
			Price:       FormatPrice(float64(m.Price), m.Currency),
			Period:      "/" + m.Period,
			Popular:     m.Popular,
		})
	}

	deals := make([]models.DayDeal, len(pricing.DayDeals))
	copy(deals, pricing.DayDeals)
	// pedal bikes first
	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].Title == models.TitlePedalBike && deals[j].Title == models.TitleEBike
	})
	for _, d := range deals {
		view.DayDeals = append(view.DayDeals, dayDealCard(d))
	}
	if len(view.DayDeals) == 0 {
		view.DayDealsMessage = MessageNoPasses
	}
	return view
}

func rideCard(p models.PayPerRidePricing) RideCard {
	card := RideCard{
		ID:          p.ID,
		VehicleType: p.VehicleType,
		Title:       VehicleLabel(p.VehicleType),
	}

	if ip := p.Duration.Interval; ip != nil {
		if ip.StartingFee != ip.CostPerInterval {
			card.Interval = append(card.Interval, fmt.Sprintf("%s for first %d minutes", FormatPrice(ip.StartingFee, p.Currency), ip.StartingFeeDurationMinutes))
		}
		card.Interval = append(card.Interval, fmt.Sprintf("%s every %d minutes", FormatPrice(ip.CostPerInterval, p.Currency), ip.IntervalLengthMinutes))
	} else {
		tiers := make([]models.PricingTier, len(p.Duration.Tiers))
		copy(tiers, p.Duration.Tiers)
		sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].DurationMinutes < tiers[j].DurationMinutes })
		for _, t := range tiers {
			if t.IsIntervalPricing && t.IntervalLabel != "" {
				card.Interval = append(card.Interval, FormatPrice(t.Price, t.Currency)+" "+t.IntervalLabel)
				continue
			}
			card.Tiers = append(card.Tiers, TierLine{Label: TierLabel(t.DurationMinutes), Price: FormatPrice(t.Price, t.Currency)})
		}
	}

	if p.AdditionalDay != nil && *p.AdditionalDay != 0 {
		card.AdditionalDay = FormatPrice(*p.AdditionalDay, p.Currency)
	}
	return card
}

func dayDealCard(d models.DayDeal) DayDealCard {
	title := "Electric Bike"
	if d.VehicleType == "bike" {
		title = "Classic Bike"
	}
	return DayDealCard{
		ID:         d.ID,
		Title:      title,
		EBike:      isEBike(d.BikeType),
		Price:      FormatPrice(d.Price, d.Currency),
		RidingTime: RidingTimeLabel(d),
		ValidFor:   ValidForLabel(d.DurationHours),
	}
}
