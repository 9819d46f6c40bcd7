package normalize

import (
	"bikeprice/internal/models"
	"fmt"
	"github.com/shopspring/decimal"
	"sort"
	"strconv"
)

var hundred = decimal.NewFromInt(100)

// PayPerRide normalizes a pricings payload, a list of pricing objects or a
// single bare object. Each record carries exactly one duration arm.
func PayPerRide(raw any, policy Policy) Result[models.PayPerRidePricing] {
	res := newResult[models.PayPerRidePricing]()

	s := classifyPayPerRide(raw)
	if s.kind == shapeUnrecognized {
		res.notef("no justRide: %s", s.reason)
		return *res
	}

	for i, item := range s.items {
		where := fmt.Sprintf("justRide[%d]", i)
		entry, ok := object(item)
		if !ok {
			res.notef("%s: expected object, got %s, skipped", where, typeName(item))
			continue
		}
		if p, keep := payPerRide(entry, i, where, policy, res); keep {
			res.Records = append(res.Records, p)
		}
	}
	return *res
}

func payPerRide(entry map[string]any, index int, where string, policy Policy, res *Result[models.PayPerRidePricing]) (models.PayPerRidePricing, bool) {
	p := models.PayPerRidePricing{
		ID:                      firstText(entry, "id"),
		VehicleType:             firstText(entry, "vehicle_type"),
		Currency:                firstText(entry, "currency"),
		Strategy:                firstText(entry, "strategy"),
		ReservationEnabled:      truthy(entry["reservation_enabled"]),
		ReservationFee:          optionalAmount(entry["reservation_fee"]),
		ReservationTimeMinutes:  optionalWhole(entry["reservation_time_minutes"]),
		TheftInsurance:          amountOr(entry["theft_insurance"], 0),
		TheftInsuranceFactor:    optionalAmount(entry["theft_insurance_factor"]),
		TheftInsuranceHourPrice: amountOr(entry["theft_insurance_hour_price"], 0),
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("pricing-%d", index)
	}
	if p.VehicleType == "" {
		p.VehicleType = "bike"
	}
	if p.Currency == "" && res.rejected(policy, where, "missing currency") {
		return p, false
	}

	kind, d := classifyDuration(entry["duration"])
	switch kind {
	case durationInterval:
		ip, err := interval(d)
		if err != nil {
			// the interval arm has no sensible default
			res.notef("%s: interval pricing: %s, dropped", where, err)
			return p, false
		}
		p.Duration = models.IntervalDuration(ip)
		if p.Strategy == "" {
			p.Strategy = "interval_pricing"
		}
	case durationTiers:
		tiers, _ := list(d["tiers"])
		p.Duration = models.TieredDuration(listedTiers(tiers, p.Currency, where, policy, res))
	case durationLegacy:
		p.Duration = models.TieredDuration(legacyTiers(d, p.Currency, where, policy, res))
	default:
		p.Duration = models.TieredDuration(nil)
	}

	if !p.Duration.IsInterval() {
		if p.Strategy == "" {
			p.Strategy = "per_tier_billing"
		}
		if len(p.Duration.Tiers) == 0 && res.rejected(policy, where, "no pricing tiers") {
			return p, false
		}
	}

	if d != nil && truthy(d["additional_day"]) {
		if v := optionalAmount(d["additional_day"]); v != nil {
			p.AdditionalDay = v
		} else {
			res.notef("%s: invalid additional_day %v, ignored", where, d["additional_day"])
		}
	}
	return p, true
}

func interval(d map[string]any) (models.IntervalPricing, error) {
	length, err := whole(d["interval_length_minutes"])
	if err != nil {
		return models.IntervalPricing{}, err
	}
	if length <= 0 {
		return models.IntervalPricing{}, models.ParseError("interval length must be positive, got %d", length)
	}
	fee, err := amount(d["starting_fee_in_major_units"])
	if err != nil {
		return models.IntervalPricing{}, err
	}

	ip := models.IntervalPricing{
		IntervalLengthMinutes:          length,
		StartingFee:                    fee.InexactFloat64(),
		StartingFeeDurationMinutes:     length,
		CostPerInterval:                fee.InexactFloat64(),
		MaxPricePerNormalizationPeriod: amountOr(d["max_price_per_normalization_period_in_major_units"], 0),
	}
	if n := optionalWhole(d["starting_fee_duration_minutes"]); n != nil {
		ip.StartingFeeDurationMinutes = *n
	}
	if v := optionalAmount(d["cost_per_interval_in_major_units"]); v != nil {
		ip.CostPerInterval = *v
	}
	if n := optionalWhole(d["normalization_period_mins"]); n != nil {
		ip.NormalizationPeriodMinutes = *n
	}
	return ip, nil
}

// tierPrice takes price, then price_in_major_units, then price_in_minor_units.
func tierPrice(tier map[string]any) (decimal.Decimal, error) {
	if tier["price"] != nil {
		return amount(tier["price"])
	}
	if tier["price_in_major_units"] != nil {
		return amount(tier["price_in_major_units"])
	}
	if tier["price_in_minor_units"] != nil {
		minor, err := amount(tier["price_in_minor_units"])
		if err != nil {
			return decimal.Zero, err
		}
		return minor.Div(hundred), nil
	}
	return decimal.Zero, models.ParseError("missing price")
}

func listedTiers(items []any, currency, where string, policy Policy, res *Result[models.PayPerRidePricing]) []models.PricingTier {
	tiers := make([]models.PricingTier, 0, len(items))
	for i, item := range items {
		at := fmt.Sprintf("%s.tiers[%d]", where, i)
		tier, ok := object(item)
		if !ok {
			res.notef("%s: expected object, got %s, skipped", at, typeName(item))
			continue
		}
		minutes, err := whole(tier["duration_minutes"])
		if err != nil {
			res.notef("%s: duration_minutes: %s, skipped", at, err)
			continue
		}
		price, err := tierPrice(tier)
		if err != nil {
			if res.rejected(policy, at, "price: "+err.Error()) {
				continue
			}
			price = decimal.Zero
		}
		t := models.PricingTier{
			DurationMinutes:   minutes,
			Price:             price.InexactFloat64(),
			Currency:          firstText(tier, "currency"),
			IsIntervalPricing: truthy(tier["is_interval_pricing"]),
			IntervalLabel:     firstText(tier, "interval_label"),
		}
		if t.Currency == "" {
			t.Currency = currency
		}
		tiers = append(tiers, t)
	}
	return tiers
}

// legacyTiers reads {"<minutes>": "<price>"} objects in ascending minute
// order. Non-numeric keys such as additional_day are not tiers.
func legacyTiers(d map[string]any, currency, where string, policy Policy, res *Result[models.PayPerRidePricing]) []models.PricingTier {
	minutes := make([]int, 0, len(d))
	keys := make(map[int]string, len(d))
	for k := range d {
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 {
			continue
		}
		minutes = append(minutes, n)
		keys[n] = k
	}
	sort.Ints(minutes)

	tiers := make([]models.PricingTier, 0, len(minutes))
	for _, n := range minutes {
		at := fmt.Sprintf("%s.duration[%s]", where, keys[n])
		price, err := amount(d[keys[n]])
		if err != nil {
			if res.rejected(policy, at, "price: "+err.Error()) {
				continue
			}
			price = decimal.Zero
		}
		tiers = append(tiers, models.PricingTier{
			DurationMinutes: n,
			Price:           price.InexactFloat64(),
			Currency:        currency,
		})
	}
	return tiers
}
