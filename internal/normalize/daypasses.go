package normalize

import (
	"bikeprice/internal/models"
	"fmt"
	"strings"
)

// requiredOfferFields must all be present on a pass offer. auto_renewable
// only needs the key, its value may be false.
var requiredOfferFields = []string{"id", "vehicle_type", "duration", "free_time", "price", "currency", "account_id", "auto_renewable"}

// DayPasses normalizes the pass offers found at accounts[0].pass_offers of a
// nearby payload.
func DayPasses(raw any, policy Policy) Result[models.DayDeal] {
	res := newResult[models.DayDeal]()

	s := classifyDayPasses(raw)
	if s.kind == shapeUnrecognized {
		res.notef("no dayDeals: %s", s.reason)
		return *res
	}

	for i, item := range s.items {
		where := fmt.Sprintf("dayDeals[%d]", i)
		offer, ok := object(item)
		if !ok {
			res.notef("%s: expected object, got %s, skipped", where, typeName(item))
			continue
		}
		if d, keep := dayPass(offer, i, where, policy, res); keep {
			res.Records = append(res.Records, d)
		}
	}
	return *res
}

func missingOfferFields(offer map[string]any) []string {
	var missing []string
	for _, f := range requiredOfferFields {
		v, ok := offer[f]
		if !ok || (f != "auto_renewable" && !present(v)) {
			missing = append(missing, f)
		}
	}
	return missing
}

// present treats null and empty strings as absent.
func present(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}

func dayPass(offer map[string]any, index int, where string, policy Policy, res *Result[models.DayDeal]) (models.DayDeal, bool) {
	if missing := missingOfferFields(offer); len(missing) > 0 {
		if res.rejected(policy, where, "missing "+strings.Join(missing, ", ")) {
			return models.DayDeal{}, false
		}
	}

	d := models.DayDeal{
		ID:            firstText(offer, "id"),
		VehicleType:   firstText(offer, "vehicle_type"),
		Duration:      firstText(offer, "duration"),
		FreeTime:      map[string]string{},
		Currency:      firstText(offer, "currency"),
		AccountID:     firstText(offer, "account_id"),
		Tag:           nullableText(offer["tag"]),
		Name:          nullableText(offer["name"]),
		AutoRenewable: truthy(offer["auto_renewable"]),
	}
	if d.ID == "" {
		d.ID = fmt.Sprintf("deal-%d", index)
	}
	d.BikeType = d.VehicleType
	d.Title = models.TitlePedalBike
	if strings.Contains(strings.ToLower(d.VehicleType), "ebike") {
		d.Title = models.TitleEBike
	}

	if ft, ok := object(offer["free_time"]); ok {
		for vehicle, v := range ft {
			if s, ok := text(v); ok {
				d.FreeTime[vehicle] = s
			}
		}
	} else if offer["free_time"] != nil && res.rejected(policy, where, "free_time is "+typeName(offer["free_time"])) {
		return d, false
	}

	if offer["price"] != nil {
		price, err := amount(offer["price"])
		if err != nil {
			if res.rejected(policy, where, "price: "+err.Error()) {
				return d, false
			}
		} else {
			d.Price = price.InexactFloat64()
		}
	}

	if d.Duration != "" {
		length, err := models.ParseDuration(d.Duration)
		if err != nil {
			if res.rejected(policy, where, "duration: "+err.Error()) {
				return d, false
			}
		} else {
			d.DurationHours = length.Hours()
		}
	}
	return d, true
}

// OfferCount reports how many pass offers a nearby payload lists, whether or
// not they would survive normalization.
func OfferCount(raw any) int {
	return len(classifyDayPasses(raw).items)
}
