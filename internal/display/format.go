package display

import (
	"bikeprice/internal/models"
	"fmt"
	"github.com/shopspring/decimal"
	"math"
	"strconv"
)

const defaultCurrency = "EUR"

// FormatPrice rounds amount up to a whole unit: 12.1 DKK shows as "13 DKK".
func FormatPrice(amount float64, currency string) string {
	if currency == "" {
		currency = defaultCurrency
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "- " + currency
	}
	return decimal.NewFromFloat(amount).Ceil().String() + " " + currency
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func plural(n float64, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return number(n) + " " + many
}

// DurationLabel picks the most specific unit: weeks, then days, then hours,
// with anything under an hour in minutes.
func DurationLabel(minutes float64) string {
	if minutes < 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return ""
	}
	if minutes < 60 {
		return number(minutes) + "min"
	}
	hours := minutes / 60
	switch {
	case math.Mod(hours, 168) == 0:
		return plural(hours/168, "week", "weeks")
	case math.Mod(hours, 24) == 0:
		return plural(hours/24, "day", "days")
	}
	return number(hours) + "h"
}

// TierLabel rounds long tiers to the nearest week or day.
func TierLabel(minutes int) string {
	switch {
	case minutes >= 10080:
		return plural(math.Round(float64(minutes)/10080), "week", "weeks")
	case minutes >= 1440:
		return plural(math.Round(float64(minutes)/1440), "day", "days")
	}
	return DurationLabel(float64(minutes))
}

// FreeTimeLabel turns an ISO duration such as "PT7200S" into "2 hours".
// Unparseable input gives an empty label.
func FreeTimeLabel(iso string) string {
	if iso == "" {
		return ""
	}
	d, err := models.ParseDuration(iso)
	if err != nil {
		return ""
	}
	return plural(d.Hours(), "hour", "hours")
}

// RidingTimeLabel reads the free riding time for the deal's own vehicle.
func RidingTimeLabel(deal models.DayDeal) string {
	key := "bike"
	if isEBike(deal.BikeType) {
		key = "ebike"
	}
	label := FreeTimeLabel(deal.FreeTime[key])
	if label == "" {
		return ""
	}
	return label + " of riding time"
}

func ValidForLabel(hours float64) string {
	return fmt.Sprintf("Valid for %s", DurationLabel(hours*60))
}
