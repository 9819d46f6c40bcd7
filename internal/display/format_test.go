package display

import (
	"bikeprice/internal/models"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDurationLabel(t *testing.T) {
	cases := map[float64]string{
		30:    "30min",
		60:    "1h",
		90:    "1.5h",
		180:   "3h",
		1440:  "1 day",
		2880:  "2 days",
		10080: "1 week",
		20160: "2 weeks",
		-1:    "",
	}
	for minutes, want := range cases {
		assert.Equal(t, want, DurationLabel(minutes), "minutes=%v", minutes)
	}
	assert.Equal(t, "", DurationLabel(math.NaN()))
}

func TestTierLabelRoundsLongTiers(t *testing.T) {
	assert.Equal(t, "15min", TierLabel(15))
	assert.Equal(t, "2h", TierLabel(120))
	assert.Equal(t, "1 day", TierLabel(1500))
	assert.Equal(t, "3 days", TierLabel(4000))
	assert.Equal(t, "1 week", TierLabel(10080))
	assert.Equal(t, "2 weeks", TierLabel(19000))
}

func TestFormatPriceRoundsUp(t *testing.T) {
	assert.Equal(t, "13 DKK", FormatPrice(12.1, "DKK"))
	assert.Equal(t, "12 DKK", FormatPrice(12, "DKK"))
	assert.Equal(t, "0 EUR", FormatPrice(0, ""))
	assert.Equal(t, "- CHF", FormatPrice(math.Inf(1), "CHF"))
}

func TestFreeTimeLabel(t *testing.T) {
	assert.Equal(t, "2 hours", FreeTimeLabel("PT7200S"))
	assert.Equal(t, "1 hour", FreeTimeLabel("PT1H"))
	assert.Equal(t, "", FreeTimeLabel(""))
	assert.Equal(t, "", FreeTimeLabel("two hours"))
}

func TestRidingTimeLabelUsesVehicleKey(t *testing.T) {
	deal := models.DayDeal{
		BikeType: "ebike",
		FreeTime: map[string]string{"bike": "PT3600S", "ebike": "PT7200S"},
	}
	assert.Equal(t, "2 hours of riding time", RidingTimeLabel(deal))

	deal.BikeType = "bike"
	assert.Equal(t, "1 hour of riding time", RidingTimeLabel(deal))

	deal.FreeTime = map[string]string{}
	assert.Equal(t, "", RidingTimeLabel(deal))
}

func TestValidForLabel(t *testing.T) {
	assert.Equal(t, "Valid for 1 day", ValidForLabel(24))
	assert.Equal(t, "Valid for 3 days", ValidForLabel(72))
	assert.Equal(t, "Valid for 12h", ValidForLabel(12))
}
