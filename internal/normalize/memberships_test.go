package normalize

import (
	"bikeprice/internal/models"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode mirrors what the upstream client hands to the normalizers.
func decode(t *testing.T, payload string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(payload), &v))
	return v
}

func TestMemberships_ShapesAreEquivalent(t *testing.T) {
	plan := `{"id":"p1","name":"Monthly","price":"49","currency":"DKK","interval":"month","featured":true}`
	shapes := map[string]string{
		"bare list":   `[` + plan + `]`,
		"plans field": `{"plans":[` + plan + `]}`,
		"single plan": `{"plan":` + plan + `}`,
	}

	var reference *models.MembershipPlan
	for name, payload := range shapes {
		t.Run(name, func(t *testing.T) {
			res := Memberships(decode(t, payload), Strict)
			require.Len(t, res.Records, 1)
			assert.Empty(t, res.Diagnostics)

			p := res.Records[0]
			assert.Equal(t, "p1", p.ID)
			assert.Equal(t, "Monthly", p.Name)
			assert.Equal(t, int64(49), p.Price)
			assert.Equal(t, "DKK", p.Currency)
			assert.True(t, p.Popular)
			if reference == nil {
				reference = &p
			}
			assert.Equal(t, *reference, p)
		})
	}
}

func TestMemberships_Defaults(t *testing.T) {
	for _, policy := range []Policy{Strict, Lenient} {
		t.Run(policy.String(), func(t *testing.T) {
			res := Memberships(decode(t, `[{"price":"9.5","currency":"EUR"}]`), policy)
			require.Len(t, res.Records, 1)

			p := res.Records[0]
			assert.Equal(t, "plan-0", p.ID)
			assert.Equal(t, "Plan", p.Name)
			assert.Equal(t, int64(10), p.Price)
			assert.Equal(t, "EUR", p.Currency)
			assert.Equal(t, "month", p.Period)
			assert.Equal(t, "", p.ShortDescription)
			assert.False(t, p.Popular)
		})
	}
}

func TestMemberships_Fallbacks(t *testing.T) {
	res := Memberships(decode(t, `[{"id":7,"title":"Yearly","price":300,"yearly_discount":"250","currency":"EUR","interval":"year","description":"Best value"}]`), Strict)
	require.Len(t, res.Records, 1)

	p := res.Records[0]
	assert.Equal(t, "7", p.ID)
	assert.Equal(t, "Yearly", p.Name)
	assert.Equal(t, int64(250), p.Price)
	assert.Equal(t, "year", p.Period)
	assert.Equal(t, "Best value", p.ShortDescription)
}

func TestMemberships_InvalidRecordsFollowPolicy(t *testing.T) {
	payload := `[
		{"price":"abc","currency":"EUR"},
		{"price":10},
		{"price":-5,"currency":"EUR"},
		{"price":12.4,"currency":"EUR"}
	]`

	strict := Memberships(decode(t, payload), Strict)
	require.Len(t, strict.Records, 1)
	assert.Equal(t, "plan-3", strict.Records[0].ID)
	assert.Equal(t, int64(12), strict.Records[0].Price)
	assert.Len(t, strict.Diagnostics, 3)
	for _, d := range strict.Diagnostics {
		assert.Contains(t, d, "dropped")
	}

	lenient := Memberships(decode(t, payload), Lenient)
	require.Len(t, lenient.Records, 4)
	assert.Equal(t, int64(0), lenient.Records[0].Price)
	assert.Equal(t, "", lenient.Records[1].Currency)
	assert.Equal(t, int64(0), lenient.Records[2].Price)
	for _, p := range lenient.Records {
		assert.GreaterOrEqual(t, p.Price, int64(0))
	}
}

func TestMemberships_UnrecognizedShape(t *testing.T) {
	for name, payload := range map[string]string{
		"null":      `null`,
		"string":    `"maintenance"`,
		"no plans":  `{"error":"not found"}`,
		"plan list": `{"plan":[1,2]}`,
	} {
		t.Run(name, func(t *testing.T) {
			res := Memberships(decode(t, payload), Strict)
			assert.NotNil(t, res.Records)
			assert.Empty(t, res.Records)
			require.Len(t, res.Diagnostics, 1)
			assert.Contains(t, res.Diagnostics[0], "no memberships")
		})
	}
}

func TestMemberships_SkipsNonObjects(t *testing.T) {
	res := Memberships(decode(t, `[1, {"price":5,"currency":"EUR"}]`), Strict)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "plan-1", res.Records[0].ID)
	assert.Len(t, res.Diagnostics, 1)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("LENIENT")
	require.NoError(t, err)
	assert.Equal(t, Lenient, p)

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Strict, p)

	_, err = ParsePolicy("loose")
	assert.Error(t, err)
}
