package normalize

import (
	"bikeprice/internal/models"
	"fmt"
	"github.com/shopspring/decimal"
)

// Memberships normalizes a plans payload: a bare list, {plans:[...]} or
// {plan:{...}}. Prices are rounded half-up to whole currency units.
func Memberships(raw any, policy Policy) Result[models.MembershipPlan] {
	res := newResult[models.MembershipPlan]()

	s := classifyMemberships(raw)
	if s.kind == shapeUnrecognized {
		res.notef("no memberships: %s", s.reason)
		return *res
	}

	for i, item := range s.items {
		where := fmt.Sprintf("memberships[%d]", i)
		plan, ok := object(item)
		if !ok {
			res.notef("%s: expected object, got %s, skipped", where, typeName(item))
			continue
		}
		if p, keep := membership(plan, i, where, policy, res); keep {
			res.Records = append(res.Records, p)
		}
	}
	return *res
}

func membership(plan map[string]any, index int, where string, policy Policy, res *Result[models.MembershipPlan]) (models.MembershipPlan, bool) {
	p := models.MembershipPlan{
		ID:               firstText(plan, "id"),
		Name:             firstText(plan, "name", "title"),
		Currency:         firstText(plan, "currency"),
		Period:           firstText(plan, "interval"),
		ShortDescription: firstText(plan, "short_description", "description"),
		Popular:          truthy(plan["featured"]),
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("plan-%d", index)
	}
	if p.Name == "" {
		p.Name = "Plan"
	}
	if p.Period == "" {
		p.Period = "month"
	}

	if p.Currency == "" && res.rejected(policy, where, "missing currency") {
		return p, false
	}

	price, err := amount(plan["price"])
	if err != nil {
		if res.rejected(policy, where, "price: "+err.Error()) {
			return p, false
		}
		price = decimal.Zero
	}
	// a yearly discount replaces the list price when present
	if truthy(plan["yearly_discount"]) {
		if discount, err := amount(plan["yearly_discount"]); err == nil {
			price = discount
		}
	}
	if price.IsNegative() {
		if res.rejected(policy, where, "negative price "+price.String()) {
			return p, false
		}
		price = decimal.Zero
	}
	p.Price = price.Round(0).IntPart()
	return p, true
}
