package normalize

// shapeKind tags the recognized layouts of an upstream payload. Every
// classifier ends in shapeUnrecognized, which normalizes to no records.
type shapeKind int

const (
	shapeUnrecognized shapeKind = iota
	// [ {...}, {...} ]
	shapeList
	// { "plans": [ ... ] }
	shapePlansField
	// { "plan": {...} } for memberships, a bare object for pay-per-ride
	shapeSingle
	// { "accounts": [ { "pass_offers": [ ... ] } ] }
	shapeAccounts
)

func (k shapeKind) String() string {
	switch k {
	case shapeList:
		return "list"
	case shapePlansField:
		return "plans field"
	case shapeSingle:
		return "single object"
	case shapeAccounts:
		return "accounts"
	}
	return "unrecognized"
}

type shape struct {
	kind   shapeKind
	items  []any
	reason string
}

func unrecognized(raw any) shape {
	return shape{kind: shapeUnrecognized, reason: "unrecognized payload shape (" + typeName(raw) + ")"}
}

func classifyMemberships(raw any) shape {
	if l, ok := list(raw); ok {
		return shape{kind: shapeList, items: l}
	}
	m, ok := object(raw)
	if !ok {
		return unrecognized(raw)
	}
	if plans, ok := list(m["plans"]); ok {
		return shape{kind: shapePlansField, items: plans}
	}
	if plan, ok := object(m["plan"]); ok {
		return shape{kind: shapeSingle, items: []any{plan}}
	}
	return unrecognized(raw)
}

func classifyPayPerRide(raw any) shape {
	if l, ok := list(raw); ok {
		return shape{kind: shapeList, items: l}
	}
	if m, ok := object(raw); ok {
		return shape{kind: shapeSingle, items: []any{m}}
	}
	return unrecognized(raw)
}

func classifyDayPasses(raw any) shape {
	m, ok := object(raw)
	if !ok {
		return unrecognized(raw)
	}
	accounts, ok := list(m["accounts"])
	if !ok {
		return shape{kind: shapeUnrecognized, reason: "payload has no accounts list"}
	}
	if len(accounts) == 0 {
		return shape{kind: shapeUnrecognized, reason: "accounts list is empty"}
	}
	account, ok := object(accounts[0])
	if !ok {
		return shape{kind: shapeUnrecognized, reason: "first account is not an object"}
	}
	offers, ok := list(account["pass_offers"])
	if !ok {
		return shape{kind: shapeUnrecognized, reason: "first account has no pass_offers list"}
	}
	return shape{kind: shapeAccounts, items: offers}
}

// durationKind tags the encodings of a pay-per-ride duration field.
type durationKind int

const (
	durationMissing durationKind = iota
	// { "interval_length_minutes": "15", "starting_fee_in_major_units": "12", ... }
	durationInterval
	// { "tiers": [ { "duration_minutes": 30, "price": 10 } ] } or a bare tier list
	durationTiers
	// { "30": "10", "60": "18", "additional_day": "90" }
	durationLegacy
)

func classifyDuration(v any) (durationKind, map[string]any) {
	if l, ok := list(v); ok {
		return durationTiers, map[string]any{"tiers": l}
	}
	d, ok := object(v)
	if !ok {
		return durationMissing, nil
	}
	if truthy(d["interval_length_minutes"]) && d["starting_fee_in_major_units"] != nil {
		return durationInterval, d
	}
	if _, ok := list(d["tiers"]); ok {
		return durationTiers, d
	}
	return durationLegacy, d
}
