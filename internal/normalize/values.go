package normalize

import (
	"bikeprice/internal/models"
	"fmt"
	"github.com/shopspring/decimal"
	"strconv"
	"strings"
)

// Upstream JSON is decoded into interface{} values: numbers arrive as
// float64, objects as map[string]interface{}, arrays as []interface{}.

func object(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func list(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// text returns string values as-is and numbers in their shortest form.
func text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	}
	return "", false
}

// firstText returns the first non-empty text among keys.
func firstText(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := text(m[k]); ok && s != "" {
			return s
		}
	}
	return ""
}

func amount(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.Zero, models.ParseError("invalid amount %q", t)
		}
		return d, nil
	case nil:
		return decimal.Zero, models.ParseError("missing amount")
	}
	return decimal.Zero, models.ParseError("invalid amount of type %T", v)
}

func whole(v any) (int, error) {
	d, err := amount(v)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, models.ParseError("expected whole number, got %s", d)
	}
	return int(d.IntPart()), nil
}

func optionalAmount(v any) *float64 {
	if v == nil {
		return nil
	}
	d, err := amount(v)
	if err != nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

func optionalWhole(v any) *int {
	if v == nil {
		return nil
	}
	n, err := whole(v)
	if err != nil {
		return nil
	}
	return &n
}

// amountOr is amount with a fallback for absent or invalid values.
func amountOr(v any, fallback float64) float64 {
	d, err := amount(v)
	if err != nil {
		return fallback
	}
	return d.InexactFloat64()
}

// truthy follows JSON-ish truthiness: null, false, 0 and "" are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		return t != ""
	}
	return true
}

func nullableText(v any) *string {
	s, ok := text(v)
	if !ok {
		return nil
	}
	return &s
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64, int:
		return "number"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", v)
}
