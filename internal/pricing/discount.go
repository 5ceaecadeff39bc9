// Package pricing holds the discount arithmetic shared by every place that
// reads an appointment's price.
package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CalculateDiscount returns the net price after discount for loosely typed
// inputs (numbers or numeric strings). A non-numeric price yields 0 and a
// non-numeric discount counts as no discount.
func CalculateDiscount(price, discount any) float64 {
	p, ok := ParseAmount(price)
	if !ok {
		return 0
	}
	d, ok := ParseAmount(discount)
	if !ok {
		d = 0
	}
	return Net(p, d)
}

// Percentage interprets a raw discount. Values in [0, 1] are fractions,
// anything else is already a percentage. The result is clamped to [0, 100].
func Percentage(discount float64) float64 {
	if math.IsNaN(discount) {
		return 0
	}
	pct := discount
	if pct >= 0 && pct <= 1 {
		pct *= 100
	}
	return clamp(pct, 0, 100)
}

// Net applies the interpreted discount to price, rounded to two decimals and
// kept within [0, price].
func Net(price, discount float64) float64 {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	pct := Percentage(discount)
	net := price - price*pct/100
	if net < 0 {
		net = 0
	}
	rounded := Round2(net)
	if rounded > price && price >= 0 {
		// sub-cent prices round up past the price; drop to the cent below
		rounded = math.Floor(price*100) / 100
	}
	return rounded
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ParseAmount converts numbers and numeric strings to float64. NaN and
// infinities are rejected.
func ParseAmount(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
