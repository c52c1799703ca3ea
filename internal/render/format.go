package render

import (
	"strings"

	"github.com/shopspring/decimal"
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Price formats a KRW price: rounded to won, grouped by thousands
func Price(v float64) string {
	return group(decimal.NewFromFloat(v).StringFixed(0))
}

// Percent formats a change rate with an explicit sign
func Percent(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	s := d.StringFixed(2) + "%"
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

// TradingValue formats a trading value given in 억원
func TradingValue(v float64) string {
	return group(decimal.NewFromFloat(v).StringFixed(0)) + "억"
}

// Sparkline draws points left to right; a flat series sits mid-height
func Sparkline(points []float64) string {
	if len(points) == 0 {
		return ""
	}

	lo, hi := points[0], points[0]
	for _, p := range points {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}

	top := len(sparkLevels) - 1
	var b strings.Builder
	for _, p := range points {
		idx := top / 2
		if hi > lo {
			idx = int((p - lo) / (hi - lo) * float64(top))
		}
		b.WriteRune(sparkLevels[idx])
	}
	return b.String()
}

// group inserts thousands separators into a plain decimal string
func group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + b.String() + frac
}
