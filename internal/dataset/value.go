package dataset

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies what a cell holds
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
)

// Value is a single nullable cell. Numeric cells use decimal arithmetic so
// monetary columns (balances, incomes, loan amounts) survive round-tripping
// without float drift.
type Value struct {
	kind Kind
	str  string
	num  decimal.Decimal
}

// Null returns the null cell
func Null() Value {
	return Value{kind: KindNull}
}

// String returns a text cell
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a numeric cell
func Number(d decimal.Decimal) Value {
	return Value{kind: KindNumber, num: d}
}

// NumberFromInt returns a numeric cell from an integer
func NumberFromInt(n int64) Value {
	return Number(decimal.NewFromInt(n))
}

// nullTokens are cell spellings treated as missing data on load
var nullTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
}

// ParseCell converts a raw CSV cell into a Value. Blank cells and common
// missing-data tokens become null; anything that parses as a decimal becomes
// a number; the rest stays text.
func ParseCell(raw string) Value {
	s := strings.TrimSpace(raw)
	if nullTokens[strings.ToLower(s)] {
		return Null()
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return Number(d)
	}
	return String(s)
}

// Kind returns the cell's kind
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the cell is null
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Text returns the text content and whether the cell is a text cell
func (v Value) Text() (string, bool) {
	return v.str, v.kind == KindString
}

// Number returns the numeric content and whether the cell is numeric
func (v Value) Number() (decimal.Decimal, bool) {
	return v.num, v.kind == KindNumber
}

// Display renders the cell for human-readable and CSV output. Null renders
// as the empty string.
func (v Value) Display() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num.String()
	default:
		return ""
	}
}

// Key returns a canonical representation usable as a map key for grouping
// and duplicate detection. Distinct kinds never collide.
func (v Value) Key() string {
	switch v.kind {
	case KindString:
		return "s:" + v.str
	case KindNumber:
		return "n:" + v.num.String()
	default:
		return "\x00"
	}
}

// Equal reports whether two cells hold the same value. Numeric comparison is
// exact decimal equality, so 1.50 equals 1.5.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num.Equal(other.num)
	default:
		return true
	}
}
