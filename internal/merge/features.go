package merge

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"mulewatch/internal/dataset"
	"mulewatch/internal/errors"
)

// DeriveAge appends an age column computed from a date-of-birth column.
// Dates are parsed with the given layout; cells that do not parse (including
// the "Missing" sentinel, numeric cells and nulls) yield a null age rather
// than an error.
func DeriveAge(t *dataset.Table, dobColumn, ageColumn, layout string, now time.Time) (*dataset.Table, error) {
	dobIdx, ok := t.ColumnIndex(dobColumn)
	if !ok {
		return nil, errors.NewValidationError("date of birth column missing").
			WithContext("table", t.Name).
			WithContext("column", dobColumn)
	}

	out := dataset.New(t.Name, append(append([]string(nil), t.Columns...), ageColumn))
	unparseable := 0
	for _, row := range t.Rows {
		age := dataset.Null()
		if text, isText := row[dobIdx].Text(); isText {
			if birth, err := time.Parse(layout, text); err == nil {
				age = dataset.NumberFromInt(int64(ageAt(birth, now)))
			} else {
				unparseable++
			}
		}
		out.Rows = append(out.Rows, append(append([]dataset.Value(nil), row...), age))
	}

	if unparseable > 0 {
		slog.Warn("unparseable dates of birth treated as missing",
			slog.String("table", t.Name),
			slog.Int("rows", unparseable))
	}

	return out, nil
}

// ageAt returns exact calendar age: birthdays not yet reached this year
// subtract one.
func ageAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// BucketColumn appends a categorical column derived from a numeric source
// column. Buckets are half-open [lo, hi) intervals over ascending bounds,
// with labels[i] covering [bounds[i], bounds[i+1]). Values outside the
// bounds, non-numeric cells and nulls yield a null category.
func BucketColumn(t *dataset.Table, src, dst string, bounds []float64, labels []string) (*dataset.Table, error) {
	srcIdx, ok := t.ColumnIndex(src)
	if !ok {
		return nil, errors.NewValidationError("bucket source column missing").
			WithContext("table", t.Name).
			WithContext("column", src)
	}
	if len(labels) != len(bounds)-1 {
		return nil, errors.NewValidationError("bucket labels do not cover bounds").
			WithContext("bounds", len(bounds)).
			WithContext("labels", len(labels))
	}

	edges := make([]decimal.Decimal, len(bounds))
	for i, b := range bounds {
		edges[i] = decimal.NewFromFloat(b)
	}

	out := dataset.New(t.Name, append(append([]string(nil), t.Columns...), dst))
	for _, row := range t.Rows {
		category := dataset.Null()
		if d, isNum := row[srcIdx].Number(); isNum {
			for i := 0; i < len(edges)-1; i++ {
				if d.GreaterThanOrEqual(edges[i]) && d.LessThan(edges[i+1]) {
					category = dataset.String(labels[i])
					break
				}
			}
		}
		out.Rows = append(out.Rows, append(append([]dataset.Value(nil), row...), category))
	}

	return out, nil
}
