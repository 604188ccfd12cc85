package datasource

import (
	"slices"
	"strings"

	"github.com/rxtech-lab/argo-daily/internal/types"
	"github.com/rxtech-lab/argo-daily/pkg/errors"
)

// AdjustType selects how dividends and splits are folded into prices.
type AdjustType string

const (
	// AdjustNone returns prices as traded.
	AdjustNone AdjustType = "none"
	// AdjustPre rescales by adj_factor / adj_factor of the first bar of the window.
	AdjustPre AdjustType = "pre"
	// AdjustPost rescales by adj_factor.
	AdjustPost AdjustType = "post"
)

// ParseAdjustType parses none, pre or post. An empty string means pre.
func ParseAdjustType(s string) (AdjustType, error) {
	switch AdjustType(strings.ToLower(strings.TrimSpace(s))) {
	case "", AdjustPre:
		return AdjustPre, nil
	case AdjustPost:
		return AdjustPost, nil
	case AdjustNone:
		return AdjustNone, nil
	}

	return "", errors.Newf(errors.ErrCodeInvalidAdjustType, "invalid adjust type: %s", s)
}

type selectorKind int

const (
	selectAll selectorKind = iota
	selectSingle
	selectSet
)

// FieldSelector picks the columns of a history query: every field, a single
// field returned as one column, or a set of fields returned as reduced records.
type FieldSelector struct {
	kind   selectorKind
	fields []types.Field
}

// AllFields selects every field of the series.
func AllFields() FieldSelector {
	return FieldSelector{kind: selectAll, fields: nil}
}

// SingleField selects one field, returned as a single column.
func SingleField(f types.Field) FieldSelector {
	return FieldSelector{kind: selectSingle, fields: []types.Field{f}}
}

// FieldSet selects several fields. Duplicates are dropped, order is kept.
func FieldSet(fields ...types.Field) FieldSelector {
	seen := make(map[types.Field]bool, len(fields))
	unique := make([]types.Field, 0, len(fields))

	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			unique = append(unique, f)
		}
	}

	return FieldSelector{kind: selectSet, fields: unique}
}

// ParseFieldSelector reads the CLI/config form: empty for all fields, a bare
// name for a single field, a comma separated list for a field set.
func ParseFieldSelector(s string) FieldSelector {
	s = strings.TrimSpace(s)
	if s == "" {
		return AllFields()
	}

	if !strings.Contains(s, ",") {
		return SingleField(types.Field(s))
	}

	parts := strings.Split(s, ",")
	fields := make([]types.Field, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, types.Field(p))
		}
	}

	return FieldSet(fields...)
}

// IsAll reports whether every field is selected.
func (s FieldSelector) IsAll() bool {
	return s.kind == selectAll
}

// Single returns the field of a single-field selector.
func (s FieldSelector) Single() (types.Field, bool) {
	if s.kind != selectSingle {
		return "", false
	}

	return s.fields[0], true
}

// Validate checks every selected field against schema.
func (s FieldSelector) Validate(schema []types.Field) error {
	var invalid []string

	for _, f := range s.fields {
		if !slices.Contains(schema, f) {
			invalid = append(invalid, string(f))
		}
	}

	if s.kind == selectSet && len(s.fields) == 0 {
		return errors.New(errors.ErrCodeInvalidFields, "invalid fields: empty field set")
	}

	if len(invalid) > 0 {
		return errors.Newf(errors.ErrCodeInvalidFields, "invalid fields: %s", strings.Join(invalid, ", "))
	}

	return nil
}

// Project returns the output columns for schema.
func (s FieldSelector) Project(schema []types.Field) []types.Field {
	if s.kind == selectAll {
		return slices.Clone(schema)
	}

	return slices.Clone(s.fields)
}

// skipsAdjustment reports whether the selection alone rules out adjustment:
// a single field that is neither a price field nor volume.
func (s FieldSelector) skipsAdjustment() bool {
	f, ok := s.Single()

	return ok && !types.RequiresAdjustment(f)
}

// AdjustBars returns a freshly allocated copy of bars with the price fields
// among fields rescaled. The input is never modified. An empty input is
// returned as is; pre adjustment of a window whose first adj_factor is zero
// fails with ErrCodeInvalidAdjustFactor.
func AdjustBars(bars []types.Bar, fields []types.Field, adjust AdjustType) ([]types.Bar, error) {
	out := slices.Clone(bars)
	if len(out) == 0 || adjust == AdjustNone {
		return out, nil
	}

	priceFields := make([]types.Field, 0, len(fields))
	for _, f := range fields {
		if types.IsPriceField(f) {
			priceFields = append(priceFields, f)
		}
	}

	anchor := out[0].AdjFactor
	if adjust == AdjustPre && anchor == 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidAdjustFactor,
			"adj_factor of the first bar (%d) is zero", out[0].Datetime)
	}

	for i := range out {
		bar := out[i]

		for _, f := range priceFields {
			v, _ := bar.Value(f)

			switch adjust {
			case AdjustPost:
				v = v * bar.AdjFactor
			case AdjustPre:
				v = v * bar.AdjFactor / anchor
			case AdjustNone:
			}

			bar = bar.WithValue(f, v)
		}

		out[i] = bar
	}

	return out, nil
}

// projectBars keeps the datetime and the given fields of each bar and zeroes
// the rest. bars is modified in place.
func projectBars(bars []types.Bar, fields []types.Field) {
	for i, bar := range bars {
		projected := types.Bar{Datetime: bar.Datetime}

		for _, f := range fields {
			v, _ := bar.Value(f)
			projected = projected.WithValue(f, v)
		}

		bars[i] = projected
	}
}
