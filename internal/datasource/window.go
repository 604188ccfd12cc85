package datasource

import (
	"slices"

	"github.com/rxtech-lab/argo-daily/internal/types"
	"github.com/rxtech-lab/argo-daily/pkg/errors"
)

// Window is the answer to a history query: an ordered, adjusted and projected
// copy of bars. It never shares storage with the cached series. Fields outside
// the projection are zero; the datetime is always kept.
type Window struct {
	selector FieldSelector
	fields   []types.Field
	bars     []types.Bar
}

// Len returns the number of bars.
func (w Window) Len() int {
	return len(w.bars)
}

// Selector returns the selector the window was projected with.
func (w Window) Selector() FieldSelector {
	return w.selector
}

// Fields returns the projected fields in output order.
func (w Window) Fields() []types.Field {
	return slices.Clone(w.fields)
}

// Bars returns a copy of the projected bars, oldest first.
func (w Window) Bars() []types.Bar {
	return slices.Clone(w.bars)
}

// Datetimes returns the date key of every bar.
func (w Window) Datetimes() []uint64 {
	out := make([]uint64, len(w.bars))
	for i, bar := range w.bars {
		out[i] = bar.Datetime
	}

	return out
}

// Column returns the values of f, which must be part of the projection.
func (w Window) Column(f types.Field) ([]float64, error) {
	if !slices.Contains(w.fields, f) {
		return nil, errors.Newf(errors.ErrCodeInvalidFields, "field %s is not part of the window", f)
	}

	out := make([]float64, len(w.bars))
	for i, bar := range w.bars {
		out[i], _ = bar.Value(f)
	}

	return out, nil
}

// Values returns the single column of a single-field window.
func (w Window) Values() ([]float64, error) {
	f, ok := w.selector.Single()
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFields, "window was not selected with a single field")
	}

	return w.Column(f)
}

// Records returns one map per bar keyed by the projected fields.
func (w Window) Records() []map[types.Field]float64 {
	out := make([]map[types.Field]float64, len(w.bars))

	for i, bar := range w.bars {
		record := make(map[types.Field]float64, len(w.fields))
		for _, f := range w.fields {
			record[f], _ = bar.Value(f)
		}

		out[i] = record
	}

	return out
}
