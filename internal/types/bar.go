package types

// Field is the name of a column carried by a daily bar.
type Field string

const (
	FieldDatetime      Field = "datetime"
	FieldOpen          Field = "open"
	FieldClose         Field = "close"
	FieldHigh          Field = "high"
	FieldLow           Field = "low"
	FieldLimitUp       Field = "limit_up"
	FieldLimitDown     Field = "limit_down"
	FieldVolume        Field = "volume"
	FieldTotalTurnover Field = "total_turnover"
	FieldAdjFactor     Field = "adj_factor"
	FieldAccNetValue   Field = "acc_net_value"
	FieldUnitNetValue  Field = "unit_net_value"
)

// PriceFields are rescaled by price adjustment.
var PriceFields = map[Field]bool{
	FieldOpen:         true,
	FieldClose:        true,
	FieldHigh:         true,
	FieldLow:          true,
	FieldLimitUp:      true,
	FieldLimitDown:    true,
	FieldAccNetValue:  true,
	FieldUnitNetValue: true,
}

// IsPriceField reports whether f is rescaled by price adjustment.
func IsPriceField(f Field) bool {
	return PriceFields[f]
}

// RequiresAdjustment reports whether a single-field query on f goes through
// the adjustment engine. Volume is included even though it is never rescaled.
func RequiresAdjustment(f Field) bool {
	return PriceFields[f] || f == FieldVolume
}

// Bar is one trading day of an instrument. Datetime is the DateKey of the day.
type Bar struct {
	Datetime      uint64  `json:"datetime" yaml:"datetime"`
	Open          float64 `json:"open" yaml:"open"`
	Close         float64 `json:"close" yaml:"close"`
	High          float64 `json:"high" yaml:"high"`
	Low           float64 `json:"low" yaml:"low"`
	LimitUp       float64 `json:"limit_up" yaml:"limit_up"`
	LimitDown     float64 `json:"limit_down" yaml:"limit_down"`
	Volume        float64 `json:"volume" yaml:"volume"`
	TotalTurnover float64 `json:"total_turnover" yaml:"total_turnover"`
	AdjFactor     float64 `json:"adj_factor" yaml:"adj_factor"`
	AccNetValue   float64 `json:"acc_net_value,omitempty" yaml:"acc_net_value,omitempty"`
	UnitNetValue  float64 `json:"unit_net_value,omitempty" yaml:"unit_net_value,omitempty"`
}

// Value returns the value of f. The second result is false for unknown fields.
func (b Bar) Value(f Field) (float64, bool) {
	switch f {
	case FieldDatetime:
		return float64(b.Datetime), true
	case FieldOpen:
		return b.Open, true
	case FieldClose:
		return b.Close, true
	case FieldHigh:
		return b.High, true
	case FieldLow:
		return b.Low, true
	case FieldLimitUp:
		return b.LimitUp, true
	case FieldLimitDown:
		return b.LimitDown, true
	case FieldVolume:
		return b.Volume, true
	case FieldTotalTurnover:
		return b.TotalTurnover, true
	case FieldAdjFactor:
		return b.AdjFactor, true
	case FieldAccNetValue:
		return b.AccNetValue, true
	case FieldUnitNetValue:
		return b.UnitNetValue, true
	}

	return 0, false
}

// WithValue returns a copy of b with f set to v. Datetime and unknown fields
// are left untouched.
func (b Bar) WithValue(f Field, v float64) Bar {
	switch f {
	case FieldOpen:
		b.Open = v
	case FieldClose:
		b.Close = v
	case FieldHigh:
		b.High = v
	case FieldLow:
		b.Low = v
	case FieldLimitUp:
		b.LimitUp = v
	case FieldLimitDown:
		b.LimitDown = v
	case FieldVolume:
		b.Volume = v
	case FieldTotalTurnover:
		b.TotalTurnover = v
	case FieldAdjFactor:
		b.AdjFactor = v
	case FieldAccNetValue:
		b.AccNetValue = v
	case FieldUnitNetValue:
		b.UnitNetValue = v
	case FieldDatetime:
	}

	return b
}
