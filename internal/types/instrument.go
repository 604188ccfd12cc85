package types

import (
	"slices"
	"strings"
)

// InstrumentType decides which backing table holds an instrument's bars and
// whether its prices are ever adjusted.
type InstrumentType string

const (
	InstrumentTypeCommonStock InstrumentType = "CS"
	InstrumentTypeIndex       InstrumentType = "INDX"
	InstrumentTypeFuture      InstrumentType = "Future"
	InstrumentTypeFund        InstrumentType = "FUND"
)

// Instrument identifies a tradable or reference series by its order book id.
type Instrument struct {
	OrderBookID string         `json:"order_book_id" yaml:"order_book_id" validate:"required"`
	Type        InstrumentType `json:"type" yaml:"type" validate:"required,oneof=CS INDX Future FUND"`
	Symbol      string         `json:"symbol,omitempty" yaml:"symbol,omitempty"`
}

// NewInstrument builds an Instrument, inferring the type from the id.
func NewInstrument(orderBookID string) Instrument {
	return Instrument{
		OrderBookID: orderBookID,
		Type:        InferInstrumentType(orderBookID),
		Symbol:      "",
	}
}

// IsAdjustable reports whether price adjustment may apply to the instrument.
// Futures and indices are never adjusted.
func (i Instrument) IsAdjustable() bool {
	return i.Type != InstrumentTypeFuture && i.Type != InstrumentTypeIndex
}

// FiltersSuspension reports whether zero-volume days may be dropped from the
// instrument's history. Only common stocks are filtered.
func (i Instrument) FiltersSuspension() bool {
	return i.Type == InstrumentTypeCommonStock
}

// InferInstrumentType classifies an order book id. Ids starting with 0 on the
// Shanghai exchange and with 3 on the Shenzhen exchange are index codes;
// everything else is treated as a common stock.
func InferInstrumentType(orderBookID string) InstrumentType {
	if (strings.HasPrefix(orderBookID, "0") && strings.HasSuffix(orderBookID, ".XSHG")) ||
		(strings.HasPrefix(orderBookID, "3") && strings.HasSuffix(orderBookID, ".XSHE")) {
		return InstrumentTypeIndex
	}

	return InstrumentTypeCommonStock
}

var baseSchema = []Field{
	FieldDatetime,
	FieldOpen,
	FieldClose,
	FieldHigh,
	FieldLow,
	FieldLimitUp,
	FieldLimitDown,
	FieldVolume,
	FieldTotalTurnover,
}

// Schema returns the fields a series of the given instrument type carries, in
// column order.
func Schema(t InstrumentType) []Field {
	schema := slices.Clone(baseSchema)

	switch t {
	case InstrumentTypeCommonStock:
		schema = append(schema, FieldAdjFactor)
	case InstrumentTypeFund:
		schema = append(schema, FieldAdjFactor, FieldAccNetValue, FieldUnitNetValue)
	case InstrumentTypeIndex, InstrumentTypeFuture:
	}

	return schema
}

// Instruments is a lookup table of instruments keyed by order book id.
type Instruments map[string]Instrument

// NewInstruments indexes the given instruments by order book id.
func NewInstruments(instruments ...Instrument) Instruments {
	out := make(Instruments, len(instruments))
	for _, ins := range instruments {
		out[ins.OrderBookID] = ins
	}

	return out
}

// Instrument returns the instrument registered under orderBookID.
func (s Instruments) Instrument(orderBookID string) (Instrument, bool) {
	ins, ok := s[orderBookID]

	return ins, ok
}
