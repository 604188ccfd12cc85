package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-daily/internal/datasource"
	"github.com/rxtech-lab/argo-daily/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for secondary text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// FormatValue formats a bar value, showing NaN as a dash.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}

	return strconv.FormatFloat(v, 'f', 4, 64)
}

// FormatPriceWithChange appends an arrow comparing current with previous.
func FormatPriceWithChange(current, previous float64) string {
	s := FormatValue(current)

	if previous == 0 || math.IsNaN(previous) {
		return s
	}

	if current > previous {
		return s + " ▲"
	} else if current < previous {
		return s + " ▼"
	}

	return s
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		}).
		Headers(headers...)
}

// RenderWindow renders a history window. The close column, when present,
// carries change arrows.
func RenderWindow(window datasource.Window) string {
	fields := window.Fields()
	headers := make([]string, 0, len(fields)+1)
	headers = append(headers, "date")

	for _, f := range fields {
		if f != types.FieldDatetime {
			headers = append(headers, string(f))
		}
	}

	t := newTable(headers...)
	previousClose := 0.0

	for _, bar := range window.Bars() {
		row := []string{types.DateFromKey(bar.Datetime).Format(types.MetaDateLayout)}

		for _, f := range fields {
			if f == types.FieldDatetime {
				continue
			}

			v, _ := bar.Value(f)
			if f == types.FieldClose {
				row = append(row, FormatPriceWithChange(v, previousClose))
				previousClose = v

				continue
			}

			row = append(row, FormatValue(v))
		}

		t.Row(row...)
	}

	return t.String()
}

// RenderBar renders a single bar as a two column table.
func RenderBar(instrument types.Instrument, bar types.Bar) string {
	t := newTable("field", "value")

	for _, f := range types.Schema(instrument.Type) {
		if f == types.FieldDatetime {
			t.Row("date", types.DateFromKey(bar.Datetime).Format(types.MetaDateLayout))

			continue
		}

		v, _ := bar.Value(f)
		t.Row(string(f), FormatValue(v))
	}

	return fmt.Sprintf("%s\n%s", TitleStyle.Render(instrument.OrderBookID), t.String())
}
