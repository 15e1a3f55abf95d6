package domain

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
)

// RawTicker is a quote record as returned by a QuoteSource.
type RawTicker struct {
	Symbol             string  `json:"symbol"`
	DailyChange        float64 `json:"daily_change"`
	DailyChangePercent float64 `json:"daily_change_percent"`
	LastPrice          float64 `json:"last_price"`
	Volume             float64 `json:"volume"`
	High               float64 `json:"high"`
	Low                float64 `json:"low"`
}

// Ticker is the display-ready view of a RawTicker. It is never mutated after NewTicker.
type Ticker struct {
	RawSymbol          string  `json:"raw_symbol"`
	DisplaySymbol      string  `json:"symbol"`
	DisplayName        string  `json:"name"`
	Icon               string  `json:"icon"`
	DailyChangePercent float64 `json:"daily_change_percent"`
	LastPrice          float64 `json:"last_price"`
	DayHigh            float64 `json:"day_high"`
	DayLow             float64 `json:"day_low"`
	Volume             float64 `json:"volume"`
}

func NewTicker(raw RawTicker) Ticker {
	return Ticker{
		RawSymbol:          raw.Symbol,
		DisplaySymbol:      DisplaySymbol(raw.Symbol),
		DisplayName:        DisplayName(raw.Symbol),
		Icon:               DisplayIcon(raw.Symbol),
		DailyChangePercent: raw.DailyChangePercent,
		LastPrice:          raw.LastPrice,
		DayHigh:            raw.High,
		DayLow:             raw.Low,
		Volume:             raw.Volume,
	}
}

// MarshalJSON adds the display fields consumers render: price_ratio,
// price_text and change_text.
func (t Ticker) MarshalJSON() ([]byte, error) {
	type plain Ticker
	return json.Marshal(struct {
		plain
		PriceRatio float64 `json:"price_ratio"`
		PriceText  string  `json:"price_text"`
		ChangeText string  `json:"change_text"`
	}{plain(t), t.PriceRatio(), t.FormattedPrice(), t.FormattedChange()})
}

// NewTickers converts a raw list, preserving order.
func NewTickers(raw []RawTicker) []Ticker {
	out := make([]Ticker, 0, len(raw))
	for _, r := range raw {
		out = append(out, NewTicker(r))
	}
	return out
}

// PriceRatio places LastPrice inside the day range, clamped to [0, 1].
// The source does not guarantee DayLow <= LastPrice <= DayHigh, nor distinct bounds;
// a degenerate range yields 0.5.
func (t Ticker) PriceRatio() float64 {
	span := t.DayHigh - t.DayLow
	if span == 0 || math.IsNaN(span) {
		return 0.5
	}
	r := (t.LastPrice - t.DayLow) / span
	switch {
	case math.IsNaN(r):
		return 0.5
	case r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}

// FormattedPrice renders LastPrice with more decimals for low-priced coins.
func (t Ticker) FormattedPrice() string {
	d := decimal.NewFromFloat(t.LastPrice)
	abs := math.Abs(t.LastPrice)
	switch {
	case abs >= 1000:
		return d.StringFixed(0)
	case abs >= 1:
		return d.StringFixed(2)
	default:
		return d.StringFixed(4)
	}
}

// FormattedChange renders the daily change with an explicit sign, e.g. "+0.50%".
func (t Ticker) FormattedChange() string {
	d := decimal.NewFromFloat(t.DailyChangePercent).Round(2)
	if d.IsNegative() {
		return d.StringFixed(2) + "%"
	}
	return "+" + d.StringFixed(2) + "%"
}
