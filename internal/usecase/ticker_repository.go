package usecase

import (
	"sort"
	"strings"

	"github.com/vitos/tickerwatch/internal/domain"
	"golang.org/x/text/cases"
)

// TickerRepository holds the last successfully fetched list. It has no locking
// of its own; TickerStateMachine serializes access.
type TickerRepository struct {
	raw     []domain.Ticker
	hasData bool
}

func NewTickerRepository() *TickerRepository {
	return &TickerRepository{}
}

// SetRaw replaces the stored list wholesale.
func (r *TickerRepository) SetRaw(list []domain.RawTicker) {
	r.raw = domain.NewTickers(list)
	r.hasData = true
}

// HasData reports whether SetRaw has ever been called.
func (r *TickerRepository) HasData() bool {
	return r.hasData
}

func (r *TickerRepository) Derive(query string, filter domain.Filter) []domain.Ticker {
	return DeriveView(r.raw, query, filter)
}

// DeriveView filters list by a case-insensitive substring match on name or
// symbol, then orders it by filter. Ties fall back to ascending name.
// The input is never modified.
func DeriveView(list []domain.Ticker, query string, filter domain.Filter) []domain.Ticker {
	fold := cases.Fold()
	q := fold.String(query)

	out := make([]domain.Ticker, 0, len(list))
	for _, t := range list {
		if q == "" ||
			strings.Contains(fold.String(t.DisplayName), q) ||
			strings.Contains(fold.String(t.DisplaySymbol), q) {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch filter {
		case domain.FilterSortByGain:
			if a.DailyChangePercent != b.DailyChangePercent {
				return a.DailyChangePercent > b.DailyChangePercent
			}
		case domain.FilterSortByLoss:
			if a.DailyChangePercent != b.DailyChangePercent {
				return a.DailyChangePercent < b.DailyChangePercent
			}
		}
		return byName(a, b)
	})

	return out
}

// Unknown coins share a display name, so symbol breaks the tie.
func byName(a, b domain.Ticker) bool {
	if a.DisplayName != b.DisplayName {
		return a.DisplayName < b.DisplayName
	}
	if a.DisplaySymbol != b.DisplaySymbol {
		return a.DisplaySymbol < b.DisplaySymbol
	}
	return a.RawSymbol < b.RawSymbol
}
