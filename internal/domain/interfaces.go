package domain

import (
	"context"
	"time"
)

// QuoteSource fetches the latest quotes for a set of symbols.
type QuoteSource interface {
	FetchTickers(ctx context.Context, symbols []string) ([]RawTicker, error)
}

// QuoteSourceFunc adapts a function to QuoteSource.
type QuoteSourceFunc func(ctx context.Context, symbols []string) ([]RawTicker, error)

func (f QuoteSourceFunc) FetchTickers(ctx context.Context, symbols []string) ([]RawTicker, error) {
	return f(ctx, symbols)
}

// FetchRecord is one fetch outcome written to the journal.
type FetchRecord struct {
	ID       string        `json:"id"`
	At       time.Time     `json:"at"`
	OK       bool          `json:"ok"`
	Count    int           `json:"count"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// FetchJournal is an append-only audit log of fetch outcomes.
type FetchJournal interface {
	Record(ctx context.Context, rec FetchRecord) error
	Recent(ctx context.Context, limit int) ([]FetchRecord, error)
}
