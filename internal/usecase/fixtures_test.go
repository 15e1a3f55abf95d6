package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vitos/tickerwatch/internal/domain"
)

var exampleList = []domain.RawTicker{
	{Symbol: "tBTCUSD", DailyChangePercent: 0.5, LastPrice: 21000, High: 22000, Low: 20000},
	{Symbol: "tDOGE:USD", DailyChangePercent: -0.44, LastPrice: 0.11, High: 0.13, Low: 0.12},
	{Symbol: "tEOSUSD", DailyChangePercent: -0.6, LastPrice: 1.1, High: 1.2, Low: 1},
	{Symbol: "tETHUSD", DailyChangePercent: -1.35, LastPrice: 1600, High: 1670, Low: 1600},
}

var errNetwork = errors.New("network unreachable")

// fakeSource returns whatever list/err is currently set.
type fakeSource struct {
	mu    sync.Mutex
	list  []domain.RawTicker
	err   error
	calls atomic.Int32
}

func (f *fakeSource) set(list []domain.RawTicker, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list, f.err = list, err
}

func (f *fakeSource) FetchTickers(ctx context.Context, symbols []string) ([]domain.RawTicker, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.RawTicker(nil), f.list...), nil
}

// gatedSource blocks every fetch until the test resolves it with finish.
type gatedSource struct {
	entered chan struct{}
	release chan error
}

func newGatedSource() *gatedSource {
	return &gatedSource{entered: make(chan struct{}, 8), release: make(chan error)}
}

func (g *gatedSource) FetchTickers(ctx context.Context, symbols []string) ([]domain.RawTicker, error) {
	g.entered <- struct{}{}
	select {
	case err := <-g.release:
		if err != nil {
			return nil, err
		}
		return append([]domain.RawTicker(nil), exampleList...), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// waitEntered blocks until a fetch is in flight.
func (g *gatedSource) waitEntered(t *testing.T) {
	t.Helper()
	select {
	case <-g.entered:
	case <-time.After(time.Second):
		t.Fatal("fetch did not start")
	}
}

// finish resolves the in-flight fetch: err == nil succeeds with exampleList.
func (g *gatedSource) finish(t *testing.T, err error) {
	t.Helper()
	select {
	case g.release <- err:
	case <-time.After(time.Second):
		t.Fatal("no fetch waiting")
	}
}

// memJournal records fetch outcomes in memory.
type memJournal struct {
	mu      sync.Mutex
	records []domain.FetchRecord
}

func (j *memJournal) Record(ctx context.Context, rec domain.FetchRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, rec)
	return nil
}

func (j *memJournal) Recent(ctx context.Context, limit int) ([]domain.FetchRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]domain.FetchRecord(nil), j.records...), nil
}

func (j *memJournal) len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.records)
}

func symbols(list []domain.Ticker) []string {
	out := make([]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.DisplaySymbol)
	}
	return out
}
