package exchange

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/vitos/tickerwatch/internal/domain"
)

// StaticSource serves a fixed list with a small random walk on each fetch.
// It backs offline runs and demos.
type StaticSource struct {
	mu   sync.Mutex
	list []domain.RawTicker
	rnd  *rand.Rand
}

func NewStaticSource(list []domain.RawTicker, seed uint64) *StaticSource {
	return &StaticSource{
		list: append([]domain.RawTicker(nil), list...),
		rnd:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *StaticSource) FetchTickers(ctx context.Context, symbols []string) ([]domain.RawTicker, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	want := make(map[string]bool, len(symbols))
	for _, sym := range symbols {
		want[sym] = true
	}

	out := make([]domain.RawTicker, 0, len(s.list))
	for i := range s.list {
		t := &s.list[i]
		step := (s.rnd.Float64() - 0.5) * 0.002
		t.LastPrice *= 1 + step
		t.DailyChangePercent += step * 100
		if t.LastPrice > t.High {
			t.High = t.LastPrice
		}
		if t.LastPrice < t.Low {
			t.Low = t.LastPrice
		}
		if len(want) == 0 || want[t.Symbol] {
			out = append(out, *t)
		}
	}
	if len(out) == 0 {
		return nil, domain.ErrEmptyPayload
	}
	return out, nil
}

// SampleTickers is a plausible snapshot of the default watch list.
var SampleTickers = []domain.RawTicker{
	{Symbol: "tBTCUSD", DailyChangePercent: 0.5, LastPrice: 21000, High: 22000, Low: 20000},
	{Symbol: "tETHUSD", DailyChangePercent: -1.35, LastPrice: 1600, High: 1670, Low: 1600},
	{Symbol: "tCHSB:USD", DailyChangePercent: 2.1, LastPrice: 0.21, High: 0.22, Low: 0.2},
	{Symbol: "tLTCUSD", DailyChangePercent: -0.8, LastPrice: 92, High: 95, Low: 90},
	{Symbol: "tXRPUSD", DailyChangePercent: 1.2, LastPrice: 0.48, High: 0.49, Low: 0.46},
	{Symbol: "tEOSUSD", DailyChangePercent: -0.6, LastPrice: 1.1, High: 1.2, Low: 1},
	{Symbol: "tSANUSD", DailyChangePercent: 3.4, LastPrice: 0.09, High: 0.095, Low: 0.085},
	{Symbol: "tDATUSD", DailyChangePercent: 0, LastPrice: 0.002, High: 0.002, Low: 0.002},
	{Symbol: "tSNTUSD", DailyChangePercent: -2.2, LastPrice: 0.025, High: 0.027, Low: 0.024},
	{Symbol: "tDOGE:USD", DailyChangePercent: -0.44, LastPrice: 0.11, High: 0.13, Low: 0.12},
}
