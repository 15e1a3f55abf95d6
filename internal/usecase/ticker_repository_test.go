package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vitos/tickerwatch/internal/domain"
)

func TestDeriveView(t *testing.T) {
	repo := NewTickerRepository()
	repo.SetRaw(exampleList)

	tests := []struct {
		name   string
		query  string
		filter domain.Filter
		want   []string
	}{
		{"gain", "", domain.FilterSortByGain, []string{"BTC", "DOGE", "EOS", "ETH"}},
		{"loss", "", domain.FilterSortByLoss, []string{"ETH", "EOS", "DOGE", "BTC"}},
		{"none orders by name", "", domain.FilterNone, []string{"BTC", "DOGE", "EOS", "ETH"}},
		{"symbol match", "eth", domain.FilterNone, []string{"ETH"}},
		{"symbol match with gain", "eth", domain.FilterSortByGain, []string{"ETH"}},
		{"symbol match with loss", "eth", domain.FilterSortByLoss, []string{"ETH"}},
		{"name match upper case", "COIN", domain.FilterSortByLoss, []string{"DOGE", "BTC"}},
		{"no match", "xyz", domain.FilterSortByGain, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, symbols(repo.Derive(tt.query, tt.filter)))
		})
	}
}

func TestDeriveView_TiesByName(t *testing.T) {
	list := domain.NewTickers([]domain.RawTicker{
		{Symbol: "tXRPUSD", DailyChangePercent: 1},
		{Symbol: "tBTCUSD", DailyChangePercent: 1},
		{Symbol: "tZZZUSD", DailyChangePercent: 1},
		{Symbol: "tAAAUSD", DailyChangePercent: 1},
		{Symbol: "tLTCUSD", DailyChangePercent: 2},
	})

	// Bitcoin < Ripple < UnknownCoin(AAA) < UnknownCoin(ZZZ)
	assert.Equal(t, []string{"LTC", "BTC", "XRP", "AAA", "ZZZ"}, symbols(DeriveView(list, "", domain.FilterSortByGain)))
	assert.Equal(t, []string{"BTC", "XRP", "AAA", "ZZZ", "LTC"}, symbols(DeriveView(list, "", domain.FilterSortByLoss)))
	assert.Equal(t, []string{"BTC", "LTC", "XRP", "AAA", "ZZZ"}, symbols(DeriveView(list, "", domain.FilterNone)))
}

func TestDeriveView_DoesNotModifyInput(t *testing.T) {
	list := domain.NewTickers(exampleList)
	before := symbols(list)

	_ = DeriveView(list, "", domain.FilterSortByLoss)

	assert.Equal(t, before, symbols(list))
}

func TestDeriveView_Deterministic(t *testing.T) {
	list := domain.NewTickers(exampleList)
	first := DeriveView(list, "o", domain.FilterSortByGain)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DeriveView(list, "o", domain.FilterSortByGain))
	}
}

func TestTickerRepository_SetRawReplaces(t *testing.T) {
	repo := NewTickerRepository()
	assert.False(t, repo.HasData())

	repo.SetRaw(exampleList)
	assert.Len(t, repo.Derive("", domain.FilterNone), 4)

	repo.SetRaw(exampleList[:1])
	assert.True(t, repo.HasData())
	assert.Equal(t, []string{"BTC"}, symbols(repo.Derive("", domain.FilterNone)))

	repo.SetRaw(nil)
	assert.True(t, repo.HasData(), "an empty successful fetch is still data")
	assert.Empty(t, repo.Derive("", domain.FilterNone))
}
