package domain

import "strings"

const (
	UnknownName = "UnknownCoin"
	UnknownIcon = "broken_image"
)

// DefaultSymbols is the watch list used when none is configured.
var DefaultSymbols = []string{
	"tBTCUSD",
	"tETHUSD",
	"tCHSB:USD",
	"tLTCUSD",
	"tXRPUSD",
	"tEOSUSD",
	"tSANUSD",
	"tDATUSD",
	"tSNTUSD",
	"tDOGE:USD",
}

type coinInfo struct {
	name string
	icon string
}

var coins = map[string]coinInfo{
	"tBTCUSD":   {"Bitcoin", "ic_btc"},
	"tETHUSD":   {"Ethereum", "ic_eth"},
	"tCHSB:USD": {"SwissBorg", "ic_chsb"},
	"tLTCUSD":   {"LiteCoin", "ic_ltc"},
	"tXRPUSD":   {"Ripple", "ic_xrp"},
	"tEOSUSD":   {"EOS", "ic_eos"},
	"tSANUSD":   {"Santiment", "ic_san"},
	"tDATUSD":   {"Datum", "ic_dat"},
	"tSNTUSD":   {"Status", "ic_snt"},
	"tDOGE:USD": {"Dogecoin", "ic_doge"},
}

func DisplayName(rawSymbol string) string {
	if c, ok := coins[rawSymbol]; ok {
		return c.name
	}
	return UnknownName
}

func DisplayIcon(rawSymbol string) string {
	if c, ok := coins[rawSymbol]; ok {
		return c.icon
	}
	return UnknownIcon
}

// DisplaySymbol strips the trading-pair prefix, the separator and the quote currency:
// "tDOGE:USD" -> "DOGE", "tBTCUSD" -> "BTC".
func DisplaySymbol(rawSymbol string) string {
	s := strings.TrimPrefix(rawSymbol, "t")
	s = strings.ReplaceAll(s, ":", "")
	if base, ok := strings.CutSuffix(s, "USD"); ok && base != "" {
		s = base
	}
	return s
}
