package model

// Markets a stock can be listed on.
const (
	MarketTWSE = "TWSE"
	MarketTPEx = "TPEx"
)

// Classifications select the sell-side transaction tax rate.
const (
	ClassificationStock   = "stock"
	ClassificationETF     = "etf"
	ClassificationBondETF = "bond_etf"
)

// Stock is a registered symbol.
type Stock struct {
	Symbol         string `json:"symbol"`         // Exchange code without suffix, e.g. "2330"
	Name           string `json:"name"`           // Display name
	Market         string `json:"market"`         // "TWSE" or "TPEx"
	Classification string `json:"classification"` // "stock", "etf" or "bond_etf"
}

// YahooTicker returns the Yahoo Finance ticker for the stock: ".TW" for TWSE listings and ".TWO"
// for TPEx listings.
func (s Stock) YahooTicker() string {
	if s.Market == MarketTPEx {
		return s.Symbol + ".TWO"
	}
	return s.Symbol + ".TW"
}
