package domain

import "github.com/shopspring/decimal"

// Quote is the current price of one ticker symbol as reported by the
// quote provider.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}
