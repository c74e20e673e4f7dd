package finance

import (
	"context"
	"time"
)

// Client fetches market data for a ticker symbol.
type Client interface {
	// Quote returns the current snapshot of prices and fundamentals.
	Quote(ctx context.Context, symbol string) (*Quote, error)
	// History returns daily bars for the given lookback period, oldest first.
	History(ctx context.Context, symbol string, period Period) ([]Bar, error)
	// Financials returns annual income statements, most recent first.
	Financials(ctx context.Context, symbol string) ([]Statement, error)
}

type Period string

const (
	PeriodOneYear   Period = "1y"
	PeriodFiveYears Period = "5y"
)

// Quote holds snapshot fundamentals. Fields the source did not report
// are nil and render as N/A.
type Quote struct {
	Symbol string
	Name   string

	Price           *float64
	MarketCap       *float64
	TrailingPE      *float64
	PriceToBook     *float64
	DebtToEquity    *float64
	CurrentRatio    *float64
	DividendYield   *float64
	FreeCashFlow    *float64
	ProfitMargin    *float64
	OperatingMargin *float64
	EarningsGrowth  *float64
	RevenueGrowth   *float64
	TargetPrice     *float64
	Beta            *float64
	ReturnOnEquity  *float64
}

// Bar is one trading day.
type Bar struct {
	Time  time.Time
	High  float64
	Low   float64
	Close float64
}

// Statement is one annual income statement line we care about.
type Statement struct {
	EndDate      time.Time
	TotalRevenue float64
}
