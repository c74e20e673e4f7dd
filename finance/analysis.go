package finance

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// tradingDaysPerYear bounds the 52-week high/low window.
const tradingDaysPerYear = 252

// Analysis is the full report for one symbol. Percent fields are already
// scaled to percent (7.5 means 7.5%).
type Analysis struct {
	Symbol          string
	Name            string
	Price           *float64
	Week52High      *float64
	Week52Low       *float64
	MarketCap       *float64
	TrailingPE      *float64
	PriceToBook     *float64
	DebtToEquity    *float64
	CurrentRatio    *float64
	DividendYield   *float64 // percent
	RevenueCAGR     *float64 // percent, up to 5 years of annual revenue
	FreeCashFlow    *float64
	ProfitMargin    *float64 // percent
	OperatingMargin *float64 // percent
	EarningsGrowth  *float64 // percent
	RevenueGrowth   *float64 // percent
	TargetPrice     *float64
	Beta            *float64
	ReturnOnEquity  *float64 // percent
}

// Analyze fetches quote, five years of history, and annual financials and
// assembles the analysis report.
func Analyze(ctx context.Context, client Client, symbol string) (*Analysis, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if len(symbol) == 0 {
		return nil, fmt.Errorf("ticker symbol is required")
	}

	quote, err := client.Quote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch data for ticker %q: %w", symbol, err)
	}
	if len(quote.Name) == 0 {
		return nil, fmt.Errorf("unable to fetch data for ticker %q: no company data; check that the symbol is correct", symbol)
	}

	bars, err := client.History(ctx, symbol, PeriodFiveYears)
	if err != nil {
		return nil, fmt.Errorf("history for ticker %q: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no historical data available for ticker %q; the stock may be delisted", symbol)
	}

	high, low := week52Range(bars)

	a := &Analysis{
		Symbol:          symbol,
		Name:            quote.Name,
		Price:           quote.Price,
		Week52High:      &high,
		Week52Low:       &low,
		MarketCap:       quote.MarketCap,
		TrailingPE:      quote.TrailingPE,
		PriceToBook:     quote.PriceToBook,
		DebtToEquity:    quote.DebtToEquity,
		CurrentRatio:    quote.CurrentRatio,
		DividendYield:   asPercent(quote.DividendYield),
		FreeCashFlow:    quote.FreeCashFlow,
		ProfitMargin:    asPercent(quote.ProfitMargin),
		OperatingMargin: asPercent(quote.OperatingMargin),
		EarningsGrowth:  asPercent(quote.EarningsGrowth),
		RevenueGrowth:   asPercent(quote.RevenueGrowth),
		TargetPrice:     quote.TargetPrice,
		Beta:            quote.Beta,
		ReturnOnEquity:  asPercent(quote.ReturnOnEquity),
	}

	// Annual financials are best effort; the report stands without them.
	if statements, err := client.Financials(ctx, symbol); err == nil {
		a.RevenueCAGR = asPercent(revenueCAGR(statements))
	}

	return a, nil
}

// week52Range computes high/low over the last 252 trading days, or over
// everything if the history is shorter.
func week52Range(bars []Bar) (high float64, low float64) {
	window := bars
	if len(bars) > tradingDaysPerYear {
		window = bars[len(bars)-tradingDaysPerYear:]
	}

	high = math.Inf(-1)
	low = math.Inf(1)
	for _, bar := range window {
		if bar.High > high {
			high = bar.High
		}
		if bar.Low < low {
			low = bar.Low
		}
	}

	return round2(high), round2(low)
}

// revenueCAGR computes the compound growth rate over up to five most
// recent annual revenues. Statements arrive most recent first.
func revenueCAGR(statements []Statement) *float64 {
	if len(statements) > 5 {
		statements = statements[:5]
	}
	if len(statements) < 2 {
		return nil
	}

	latest := statements[0].TotalRevenue
	oldest := statements[len(statements)-1].TotalRevenue
	if latest <= 0 || oldest <= 0 {
		return nil
	}

	growth := math.Pow(latest/oldest, 1/float64(len(statements))) - 1
	return &growth
}

func asPercent(v *float64) *float64 {
	if v == nil {
		return nil
	}
	p := round2(*v * 100)
	return &p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Report renders the analysis as "Key: value" lines in a fixed order,
// the form the summarize tool knows how to condense.
func (a *Analysis) Report() string {
	var sb strings.Builder

	write := func(key string, value string) {
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	write("Ticker Symbol", a.Symbol)
	write("Company Name", a.Name)
	write("Current Stock Price", formatValue(a.Price))
	write("52-Week High", formatValue(a.Week52High))
	write("52-Week Low", formatValue(a.Week52Low))
	write("Market Capitalization", formatValue(a.MarketCap))
	write("PE Ratio", formatValue(a.TrailingPE))
	write("P/B Ratio", formatValue(a.PriceToBook))
	write("Debt to Equity Ratio", formatValue(a.DebtToEquity))
	write("Current Ratio", formatValue(a.CurrentRatio))
	write("Dividend Yield (%)", formatValue(a.DividendYield))
	write("5-Year Revenue Growth Rate (%)", formatValue(a.RevenueCAGR))
	write("Free Cash Flow", formatValue(a.FreeCashFlow))
	write("Profit Margins (%)", formatValue(a.ProfitMargin))
	write("Operating Margin (%)", formatValue(a.OperatingMargin))
	write("Earnings Growth (%)", formatValue(a.EarningsGrowth))
	write("Revenue Growth (%)", formatValue(a.RevenueGrowth))
	write("Analyst Target Price", formatValue(a.TargetPrice))
	write("Beta", formatValue(a.Beta))
	write("Return on Equity (%)", formatValue(a.ReturnOnEquity))

	return sb.String()
}

func formatValue(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", *v), "0"), ".")
}
