// Package yahoo implements finance.Client against the public Yahoo
// Finance chart and quoteSummary endpoints.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/advait-ai/advait/finance"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	userAgent      = "Mozilla/5.0 (compatible; advait/1.0)"

	summaryModules = "price,summaryDetail,financialData,defaultKeyStatistics,incomeStatementHistory"
)

type Option func(*Options)

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
}

func WithBaseURL(baseURL string) Option {
	return func(o *Options) {
		o.BaseURL = baseURL
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = client
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type yahooClient struct {
	options Options
}

func NewClient(opts ...Option) finance.Client {
	return &yahooClient{
		options: NewOptions(opts...),
	}
}

func (c *yahooClient) Quote(ctx context.Context, symbol string) (*finance.Quote, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.options.BaseURL, url.PathEscape(symbol), url.QueryEscape(summaryModules))

	var payload quoteSummaryResponse
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	if payload.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo: %s", payload.QuoteSummary.Error.Description)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data for %s", symbol)
	}

	result := payload.QuoteSummary.Result[0]

	quote := &finance.Quote{
		Symbol:          symbol,
		Name:            result.Price.LongName,
		Price:           result.Price.RegularMarketPrice.ptr(),
		MarketCap:       result.Price.MarketCap.ptr(),
		TrailingPE:      result.SummaryDetail.TrailingPE.ptr(),
		PriceToBook:     result.DefaultKeyStatistics.PriceToBook.ptr(),
		DebtToEquity:    result.FinancialData.DebtToEquity.ptr(),
		CurrentRatio:    result.FinancialData.CurrentRatio.ptr(),
		DividendYield:   result.SummaryDetail.DividendYield.ptr(),
		FreeCashFlow:    result.FinancialData.FreeCashflow.ptr(),
		ProfitMargin:    result.FinancialData.ProfitMargins.ptr(),
		OperatingMargin: result.FinancialData.OperatingMargins.ptr(),
		EarningsGrowth:  result.FinancialData.EarningsGrowth.ptr(),
		RevenueGrowth:   result.FinancialData.RevenueGrowth.ptr(),
		TargetPrice:     result.FinancialData.TargetMedianPrice.ptr(),
		Beta:            result.SummaryDetail.Beta.ptr(),
		ReturnOnEquity:  result.FinancialData.ReturnOnEquity.ptr(),
	}

	return quote, nil
}

func (c *yahooClient) History(ctx context.Context, symbol string, period finance.Period) ([]finance.Bar, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d",
		c.options.BaseURL, url.PathEscape(symbol), url.QueryEscape(string(period)))

	var payload chartResponse
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s", payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no chart data for %s", symbol)
	}

	result := payload.Chart.Result[0]
	series := result.Indicators.Quote[0]

	bars := make([]finance.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(series.High) || i >= len(series.Low) || i >= len(series.Close) {
			break
		}
		// Yahoo emits nulls for halted days.
		if series.High[i] == nil || series.Low[i] == nil || series.Close[i] == nil {
			continue
		}
		bars = append(bars, finance.Bar{
			Time:  time.Unix(ts, 0).UTC(),
			High:  *series.High[i],
			Low:   *series.Low[i],
			Close: *series.Close[i],
		})
	}

	return bars, nil
}

func (c *yahooClient) Financials(ctx context.Context, symbol string) ([]finance.Statement, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.options.BaseURL, url.PathEscape(symbol), url.QueryEscape("incomeStatementHistory"))

	var payload quoteSummaryResponse
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	if payload.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo: %s", payload.QuoteSummary.Error.Description)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no financials for %s", symbol)
	}

	history := payload.QuoteSummary.Result[0].IncomeStatementHistory.Statements

	statements := make([]finance.Statement, 0, len(history))
	for _, s := range history {
		if s.TotalRevenue.Raw == nil {
			continue
		}
		statements = append(statements, finance.Statement{
			EndDate:      time.Unix(s.EndDate.Unix, 0).UTC(),
			TotalRevenue: *s.TotalRevenue.Raw,
		})
	}

	return statements, nil
}

func (c *yahooClient) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	rsp, err := c.options.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo request failed: %w", err)
	}
	defer rsp.Body.Close()

	if rsp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("yahoo: symbol not found")
	}
	if rsp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: unexpected status %s", rsp.Status)
	}

	if err := json.NewDecoder(rsp.Body).Decode(out); err != nil {
		return fmt.Errorf("yahoo: failed to decode response: %w", err)
	}

	return nil
}

// Yahoo wraps every numeric field as {"raw": n, "fmt": "..."}.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

func (v rawValue) ptr() *float64 {
	return v.Raw
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				LongName           string   `json:"longName"`
				RegularMarketPrice rawValue `json:"regularMarketPrice"`
				MarketCap          rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail struct {
				TrailingPE    rawValue `json:"trailingPE"`
				DividendYield rawValue `json:"dividendYield"`
				Beta          rawValue `json:"beta"`
			} `json:"summaryDetail"`
			FinancialData struct {
				CurrentRatio      rawValue `json:"currentRatio"`
				DebtToEquity      rawValue `json:"debtToEquity"`
				FreeCashflow      rawValue `json:"freeCashflow"`
				ProfitMargins     rawValue `json:"profitMargins"`
				OperatingMargins  rawValue `json:"operatingMargins"`
				EarningsGrowth    rawValue `json:"earningsGrowth"`
				RevenueGrowth     rawValue `json:"revenueGrowth"`
				TargetMedianPrice rawValue `json:"targetMedianPrice"`
				ReturnOnEquity    rawValue `json:"returnOnEquity"`
			} `json:"financialData"`
			DefaultKeyStatistics struct {
				PriceToBook rawValue `json:"priceToBook"`
			} `json:"defaultKeyStatistics"`
			IncomeStatementHistory struct {
				Statements []struct {
					EndDate struct {
						Unix int64 `json:"raw"`
					} `json:"endDate"`
					TotalRevenue rawValue `json:"totalRevenue"`
				} `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"quoteSummary"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					High  []*float64 `json:"high"`
					Low   []*float64 `json:"low"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}
