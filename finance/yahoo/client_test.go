package yahoo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advait-ai/advait/finance"
	"github.com/advait-ai/advait/finance/yahoo"
)

const quoteSummaryBody = `{
  "quoteSummary": {
    "result": [{
      "price": {
        "longName": "Apple Inc.",
        "regularMarketPrice": {"raw": 190.5, "fmt": "190.50"},
        "marketCap": {"raw": 2950000000000, "fmt": "2.95T"}
      },
      "summaryDetail": {
        "trailingPE": {"raw": 31.2},
        "dividendYield": {"raw": 0.0055},
        "beta": {"raw": 1.28}
      },
      "financialData": {
        "currentRatio": {"raw": 1.07},
        "debtToEquity": {"raw": 140.97},
        "freeCashflow": {"raw": 84726000000},
        "profitMargins": {"raw": 0.253},
        "targetMedianPrice": {"raw": 200}
      },
      "defaultKeyStatistics": {
        "priceToBook": {"raw": 47.5}
      },
      "incomeStatementHistory": {
        "incomeStatementHistory": [
          {"endDate": {"raw": 1696032000}, "totalRevenue": {"raw": 383000000000}},
          {"endDate": {"raw": 1663977600}, "totalRevenue": {"raw": 394000000000}}
        ]
      }
    }],
    "error": null
  }
}`

const chartBody = `{
  "chart": {
    "result": [{
      "timestamp": [1609718400, 1609804800, 1609891200],
      "indicators": {
        "quote": [{
          "high": [131.0, null, 133.5],
          "low": [126.4, null, 129.0],
          "close": [129.4, null, 131.0]
        }]
      }
    }],
    "error": null
  }
}`

const notFoundBody = `{
  "chart": {
    "result": null,
    "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
  }
}`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/AAPL"):
			w.Write([]byte(quoteSummaryBody))
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/AAPL"):
			w.Write([]byte(chartBody))
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/"):
			w.Write([]byte(notFoundBody))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestQuote(t *testing.T) {
	srv := testServer(t)
	client := yahoo.NewClient(yahoo.WithBaseURL(srv.URL))

	quote, err := client.Quote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "Apple Inc.", quote.Name)
	require.NotNil(t, quote.Price)
	assert.Equal(t, 190.5, *quote.Price)
	require.NotNil(t, quote.MarketCap)
	assert.Equal(t, 2.95e12, *quote.MarketCap)
	require.NotNil(t, quote.PriceToBook)
	assert.Equal(t, 47.5, *quote.PriceToBook)

	// Absent modules decode as nil values, not zeros.
	assert.Nil(t, quote.OperatingMargin)
}

func TestHistorySkipsNullBars(t *testing.T) {
	srv := testServer(t)
	client := yahoo.NewClient(yahoo.WithBaseURL(srv.URL))

	bars, err := client.History(context.Background(), "AAPL", finance.PeriodFiveYears)
	require.NoError(t, err)

	require.Len(t, bars, 2)
	assert.Equal(t, 131.0, bars[0].High)
	assert.Equal(t, 133.5, bars[1].High)
	assert.True(t, bars[0].Time.Before(bars[1].Time))
}

func TestHistoryUnknownSymbol(t *testing.T) {
	srv := testServer(t)
	client := yahoo.NewClient(yahoo.WithBaseURL(srv.URL))

	_, err := client.History(context.Background(), "NOPE", finance.PeriodFiveYears)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
}

func TestFinancials(t *testing.T) {
	srv := testServer(t)
	client := yahoo.NewClient(yahoo.WithBaseURL(srv.URL))

	statements, err := client.Financials(context.Background(), "AAPL")
	require.NoError(t, err)

	require.Len(t, statements, 2)
	assert.Equal(t, 383e9, statements[0].TotalRevenue)
	assert.Equal(t, 2023, statements[0].EndDate.Year())
}
