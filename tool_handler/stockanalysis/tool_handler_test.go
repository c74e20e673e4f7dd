package stockanalysis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advait-ai/advait/finance"
	toolhandler "github.com/advait-ai/advait/tool_handler"
	"github.com/advait-ai/advait/tool_handler/stockanalysis"
)

type fakeClient struct {
	quote *finance.Quote
	bars  []finance.Bar
	err   error
}

func (c *fakeClient) Quote(_ context.Context, symbol string) (*finance.Quote, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.quote, nil
}

func (c *fakeClient) History(_ context.Context, symbol string, period finance.Period) ([]finance.Bar, error) {
	return c.bars, nil
}

func (c *fakeClient) Financials(_ context.Context, symbol string) ([]finance.Statement, error) {
	return nil, nil
}

func ptr(v float64) *float64 {
	return &v
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		quote: &finance.Quote{
			Symbol: "AAPL",
			Name:   "Apple Inc.",
			Price:  ptr(231.59),
		},
		bars: []finance.Bar{
			{Time: time.Now().AddDate(0, 0, -2), High: 237.23, Low: 164.08, Close: 230},
			{Time: time.Now().AddDate(0, 0, -1), High: 233.1, Low: 228.4, Close: 231.59},
		},
	}
}

func TestInvokeReturnsReport(t *testing.T) {
	th := stockanalysis.NewToolHandler(newFakeClient())

	rsp, err := th.Invoke(context.Background(), toolhandler.ToolRequest{
		Arguments: map[string]any{"ticker": "aapl"},
	})
	require.NoError(t, err)

	assert.Contains(t, rsp.Content, "Ticker Symbol: AAPL")
	assert.Contains(t, rsp.Content, "Company Name: Apple Inc.")
	assert.Contains(t, rsp.Content, "52-Week High: 237.23")
	assert.Equal(t, "finance", rsp.Metadata["source"])
	assert.Equal(t, "AAPL", rsp.Metadata["symbol"])
}

func TestInvokeBareInputFallback(t *testing.T) {
	th := stockanalysis.NewToolHandler(newFakeClient())

	rsp, err := th.Invoke(context.Background(), toolhandler.ToolRequest{
		Arguments: map[string]any{"input": "AAPL"},
	})
	require.NoError(t, err)

	assert.Contains(t, rsp.Content, "Ticker Symbol: AAPL")
}

func TestInvokeMissingTicker(t *testing.T) {
	th := stockanalysis.NewToolHandler(newFakeClient())

	_, err := th.Invoke(context.Background(), toolhandler.ToolRequest{
		Arguments: map[string]any{},
	})
	assert.Error(t, err)
}

func TestInvokeUpstreamError(t *testing.T) {
	th := stockanalysis.NewToolHandler(&fakeClient{err: fmt.Errorf("quote service down")})

	_, err := th.Invoke(context.Background(), toolhandler.ToolRequest{
		Arguments: map[string]any{"ticker": "NOPE"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unable to fetch data for ticker "NOPE"`)
}

func TestNewToolHandlerRequiresClient(t *testing.T) {
	assert.Panics(t, func() {
		stockanalysis.NewToolHandler(nil)
	})
}
