// Package stockanalysis binds the finance client to the chatbot as the
// stock_analysis tool.
package stockanalysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/advait-ai/advait/finance"
	toolhandler "github.com/advait-ai/advait/tool_handler"
)

type stockAnalysisToolHandler struct {
	options toolhandler.Options
	client  finance.Client
}

func (th *stockAnalysisToolHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{
		Name:        "stock_analysis",
		Description: "Analyzes stock data for a ticker symbol and reports key financial metrics: price, 52-week range, valuation ratios, margins, growth rates, and analyst target.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ticker": map[string]any{
					"type":        "string",
					"description": "Ticker symbol for the company (e.g., AAPL for Apple Inc.)",
				},
			},
			"required": []any{"ticker"},
		},
		Examples: []map[string]any{
			{"ticker": "AAPL"},
		},
	}
}

func (th *stockAnalysisToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	ticker, ok := req.StringArg("ticker")
	if !ok {
		// The agent flattens bare string arguments under "input".
		ticker, ok = req.StringArg("input")
	}
	if !ok || len(strings.TrimSpace(ticker)) == 0 {
		return toolhandler.ToolResponse{}, fmt.Errorf("missing 'ticker' argument")
	}

	analysis, err := finance.Analyze(ctx, th.client, ticker)
	if err != nil {
		return toolhandler.ToolResponse{}, err
	}

	return toolhandler.ToolResponse{
		Content: analysis.Report(),
		Metadata: map[string]string{
			"source": "finance",
			"symbol": analysis.Symbol,
		},
	}, nil
}

func NewToolHandler(client finance.Client, opts ...toolhandler.Option) toolhandler.ToolHandler {
	if client == nil {
		panic("finance client is required")
	}

	return &stockAnalysisToolHandler{
		options: toolhandler.NewOptions(opts...),
		client:  client,
	}
}
