// Package summarize condenses the previous message, with a dedicated
// path for stock analysis reports.
package summarize

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	toolhandler "github.com/advait-ai/advait/tool_handler"
)

var (
	fieldPattern      = regexp.MustCompile(`(?m)^([^:\n]+):\s*(.+)$`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	sentencePattern   = regexp.MustCompile(`[.!?]+`)
)

// keyTerms biases sentence selection toward financial content.
var keyTerms = []string{"stock", "price", "market", "company", "analysis", "growth", "profit", "revenue"}

type summarizeToolHandler struct {
	options toolhandler.Options
}

func (th *summarizeToolHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{
		Name:        "summarize",
		Description: "Summarizes the content of the last message, such as stock analysis results or any text, into a short well-formatted digest.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"message": map[string]any{
					"type":        "string",
					"description": "The message content to summarize",
				},
			},
			"required": []any{"message"},
		},
	}
}

func (th *summarizeToolHandler) Invoke(_ context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	message, ok := req.StringArg("message")
	if !ok {
		message, ok = req.StringArg("input")
	}
	if !ok || len(strings.TrimSpace(message)) == 0 {
		return toolhandler.ToolResponse{}, fmt.Errorf("missing 'message' argument")
	}

	cleaned := strings.TrimSpace(message)

	if strings.Contains(cleaned, "Ticker Symbol") || strings.Contains(cleaned, "Company Name") {
		return toolhandler.ToolResponse{
			Content:  summarizeStockReport(cleaned),
			Metadata: map[string]string{"kind": "stock"},
		}, nil
	}

	return toolhandler.ToolResponse{
		Content:  summarizeGeneralText(cleaned),
		Metadata: map[string]string{"kind": "text"},
	}, nil
}

func summarizeStockReport(report string) string {
	fields := map[string]string{}
	for _, m := range fieldPattern.FindAllStringSubmatch(report, -1) {
		fields[strings.TrimSpace(m[1])] = strings.TrimSpace(m[2])
	}

	get := func(key string) string {
		if v, ok := fields[key]; ok && len(v) > 0 {
			return v
		}
		return "N/A"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Stock Analysis Summary: %s\n\n", get("Ticker Symbol")))
	sb.WriteString(fmt.Sprintf("Company: %s\n", get("Company Name")))
	sb.WriteString(fmt.Sprintf("Current Price: %s\n", dollars(get("Current Stock Price"))))
	sb.WriteString(fmt.Sprintf("Market Cap: %s\n", abbreviateMarketCap(get("Market Capitalization"))))
	sb.WriteString("\nValuation:\n")
	sb.WriteString(fmt.Sprintf("- P/E Ratio: %s\n", get("PE Ratio")))
	sb.WriteString(fmt.Sprintf("- Profit Margin: %s\n", percent(get("Profit Margins (%)"))))
	sb.WriteString("\n52-Week Range:\n")
	sb.WriteString(fmt.Sprintf("- High: %s\n", dollars(get("52-Week High"))))
	sb.WriteString(fmt.Sprintf("- Low: %s\n", dollars(get("52-Week Low"))))
	sb.WriteString("\nFinancial Health:\n")
	sb.WriteString(fmt.Sprintf("- Debt-to-Equity: %s\n", get("Debt to Equity Ratio")))
	sb.WriteString(fmt.Sprintf("- Revenue Growth: %s\n", percent(get("Revenue Growth (%)"))))
	sb.WriteString(fmt.Sprintf("- Beta (Volatility): %s\n", get("Beta")))
	sb.WriteString(fmt.Sprintf("\nAnalyst Target: %s\n", dollars(get("Analyst Target Price"))))

	return sb.String()
}

// abbreviateMarketCap renders a raw dollar amount as $1.2T / $345.6B / $78.9M.
func abbreviateMarketCap(value string) string {
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil || amount <= 0 {
		return "N/A"
	}

	switch {
	case amount >= 1e12:
		return fmt.Sprintf("$%.1fT", amount/1e12)
	case amount >= 1e9:
		return fmt.Sprintf("$%.1fB", amount/1e9)
	case amount >= 1e6:
		return fmt.Sprintf("$%.1fM", amount/1e6)
	default:
		return fmt.Sprintf("$%.0f", amount)
	}
}

func dollars(value string) string {
	if value == "N/A" {
		return value
	}
	return "$" + value
}

func percent(value string) string {
	if value == "N/A" {
		return value
	}
	return value + "%"
}

func summarizeGeneralText(text string) string {
	cleaned := whitespacePattern.ReplaceAllString(text, " ")

	if len(cleaned) <= 300 {
		return "Summary: " + cleaned
	}

	var selected []string
	total := 0

	for _, sentence := range sentencePattern.Split(cleaned, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) == 0 {
			continue
		}

		hasKeyTerm := false
		lower := strings.ToLower(sentence)
		for _, term := range keyTerms {
			if strings.Contains(lower, term) {
				hasKeyTerm = true
				break
			}
		}

		if hasKeyTerm && total+len(sentence) <= 250 {
			selected = append(selected, sentence)
			total += len(sentence)
		} else if !hasKeyTerm && total+len(sentence) <= 200 && len(selected) < 2 {
			selected = append(selected, sentence)
			total += len(sentence)
		}
	}

	if len(selected) > 0 {
		return "Summary: " + strings.Join(selected, ". ") + "."
	}

	return "Summary: " + cleaned[:250] + "..."
}

func NewToolHandler(opts ...toolhandler.Option) toolhandler.ToolHandler {
	return &summarizeToolHandler{
		options: toolhandler.NewOptions(opts...),
	}
}
