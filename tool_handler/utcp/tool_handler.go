// Package utcp bridges remote tools exposed over the universal tool
// calling protocol into the local catalog.
package utcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/universal-tool-calling-protocol/go-utcp"

	toolhandler "github.com/advait-ai/advait/tool_handler"
)

type utcpToolHandler struct {
	client   utcp.UtcpClientInterface
	toolName string
	spec     toolhandler.ToolSpec
}

func (th *utcpToolHandler) Spec() toolhandler.ToolSpec {
	return th.spec
}

func (th *utcpToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	raw, err := th.client.CallTool(ctx, th.toolName, req.Arguments)
	if err != nil {
		return toolhandler.ToolResponse{}, err
	}

	var content string
	switch v := raw.(type) {
	case string:
		content = v
	default:
		if b, err := json.Marshal(v); err == nil {
			content = string(b)
		} else {
			content = fmt.Sprintf("%v", v)
		}
	}

	return toolhandler.ToolResponse{
		Content: content,
		Metadata: map[string]string{
			"source": "utcp",
			"tool":   th.toolName,
		},
	}, nil
}

// NewToolHandler exposes one remote tool through the given client under
// the provided spec.
func NewToolHandler(client utcp.UtcpClientInterface, spec toolhandler.ToolSpec) toolhandler.ToolHandler {
	if client == nil {
		panic("utcp client is required")
	}

	return &utcpToolHandler{
		client:   client,
		toolName: spec.Name,
		spec:     spec,
	}
}

// Discover connects to the given tool servers, searches for tools
// matching the query, and wraps each one as a local handler.
func Discover(ctx context.Context, addrs []string, query string, limit int) ([]toolhandler.ToolHandler, error) {
	if len(addrs) == 0 {
		return nil, nil
	}

	configPath, err := createTempConfig(addrs)
	if err != nil {
		return nil, err
	}
	defer os.Remove(configPath)

	client, err := utcp.NewUTCPClient(
		ctx,
		&utcp.UtcpClientConfig{
			ProvidersFilePath: configPath,
		},
		nil,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("utcp client error: %w", err)
	}

	remoteTools, err := client.SearchTools(query, limit)
	if err != nil {
		return nil, fmt.Errorf("utcp discovery failed: %w", err)
	}

	var handlers []toolhandler.ToolHandler
	for _, tool := range remoteTools {
		handlers = append(handlers, NewToolHandler(client, toolhandler.ToolSpec{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.Inputs.Properties,
		}))
	}

	return handlers, nil
}

func createTempConfig(addrs []string) (string, error) {
	type providerConfig struct {
		Type    string            `json:"provider_type"`
		Name    string            `json:"name"`
		URL     string            `json:"url"`
		Method  string            `json:"http_method"`
		Headers map[string]string `json:"headers"`
	}

	config := struct {
		Providers []providerConfig `json:"providers"`
	}{}

	for _, u := range addrs {
		parsed, err := url.Parse(u)
		if err != nil {
			return "", err
		}
		config.Providers = append(config.Providers, providerConfig{
			Type:   "http",
			Name:   parsed.Hostname(),
			URL:    u,
			Method: "POST",
			Headers: map[string]string{
				"Content-Type": "application/json",
			},
		})
	}

	f, err := os.CreateTemp("", "utcp_config_*.json")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(config); err != nil {
		return "", err
	}

	return f.Name(), nil
}
