// CLAUDE:SUMMARY Registers the cluster_tabs MCP tool via kit.RegisterMCPTool.
package cluster

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/feldrik/tabd/kit"
)

// RegisterMCP registers the clustering tool on an MCP server.
func RegisterMCP(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "cluster_tabs",
		Description: "Partition browser tabs into named groups using the domain, semantic, or hybrid strategy.",
		InputSchema: inputSchema(map[string]any{
			"tabs": map[string]any{
				"type":        "array",
				"description": "Tab descriptors: id, title, url, open_time (epoch ms)",
			},
			"embeddings": map[string]any{
				"type":        "array",
				"description": "One embedding vector per tab (semantic/hybrid only)",
			},
			"anchors": map[string]any{
				"type":        "array",
				"description": "Named topic-anchor embeddings (hybrid only)",
			},
			"strategy": map[string]any{
				"type":        "string",
				"description": "domain | semantic | hybrid",
			},
			"config": map[string]any{
				"type":        "object",
				"description": "Threshold/weight overrides; all have defaults",
			},
		}, []string{"tabs"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*Request)
		res, err := Cluster(*r)
		if err != nil {
			// Structured failure, not a tool error: the caller must treat it
			// as "all tabs ungrouped".
			return map[string]any{
				"groups":    res.Groups,
				"ungrouped": res.Ungrouped,
				"error":     err.Error(),
			}, nil
		}
		if res.Strategy == StrategyDomain {
			return map[string]any{"buckets": res.Buckets()}, nil
		}
		return res, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r Request
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, kit.Logging(nil, "cluster_tabs")(endpoint), decode)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}
