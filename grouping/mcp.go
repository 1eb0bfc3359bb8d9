// CLAUDE:SUMMARY Registers the group_tabs MCP tool via kit.RegisterMCPTool.
package grouping

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/feldrik/tabd/cluster"
	"github.com/feldrik/tabd/kit"
)

type groupReq struct {
	Tabs     []cluster.Tab    `json:"tabs"`
	Strategy cluster.Strategy `json:"strategy"`
}

// RegisterMCP registers the grouping tool on an MCP server. Unlike the raw
// cluster_tabs tool, the server embeds tab titles itself.
func RegisterMCP(srv *mcp.Server, svc *Service) {
	tool := &mcp.Tool{
		Name:        "group_tabs",
		Description: "Group browser tabs by content similarity. Embeddings are computed server-side.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tabs": map[string]any{
					"type":        "array",
					"description": "Tab descriptors: id, title, url, open_time (epoch ms)",
				},
				"strategy": map[string]any{
					"type":        "string",
					"description": "domain | semantic | hybrid (default from service config)",
				},
			},
			"required": []string{"tabs"},
		},
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*groupReq)
		res, err := svc.GroupTabs(ctx, r.Tabs, r.Strategy)
		if err != nil {
			return map[string]any{
				"groups":    res.Groups,
				"ungrouped": res.Ungrouped,
				"error":     err.Error(),
			}, nil
		}
		if res.Strategy == cluster.StrategyDomain {
			return map[string]any{
				"strategy": res.Strategy,
				"buckets":  res.Buckets(),
			}, nil
		}
		return res, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r groupReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, kit.Chain(kit.Logging(svc.cfg.Logger, "group_tabs"))(endpoint), decode)
}
