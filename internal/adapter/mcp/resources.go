package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

const poolsURIPrefix = "voyago://destinations/"

// registerResources registers all MCP resources on the server.
func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			poolsURIPrefix+"{name}/pools",
			"Destination Pools",
			mcplib.WithTemplateDescription("Candidate attractions, restaurants and hotels for a destination"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		s.handlePoolsResource,
	)
}

func (s *Server) handlePoolsResource(ctx context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	if s.deps.PoolReader == nil {
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     `{"error":"pool reader not configured"}`,
			},
		}, nil
	}
	name := strings.TrimSuffix(strings.TrimPrefix(req.Params.URI, poolsURIPrefix), "/pools")
	if name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("invalid pools resource uri %q", req.Params.URI)
	}
	pools, err := s.deps.PoolReader.Pools(ctx, name)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(pools)
	if err != nil {
		return nil, err
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
