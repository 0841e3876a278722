package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service/projector"
)

// publishContexts exposes each resource context of the current run as a
// readable resource. Contexts of earlier runs stay listed but no longer
// resolve.
func publishContexts(s *server.MCPServer, h *Handlers, contexts []model.ResourceContext) {
	for _, c := range contexts {
		s.AddResource(
			mcp.NewResource(
				projector.URI(c),
				c.Key,
				mcp.WithResourceDescription(fmt.Sprintf("%v flagged as %v", c.Metadata["type"], c.Metadata["reason"])),
				mcp.WithMIMEType("application/json"),
			),
			h.handleResourceContext,
		)
	}
}

func (h *Handlers) handleResourceContext(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	for _, c := range h.orchestrator.Contexts() {
		if projector.URI(c) != uri {
			continue
		}
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("mcp: marshal resource context: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
	return nil, fmt.Errorf("mcp: %s is not part of the current run", uri)
}
