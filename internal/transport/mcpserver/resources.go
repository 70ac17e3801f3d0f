package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	projectResource := mcp.NewResource(
		"counsel://project-context",
		"Project Context",
		mcp.WithResourceDescription("The cached snapshot of the active workspace"),
		mcp.WithMIMEType("text/plain"),
	)
	s.mcp.AddResource(projectResource, s.handleProjectResource)

	historyResource := mcp.NewResource(
		"counsel://history",
		"Conversation History",
		mcp.WithResourceDescription("Retained conversation entries for the active workspace"),
		mcp.WithMIMEType("application/json"),
	)
	s.mcp.AddResource(historyResource, s.handleHistoryResource)
}

func (s *Server) handleProjectResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	snapshot := s.project.Get(ctx)

	text := fmt.Sprintf("Captured: %s\n\nManifest:\n%s\n\nREADME:\n%s\n\nStructure:\n%s\n",
		snapshot.CapturedAt.Format("2006-01-02 15:04:05"),
		snapshot.Manifest, snapshot.Readme, snapshot.Structure)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     text,
		},
	}, nil
}

func (s *Server) handleHistoryResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entries := s.store.All(ctx)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal history: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
