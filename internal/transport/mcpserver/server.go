// Package mcpserver is the protocol shim: it advertises the tool and
// resource surface over MCP stdio and hands every invocation to the
// broker. No brokering logic lives here.
package mcpserver

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/counsel/internal/core"
	"github.com/sandevgo/counsel/internal/history"
	"github.com/sandevgo/counsel/internal/project"
	"github.com/sandevgo/counsel/internal/service/broker"
	"github.com/sandevgo/counsel/pkg/log"
)

type Server struct {
	mcp     *server.MCPServer
	broker  *broker.Broker
	store   *history.Store
	project *project.Cache
}

func NewServer(b *broker.Broker, store *history.Store, projectCache *project.Cache) *Server {
	s := &Server{
		broker:  b,
		store:   store,
		project: projectCache,
	}

	s.mcp = server.NewMCPServer(
		"counsel",
		core.CounselVersion,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	s.registerTools()
	s.registerResources()
	return s
}

// Start serves the MCP protocol on stdio until ctx is cancelled or the
// host closes the stream.
func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("serving mcp on stdio")
	stdio := server.NewStdioServer(s.mcp)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

func serverInstructions() string {
	return `Counsel brokers questions to external AI providers with local project
context attached. Use "consult" for a single provider, "research" to
compare answers across providers, and "set_workspace" when answers seem
to reference the wrong project. Each provider allows 3 calls per hour.`
}
