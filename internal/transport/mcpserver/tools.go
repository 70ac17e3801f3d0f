package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/counsel/internal/core"
	"github.com/sandevgo/counsel/internal/ratelimit"
)

func (s *Server) registerTools() {
	consult := mcp.NewTool("consult",
		mcp.WithDescription("Ask one AI provider a question with project context attached"),
		mcp.WithString("provider", mcp.Required(),
			mcp.Description("Provider id, e.g. openai, anthropic, openrouter, ollama")),
		mcp.WithString("prompt", mcp.Required(),
			mcp.Description("The question to ask")),
		mcp.WithString("context",
			mcp.Description("Optional extra context appended to the assembled block")),
		mcp.WithArray("context_files",
			mcp.Description("Optional absolute paths of files the question is about; also used to detect the workspace")),
	)
	s.mcp.AddTool(consult, s.handleConsult)

	research := mcp.NewTool("research",
		mcp.WithDescription("Ask several providers the same question and compare their answers"),
		mcp.WithString("question", mcp.Required(),
			mcp.Description("The research question")),
		mcp.WithArray("providers",
			mcp.Description("Optional provider subset; defaults to every configured provider")),
	)
	s.mcp.AddTool(research, s.handleResearch)

	execute := mcp.NewTool("execute",
		mcp.WithDescription("Route a raw command to a named operation"),
		mcp.WithString("command", mcp.Required(),
			mcp.Description("Raw command text")),
		mcp.WithString("operation", mcp.Required(),
			mcp.Description("Target operation: consult, research or set_workspace")),
		mcp.WithObject("args",
			mcp.Description("Operation arguments")),
	)
	s.mcp.AddTool(execute, s.handleExecute)

	setWorkspace := mcp.NewTool("set_workspace",
		mcp.WithDescription("Pin the active project directory"),
		mcp.WithString("path", mcp.Required(),
			mcp.Description("Absolute path of the project root")),
	)
	s.mcp.AddTool(setWorkspace, s.handleSetWorkspace)
}

func (s *Server) handleConsult(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	provider, _ := args["provider"].(string)
	prompt, _ := args["prompt"].(string)
	extra, _ := args["context"].(string)

	if provider == "" || prompt == "" {
		return mcp.NewToolResultError("consult requires both provider and prompt"), nil
	}

	out, err := s.broker.Consult(ctx, provider, prompt, extra, anySlice(args["context_files"]))
	if err != nil {
		return s.renderFailure(err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleResearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	question, _ := args["question"].(string)
	if question == "" {
		return mcp.NewToolResultError("research requires a question"), nil
	}

	out, err := s.broker.Research(ctx, question, anySlice(args["providers"]))
	if err != nil {
		return s.renderFailure(err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleExecute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	command, _ := args["command"].(string)
	operation, _ := args["operation"].(string)
	opArgs, _ := args["args"].(map[string]any)

	if operation == "" {
		return mcp.NewToolResultError("execute requires an operation"), nil
	}

	out, err := s.broker.Execute(ctx, command, operation, opArgs)
	if err != nil {
		return s.renderFailure(err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleSetWorkspace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, _ := req.GetArguments()["path"].(string)
	if path == "" {
		return mcp.NewToolResultError("set_workspace requires a path"), nil
	}

	out, err := s.broker.SetWorkspace(ctx, path)
	if err != nil {
		return s.renderFailure(err), nil
	}
	return mcp.NewToolResultText(out), nil
}

// renderFailure maps broker failures onto user-facing payloads: a quota
// denial is an informational result the caller can act on, everything
// else is an error with a suggested remedy. One failed invocation never
// kills the process.
func (s *Server) renderFailure(err error) *mcp.CallToolResult {
	var quota *core.QuotaError
	if errors.As(err, &quota) {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Rate limit reached for %s: %d of %d calls remaining. The window resets at %s. Try another provider: %s",
			quota.Provider, quota.Remaining, ratelimit.CallLimit, quota.ResetAt.Format("15:04:05 MST"),
			strings.Join(s.broker.Providers(), ", ")))
	}

	var notConfigured *core.NotConfiguredError
	if errors.As(err, &notConfigured) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"%v. Set the provider's API key in the environment (run `counsel install` to configure) or pick one of: %s",
			err, strings.Join(s.broker.Providers(), ", ")))
	}

	return mcp.NewToolResultError(err.Error())
}

func anySlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
