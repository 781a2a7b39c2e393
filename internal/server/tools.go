package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/desktop-invoke/internal/action"
	"github.com/mj1618/desktop-invoke/internal/output"
	"github.com/mj1618/desktop-invoke/internal/resolve"
	"gopkg.in/yaml.v3"
)

// toText serializes a tool result to YAML.
func toText(v any) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("perform",
			mcp.WithDescription("Perform one UI action on an element. Scroll accepts a \"while\" condition record and repeats until the condition holds."),
			mcp.WithString(action.KeyKind, mcp.Required(), mcp.Description("Action kind, e.g. tap, typeText, scroll (see the kinds tool)")),
			mcp.WithArray(action.KeyParams, mcp.Description("Positional parameters of the action kind")),
			mcp.WithObject(action.KeyWhile, mcp.Description("Scroll only: element condition, e.g. {text: Footer}; accepts value, value-contains, checked, unchecked, enabled, disabled, focused, gone")),
			mcp.WithString(resolve.KeyApp, mcp.Description("Scope to application")),
			mcp.WithString(resolve.KeyWindow, mcp.Description("Scope to window title substring")),
			mcp.WithNumber(resolve.KeyWindowID, mcp.Description("Scope to system window ID")),
			mcp.WithNumber(resolve.KeyPID, mcp.Description("Scope to process ID")),
			mcp.WithNumber(resolve.KeyID, mcp.Description("Target element by ID")),
			mcp.WithString(resolve.KeyText, mcp.Description("Target element by title/value/description text")),
			mcp.WithString(resolve.KeyRoles, mcp.Description("Comma-separated roles to filter text matches")),
			mcp.WithBoolean(resolve.KeyExact, mcp.Description("Require exact text match")),
			mcp.WithNumber(resolve.KeyScopeID, mcp.Description("Limit text search to descendants of element ID")),
		),
		s.handlePerform,
	)

	s.mcp.AddTool(
		mcp.NewTool("kinds",
			mcp.WithDescription("List the supported action kinds and their parameters"),
		),
		s.handleKinds,
	)
}

func (s *Server) handlePerform(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, _ := s.Perform(ctx, request.GetArguments())
	if !result.OK {
		return mcp.NewToolResultError(toText(result)), nil
	}
	return mcp.NewToolResultText(toText(result)), nil
}

func (s *Server) handleKinds(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(toText(output.Kinds())), nil
}
