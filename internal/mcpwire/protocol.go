// Package mcpwire implements the minimal MCP/JSON-RPC wire types and stdio
// transport loop, adapted from the teacher's pkg/mcp/protocol and
// pkg/mcp/transport packages. The teacher's own gomcp-sdk-style dependency
// chain pulls in resources/prompts/sampling capabilities this server never
// exposes, so this package hand-grows the request/response/tool-listing
// subset the spec's three-tool surface actually needs (see DESIGN.md).
package mcpwire

import (
	"encoding/json"

	"openapi-mcp-navigator/internal/apperrors"
)

// ProtocolVersion is the MCP protocol date this server speaks.
const ProtocolVersion = "2024-11-05"

// JSONRPCRequest is one incoming line of the stdio transport.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// ToolCallParams is the params shape of a tools/call request.
type ToolCallParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// Tool describes one callable tool for the tools/list response.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	InputSchema interface{} `json:"inputSchema"`
}

// InitializeResult answers the initialize handshake.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

// ServerCapabilities advertises only the tools capability; this server has
// no resources, prompts, or sampling surface (spec §1 Non-goals).
type ServerCapabilities struct {
	Tools *ToolCapability `json:"tools,omitempty"`
}

// ToolCapability signals whether the tool list can change at runtime.
type ToolCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ServerInfo names this server for the initialize handshake.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// errorResponse builds the JSON-RPC error envelope for protocol-level
// failures (unparseable request, unknown method) that never reach the
// Request Engine.
func errorResponse(id interface{}, code int, message string) *apperrors.JSONRPCResponse {
	return &apperrors.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &apperrors.JSONRPCError{Code: code, Message: message},
	}
}
