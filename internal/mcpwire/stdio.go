package mcpwire

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"

	"openapi-mcp-navigator/internal/apperrors"
	"openapi-mcp-navigator/internal/engine"
	"openapi-mcp-navigator/internal/logging"
)

// codeParseError and codeMethodNotFound mirror the JSON-RPC 2.0 reserved protocol
// codes (spec §6); the Request Engine's own Kind-specific codes only apply
// once a request has reached tools/call dispatch.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
)

// Server runs the MCP stdio loop: read one JSON-RPC request per line,
// dispatch it, write one response per line. Adapted from the teacher's
// pkg/mcp/transport.StdioTransport, trimmed to this server's three tools.
type Server struct {
	in     io.Reader
	out    io.Writer
	engine *engine.Engine
	log    logging.Logger

	writeMu sync.Mutex
}

// NewServer builds a stdio MCP server bound to stdin/stdout-equivalent
// streams (tests pass in-memory buffers).
func NewServer(in io.Reader, out io.Writer, eng *engine.Engine, log logging.Logger) *Server {
	return &Server{in: in, out: out, engine: eng, log: log.WithComponent("mcpwire")}
}

// Run reads requests until ctx is cancelled or the input stream closes,
// then waits for every in-flight request to finish before returning; the
// wait has no time bound. Cancellation is checked before each read, so a
// read blocked on the input stream is not interrupted by ctx.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		default:
		}

		if !scanner.Scan() {
			wg.Wait()
			if err := scanner.Err(); err != nil {
				return err
			}
			return nil
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		lineCopy := append([]byte{}, line...)

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleLine(ctx, lineCopy)
		}()
	}
}

func (s *Server) handleLine(ctx context.Context, line []byte) {
	var req JSONRPCRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.write(errorResponse(nil, codeParseError, "parse error: "+err.Error()))
		return
	}

	resp := s.dispatch(ctx, &req)
	if resp != nil {
		s.write(resp)
	}
}

func (s *Server) dispatch(ctx context.Context, req *JSONRPCRequest) *apperrors.JSONRPCResponse {
	switch req.Method {
	case "initialize":
		return apperrors.Success(req.ID, InitializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    ServerCapabilities{Tools: &ToolCapability{}},
			ServerInfo:      ServerInfo{Name: "openapi-mcp-navigator", Version: "1.0.0"},
		})

	case "notifications/initialized":
		return nil // notifications carry no id and expect no response

	case "tools/list":
		return apperrors.Success(req.ID, map[string]interface{}{"tools": s.toolList()})

	case "tools/call":
		var params ToolCallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, codeParseError, "invalid tools/call params: "+err.Error())
		}
		result, toolErr := s.engine.Execute(ctx, params.Name, params.Arguments)
		if toolErr != nil {
			return toolErr.ToJSONRPC(req.ID)
		}
		return apperrors.Success(req.ID, result)

	default:
		return errorResponse(req.ID, codeMethodNotFound, "method not found: "+req.Method)
	}
}

func (s *Server) toolList() []Tool {
	schemas := engine.ToolSchemas()
	names := []string{engine.ToolSearchEndpoints, engine.ToolGetSchema, engine.ToolGetExample}
	out := make([]Tool, 0, len(names))
	for _, name := range names {
		out = append(out, Tool{Name: name, InputSchema: schemas[name]})
	}
	return out
}

func (s *Server) write(resp *apperrors.JSONRPCResponse) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	b, err := json.Marshal(resp)
	if err != nil {
		return
	}
	s.out.Write(b)
	s.out.Write([]byte("\n"))
}
