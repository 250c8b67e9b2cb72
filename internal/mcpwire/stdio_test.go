package mcpwire

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openapi-mcp-navigator/internal/apperrors"
	"openapi-mcp-navigator/internal/config"
	"openapi-mcp-navigator/internal/engine"
	"openapi-mcp-navigator/internal/index"
	"openapi-mcp-navigator/internal/logging"
	"openapi-mcp-navigator/internal/metrics"
	"openapi-mcp-navigator/internal/results"
	"openapi-mcp-navigator/internal/store"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	st, err := store.Open(t.TempDir(), logging.New(logging.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := config.Default()
	idx := index.New()
	proc := results.New(cfg.Search.CacheSize, cfg.Search.CacheTTL, cfg.Search.DefaultPerPage, cfg.Search.MaxPerPage)
	return engine.New(st, idx, proc, cfg, logging.New(logging.ERROR), metrics.New())
}

func runOneLine(t *testing.T, eng *engine.Engine, request string) apperrors.JSONRPCResponse {
	t.Helper()
	in := strings.NewReader(request + "\n")
	var out bytes.Buffer
	srv := NewServer(in, &out, eng, logging.New(logging.ERROR))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Run(ctx)

	scanner := bufio.NewScanner(&out)
	require.True(t, scanner.Scan(), "expected one response line, got none")
	var resp apperrors.JSONRPCResponse
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
	return resp
}

func TestDispatch_Initialize(t *testing.T) {
	resp := runOneLine(t, newTestEngine(t), `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	assert.Equal(t, "2.0", resp.JSONRPC)
	assert.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)
}

func TestDispatch_ToolsList(t *testing.T) {
	resp := runOneLine(t, newTestEngine(t), `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	assert.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)
}

func TestDispatch_UnknownMethod(t *testing.T) {
	resp := runOneLine(t, newTestEngine(t), `{"jsonrpc":"2.0","id":3,"method":"bogus/method"}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
}

func TestDispatch_MalformedJSONIsParseError(t *testing.T) {
	resp := runOneLine(t, newTestEngine(t), `{not json`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32700, resp.Error.Code)
}

// An invalid tool-call argument must surface the Request Engine's
// ValidationError code through the same wire envelope (spec §6, §7).
func TestDispatch_ToolsCallValidationError(t *testing.T) {
	resp := runOneLine(t, newTestEngine(t), `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"searchEndpoints","arguments":{"keywords":""}}}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}

func TestDispatch_NotificationHasNoResponse(t *testing.T) {
	eng := newTestEngine(t)
	in := strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n")
	var out bytes.Buffer
	srv := NewServer(in, &out, eng, logging.New(logging.ERROR))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = srv.Run(ctx)

	assert.Empty(t, out.String())
}
