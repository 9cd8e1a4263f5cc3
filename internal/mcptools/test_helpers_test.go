package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/faizmokh/servicelog/internal/maintenance"
	"github.com/faizmokh/servicelog/internal/storage"
)

// newTestServer wires the tools over a throwaway SQLite store.
func newTestServer(t *testing.T) (*server.MCPServer, *maintenance.Service) {
	t.Helper()
	store, logger := openTestStore(t)
	svc := newTestService(store, logger)
	return NewServer(svc, logger), svc
}

func openTestStore(t *testing.T) (*storage.Store, *logrus.Logger) {
	t.Helper()

	backend, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "servicelog.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })

	logger, _ := test.NewNullLogger()
	return storage.NewStore(backend, logger), logger
}

func newTestService(store *storage.Store, logger *logrus.Logger) *maintenance.Service {
	return maintenance.NewService(store,
		maintenance.WithLogger(logger),
		maintenance.WithClock(func() time.Time { return time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC) }),
	)
}

// callTool calls a registered tool via the MCPServer's HandleMessage.
func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t.Helper()

	reqJSON, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]any{
			"name":      name,
			"arguments": args,
		},
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	respBytes, err := json.Marshal(s.HandleMessage(context.Background(), reqJSON))
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	var resp struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("RPC error %d: %s", resp.Error.Code, resp.Error.Message)
	}

	var result mcp.CallToolResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	return &result, nil
}

// resultText extracts the first text content from a CallToolResult.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("result is nil")
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("no text content in result")
	return ""
}
