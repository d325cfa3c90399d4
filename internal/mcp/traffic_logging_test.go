package mcp

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestTrafficLoggingOneLinePerCall(t *testing.T) {
	var buf bytes.Buffer
	handler := trafficLoggingMiddleware(debugLogger(&buf), "inbound")(
		func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return &sdkmcp.CallToolResult{}, nil
		})

	_, err := handler(context.Background(), "tools/call", nil)
	require.NoError(t, err)

	out := buf.String()
	require.Equal(t, 1, strings.Count(out, "msg=\"mcp call\""))
	require.Contains(t, out, "direction=inbound")
	require.Contains(t, out, "method=tools/call")
	require.Contains(t, out, "result=")
}

func TestTrafficLoggingRecordsHandlerError(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("handler failed")
	handler := trafficLoggingMiddleware(debugLogger(&buf), "inbound")(
		func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return nil, boom
		})

	_, err := handler(context.Background(), "tools/call", nil)
	require.ErrorIs(t, err, boom)
	require.Contains(t, buf.String(), "handler failed")
}

func TestTrafficLoggingSkipsBelowDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	handler := trafficLoggingMiddleware(logger, "inbound")(
		func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return &sdkmcp.CallToolResult{}, nil
		})

	_, err := handler(context.Background(), "tools/call", nil)
	require.NoError(t, err)
	require.Empty(t, buf.String())
}

func TestLogPayloadTruncatesLargeBodies(t *testing.T) {
	payload := map[string]string{"notes": strings.Repeat("x", maxPayloadLog*2)}

	got := logPayload(payload)

	require.LessOrEqual(t, len(got), maxPayloadLog+3)
	require.True(t, strings.HasSuffix(got, "..."))
}

func TestLogPayloadFallsBackToTypeName(t *testing.T) {
	got := logPayload(func() {})
	require.Equal(t, "func()", got)
}
