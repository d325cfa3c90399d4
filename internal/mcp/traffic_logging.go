package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxPayloadLog bounds how much of a params or result body reaches the
// debug log. Project payloads can carry whole photo and doc lists.
const maxPayloadLog = 2048

// trafficLoggingMiddleware emits one debug line per completed call, with
// the request params and the outcome together so a session transcript
// reads top to bottom.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			start := time.Now()
			result, err := next(ctx, method, req)

			attrs := []any{
				"direction", direction,
				"method", method,
				"owner_id", getOwnerID(ctx),
				"params", logPayload(requestParams(req)),
				"duration", time.Since(start),
			}
			if err != nil {
				attrs = append(attrs, "error", err)
			} else {
				attrs = append(attrs, "result", logPayload(result))
			}
			logger.Debug("mcp call", attrs...)

			return result, err
		}
	}
}

func requestParams(req sdkmcp.Request) any {
	if req == nil {
		return nil
	}
	return req.GetParams()
}

func logPayload(payload any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if len(data) > maxPayloadLog {
		data = append(data[:maxPayloadLog], "..."...)
	}
	return string(data)
}
