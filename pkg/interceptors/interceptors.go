package interceptors

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docker/mcp-simple-server/pkg/log"
	"github.com/docker/mcp-simple-server/pkg/telemetry"
)

const methodCallTool = "tools/call"

// Callbacks returns the receiving middlewares to install on the server, in
// order. Telemetry is always first so that it measures the whole chain.
func Callbacks(logCalls bool, recorder *telemetry.Recorder) []mcp.Middleware {
	var middlewares []mcp.Middleware

	if recorder != nil {
		middlewares = append(middlewares, TelemetryMiddleware(recorder))
	}
	if logCalls {
		middlewares = append(middlewares, LogCallsMiddleware())
	}

	return middlewares
}

// TelemetryMiddleware records a span and metrics for every tools/call request.
func TelemetryMiddleware(recorder *telemetry.Recorder) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			call, ok := asToolCall(method, req)
			if !ok {
				return next(ctx, method, req)
			}

			ctx, done := recorder.StartToolCall(ctx, call.Params.Name, clientName(call))
			result, err := next(ctx, method, req)
			done(err, isErrorResult(result))

			return result, err
		}
	}
}

// LogCallsMiddleware logs tool names, durations and failures. Both lines of a
// call carry the same short call id so that concurrent calls can be told apart.
func LogCallsMiddleware() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			call, ok := asToolCall(method, req)
			if !ok {
				return next(ctx, method, req)
			}

			name := call.Params.Name
			id := uuid.NewString()[:8]
			log.Logf("  - Calling tool %s with %s (call %s)", name, string(call.Params.Arguments), id)
			start := time.Now()

			result, err := next(ctx, method, req)

			switch {
			case err != nil:
				log.Logf("  > Calling tool %s failed after %s: %s (call %s)", name, time.Since(start), err, id)
			case isErrorResult(result):
				log.Logf("  > Tool %s returned an error result after %s (call %s)", name, time.Since(start), id)
			default:
				log.Logf("  > Calling tool %s took: %s (call %s)", name, time.Since(start), id)
			}

			return result, err
		}
	}
}

func asToolCall(method string, req mcp.Request) (*mcp.CallToolRequest, bool) {
	if method != methodCallTool {
		return nil, false
	}
	call, ok := req.(*mcp.CallToolRequest)
	if !ok || call.Params == nil {
		return nil, false
	}
	return call, true
}

func clientName(call *mcp.CallToolRequest) string {
	if call.Session == nil {
		return ""
	}
	params := call.Session.InitializeParams()
	if params == nil || params.ClientInfo == nil {
		return ""
	}
	return params.ClientInfo.Name
}

func isErrorResult(result mcp.Result) bool {
	r, ok := result.(*mcp.CallToolResult)
	return ok && r != nil && r.IsError
}
