package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/docker/mcp-simple-server/pkg/health"
	"github.com/docker/mcp-simple-server/pkg/log"
	"github.com/docker/mcp-simple-server/pkg/transport"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func (s *Server) startStdioServer(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler returns the handler tree for the SSE or streamable HTTP
// transport: the protocol endpoint, /health, and a redirect from every other
// path.
func (s *Server) HTTPHandler() (http.Handler, error) {
	getServer := func(_ *http.Request) *mcp.Server {
		return s.mcpServer
	}

	var protocolHandler http.Handler
	switch s.Transport {
	case transport.SSE:
		protocolHandler = mcp.NewSSEHandler(getServer, nil)
	case transport.StreamableHTTP:
		protocolHandler = mcp.NewStreamableHTTPHandler(getServer, nil)
	default:
		return nil, fmt.Errorf("transport %q is not served over HTTP", s.Transport)
	}

	endpoint := s.Transport.Endpoint()
	mux := http.NewServeMux()
	mux.Handle("/health", healthHandler(&s.health))
	mux.Handle("/", redirectHandler(endpoint))
	mux.Handle(endpoint, originSecurityHandler(protocolHandler))

	var handler http.Handler = mux
	if s.AuthToken != "" {
		handler = authenticationMiddleware(s.AuthToken, mux)
	}
	return handler, nil
}

// serveHTTP serves until ctx is done, then shuts the server down. Request
// contexts derive from ctx so open event streams end with it.
func serveHTTP(ctx context.Context, ln net.Listener, handler http.Handler) error {
	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Log("> Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warnf("! Graceful shutdown failed: %s", err)
			return httpServer.Close()
		}
		return nil
	})

	return g.Wait()
}

func redirectHandler(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	}
}

func healthHandler(state *health.State) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if state.IsHealthy() {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}
}
