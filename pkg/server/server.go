package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docker/mcp-simple-server/pkg/health"
	"github.com/docker/mcp-simple-server/pkg/interceptors"
	"github.com/docker/mcp-simple-server/pkg/log"
	"github.com/docker/mcp-simple-server/pkg/sample"
	"github.com/docker/mcp-simple-server/pkg/telemetry"
	"github.com/docker/mcp-simple-server/pkg/tools"
	"github.com/docker/mcp-simple-server/pkg/transport"
)

const Name = "simple_server"

// Version is overridden at build time with -ldflags.
var Version = "1.0.0"

type Server struct {
	Options
	toolbox   *tools.Toolbox
	mcpServer *mcp.Server
	health    health.State
}

// New validates the options and builds the MCP server with every tool
// registered. Nothing is served until Run.
func New(opts Options, store sample.Store) (*Server, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	recorder, err := telemetry.Global()
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	s := &Server{
		Options: opts,
		toolbox: tools.NewToolbox(store),
	}

	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    Name,
		Version: Version,
	}, &mcp.ServerOptions{
		Instructions: "A simple MCP server exposing demonstration tools: time, calculator, sample users and tasks, echo and word count.",
		InitializedHandler: func(_ context.Context, req *mcp.InitializedRequest) {
			if params := req.Session.InitializeParams(); params != nil && params.ClientInfo != nil {
				log.Logf("- Client initialized %s@%s", params.ClientInfo.Name, params.ClientInfo.Version)
			}
		},
		HasTools: true,
	})

	tools.Register(s.mcpServer, s.toolbox)
	log.Debugf("- Registered tools: %v", tools.Names())

	if middlewares := interceptors.Callbacks(s.LogCalls, recorder); len(middlewares) > 0 {
		s.mcpServer.AddReceivingMiddleware(middlewares...)
	}

	return s, nil
}

// Run serves the configured transport until ctx is cancelled or the
// transport fails.
func (s *Server) Run(ctx context.Context) error {
	if s.LogFilePath != "" {
		logFile, err := os.OpenFile(s.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", s.LogFilePath, err)
		}
		defer logFile.Close()

		log.SetLogWriter(io.MultiWriter(os.Stderr, logFile))
		defer log.SetLogWriter(os.Stderr)
	}

	start := time.Now()

	// Listen as early as possible to not lose client connections.
	var ln net.Listener
	if s.Transport.Network() {
		var (
			lc  net.ListenConfig
			err error
		)
		ln, err = lc.Listen(ctx, "tcp", transport.Address(s.Host, s.Port))
		if err != nil {
			return err
		}
	}

	s.health.SetHealthy()
	defer s.health.SetUnhealthy()
	log.Log("> Initialized in", time.Since(start))

	switch s.Transport {
	case transport.Stdio:
		log.Log("> Start stdio server")
		return s.startStdioServer(ctx)

	case transport.SSE, transport.StreamableHTTP:
		handler, err := s.HTTPHandler()
		if err != nil {
			_ = ln.Close()
			return err
		}
		log.Logf("> Start %s server on %s", s.Transport, ln.Addr())
		log.Logf("> Server URL: %s", formatServerURL(s.Host, s.Port, s.Transport.Endpoint()))
		if s.AuthToken != "" {
			log.Logf("> Use Bearer token from %s environment variable", AuthTokenEnv)
		}
		return serveHTTP(ctx, ln, handler)

	default:
		return fmt.Errorf("unknown transport %q, expected %s", s.Transport, transport.Supported())
	}
}

// Connect opens a client session on the server over in-memory transports.
// The session is independent of the configured transport.
func (s *Server) Connect(ctx context.Context) (*mcp.ClientSession, error) {
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	if _, err := s.mcpServer.Connect(ctx, serverTransport, nil); err != nil {
		return nil, fmt.Errorf("connecting server session: %w", err)
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    Name + "_cli",
		Version: Version,
	}, nil)
	return client.Connect(ctx, clientTransport, nil)
}

// Healthy reports whether Run has finished its start-up.
func (s *Server) Healthy() bool {
	return s.health.IsHealthy()
}

func formatServerURL(host string, port int, endpoint string) string {
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + transport.Address(host, port) + endpoint
}
