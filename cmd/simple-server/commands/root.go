package commands

import (
	"context"
	"errors"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/docker/mcp-simple-server/pkg/log"
	"github.com/docker/mcp-simple-server/pkg/sample"
	"github.com/docker/mcp-simple-server/pkg/server"
	"github.com/docker/mcp-simple-server/pkg/transport"
)

// Root returns the simple-server command tree. Running the root command
// starts the server.
func Root() *cobra.Command {
	opts := server.DefaultOptions()
	var verbose bool

	cmd := &cobra.Command{
		Use:          "simple-server",
		Short:        "Simple MCP server with demonstration tools",
		Long:         "Simple MCP server exposing time, calculator, sample data, echo and word count tools over stdio, SSE or streamable HTTP.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			log.SetVerbose(verbose)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.AuthToken = os.Getenv(server.AuthTokenEnv)
			return runServer(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.Var(&opts.Transport, "transport", "Transport type to use: "+transport.Supported())
	flags.IntVar(&opts.Port, "port", server.DefaultPort, "Port to listen on (sse and streamable-http only)")
	flags.StringVar(&opts.Host, "host", server.DefaultHost, "Host to listen on (sse and streamable-http only)")
	flags.BoolVar(&opts.LogCalls, "log-calls", false, "Log calls to tools")
	flags.StringVar(&opts.LogFilePath, "log-file", "", "Also write logs to this file")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logs")

	cmd.AddCommand(toolsCommand())
	cmd.AddCommand(callCommand())

	return cmd
}

func runServer(ctx context.Context, opts server.Options) error {
	store, err := sample.Open(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	s, err := server.New(opts, store)
	if err != nil {
		return err
	}

	err = s.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// withSession runs fn with a client session on an in-process server.
func withSession(ctx context.Context, fn func(*mcp.ClientSession) error) error {
	store, err := sample.Open(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := server.DefaultOptions()
	opts.Transport = transport.Stdio
	s, err := server.New(opts, store)
	if err != nil {
		return err
	}

	session, err := s.Connect(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	return fn(session)
}
