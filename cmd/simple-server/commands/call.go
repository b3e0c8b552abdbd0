package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/docker/mcp-simple-server/pkg/tools"
)

func callCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [key=value...]",
		Short: "Call a tool in-process and print its result",
		Example: `  simple-server call calculate expression="max(2, 3) * 4"
  simple-server call get_tasks status=completed user_id=1`,
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: tools.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return withSession(cmd.Context(), func(session *mcp.ClientSession) error {
				tool, err := findTool(cmd, session, name)
				if err != nil {
					return err
				}

				schema, err := inputSchema(tool)
				if err != nil {
					return err
				}
				arguments, err := parseArguments(schema, args[1:])
				if err != nil {
					return err
				}

				res, err := session.CallTool(cmd.Context(), &mcp.CallToolParams{
					Name:      name,
					Arguments: arguments,
				})
				if err != nil {
					return err
				}

				text := resultText(res)
				if res.IsError {
					return errors.New(text)
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
}

func findTool(cmd *cobra.Command, session *mcp.ClientSession, name string) (*mcp.Tool, error) {
	res, err := session.ListTools(cmd.Context(), nil)
	if err != nil {
		return nil, err
	}
	for _, tool := range res.Tools {
		if tool.Name == name {
			return tool, nil
		}
	}
	return nil, fmt.Errorf("unknown tool %q, available tools: %s", name, strings.Join(tools.Names(), ", "))
}

func resultText(res *mcp.CallToolResult) string {
	var parts []string
	for _, content := range res.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}
