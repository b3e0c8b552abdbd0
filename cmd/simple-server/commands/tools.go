package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/docker/mcp-simple-server/pkg/terminal"
)

func toolsCommand() *cobra.Command {
	format := Human

	cmd := &cobra.Command{
		Use:     "tools",
		Aliases: []string{"ls"},
		Short:   "List the tools exposed by the server",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(session *mcp.ClientSession) error {
				res, err := session.ListTools(cmd.Context(), nil)
				if err != nil {
					return err
				}

				infos := make([]toolInfo, 0, len(res.Tools))
				for _, tool := range res.Tools {
					info, err := describeTool(tool)
					if err != nil {
						return err
					}
					infos = append(infos, info)
				}

				return printTools(cmd.OutOrStdout(), infos, format)
			})
		},
	}
	cmd.Flags().Var(&format, "format", fmt.Sprintf("Supported: %s.", SupportedFormats()))

	return cmd
}

func printTools(out io.Writer, infos []toolInfo, format Format) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case JSON:
		data, err = json.MarshalIndent(infos, "", "  ")
		data = append(data, '\n')
	case YAML:
		data, err = yaml.Marshal(infos)
	case Human:
		data = []byte(printHumanReadable(infos, terminal.Width(out), terminal.IsTerminal(out)))
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal tools: %w", err)
	}

	_, err = out.Write(data)
	return err
}

// printHumanReadable lists tools with wrapped descriptions. Tool names and
// required arguments are colored when colored is set.
func printHumanReadable(infos []toolInfo, width int, colored bool) string {
	toolName := color.New(color.FgCyan, color.Bold)
	requiredArg := color.New(color.FgGreen)
	if colored {
		toolName.EnableColor()
		requiredArg.EnableColor()
	} else {
		toolName.DisableColor()
		requiredArg.DisableColor()
	}

	var output string
	for _, info := range infos {
		output += fmt.Sprintf("%s\n%s\n", toolName.Sprint(info.Name), terminal.Wrap(info.Description, width, "  "))
		for _, arg := range info.Arguments {
			name := arg.Name
			optional := ""
			if arg.Required {
				name = requiredArg.Sprint(arg.Name)
			} else {
				optional = ", optional"
			}
			output += fmt.Sprintf("  - %s (%s%s): %s\n", name, arg.Type, optional, arg.Description)
		}
	}
	return output
}
