package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docker/mcp-simple-server/pkg/sample"
)

const (
	GetCurrentTime = "get_current_time"
	Calculator     = "calculate"
	GetUsers       = "get_users"
	GetTasks       = "get_tasks"
	EchoMessage    = "echo_message"
	WordCount      = "count_words"
)

// Names returns the tool names in registration order.
func Names() []string {
	return []string{GetCurrentTime, Calculator, GetUsers, GetTasks, EchoMessage, WordCount}
}

type TimeArgs struct {
	Timezone string `json:"timezone,omitempty" jsonschema:"Timezone name (e.g. UTC, EST, PST). Currently only UTC is supported."`
}

type CalculateArgs struct {
	Expression string `json:"expression" jsonschema:"Mathematical expression to evaluate (e.g. 2 + 2 or max(3, 10) * 5)"`
}

type UsersArgs struct{}

type TasksArgs struct {
	Status *string `json:"status,omitempty" jsonschema:"Filter by task status (pending, in_progress, completed)"`
	UserID *int    `json:"user_id,omitempty" jsonschema:"Filter by user ID"`
}

type EchoArgs struct {
	Message   string `json:"message" jsonschema:"The message to echo back"`
	Uppercase bool   `json:"uppercase,omitempty" jsonschema:"Whether to convert the message to uppercase"`
}

type CountWordsArgs struct {
	Text string `json:"text" jsonschema:"The text to analyze"`
}

// Toolbox holds what the tool handlers read: the sample store and a clock.
type Toolbox struct {
	Store sample.Store
	Now   func() time.Time
}

func NewToolbox(store sample.Store) *Toolbox {
	return &Toolbox{
		Store: store,
		Now:   time.Now,
	}
}

// Register adds every tool to the server. Input schemas are inferred from the
// argument structs.
func Register(server *mcp.Server, tb *Toolbox) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        GetCurrentTime,
		Description: "Get the current date and time.",
	}, tb.getCurrentTime)

	mcp.AddTool(server, &mcp.Tool{
		Name:        Calculator,
		Description: "Perform a simple mathematical calculation. Supports + - * /, parentheses, abs, round, min and max.",
	}, tb.calculate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        GetUsers,
		Description: "Retrieve the list of all users from the sample database.",
	}, tb.getUsers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        GetTasks,
		Description: "Retrieve tasks from the sample database with optional filtering.",
	}, tb.getTasks)

	mcp.AddTool(server, &mcp.Tool{
		Name:        EchoMessage,
		Description: "Echo back a message, optionally in uppercase.",
	}, tb.echoMessage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        WordCount,
		Description: "Count the number of words in a given text.",
	}, tb.countWords)
}

func (tb *Toolbox) now() time.Time {
	if tb.Now == nil {
		return time.Now()
	}
	return tb.Now()
}

// Users returns the user table as indented JSON.
func (tb *Toolbox) Users(ctx context.Context) (string, error) {
	users, err := tb.Store.Users(ctx)
	if err != nil {
		return "", fmt.Errorf("listing users: %w", err)
	}
	return indentJSON(users)
}

// Tasks returns the tasks matching args as indented JSON.
func (tb *Toolbox) Tasks(ctx context.Context, args TasksArgs) (string, error) {
	var filter sample.TaskFilter
	if args.Status != nil {
		status := sample.Status(*args.Status)
		filter.Status = &status
	}
	filter.UserID = args.UserID

	tasks, err := tb.Store.Tasks(ctx, filter)
	if err != nil {
		return "", fmt.Errorf("listing tasks: %w", err)
	}
	return indentJSON(tasks)
}

func (tb *Toolbox) getCurrentTime(_ context.Context, _ *mcp.CallToolRequest, args TimeArgs) (*mcp.CallToolResult, any, error) {
	return textResult(CurrentTime(tb.now(), args.Timezone)), nil, nil
}

func (tb *Toolbox) calculate(_ context.Context, _ *mcp.CallToolRequest, args CalculateArgs) (*mcp.CallToolResult, any, error) {
	return textResult(Calculate(args.Expression)), nil, nil
}

func (tb *Toolbox) getUsers(ctx context.Context, _ *mcp.CallToolRequest, _ UsersArgs) (*mcp.CallToolResult, any, error) {
	text, err := tb.Users(ctx)
	if err != nil {
		return nil, nil, err
	}
	return textResult(text), nil, nil
}

func (tb *Toolbox) getTasks(ctx context.Context, _ *mcp.CallToolRequest, args TasksArgs) (*mcp.CallToolResult, any, error) {
	text, err := tb.Tasks(ctx, args)
	if err != nil {
		return nil, nil, err
	}
	return textResult(text), nil, nil
}

func (tb *Toolbox) echoMessage(_ context.Context, _ *mcp.CallToolRequest, args EchoArgs) (*mcp.CallToolResult, any, error) {
	return textResult(Echo(args.Message, args.Uppercase)), nil, nil
}

func (tb *Toolbox) countWords(_ context.Context, _ *mcp.CallToolRequest, args CountWordsArgs) (*mcp.CallToolResult, any, error) {
	return textResult(CountWords(args.Text)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func indentJSON(v any) (string, error) {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
