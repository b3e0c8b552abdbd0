package tools

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docker/mcp-simple-server/pkg/sample"
)

func newTestToolbox(t *testing.T) *Toolbox {
	t.Helper()

	store, err := sample.Open(t.Context())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return NewToolbox(store)
}

// connect registers the tools on a fresh server and returns a client session
// talking to it over in-memory transports.
func connect(t *testing.T, tb *Toolbox) *mcp.ClientSession {
	t.Helper()
	ctx := t.Context()

	server := mcp.NewServer(&mcp.Implementation{Name: "test-server", Version: "1.0.0"}, nil)
	Register(server, tb)

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func callText(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) string {
	t.Helper()

	if args == nil {
		args = map[string]any{}
	}
	res, err := session.CallTool(t.Context(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.False(t, res.IsError, "tool %s returned an error result", name)
	require.Len(t, res.Content, 1)

	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func toSchema(t *testing.T, v any) *jsonschema.Schema {
	t.Helper()

	buf, err := json.Marshal(v)
	require.NoError(t, err)

	var schema jsonschema.Schema
	require.NoError(t, json.Unmarshal(buf, &schema))
	return &schema
}

func TestListTools(t *testing.T) {
	session := connect(t, newTestToolbox(t))

	res, err := session.ListTools(t.Context(), nil)
	require.NoError(t, err)

	var names []string
	schemas := map[string]*jsonschema.Schema{}
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description)
		schemas[tool.Name] = toSchema(t, tool.InputSchema)
	}
	assert.ElementsMatch(t, Names(), names)

	assert.Equal(t, []string{"expression"}, schemas[Calculator].Required)
	assert.ElementsMatch(t, []string{"message"}, schemas[EchoMessage].Required)
	assert.Empty(t, schemas[GetTasks].Required)
	assert.Contains(t, schemas[GetTasks].Properties, "status")
	assert.Contains(t, schemas[GetTasks].Properties, "user_id")
	assert.Empty(t, schemas[GetUsers].Properties)
}

func TestCallGetCurrentTime(t *testing.T) {
	tb := newTestToolbox(t)
	tb.Now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	session := connect(t, tb)

	assert.Equal(t, "Current time (UTC): 2024-01-02 03:04:05 UTC", callText(t, session, GetCurrentTime, nil))
	assert.Equal(t, "Current time (EST): 2024-01-02 03:04:05 UTC", callText(t, session, GetCurrentTime, map[string]any{"timezone": "EST"}))
}

func TestCallGetCurrentTimeIsNonDecreasing(t *testing.T) {
	session := connect(t, newTestToolbox(t))

	parse := func(text string) time.Time {
		const prefix = "Current time (UTC): "
		require.Greater(t, len(text), len(prefix))
		ts, err := time.Parse(timeLayout, text[len(prefix):])
		require.NoError(t, err)
		return ts
	}

	first := parse(callText(t, session, GetCurrentTime, nil))
	second := parse(callText(t, session, GetCurrentTime, nil))
	assert.False(t, second.Before(first))
}

func TestCallCalculate(t *testing.T) {
	session := connect(t, newTestToolbox(t))

	assert.Equal(t, "Result: 14", callText(t, session, Calculator, map[string]any{"expression": "2 + 3 * 4"}))
	// Evaluation errors stay in the normal response channel.
	assert.Equal(t, "Error evaluating expression: division by zero", callText(t, session, Calculator, map[string]any{"expression": "5 / 0"}))
}

func TestCallGetUsers(t *testing.T) {
	session := connect(t, newTestToolbox(t))

	expected := `[
  {
    "id": 1,
    "name": "Alice",
    "email": "alice@example.com"
  },
  {
    "id": 2,
    "name": "Bob",
    "email": "bob@example.com"
  },
  {
    "id": 3,
    "name": "Charlie",
    "email": "charlie@example.com"
  }
]`
	assert.Equal(t, expected, callText(t, session, GetUsers, nil))
	assert.Equal(t, expected, callText(t, session, GetUsers, nil))
}

func TestCallGetTasks(t *testing.T) {
	session := connect(t, newTestToolbox(t))

	decode := func(text string) []sample.Task {
		var tasks []sample.Task
		require.NoError(t, json.Unmarshal([]byte(text), &tasks))
		return tasks
	}

	all := decode(callText(t, session, GetTasks, nil))
	assert.Equal(t, sample.DefaultData().Tasks, all)

	completed := decode(callText(t, session, GetTasks, map[string]any{"status": "completed"}))
	require.Len(t, completed, 1)
	assert.Equal(t, "Write documentation", completed[0].Title)

	assert.Equal(t, "[]", callText(t, session, GetTasks, map[string]any{"status": "archived"}))

	byUser := decode(callText(t, session, GetTasks, map[string]any{"user_id": 1}))
	assert.Len(t, byUser, 2)

	both := decode(callText(t, session, GetTasks, map[string]any{"status": "in_progress", "user_id": 1}))
	require.Len(t, both, 1)
	assert.Equal(t, 1, both[0].ID)

	// user_id 0 is a filter, not an absent value.
	assert.Equal(t, "[]", callText(t, session, GetTasks, map[string]any{"user_id": 0}))
}

func TestCallGetTasksFormatting(t *testing.T) {
	session := connect(t, newTestToolbox(t))

	assert.Equal(t, `[
  {
    "id": 2,
    "title": "Review code",
    "status": "pending",
    "user_id": 2
  }
]`, callText(t, session, GetTasks, map[string]any{"status": "pending"}))
}

func TestCallEchoMessage(t *testing.T) {
	session := connect(t, newTestToolbox(t))

	assert.Equal(t, "Hello MCP", callText(t, session, EchoMessage, map[string]any{"message": "Hello MCP"}))
	assert.Equal(t, "Hello MCP", callText(t, session, EchoMessage, map[string]any{"message": "Hello MCP", "uppercase": false}))
	assert.Equal(t, "HELLO MCP", callText(t, session, EchoMessage, map[string]any{"message": "Hello MCP", "uppercase": true}))
}

func TestCallCountWords(t *testing.T) {
	session := connect(t, newTestToolbox(t))

	text := callText(t, session, WordCount, map[string]any{"text": "a bb ccc"})
	assert.Contains(t, text, "- Word count: 3")
	assert.Contains(t, text, "- Character count (with spaces): 8")
	assert.Contains(t, text, "- Character count (without spaces): 6")
	assert.Contains(t, text, "- Average word length: 2.00 characters")
}

func TestTasksNilStatusIsNotAFilter(t *testing.T) {
	tb := newTestToolbox(t)

	text, err := tb.Tasks(t.Context(), TasksArgs{})
	require.NoError(t, err)

	var tasks []sample.Task
	require.NoError(t, json.Unmarshal([]byte(text), &tasks))
	assert.Len(t, tasks, 3)
}
