package sample

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

var statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Statuses returns the known task statuses in declaration order.
func Statuses() []Status {
	return append([]Status(nil), statuses...)
}

func (s Status) Valid() bool {
	for _, known := range statuses {
		if s == known {
			return true
		}
	}
	return false
}

type User struct {
	ID    int    `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// Task.UserID references User.ID but is not checked.
type Task struct {
	ID     int    `db:"id" json:"id"`
	Title  string `db:"title" json:"title"`
	Status Status `db:"status" json:"status"`
	UserID int    `db:"user_id" json:"user_id"`
}

// Data is the full content of a store.
type Data struct {
	Users []User
	Tasks []Task
}

// DefaultData returns the demonstration dataset served by the tools.
func DefaultData() Data {
	return Data{
		Users: []User{
			{ID: 1, Name: "Alice", Email: "alice@example.com"},
			{ID: 2, Name: "Bob", Email: "bob@example.com"},
			{ID: 3, Name: "Charlie", Email: "charlie@example.com"},
		},
		Tasks: []Task{
			{ID: 1, Title: "Complete project", Status: StatusInProgress, UserID: 1},
			{ID: 2, Title: "Review code", Status: StatusPending, UserID: 2},
			{ID: 3, Title: "Write documentation", Status: StatusCompleted, UserID: 1},
		},
	}
}

// TaskFilter selects tasks. A nil field is not applied; set fields are
// combined with AND.
type TaskFilter struct {
	Status *Status
	UserID *int
}
