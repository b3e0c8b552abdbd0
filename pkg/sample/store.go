package sample

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	msqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/docker/mcp-simple-server/pkg/log"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// Store serves the sample records. It is read-only once opened.
type Store interface {
	Users(ctx context.Context) ([]User, error)
	Tasks(ctx context.Context, filter TaskFilter) ([]Task, error)
	Close() error
}

type store struct {
	db *sqlx.DB
}

//go:embed migrations/*.sql
var migrations embed.FS

type options struct {
	data Data
}

type Option func(o *options) error

// WithData replaces the default dataset.
func WithData(data Data) Option {
	return func(o *options) error {
		o.data = data
		return nil
	}
}

// Open creates an in-memory database, applies the schema and loads the data.
// Everything is lost when the store is closed.
func Open(ctx context.Context, opts ...Option) (Store, error) {
	o := options{data: DefaultData()}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every new connection would see its own empty in-memory database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &store{db: sqlx.NewDb(db, "sqlite")}
	if err := s.load(ctx, o.data); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load sample data: %w", err)
	}

	log.Debugf("- Sample store loaded: %d users, %d tasks", len(o.data.Users), len(o.data.Tasks))
	return s, nil
}

func migrateUp(db *sql.DB) error {
	migDriver, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}

	driver, err := msqlite.WithInstance(db, &msqlite.Config{})
	if err != nil {
		return err
	}

	mig, err := migrate.NewWithInstance("iofs", migDriver, "sqlite", driver)
	if err != nil {
		return err
	}

	err = mig.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *store) load(ctx context.Context, data Data) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer txClose(tx, &err)

	if len(data.Users) > 0 {
		const query = `INSERT INTO users (id, name, email) VALUES (:id, :name, :email)`
		if _, err = tx.NamedExecContext(ctx, query, data.Users); err != nil {
			return err
		}
	}

	if len(data.Tasks) > 0 {
		const query = `INSERT INTO tasks (id, title, status, user_id) VALUES (:id, :title, :status, :user_id)`
		if _, err = tx.NamedExecContext(ctx, query, data.Tasks); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *store) Users(ctx context.Context) ([]User, error) {
	const query = `SELECT id, name, email FROM users ORDER BY id`

	users := []User{}
	if err := s.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *store) Tasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *filter.UserID)
	}

	query := `SELECT id, title, status, user_id FROM tasks`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	tasks := []Task{}
	if err := s.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *store) Close() error {
	return s.db.Close()
}

func txClose(tx *sqlx.Tx, err *error) {
	if err == nil || *err == nil {
		return
	}

	if txerr := tx.Rollback(); txerr != nil {
		log.Logf("failed to rollback transaction: %v", txerr)
	}
}
