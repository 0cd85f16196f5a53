// Package sqlstore is the SQL backend shared by SQLite (modernc.org/sqlite)
// and Postgres (pgx). Items live in one flat table ordered by position.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/entity"
	"github.com/Makepad-fr/tada/internal/model"
)

// Dialect captures the few differences between the supported engines.
type Dialect struct {
	Name string
	// Placeholder returns the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	Schema      []string
}

var SQLite = Dialect{
	Name:        "sqlite",
	Placeholder: func(int) string { return "?" },
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT 0,
			position INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_items_position ON items(position);`,
	},
}

var Postgres = Dialect{
	Name:        "postgres",
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			position BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_position ON items(position)`,
	},
}

// Store implements entity.ClientDeleter over a *sql.DB.
type Store struct {
	db    *sql.DB
	d     Dialect
	newID func() string
}

var _ entity.ClientDeleter = (*Store)(nil)

// New applies the schema and returns a store. The caller keeps ownership of db
// until Close is called.
func New(ctx context.Context, db *sql.DB, d Dialect) (*Store, error) {
	for _, stmt := range d.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("apply %s schema: %w", d.Name, err)
		}
	}
	return &Store{db: db, d: d, newID: uuid.NewString}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the handle for tests.
func (s *Store) DB() *sql.DB { return s.db }

// bind rewrites ? placeholders for the dialect.
func (s *Store) bind(q string) string {
	if s.d.Placeholder(1) == "?" {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString(s.d.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) List(ctx context.Context) (entity.Response[[]model.Item], error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, completed FROM items ORDER BY position, id`)
	if err != nil {
		return entity.Failed[[]model.Item](), fmt.Errorf("select items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Title, &it.Completed); err != nil {
			return entity.Failed[[]model.Item](), fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return entity.Failed[[]model.Item](), fmt.Errorf("iterate items: %w", err)
	}
	return entity.OK(items), nil
}

func (s *Store) Create(ctx context.Context, in model.NewItem) (entity.Response[model.Item], error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return entity.Failed[model.Item](), fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var pos int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) + 1 FROM items`).Scan(&pos); err != nil {
		return entity.Failed[model.Item](), fmt.Errorf("next position: %w", err)
	}
	it := model.Item{ID: s.newID(), Title: in.Title, Completed: in.Completed}
	q := s.bind(`INSERT INTO items(id, title, completed, position) VALUES(?, ?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, q, it.ID, it.Title, it.Completed, pos); err != nil {
		return entity.Failed[model.Item](), fmt.Errorf("insert item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return entity.Failed[model.Item](), fmt.Errorf("commit: %w", err)
	}
	return entity.OK(it), nil
}

func (s *Store) Update(ctx context.Context, id string, p model.Patch) (entity.Response[model.Item], error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return entity.Failed[model.Item](), fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	it, err := s.get(ctx, tx, id)
	if errors.Is(err, entity.ErrNotFound) {
		return entity.Failed[model.Item](), nil
	}
	if err != nil {
		return entity.Failed[model.Item](), err
	}
	it = p.Apply(it)
	if _, err := tx.ExecContext(ctx, s.bind(`UPDATE items SET completed = ? WHERE id = ?`), it.Completed, id); err != nil {
		return entity.Failed[model.Item](), fmt.Errorf("update item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return entity.Failed[model.Item](), fmt.Errorf("commit: %w", err)
	}
	return entity.OK(it), nil
}

// get reads one row inside tx, or returns entity.ErrNotFound.
func (s *Store) get(ctx context.Context, tx *sql.Tx, id string) (model.Item, error) {
	var it model.Item
	row := tx.QueryRowContext(ctx, s.bind(`SELECT id, title, completed FROM items WHERE id = ?`), id)
	if err := row.Scan(&it.ID, &it.Title, &it.Completed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item{}, entity.ErrNotFound
		}
		return model.Item{}, fmt.Errorf("select item %s: %w", id, err)
	}
	return it, nil
}

func (s *Store) Delete(ctx context.Context, id string) (entity.Ack, error) {
	res, err := s.db.ExecContext(ctx, s.bind(`DELETE FROM items WHERE id = ?`), id)
	if err != nil {
		return entity.Failed[struct{}](), fmt.Errorf("delete item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return entity.Failed[struct{}](), fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return entity.Failed[struct{}](), nil
	}
	return entity.OK(struct{}{}), nil
}
