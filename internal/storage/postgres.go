package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore keeps used titles in a Postgres table. The full set is read
// once at construction; Add writes through to the table and the in-memory
// copy, so reads never hit the database mid-run.
type PostgresStore struct {
	db    *sql.DB
	mu    sync.Mutex
	order []string
	index map[string]struct{}
}

var _ TitleStore = (*PostgresStore)(nil)

func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	ps := &PostgresStore{
		db:    db,
		index: make(map[string]struct{}),
	}
	if err := ps.init(); err != nil {
		return nil, err
	}
	return ps, nil
}

func (ps *PostgresStore) init() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS used_titles (
			title   TEXT PRIMARY KEY,
			used_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create used_titles table: %w", err)
	}

	rows, err := ps.db.Query(`SELECT title FROM used_titles ORDER BY used_at, title`)
	if err != nil {
		return fmt.Errorf("load used titles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return fmt.Errorf("scan title: %w", err)
		}
		ps.order = append(ps.order, title)
		ps.index[title] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate titles: %w", err)
	}

	return nil
}

func (ps *PostgresStore) Contains(title string) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, ok := ps.index[title]
	return ok
}

func (ps *PostgresStore) Add(ctx context.Context, title string) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, ok := ps.index[title]; ok {
		return nil
	}

	_, err := ps.db.ExecContext(ctx,
		`INSERT INTO used_titles (title, used_at) VALUES ($1, $2)
		 ON CONFLICT (title) DO NOTHING`,
		title, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert used title: %w", err)
	}

	ps.order = append(ps.order, title)
	ps.index[title] = struct{}{}
	return nil
}

func (ps *PostgresStore) Titles() []string {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	titles := make([]string, len(ps.order))
	copy(titles, ps.order)
	return titles
}

func (ps *PostgresStore) Len() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	return len(ps.order)
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
