// Package store persists users and drawings in PostgreSQL through a pgx
// connection pool.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// NewPool connects to databaseURL and verifies the connection.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id           TEXT PRIMARY KEY,
	email        TEXT NOT NULL UNIQUE,
	password     TEXT NOT NULL,
	display_name TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS drawings (
	id         TEXT PRIMARY KEY,
	owner_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS drawings_owner_idx ON drawings (owner_id, updated_at DESC);
`

// Store runs queries against a pool.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the tables if they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   time.Time
}

func (s *Store) CreateUser(ctx context.Context, u User) (User, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, password, display_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, email, password, display_name, created_at`,
		u.ID, u.Email, u.Password, u.DisplayName)

	created, err := scanUser(row)
	if err != nil {
		if isDuplicateKeyError(err) {
			return User{}, ErrDuplicate
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, email, password, display_name, created_at FROM users WHERE email = $1`, email)
	return getUser(row)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, email, password, display_name, created_at FROM users WHERE id = $1`, id)
	return getUser(row)
}

func getUser(row pgx.Row) (User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

type Drawing struct {
	ID        string
	OwnerID   string
	Name      string
	Document  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

const drawingColumns = `id, owner_id, name, document, created_at, updated_at`

func (s *Store) CreateDrawing(ctx context.Context, d Drawing) (Drawing, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO drawings (id, owner_id, name, document)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+drawingColumns,
		d.ID, d.OwnerID, d.Name, d.Document)

	created, err := scanDrawing(row)
	if err != nil {
		if isDuplicateKeyError(err) {
			return Drawing{}, ErrDuplicate
		}
		return Drawing{}, fmt.Errorf("create drawing: %w", err)
	}
	return created, nil
}

func (s *Store) GetDrawing(ctx context.Context, id string) (Drawing, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+drawingColumns+` FROM drawings WHERE id = $1`, id)
	d, err := scanDrawing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Drawing{}, ErrNotFound
		}
		return Drawing{}, fmt.Errorf("get drawing: %w", err)
	}
	return d, nil
}

func (s *Store) ListDrawings(ctx context.Context, ownerID string) ([]Drawing, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+drawingColumns+` FROM drawings WHERE owner_id = $1 ORDER BY updated_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	defer rows.Close()

	drawings := []Drawing{}
	for rows.Next() {
		d, err := scanDrawing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan drawing: %w", err)
		}
		drawings = append(drawings, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	return drawings, nil
}

func (s *Store) UpdateDrawingDocument(ctx context.Context, id string, document []byte) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE drawings SET document = $2, updated_at = now() WHERE id = $1`, id, document)
	if err != nil {
		return fmt.Errorf("update drawing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteDrawing(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM drawings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete drawing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDrawing(row pgx.Row) (Drawing, error) {
	var d Drawing
	err := row.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Document, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
