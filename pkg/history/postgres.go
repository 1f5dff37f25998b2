package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chayapa12/PhishGuard/pkg/scoring"
)

const createAnalysesTable = `
CREATE TABLE IF NOT EXISTS analyses (
	id          TEXT PRIMARY KEY,
	text        TEXT NOT NULL,
	source      TEXT NOT NULL DEFAULT '',
	score       INT  NOT NULL,
	label       TEXT NOT NULL,
	explanation TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps analyses in a single table, one row per record.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database and creates the analyses
// table when it does not exist yet.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, createAnalysesTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create analyses table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Append(ctx context.Context, a Analysis) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO analyses (id, text, source, score, label, explanation, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.Text, a.Source, a.Score, string(a.Label), a.Explanation, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, text, source, score, label, explanation, created_at
		 FROM analyses ORDER BY created_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		var a Analysis
		var label string
		if err := rows.Scan(&a.ID, &a.Text, &a.Source, &a.Score, &label, &a.Explanation, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		a.Label = scoring.Label(label)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read analyses: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count analyses: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
