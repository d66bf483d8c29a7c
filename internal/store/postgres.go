package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tinytrack/internal/logging"
	"tinytrack/internal/model"
)

// PostgresStore keeps profiles as JSONB documents, one row per household.
type PostgresStore struct {
	pool *pgxpool.Pool
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS profiles (
	id          TEXT PRIMARY KEY,
	delegate_id TEXT NOT NULL DEFAULT '',
	doc         JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_profiles_delegate ON profiles(delegate_id);
`

// NewPostgresStore connects to the database at dsn and ensures the schema
// exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	logging.Get(logging.CategoryStore).Info("postgres store ready")
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*model.Profile, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM profiles WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile %s: %w", id, err)
	}
	return unmarshalProfile(doc)
}

func (s *PostgresStore) FindByDelegate(ctx context.Context, id string) (*model.Profile, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM profiles WHERE delegate_id = $1 AND delegate_id != ''`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query delegate %s: %w", id, err)
	}
	return unmarshalProfile(doc)
}

func (s *PostgresStore) Upsert(ctx context.Context, p *model.Profile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", p.ID, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO profiles (id, delegate_id, doc) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET delegate_id = $2, doc = $3`,
		p.ID, p.DelegateID, doc)
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.ID, err)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("remove profile %s: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
