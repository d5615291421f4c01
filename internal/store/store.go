package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// Store archives finalized plans and user accounts in Postgres. Conversation
// state never lands here; only the terminal artifact does.
type Store struct {
	DB *sql.DB
}

// NewWithDSN constructs the Store using an explicit Postgres DSN
func NewWithDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// User operations
func (s *Store) CreateUser(ctx context.Context, email, hash string) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO users (email, password_hash) VALUES ($1,$2)`, email, hash)
	return err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (id string, hash string, err error) {
	err = s.DB.QueryRowContext(ctx, `SELECT id, password_hash FROM users WHERE email=$1`, email).Scan(&id, &hash)
	return
}

// Plan operations
func (s *Store) SavePlan(ctx context.Context, threadID string, document []byte) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO plans (thread_id, document) VALUES ($1,$2)
		ON CONFLICT (thread_id) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		threadID, document)
	return err
}

func (s *Store) GetPlan(ctx context.Context, threadID string) ([]byte, time.Time, error) {
	var document []byte
	var updatedAt time.Time
	err := s.DB.QueryRowContext(ctx,
		`SELECT document, updated_at FROM plans WHERE thread_id=$1`, threadID).
		Scan(&document, &updatedAt)
	return document, updatedAt, err
}
