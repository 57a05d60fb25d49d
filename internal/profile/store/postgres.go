package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"dojohub/internal/profile"
	"dojohub/pkg/domain"
	"dojohub/pkg/platform/sentinel"
	"dojohub/pkg/platform/tx"
)

// querier is satisfied by both *sql.DB and *sql.Tx, so the store joins a
// caller supplied transaction when one travels in the context.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres persists profile records as jsonb documents keyed by user id.
// The document shape mirrors the Profile json encoding, which keeps the
// resolver's projection logic independent of storage.
//
// Schema:
//
//	CREATE TABLE profiles (
//	    id      UUID PRIMARY KEY,
//	    user_id UUID NOT NULL UNIQUE,
//	    data    JSONB NOT NULL
//	);
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) q(ctx context.Context) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

func (s *Postgres) Save(ctx context.Context, p *profile.Profile) (*profile.Profile, error) {
	stored := *p
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}
	query := `
		INSERT INTO profiles (id, user_id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data
	`
	if _, err := s.q(ctx).ExecContext(ctx, query, stored.ID, stored.UserID.String(), data); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return &stored, nil
}

func (s *Postgres) FindByUserID(ctx context.Context, userID domain.UserID) (*profile.Profile, error) {
	var data []byte
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT data FROM profiles WHERE user_id = $1`, userID.String()).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &p, nil
}
