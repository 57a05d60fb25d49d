package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"dojohub/internal/user"
	"dojohub/pkg/domain"
	"dojohub/pkg/platform/sentinel"
	"dojohub/pkg/platform/tx"
)

// querier is satisfied by both *sql.DB and *sql.Tx, so stores join a caller
// supplied transaction when one travels in the context.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func pick(ctx context.Context, db *sql.DB) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return db
}

// PostgresUserStore persists users in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE users (
//	    id            UUID PRIMARY KEY,
//	    nick          TEXT NOT NULL UNIQUE,
//	    email         TEXT NOT NULL UNIQUE,
//	    name          TEXT NOT NULL DEFAULT '',
//	    roles         TEXT[] NOT NULL DEFAULT '{}',
//	    init_user_type TEXT NOT NULL DEFAULT '',
//	    password_hash TEXT NOT NULL DEFAULT '',
//	    mailing_list  INT NOT NULL DEFAULT 0,
//	    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) q(ctx context.Context) querier {
	return pick(ctx, s.db)
}

const userColumns = `id, nick, email, name, roles, init_user_type, password_hash, mailing_list, created_at`

func (s *PostgresUserStore) Create(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.q(ctx).ExecContext(ctx, query,
		u.ID.String(), u.Nick, u.Email, u.Name, pq.Array(u.Roles),
		string(u.InitUserType), u.PasswordHash, u.MailingList, u.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, sentinel.ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	stored := *u
	return &stored, nil
}

func (s *PostgresUserStore) Update(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
		UPDATE users
		SET nick = $2, email = $3, name = $4, roles = $5,
		    init_user_type = $6, password_hash = $7, mailing_list = $8
		WHERE id = $1
	`
	res, err := s.q(ctx).ExecContext(ctx, query,
		u.ID.String(), u.Nick, u.Email, u.Name, pq.Array(u.Roles),
		string(u.InitUserType), u.PasswordHash, u.MailingList,
	)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, sentinel.ErrNotFound
	}
	stored := *u
	return &stored, nil
}

func (s *PostgresUserStore) FindByID(ctx context.Context, id domain.UserID) (*user.User, error) {
	row := s.q(ctx).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id.String())
	return scanUser(row)
}

func (s *PostgresUserStore) FindByNick(ctx context.Context, nick string) (*user.User, error) {
	row := s.q(ctx).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE nick = $1`, nick)
	return scanUser(row)
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	row := s.q(ctx).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

func (s *PostgresUserStore) List(ctx context.Context, ids []domain.UserID) ([]*user.User, error) {
	if len(ids) == 0 {
		return []*user.User{}, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	rows, err := s.q(ctx).QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ANY($1::uuid[])`, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (s *PostgresUserStore) SearchByEmail(ctx context.Context, query string, limit int) ([]*user.User, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email ILIKE '%' || $1 || '%' LIMIT $2`,
		query, limit)
	if err != nil {
		return nil, fmt.Errorf("search users by email: %w", err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var (
		u            user.User
		rawID        string
		rawRoles     pq.StringArray
		initUserType string
	)
	err := row.Scan(&rawID, &u.Nick, &u.Email, &u.Name, &rawRoles,
		&initUserType, &u.PasswordHash, &u.MailingList, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	id, err := domain.ParseUserID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan user id: %w", err)
	}
	u.ID = id
	u.Roles = []string(rawRoles)
	u.InitUserType = domain.UserType(initUserType)
	return &u, nil
}

func scanUsers(rows *sql.Rows) ([]*user.User, error) {
	users := []*user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// PostgresResetStore persists password reset records.
//
// Schema:
//
//	CREATE TABLE password_resets (
//	    id      UUID PRIMARY KEY,
//	    user_id UUID NOT NULL REFERENCES users(id),
//	    active  BOOLEAN NOT NULL DEFAULT true,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresResetStore struct {
	db *sql.DB
}

func NewPostgresResetStore(db *sql.DB) *PostgresResetStore {
	return &PostgresResetStore{db: db}
}

func (s *PostgresResetStore) q(ctx context.Context) querier {
	return pick(ctx, s.db)
}

func (s *PostgresResetStore) Create(ctx context.Context, r *user.Reset) (*user.Reset, error) {
	_, err := s.q(ctx).ExecContext(ctx,
		`INSERT INTO password_resets (id, user_id, active, created_at) VALUES ($1, $2, $3, $4)`,
		r.ID.String(), r.UserID.String(), r.Active, r.When)
	if err != nil {
		return nil, fmt.Errorf("create reset: %w", err)
	}
	stored := *r
	return &stored, nil
}

func (s *PostgresResetStore) Update(ctx context.Context, r *user.Reset) (*user.Reset, error) {
	res, err := s.q(ctx).ExecContext(ctx,
		`UPDATE password_resets SET active = $2 WHERE id = $1`, r.ID.String(), r.Active)
	if err != nil {
		return nil, fmt.Errorf("update reset: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, sentinel.ErrNotFound
	}
	stored := *r
	return &stored, nil
}

func (s *PostgresResetStore) FindByID(ctx context.Context, id domain.ResetID) (*user.Reset, error) {
	var (
		r         user.Reset
		rawID     string
		rawUserID string
	)
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT id, user_id, active, created_at FROM password_resets WHERE id = $1`,
		id.String()).Scan(&rawID, &rawUserID, &r.Active, &r.When)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find reset: %w", err)
	}
	resetID, err := domain.ParseResetID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan reset id: %w", err)
	}
	userID, err := domain.ParseUserID(rawUserID)
	if err != nil {
		return nil, fmt.Errorf("scan reset user id: %w", err)
	}
	r.ID = resetID
	r.UserID = userID
	return &r, nil
}
