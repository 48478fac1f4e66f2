// internal/storage/postgres/user_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
)

var userTracer = otel.Tracer("storage/postgres/users")

type userRepo struct {
	db *pgxpool.Pool
}

// NewUserRepo создаёт UserRepository поверх пула.
func NewUserRepo(db *pgxpool.Pool) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *User) error {
	ctx, span := userTracer.Start(ctx, "CreateUser")
	defer span.End()

	const query = `INSERT INTO users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		span.RecordError(err)
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	ctx, span := userTracer.Start(ctx, "FindUserByUsername")
	defer span.End()

	const query = `SELECT id, username, password_hash, created_at
		FROM users WHERE username = $1`

	return r.scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*User, error) {
	ctx, span := userTracer.Start(ctx, "FindUserByID")
	defer span.End()

	const query = `SELECT id, username, password_hash, created_at
		FROM users WHERE id = $1`

	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
