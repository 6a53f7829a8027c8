package auth

import (
	"context"
	"time"

	"github.com/2beens/fitassist/internal/telemetry/tracing"
	"github.com/2beens/fitassist/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type UsersRepo struct {
	db *pgxpool.Pool
}

func NewUsersRepo(db *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{
		db: db,
	}
}

func (r *UsersRepo) Create(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.Active = true

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at, active)
			VALUES ($1, $2, $3, $4, $5, $6);`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt, user.Active,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", user.ID.String()))

	return &user, nil
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getByField(ctx, "username", username)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getByField(ctx, "email", email)
}

func (r *UsersRepo) getByField(ctx context.Context, field, value string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getby."+field)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, username, email, password_hash, created_at, last_login, active
			FROM users WHERE `+field+` = $1;`,
		value,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrUserNotFound
	}

	return scanUser(rows)
}

func (r *UsersRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, lastLogin time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updatelastlogin")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE users SET last_login = $1 WHERE id = $2;`,
		lastLogin, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(rows pgx.Rows) (*User, error) {
	var user User
	var lastLogin *time.Time
	if err := rows.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.CreatedAt, &lastLogin, &user.Active,
	); err != nil {
		return nil, err
	}
	user.LastLogin = lastLogin
	return &user, nil
}
