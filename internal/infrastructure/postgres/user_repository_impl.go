package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	"github.com/oksasatya/pulse-backoffice/internal/domain/repository"
)

const uniqueViolation = "23505"

// UserRepository stores users in the users table; permissions live in a JSONB column.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, name, role, status, COALESCE(investor_id, ''), permissions,
	password_hash, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var perms []byte
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Status, &u.InvestorID, &perms,
		&u.PasswordHash, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if len(perms) > 0 {
		if err := json.Unmarshal(perms, &u.Permissions); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.NotFoundError("user", id)
	}
	return u, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.NotFoundError("user", email)
	}
	return u, err
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	perms, err := json.Marshal(u.Permissions)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO users (id, email, name, role, status, investor_id, permissions, password_hash, last_login, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11)
	`, u.ID, u.Email, u.Name, u.Role, u.Status, u.InvestorID, perms, u.PasswordHash, u.LastLogin, u.CreatedAt, u.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return entity.NewValidationError("email", "is already registered")
	}
	return err
}

// Update rewrites every mutable column. investor_id is only written while it is still NULL.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	perms, err := json.Marshal(u.Permissions)
	if err != nil {
		return err
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, name = $2, role = $3, status = $4,
		    investor_id = COALESCE(investor_id, NULLIF($5, '')),
		    permissions = $6, password_hash = $7, last_login = $8, updated_at = $9
		WHERE id = $10
	`, u.Email, u.Name, u.Role, u.Status, u.InvestorID, perms, u.PasswordHash, u.LastLogin, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return entity.NotFoundError("user", u.ID)
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
