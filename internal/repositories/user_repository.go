package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gameslibrary/internal/auth"
	intconfig "gameslibrary/internal/config"
	intdb "gameslibrary/internal/db"
	"gameslibrary/internal/domain"
	"gameslibrary/internal/domain/models"
	"gameslibrary/internal/utils"

	"github.com/google/uuid"
)

// UserRepository is the identity store backed by the users table.
type UserRepository struct {
	DB  *sql.DB
	Now func() time.Time
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r UserRepository) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return utils.NowUTC()
}

const userColumns = `id, username, email, password_hash, role, security_stamp, created_at, updated_at`

func scanUser(s scanner) (models.Identity, error) {
	var u models.Identity
	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.SecurityStamp, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r UserRepository) findOne(ctx context.Context, where string, arg any) (models.Identity, error) {
	db := r.db()
	if db == nil {
		return models.Identity{}, errNoDB
	}
	u, err := scanUser(db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Identity{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return models.Identity{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r UserRepository) FindByEmail(ctx context.Context, email string) (models.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.Identity{}, domain.NotFoundError{Resource: "user"}
	}
	return r.findOne(ctx, `email = ?`, email)
}

func (r UserRepository) FindByUsername(ctx context.Context, username string) (models.Identity, error) {
	return r.findOne(ctx, `username = ?`, strings.TrimSpace(username))
}

func (r UserRepository) FindByID(ctx context.Context, id int64) (models.Identity, error) {
	return r.findOne(ctx, `id = ?`, id)
}

func (r UserRepository) List(ctx context.Context) ([]models.Identity, error) {
	db := r.db()
	if db == nil {
		return nil, errNoDB
	}
	rows, err := db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []models.Identity{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

// Create hashes password and inserts the identity. A taken username or email
// yields a ConflictError.
func (r UserRepository) Create(ctx context.Context, u models.Identity, password string) (models.Identity, error) {
	db := r.db()
	if db == nil {
		return models.Identity{}, errNoDB
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.Identity{}, domain.InternalError{Msg: "hash password", Err: err}
	}

	now := r.now()
	u.PasswordHash = hash
	u.SecurityStamp = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.Role == "" {
		u.Role = models.RoleClient
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, role, security_stamp, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.Username, u.Email, u.PasswordHash, u.Role, u.SecurityStamp, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if intdb.IsDuplicate(err) {
			return models.Identity{}, domain.ConflictError{Resource: "user", Msg: "username or email already registered", Err: err}
		}
		return models.Identity{}, fmt.Errorf("insert user: %w", err)
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		return models.Identity{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// ChangePassword stores a new hash and rotates the security stamp. The row is
// only updated while its stamp still equals identity.SecurityStamp, so two
// resets racing on the same account cannot both win. resetCredential is kept
// as an audit trail of the token that authorized the change; an empty one
// (a signed-in password update) leaves the previous value in place.
func (r UserRepository) ChangePassword(ctx context.Context, identity models.Identity, resetCredential, newPassword string) error {
	db := r.db()
	if db == nil {
		return errNoDB
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return domain.InternalError{Msg: "hash password", Err: err}
	}

	res, err := db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = ?, security_stamp = ?, last_reset_jti = COALESCE(?, last_reset_jti), updated_at = ?
		WHERE id = ? AND security_stamp = ?
	`, hash, uuid.NewString(), intdb.NullIfEmpty(resetCredential), r.now(), identity.ID, identity.SecurityStamp)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n == 0 {
		return domain.ConflictError{Resource: "user", Msg: "account changed since the reset was requested"}
	}
	return nil
}
