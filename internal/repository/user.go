package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vinsolit/lendenbook/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	UpdatePasswordHash(ctx context.Context, username, passwordHash string) error
	Delete(ctx context.Context, username string) error
}

type userRepository struct {
	db *Database
}

func NewUserRepository(db *Database) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	query := `INSERT INTO users (username, password_hash, role, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.db.ExecContext(ctx, query,
		user.Username, user.PasswordHash, user.Role, user.CreatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	var createdAt string
	query := `SELECT username, password_hash, role, created_at FROM users WHERE username = ?`
	err := r.db.db.QueryRowContext(ctx, query, username).
		Scan(&user.Username, &user.PasswordHash, &user.Role, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	user.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	query := `SELECT username, password_hash, role, created_at FROM users ORDER BY username`
	rows, err := r.db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{}
		var createdAt string
		if err := rows.Scan(&user.Username, &user.PasswordHash, &user.Role, &createdAt); err != nil {
			return nil, err
		}
		user.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	query := `UPDATE users SET password_hash = ? WHERE username = ?`
	_, err := r.db.db.ExecContext(ctx, query, passwordHash, username)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	return nil
}

// Delete removes the user together with every record it owns.
func (r *userRepository) Delete(ctx context.Context, username string) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE owner_username = ?`, username); err != nil {
		return fmt.Errorf("failed to delete user records: %w", err)
	}

	return tx.Commit()
}
