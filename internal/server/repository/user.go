package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wkmetrics/internal/database"
	"wkmetrics/internal/types"

	"go.uber.org/zap"
)

// userRepository represents user repository implementation
type userRepository struct {
	db     database.Interface
	logger *zap.Logger
}

// NewUserRepository creates new user repository
func NewUserRepository(db database.Interface, logger *zap.Logger) UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// Save inserts a new user
func (r *userRepository) Save(ctx context.Context, user *types.User) error {
	query := `INSERT INTO users (id, email, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`

	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// FindByID returns user by ID
func (r *userRepository) FindByID(ctx context.Context, id string) (*types.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail returns user by email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*types.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// List returns all users ordered by email
func (r *userRepository) List(ctx context.Context) ([]*types.User, error) {
	query := `SELECT id, email, name, created_at, updated_at FROM users ORDER BY email ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var users []*types.User
	for rows.Next() {
		var user types.User
		if err := rows.Scan(
			&user.ID, &user.Email, &user.Name,
			&user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// Delete removes a user and its role assignments
func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		rolesQuery := "DELETE FROM user_roles WHERE user_id = ?"
		userQuery := "DELETE FROM users WHERE id = ?"
		if r.db.Driver() == "postgres" {
			rolesQuery = database.ConvertPlaceholders(rolesQuery)
			userQuery = database.ConvertPlaceholders(userQuery)
		}

		if _, err := tx.ExecContext(ctx, rolesQuery, id); err != nil {
			return fmt.Errorf("failed to delete user roles: %w", err)
		}

		result, err := tx.ExecContext(ctx, userQuery, id)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		return requireAffected(result, types.ErrUserNotFound)
	})
}

// AssignRole grants a role to a user, ignoring duplicates
func (r *userRepository) AssignRole(ctx context.Context, userID, role string) error {
	query := "INSERT INTO user_roles (user_id, role) VALUES (?, ?)"
	switch r.db.Driver() {
	case "postgres":
		query = database.ConvertPlaceholders(query + " ON CONFLICT (user_id, role) DO NOTHING")
	case "mysql":
		query = "INSERT IGNORE INTO user_roles (user_id, role) VALUES (?, ?)"
	case "sqlite":
		query = "INSERT OR IGNORE INTO user_roles (user_id, role) VALUES (?, ?)"
	}

	if _, err := r.db.ExecContext(ctx, query, userID, role); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	return nil
}

// RemoveRole revokes a role from a user
func (r *userRepository) RemoveRole(ctx context.Context, userID, role string) error {
	query := "DELETE FROM user_roles WHERE user_id = ? AND role = ?"
	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	if _, err := r.db.ExecContext(ctx, query, userID, role); err != nil {
		return fmt.Errorf("failed to remove role: %w", err)
	}

	return nil
}

// ListRoles returns the roles assigned to a user
func (r *userRepository) ListRoles(ctx context.Context, userID string) ([]string, error) {
	query := "SELECT role FROM user_roles WHERE user_id = ? ORDER BY role ASC"
	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roles: %w", err)
	}

	return roles, nil
}

// findOne returns one user matching the condition
func (r *userRepository) findOne(ctx context.Context, cond string, arg any) (*types.User, error) {
	query := "SELECT id, email, name, created_at, updated_at FROM users WHERE " + cond
	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	var user types.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}
