package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wkmetrics/internal/database"
	"wkmetrics/internal/types"

	"go.uber.org/zap"
)

// Identity represents an authenticated account
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Role   Role   `json:"role"`
}

// Provider resolves API tokens to identities
type Provider interface {
	// Authenticate resolves a bearer token to an identity, including
	// the strongest role assigned to the account
	Authenticate(ctx context.Context, token string) (*Identity, error)

	// ResolveRole returns the strongest role assigned to a user
	ResolveRole(ctx context.Context, userID string) (Role, error)
}

// DatabaseProvider resolves identities from the users and user_roles tables
type DatabaseProvider struct {
	db     database.Interface
	logger *zap.Logger
}

// NewDatabaseProvider creates a database-backed provider
func NewDatabaseProvider(db database.Interface, logger *zap.Logger) *DatabaseProvider {
	return &DatabaseProvider{
		db:     db,
		logger: logger,
	}
}

// Authenticate implements Provider
func (p *DatabaseProvider) Authenticate(ctx context.Context, token string) (*Identity, error) {
	query := `
		SELECT u.id, u.email, COALESCE(u.name, '')
		FROM users u
		JOIN user_tokens t ON t.user_id = u.id
		WHERE t.token = ?`
	if p.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	var id Identity
	err := p.db.QueryRowContext(ctx, query, token).Scan(&id.UserID, &id.Email, &id.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate token: %w", err)
	}

	role, err := p.ResolveRole(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	id.Role = role

	return &id, nil
}

// ResolveRole implements Provider
func (p *DatabaseProvider) ResolveRole(ctx context.Context, userID string) (Role, error) {
	query := "SELECT role FROM user_roles WHERE user_id = ?"
	if p.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	rows, err := p.db.QueryContext(ctx, query, userID)
	if err != nil {
		return "", fmt.Errorf("failed to query roles: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var roles []Role
	for rows.Next() {
		var r Role
		if err := rows.Scan(&r); err != nil {
			return "", fmt.Errorf("failed to scan role: %w", err)
		}
		if !r.Valid() {
			p.logger.Warn("Ignoring unknown role",
				zap.String("user_id", userID),
				zap.String("role", string(r)))
			continue
		}
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to iterate roles: %w", err)
	}

	return Strongest(roles), nil
}
