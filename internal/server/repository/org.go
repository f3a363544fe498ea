package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"wkmetrics/internal/database"
	"wkmetrics/internal/types"

	"go.uber.org/zap"
)

// squadRepository represents squad repository implementation
type squadRepository struct {
	db     database.Interface
	logger *zap.Logger
}

// NewSquadRepository creates new squad repository
func NewSquadRepository(db database.Interface, logger *zap.Logger) SquadRepository {
	return &squadRepository{
		db:     db,
		logger: logger,
	}
}

// Save inserts a new squad
func (r *squadRepository) Save(ctx context.Context, squad *types.Squad) error {
	query := `INSERT INTO squads (
		id, name, area, description, manager_id, sort_order, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	_, err := r.db.ExecContext(ctx, query,
		squad.ID, squad.Name, squad.Area, squad.Description,
		squad.ManagerID, squad.Order, squad.CreatedAt, squad.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save squad: %w", err)
	}

	return nil
}

// Update updates an existing squad
func (r *squadRepository) Update(ctx context.Context, squad *types.Squad) error {
	query := `UPDATE squads SET
		name = ?, area = ?, description = ?, manager_id = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`

	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	result, err := r.db.ExecContext(ctx, query,
		squad.Name, squad.Area, squad.Description, squad.ManagerID,
		squad.Order, squad.UpdatedAt, squad.ID)
	if err != nil {
		return fmt.Errorf("failed to update squad: %w", err)
	}

	return requireAffected(result, types.ErrSquadNotFound)
}

// FindByID returns squad by ID
func (r *squadRepository) FindByID(ctx context.Context, id string) (*types.Squad, error) {
	query := `SELECT id, name, area, description, manager_id, sort_order, created_at, updated_at
		FROM squads WHERE id = ?`

	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	var squad types.Squad
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&squad.ID, &squad.Name, &squad.Area, &squad.Description,
		&squad.ManagerID, &squad.Order, &squad.CreatedAt, &squad.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrSquadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query squad: %w", err)
	}

	return &squad, nil
}

// List returns all squads in display order
func (r *squadRepository) List(ctx context.Context) ([]*types.Squad, error) {
	query := `SELECT id, name, area, description, manager_id, sort_order, created_at, updated_at
		FROM squads ORDER BY sort_order ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query squads: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var squads []*types.Squad
	for rows.Next() {
		var squad types.Squad
		if err := rows.Scan(
			&squad.ID, &squad.Name, &squad.Area, &squad.Description,
			&squad.ManagerID, &squad.Order, &squad.CreatedAt, &squad.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan squad: %w", err)
		}
		squads = append(squads, &squad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate squads: %w", err)
	}

	return squads, nil
}

// Delete removes a squad
func (r *squadRepository) Delete(ctx context.Context, id string) error {
	query := "DELETE FROM squads WHERE id = ?"
	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete squad: %w", err)
	}

	return requireAffected(result, types.ErrSquadNotFound)
}

// professionalRepository represents professional repository implementation
type professionalRepository struct {
	db     database.Interface
	logger *zap.Logger
}

// NewProfessionalRepository creates new professional repository
func NewProfessionalRepository(db database.Interface, logger *zap.Logger) ProfessionalRepository {
	return &professionalRepository{
		db:     db,
		logger: logger,
	}
}

// Save inserts a new professional
func (r *professionalRepository) Save(ctx context.Context, p *types.Professional) error {
	query := `INSERT INTO professionals (
		id, profile_id, name, email, role, squad_id, seniority, profile_type,
		avatar, manager_id, managed_squads, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.ProfileID, p.Name, p.Email, p.Role, nullableString(p.Squad),
		p.Seniority, p.ProfileType, p.Avatar, p.ManagerID,
		strings.Join(p.ManagedSquads, ","), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save professional: %w", err)
	}

	return nil
}

// Update updates an existing professional
func (r *professionalRepository) Update(ctx context.Context, p *types.Professional) error {
	query := `UPDATE professionals SET
		profile_id = ?, name = ?, email = ?, role = ?, squad_id = ?, seniority = ?,
		profile_type = ?, avatar = ?, manager_id = ?, managed_squads = ?, updated_at = ?
		WHERE id = ?`

	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	result, err := r.db.ExecContext(ctx, query,
		p.ProfileID, p.Name, p.Email, p.Role, nullableString(p.Squad), p.Seniority,
		p.ProfileType, p.Avatar, p.ManagerID, strings.Join(p.ManagedSquads, ","),
		p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update professional: %w", err)
	}

	return requireAffected(result, types.ErrProfessionalNotFound)
}

// FindByID returns professional by ID
func (r *professionalRepository) FindByID(ctx context.Context, id string) (*types.Professional, error) {
	query := professionalSelect + " WHERE id = ?"
	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	p, err := scanProfessional(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrProfessionalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query professional: %w", err)
	}

	return p, nil
}

// List returns all professionals ordered by name
func (r *professionalRepository) List(ctx context.Context) ([]*types.Professional, error) {
	rows, err := r.db.QueryContext(ctx, professionalSelect+" ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query professionals: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var professionals []*types.Professional
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan professional: %w", err)
		}
		professionals = append(professionals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate professionals: %w", err)
	}

	return professionals, nil
}

// Delete removes a professional
func (r *professionalRepository) Delete(ctx context.Context, id string) error {
	query := "DELETE FROM professionals WHERE id = ?"
	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete professional: %w", err)
	}

	return requireAffected(result, types.ErrProfessionalNotFound)
}

// jobRoleRepository represents job role repository implementation
type jobRoleRepository struct {
	db     database.Interface
	logger *zap.Logger
}

// NewJobRoleRepository creates new job role repository
func NewJobRoleRepository(db database.Interface, logger *zap.Logger) JobRoleRepository {
	return &jobRoleRepository{
		db:     db,
		logger: logger,
	}
}

// Save inserts a new job role
func (r *jobRoleRepository) Save(ctx context.Context, role *types.JobRole) error {
	query := `INSERT INTO job_roles (
		id, title, description, is_management, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?)`

	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	_, err := r.db.ExecContext(ctx, query,
		role.ID, role.Title, role.Description, role.IsManagement,
		role.CreatedAt, role.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save job role: %w", err)
	}

	return nil
}

// Update updates an existing job role
func (r *jobRoleRepository) Update(ctx context.Context, role *types.JobRole) error {
	query := `UPDATE job_roles SET title = ?, description = ?, is_management = ?, updated_at = ?
		WHERE id = ?`

	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	result, err := r.db.ExecContext(ctx, query,
		role.Title, role.Description, role.IsManagement, role.UpdatedAt, role.ID)
	if err != nil {
		return fmt.Errorf("failed to update job role: %w", err)
	}

	return requireAffected(result, types.ErrJobRoleNotFound)
}

// FindByID returns job role by ID
func (r *jobRoleRepository) FindByID(ctx context.Context, id string) (*types.JobRole, error) {
	query := `SELECT id, title, description, is_management, created_at, updated_at
		FROM job_roles WHERE id = ?`

	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	var role types.JobRole
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&role.ID, &role.Title, &role.Description, &role.IsManagement,
		&role.CreatedAt, &role.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrJobRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query job role: %w", err)
	}

	return &role, nil
}

// List returns all job roles ordered by title
func (r *jobRoleRepository) List(ctx context.Context) ([]*types.JobRole, error) {
	query := `SELECT id, title, description, is_management, created_at, updated_at
		FROM job_roles ORDER BY title ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query job roles: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var roles []*types.JobRole
	for rows.Next() {
		var role types.JobRole
		if err := rows.Scan(
			&role.ID, &role.Title, &role.Description, &role.IsManagement,
			&role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job role: %w", err)
		}
		roles = append(roles, &role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job roles: %w", err)
	}

	return roles, nil
}

// Delete removes a job role
func (r *jobRoleRepository) Delete(ctx context.Context, id string) error {
	query := "DELETE FROM job_roles WHERE id = ?"
	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete job role: %w", err)
	}

	return requireAffected(result, types.ErrJobRoleNotFound)
}

const professionalSelect = `SELECT id, profile_id, name, email, role, squad_id, seniority,
		profile_type, avatar, manager_id, managed_squads, created_at, updated_at
	FROM professionals`

// scanProfessional scans one professional row
func scanProfessional(row rowScanner) (*types.Professional, error) {
	var p types.Professional
	var squadID sql.NullString
	var managedSquads string
	err := row.Scan(
		&p.ID, &p.ProfileID, &p.Name, &p.Email, &p.Role, &squadID, &p.Seniority,
		&p.ProfileType, &p.Avatar, &p.ManagerID, &managedSquads,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if squadID.Valid {
		p.Squad = squadID.String
	}
	if managedSquads != "" {
		p.ManagedSquads = strings.Split(managedSquads, ",")
	}
	return &p, nil
}

// nullableString maps an empty string to NULL
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// requireAffected returns notFound when the statement touched no rows
func requireAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
