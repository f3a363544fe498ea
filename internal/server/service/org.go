package service

import (
	"context"
	"fmt"
	"time"

	"wkmetrics/internal/types"

	"github.com/google/uuid"
)

// CreateSquad creates a new squad
func (s *Service) CreateSquad(ctx context.Context, squad *types.Squad) (*types.Squad, error) {
	if err := s.validate.Struct(squad); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrValidation, err.Error())
	}

	now := time.Now()
	squad.ID = uuid.NewString()
	squad.CreatedAt = now
	squad.UpdatedAt = now

	if err := s.squads.Save(ctx, squad); err != nil {
		return nil, err
	}

	return squad, nil
}

// UpdateSquad updates an existing squad
func (s *Service) UpdateSquad(ctx context.Context, id string, squad *types.Squad) (*types.Squad, error) {
	if err := s.validate.Struct(squad); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrValidation, err.Error())
	}

	current, err := s.squads.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	squad.ID = current.ID
	squad.CreatedAt = current.CreatedAt
	squad.UpdatedAt = time.Now()

	if err := s.squads.Update(ctx, squad); err != nil {
		return nil, err
	}

	return squad, nil
}

// GetSquad returns one squad by ID
func (s *Service) GetSquad(ctx context.Context, id string) (*types.Squad, error) {
	return s.squads.FindByID(ctx, id)
}

// ListSquads returns all squads in display order
func (s *Service) ListSquads(ctx context.Context) ([]*types.Squad, error) {
	return s.squads.List(ctx)
}

// DeleteSquad removes a squad
func (s *Service) DeleteSquad(ctx context.Context, id string) error {
	return s.squads.Delete(ctx, id)
}

// CreateProfessional creates a new professional
func (s *Service) CreateProfessional(ctx context.Context, p *types.Professional) (*types.Professional, error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrValidation, err.Error())
	}

	now := time.Now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.professionals.Save(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// UpdateProfessional updates an existing professional
func (s *Service) UpdateProfessional(ctx context.Context, id string, p *types.Professional) (*types.Professional, error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrValidation, err.Error())
	}

	current, err := s.professionals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.ID = current.ID
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = time.Now()

	if err := s.professionals.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// GetProfessional returns one professional by ID
func (s *Service) GetProfessional(ctx context.Context, id string) (*types.Professional, error) {
	return s.professionals.FindByID(ctx, id)
}

// ListProfessionals returns all professionals
func (s *Service) ListProfessionals(ctx context.Context) ([]*types.Professional, error) {
	return s.professionals.List(ctx)
}

// DeleteProfessional removes a professional
func (s *Service) DeleteProfessional(ctx context.Context, id string) error {
	return s.professionals.Delete(ctx, id)
}

// CreateJobRole creates a new job role
func (s *Service) CreateJobRole(ctx context.Context, role *types.JobRole) (*types.JobRole, error) {
	if err := s.validate.Struct(role); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrValidation, err.Error())
	}

	now := time.Now()
	role.ID = uuid.NewString()
	role.CreatedAt = now
	role.UpdatedAt = now

	if err := s.jobRoles.Save(ctx, role); err != nil {
		return nil, err
	}

	return role, nil
}

// UpdateJobRole updates an existing job role
func (s *Service) UpdateJobRole(ctx context.Context, id string, role *types.JobRole) (*types.JobRole, error) {
	if err := s.validate.Struct(role); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrValidation, err.Error())
	}

	current, err := s.jobRoles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role.ID = current.ID
	role.CreatedAt = current.CreatedAt
	role.UpdatedAt = time.Now()

	if err := s.jobRoles.Update(ctx, role); err != nil {
		return nil, err
	}

	return role, nil
}

// GetJobRole returns one job role by ID
func (s *Service) GetJobRole(ctx context.Context, id string) (*types.JobRole, error) {
	return s.jobRoles.FindByID(ctx, id)
}

// ListJobRoles returns all job roles
func (s *Service) ListJobRoles(ctx context.Context) ([]*types.JobRole, error) {
	return s.jobRoles.List(ctx)
}

// DeleteJobRole removes a job role
func (s *Service) DeleteJobRole(ctx context.Context, id string) error {
	return s.jobRoles.Delete(ctx, id)
}
