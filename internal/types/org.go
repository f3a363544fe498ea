package types

import "time"

// Squad represents a delivery team
type Squad struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" validate:"required"`
	Area        string    `json:"area" db:"area"`
	Description string    `json:"description,omitempty" db:"description"`
	ManagerID   *string   `json:"manager_id,omitempty" db:"manager_id"`
	Order       int       `json:"order" db:"sort_order"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileType classifies a professional for organogram purposes
type ProfileType string

// Profile types
const (
	ProfileGestao       ProfileType = "gestao"
	ProfileEspecialista ProfileType = "especialista"
	ProfileColaborador  ProfileType = "colaborador"
	ProfileMaster       ProfileType = "master"
	ProfileAdmin        ProfileType = "admin"
)

// Professional represents a person in the organization
type Professional struct {
	ID            string      `json:"id" db:"id"`
	ProfileID     string      `json:"profile_id,omitempty" db:"profile_id"`
	Name          string      `json:"name" db:"name" validate:"required"`
	Email         string      `json:"email" db:"email" validate:"required,email"`
	Role          string      `json:"role" db:"role"`
	Squad         string      `json:"squad,omitempty" db:"squad_id"`
	Seniority     string      `json:"seniority,omitempty" db:"seniority"`
	ProfileType   ProfileType `json:"profile_type" db:"profile_type" validate:"omitempty,oneof=gestao especialista colaborador master admin"`
	Avatar        string      `json:"avatar,omitempty" db:"avatar"`
	ManagerID     *string     `json:"manager_id,omitempty" db:"manager_id"`
	ManagedSquads []string    `json:"managed_squads,omitempty" db:"-"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// JobRole represents a job title in the organization
type JobRole struct {
	ID           string    `json:"id" db:"id"`
	Title        string    `json:"title" db:"title" validate:"required"`
	Description  string    `json:"description,omitempty" db:"description"`
	IsManagement bool      `json:"is_management" db:"is_management"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// User represents an account known to the identity provider
type User struct {
	ID        string            `json:"id" db:"id"`
	Email     string            `json:"email" db:"email" validate:"required,email"`
	Name      string            `json:"name,omitempty" db:"name"`
	Metadata  map[string]string `json:"metadata,omitempty" db:"-"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}
