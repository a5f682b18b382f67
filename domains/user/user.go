package user

import (
	"context"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleAgent Role = "agent"
)

// User is a console operator. DepartmentID scopes which inbox the agent sees;
// empty means all departments.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	DepartmentID string    `json:"department_id,omitempty"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateRequest struct {
	Name         string `json:"name" form:"name"`
	Email        string `json:"email" form:"email"`
	Role         string `json:"role" form:"role"`
	DepartmentID string `json:"department_id" form:"department_id"`
}

type UpdateRequest struct {
	ID           string `json:"id" uri:"id"`
	Name         string `json:"name" form:"name"`
	Role         string `json:"role" form:"role"`
	DepartmentID string `json:"department_id" form:"department_id"`
	Enabled      *bool  `json:"enabled" form:"enabled"`
}

type IUserUsecase interface {
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, request CreateRequest) (User, error)
	Update(ctx context.Context, request UpdateRequest) (User, error)
	Delete(ctx context.Context, id string) error
}

type IUserRepository interface {
	InitSchema(ctx context.Context) error
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	ClearDepartment(ctx context.Context, departmentID string) error
}
