package department

import (
	"context"
	"time"
)

// Department is one routing target in the numeric selection menu. Position is
// the 1-based menu index and must stay stable while selection prompts are
// outstanding.
type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateRequest struct {
	Name string `json:"name" form:"name"`
}

type UpdateRequest struct {
	ID   string `json:"id" uri:"id"`
	Name string `json:"name" form:"name"`
}

type ReorderRequest struct {
	// IDs in the desired menu order.
	IDs []string `json:"ids"`
}

type IDepartmentUsecase interface {
	List(ctx context.Context) ([]Department, error)
	Create(ctx context.Context, request CreateRequest) (Department, error)
	Update(ctx context.Context, request UpdateRequest) (Department, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, request ReorderRequest) ([]Department, error)
}

type IDepartmentRepository interface {
	InitSchema(ctx context.Context) error
	List(ctx context.Context) ([]Department, error)
	GetByID(ctx context.Context, id string) (*Department, error)
	Create(ctx context.Context, d *Department) error
	Update(ctx context.Context, d *Department) error
	Delete(ctx context.Context, id string) error
	SavePositions(ctx context.Context, ordered []Department) error
}
