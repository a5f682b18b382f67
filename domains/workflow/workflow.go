package workflow

import (
	"context"
	"time"
)

// Step is one ordered action inside a workflow. Steps fire in Position order
// when the workflow's keyword matches an incoming message.
type Step struct {
	Position     int    `json:"position"`
	Content      string `json:"content"`
	DelaySeconds int    `json:"delay_seconds,omitempty"`
}

// Workflow is a keyword-triggered auto-reply sequence.
type Workflow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Keyword   string    `json:"keyword"`
	Enabled   bool      `json:"enabled"`
	Steps     []Step    `json:"steps"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SaveRequest struct {
	ID      string `json:"id" uri:"id"`
	Name    string `json:"name"`
	Keyword string `json:"keyword"`
	Enabled *bool  `json:"enabled"`
	Steps   []Step `json:"steps"`
}

type IWorkflowUsecase interface {
	List(ctx context.Context) ([]Workflow, error)
	Create(ctx context.Context, request SaveRequest) (Workflow, error)
	Update(ctx context.Context, request SaveRequest) (Workflow, error)
	Delete(ctx context.Context, id string) error
	// Match returns the enabled workflow whose keyword matches the message
	// content, if any.
	Match(ctx context.Context, content string) (*Workflow, error)
}

type IWorkflowRepository interface {
	InitSchema(ctx context.Context) error
	List(ctx context.Context) ([]Workflow, error)
	GetByID(ctx context.Context, id string) (*Workflow, error)
	Create(ctx context.Context, w *Workflow) error
	Update(ctx context.Context, w *Workflow) error
	Delete(ctx context.Context, id string) error
}
