package contact

import (
	"context"
	"time"
)

// Provenance records where a contact came from.
type Provenance string

const (
	ProvenanceManual Provenance = "manual"
	ProvenanceCSV    Provenance = "csv"
	ProvenanceGoogle Provenance = "google"
)

// Contact is an address-book record, weakly linked to chats by phone key
// match. There is no foreign key in either direction.
type Contact struct {
	ID         string     `json:"id"`
	Phone      string     `json:"phone"`
	Name       string     `json:"name"`
	Avatar     string     `json:"avatar,omitempty"`
	Provenance Provenance `json:"provenance"`
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type CreateRequest struct {
	Phone string `json:"phone" form:"phone"`
	Name  string `json:"name" form:"name"`
}

type UpdateRequest struct {
	ID    string `json:"id" uri:"id"`
	Phone string `json:"phone" form:"phone"`
	Name  string `json:"name" form:"name"`
}

type IContactUsecase interface {
	List(ctx context.Context, search string) ([]Contact, error)
	Create(ctx context.Context, request CreateRequest) (Contact, error)
	Update(ctx context.Context, request UpdateRequest) (Contact, error)
	Delete(ctx context.Context, id string) error
	FindByPhone(ctx context.Context, phone string) (*Contact, error)
}

type IContactRepository interface {
	InitSchema(ctx context.Context) error
	List(ctx context.Context, search string) ([]Contact, error)
	GetByID(ctx context.Context, id string) (*Contact, error)
	GetByPhone(ctx context.Context, phone string) (*Contact, error)
	Create(ctx context.Context, c *Contact) error
	Update(ctx context.Context, c *Contact) error
	Delete(ctx context.Context, id string) error
}
