package quickreply

import (
	"context"
	"time"
)

// QuickReply is a canned response agents insert by shortcut.
type QuickReply struct {
	ID        string    `json:"id"`
	Shortcut  string    `json:"shortcut"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SaveRequest struct {
	ID       string `json:"id" uri:"id"`
	Shortcut string `json:"shortcut" form:"shortcut"`
	Content  string `json:"content" form:"content"`
}

type IQuickReplyUsecase interface {
	List(ctx context.Context) ([]QuickReply, error)
	Create(ctx context.Context, request SaveRequest) (QuickReply, error)
	Update(ctx context.Context, request SaveRequest) (QuickReply, error)
	Delete(ctx context.Context, id string) error
}

type IQuickReplyRepository interface {
	InitSchema(ctx context.Context) error
	List(ctx context.Context) ([]QuickReply, error)
	GetByID(ctx context.Context, id string) (*QuickReply, error)
	Create(ctx context.Context, q *QuickReply) error
	Update(ctx context.Context, q *QuickReply) error
	Delete(ctx context.Context, id string) error
}
