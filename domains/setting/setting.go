package setting

import (
	"context"
	"time"
)

// Setting is one console configuration entry. The store is an opaque
// key-value contract; callers own the meaning of each key.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SaveRequest struct {
	Key   string `json:"key" form:"key"`
	Value string `json:"value" form:"value"`
}

type ISettingUsecase interface {
	List(ctx context.Context) ([]Setting, error)
	Get(ctx context.Context, key string) (Setting, error)
	Set(ctx context.Context, request SaveRequest) (Setting, error)
	Delete(ctx context.Context, key string) error
}

type ISettingRepository interface {
	InitSchema(ctx context.Context) error
	List(ctx context.Context) ([]Setting, error)
	Get(ctx context.Context, key string) (*Setting, error)
	Upsert(ctx context.Context, s *Setting) error
	Delete(ctx context.Context, key string) error
}
