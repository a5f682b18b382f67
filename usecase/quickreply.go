package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainQuickReply "github.com/zapdesk/zapdesk/domains/quickreply"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
)

type serviceQuickReply struct {
	repo domainQuickReply.IQuickReplyRepository
}

func NewQuickReplyService(repo domainQuickReply.IQuickReplyRepository) domainQuickReply.IQuickReplyUsecase {
	return &serviceQuickReply{repo: repo}
}

func (service serviceQuickReply) List(ctx context.Context) ([]domainQuickReply.QuickReply, error) {
	return service.repo.List(ctx)
}

func (service serviceQuickReply) Create(ctx context.Context, request domainQuickReply.SaveRequest) (domainQuickReply.QuickReply, error) {
	if request.Shortcut == "" || request.Content == "" {
		return domainQuickReply.QuickReply{}, pkgError.ValidationError("shortcut and content are required")
	}

	now := time.Now().UTC()
	q := domainQuickReply.QuickReply{
		ID:        uuid.New().String(),
		Shortcut:  request.Shortcut,
		Content:   request.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := service.repo.Create(ctx, &q); err != nil {
		return domainQuickReply.QuickReply{}, err
	}
	return q, nil
}

func (service serviceQuickReply) Update(ctx context.Context, request domainQuickReply.SaveRequest) (domainQuickReply.QuickReply, error) {
	if request.ID == "" {
		return domainQuickReply.QuickReply{}, pkgError.ValidationError("id is required")
	}

	q, err := service.repo.GetByID(ctx, request.ID)
	if err != nil {
		return domainQuickReply.QuickReply{}, err
	}
	if request.Shortcut != "" {
		q.Shortcut = request.Shortcut
	}
	if request.Content != "" {
		q.Content = request.Content
	}
	q.UpdatedAt = time.Now().UTC()

	if err := service.repo.Update(ctx, q); err != nil {
		return domainQuickReply.QuickReply{}, err
	}
	return *q, nil
}

func (service serviceQuickReply) Delete(ctx context.Context, id string) error {
	if _, err := service.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return service.repo.Delete(ctx, id)
}
