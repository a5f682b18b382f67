package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domainChat "github.com/zapdesk/zapdesk/domains/chat"
	domainDepartment "github.com/zapdesk/zapdesk/domains/department"
	domainUser "github.com/zapdesk/zapdesk/domains/user"
	"github.com/zapdesk/zapdesk/inbox"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
	"github.com/zapdesk/zapdesk/validations"
)

type serviceDepartment struct {
	repo     domainDepartment.IDepartmentRepository
	chatRepo domainChat.IChatRepository
	userRepo domainUser.IUserRepository
	store    *inbox.Store
}

func NewDepartmentService(repo domainDepartment.IDepartmentRepository, chatRepo domainChat.IChatRepository, userRepo domainUser.IUserRepository, store *inbox.Store) domainDepartment.IDepartmentUsecase {
	return &serviceDepartment{repo: repo, chatRepo: chatRepo, userRepo: userRepo, store: store}
}

func (service serviceDepartment) List(ctx context.Context) ([]domainDepartment.Department, error) {
	return service.repo.List(ctx)
}

func (service serviceDepartment) Create(ctx context.Context, request domainDepartment.CreateRequest) (domainDepartment.Department, error) {
	if err := validations.ValidateCreateDepartment(ctx, request); err != nil {
		return domainDepartment.Department{}, err
	}

	existing, err := service.repo.List(ctx)
	if err != nil {
		return domainDepartment.Department{}, err
	}

	now := time.Now().UTC()
	d := domainDepartment.Department{
		ID:        uuid.New().String(),
		Name:      request.Name,
		Position:  len(existing) + 1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := service.repo.Create(ctx, &d); err != nil {
		return domainDepartment.Department{}, err
	}
	logrus.Infof("[DEPARTMENT] Created %s at position %d", d.Name, d.Position)
	return d, nil
}

func (service serviceDepartment) Update(ctx context.Context, request domainDepartment.UpdateRequest) (domainDepartment.Department, error) {
	if err := validations.ValidateUpdateDepartment(ctx, request); err != nil {
		return domainDepartment.Department{}, err
	}

	d, err := service.repo.GetByID(ctx, request.ID)
	if err != nil {
		return domainDepartment.Department{}, err
	}
	d.Name = request.Name
	d.UpdatedAt = time.Now().UTC()
	if err := service.repo.Update(ctx, d); err != nil {
		return domainDepartment.Department{}, err
	}
	return *d, nil
}

// Delete removes a department and nulls every reference to it: chats fall
// back to unrouted, scoped agents fall back to the full inbox. Remaining
// departments are renumbered so the menu never shows a gap.
func (service serviceDepartment) Delete(ctx context.Context, id string) error {
	if _, err := service.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := service.chatRepo.ClearDepartment(ctx, id); err != nil {
		logrus.WithError(err).Error("[DEPARTMENT] Failed to clear chat references")
	}
	if err := service.userRepo.ClearDepartment(ctx, id); err != nil {
		logrus.WithError(err).Error("[DEPARTMENT] Failed to clear user references")
	}
	if service.store != nil {
		service.store.ClearDepartment(ctx, id)
	}

	remaining, err := service.repo.List(ctx)
	if err != nil {
		return err
	}
	for i := range remaining {
		remaining[i].Position = i + 1
	}
	return service.repo.SavePositions(ctx, remaining)
}

func (service serviceDepartment) Reorder(ctx context.Context, request domainDepartment.ReorderRequest) ([]domainDepartment.Department, error) {
	if err := validations.ValidateReorderDepartments(ctx, request); err != nil {
		return nil, err
	}

	// Menu positions are the numeric indexes customers reply with, so they
	// must hold still while any selection prompt is unanswered.
	if service.store != nil && service.store.HasOutstandingPrompt() {
		return nil, pkgError.ValidationError("cannot reorder departments while a selection prompt is outstanding")
	}

	existing, err := service.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domainDepartment.Department, len(existing))
	for _, d := range existing {
		byID[d.ID] = d
	}

	if len(request.IDs) != len(existing) {
		return nil, pkgError.ValidationError("reorder must include every department")
	}

	ordered := make([]domainDepartment.Department, 0, len(request.IDs))
	for i, id := range request.IDs {
		d, ok := byID[id]
		if !ok {
			return nil, pkgError.ValidationError("unknown department id: " + id)
		}
		d.Position = i + 1
		ordered = append(ordered, d)
	}

	if err := service.repo.SavePositions(ctx, ordered); err != nil {
		return nil, err
	}
	return ordered, nil
}
