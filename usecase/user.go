package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainUser "github.com/zapdesk/zapdesk/domains/user"
	"github.com/zapdesk/zapdesk/validations"
)

type serviceUser struct {
	repo domainUser.IUserRepository
}

func NewUserService(repo domainUser.IUserRepository) domainUser.IUserUsecase {
	return &serviceUser{repo: repo}
}

func (service serviceUser) List(ctx context.Context) ([]domainUser.User, error) {
	return service.repo.List(ctx)
}

func (service serviceUser) Create(ctx context.Context, request domainUser.CreateRequest) (domainUser.User, error) {
	if err := validations.ValidateCreateUser(ctx, request); err != nil {
		return domainUser.User{}, err
	}

	now := time.Now().UTC()
	u := domainUser.User{
		ID:           uuid.New().String(),
		Name:         request.Name,
		Email:        request.Email,
		Role:         domainUser.Role(request.Role),
		DepartmentID: request.DepartmentID,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := service.repo.Create(ctx, &u); err != nil {
		return domainUser.User{}, err
	}
	return u, nil
}

func (service serviceUser) Update(ctx context.Context, request domainUser.UpdateRequest) (domainUser.User, error) {
	if err := validations.ValidateUpdateUser(ctx, request); err != nil {
		return domainUser.User{}, err
	}

	u, err := service.repo.GetByID(ctx, request.ID)
	if err != nil {
		return domainUser.User{}, err
	}

	if request.Name != "" {
		u.Name = request.Name
	}
	if request.Role != "" {
		u.Role = domainUser.Role(request.Role)
	}
	u.DepartmentID = request.DepartmentID
	if request.Enabled != nil {
		u.Enabled = *request.Enabled
	}
	u.UpdatedAt = time.Now().UTC()

	if err := service.repo.Update(ctx, u); err != nil {
		return domainUser.User{}, err
	}
	return *u, nil
}

func (service serviceUser) Delete(ctx context.Context, id string) error {
	if _, err := service.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return service.repo.Delete(ctx, id)
}
