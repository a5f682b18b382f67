package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainContact "github.com/zapdesk/zapdesk/domains/contact"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
	"github.com/zapdesk/zapdesk/reconcile"
	"github.com/zapdesk/zapdesk/validations"
)

type serviceContact struct {
	repo domainContact.IContactRepository
}

func NewContactService(repo domainContact.IContactRepository) domainContact.IContactUsecase {
	return &serviceContact{repo: repo}
}

func (service serviceContact) List(ctx context.Context, search string) ([]domainContact.Contact, error) {
	return service.repo.List(ctx, search)
}

func (service serviceContact) Create(ctx context.Context, request domainContact.CreateRequest) (domainContact.Contact, error) {
	if err := validations.ValidateCreateContact(ctx, request); err != nil {
		return domainContact.Contact{}, err
	}

	// Contacts store the canonical phone key so chat linkage is a plain
	// string match.
	phone, ok := reconcile.CanonicalKey(request.Phone)
	if !ok {
		return domainContact.Contact{}, pkgError.ValidationError("phone: not a valid phone number")
	}

	if existing, err := service.repo.GetByPhone(ctx, phone); err == nil && existing != nil {
		return domainContact.Contact{}, pkgError.ValidationError("phone: already registered")
	}

	now := time.Now().UTC()
	c := domainContact.Contact{
		ID:         uuid.New().String(),
		Phone:      phone,
		Name:       request.Name,
		Provenance: domainContact.ProvenanceManual,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := service.repo.Create(ctx, &c); err != nil {
		return domainContact.Contact{}, err
	}
	return c, nil
}

func (service serviceContact) Update(ctx context.Context, request domainContact.UpdateRequest) (domainContact.Contact, error) {
	if err := validations.ValidateUpdateContact(ctx, request); err != nil {
		return domainContact.Contact{}, err
	}

	c, err := service.repo.GetByID(ctx, request.ID)
	if err != nil {
		return domainContact.Contact{}, err
	}

	c.Name = request.Name
	if request.Phone != "" {
		phone, ok := reconcile.CanonicalKey(request.Phone)
		if !ok {
			return domainContact.Contact{}, pkgError.ValidationError("phone: not a valid phone number")
		}
		c.Phone = phone
	}
	c.UpdatedAt = time.Now().UTC()

	if err := service.repo.Update(ctx, c); err != nil {
		return domainContact.Contact{}, err
	}
	return *c, nil
}

func (service serviceContact) Delete(ctx context.Context, id string) error {
	if _, err := service.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return service.repo.Delete(ctx, id)
}

func (service serviceContact) FindByPhone(ctx context.Context, phone string) (*domainContact.Contact, error) {
	key, ok := reconcile.CanonicalKey(phone)
	if !ok {
		key = phone
	}
	return service.repo.GetByPhone(ctx, key)
}
