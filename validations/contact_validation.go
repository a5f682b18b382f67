package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	domainContact "github.com/zapdesk/zapdesk/domains/contact"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
)

func ValidateCreateContact(ctx context.Context, request domainContact.CreateRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Phone, validation.Required, validation.Length(8, 20)),
		validation.Field(&request.Name, validation.Required, validation.Length(1, 120)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateUpdateContact(ctx context.Context, request domainContact.UpdateRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.ID, validation.Required),
		validation.Field(&request.Name, validation.Required, validation.Length(1, 120)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
