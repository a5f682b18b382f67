package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	domainUser "github.com/zapdesk/zapdesk/domains/user"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
)

func ValidateCreateUser(ctx context.Context, request domainUser.CreateRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&request.Email, validation.Required, is.Email),
		validation.Field(&request.Role, validation.Required, validation.In("admin", "agent")),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateUpdateUser(ctx context.Context, request domainUser.UpdateRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.ID, validation.Required),
		validation.Field(&request.Role, validation.In("admin", "agent", "")),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
