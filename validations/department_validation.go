package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	domainDepartment "github.com/zapdesk/zapdesk/domains/department"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
)

func ValidateCreateDepartment(ctx context.Context, request domainDepartment.CreateRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Name, validation.Required, validation.Length(1, 80)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateUpdateDepartment(ctx context.Context, request domainDepartment.UpdateRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.ID, validation.Required),
		validation.Field(&request.Name, validation.Required, validation.Length(1, 80)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateReorderDepartments(ctx context.Context, request domainDepartment.ReorderRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.IDs, validation.Required, validation.Length(1, 0)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
