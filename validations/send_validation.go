package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	domainSend "github.com/zapdesk/zapdesk/domains/send"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
)

func ValidateSendText(ctx context.Context, request domainSend.TextRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Phone, validation.Required),
		validation.Field(&request.Message, validation.Required, validation.Length(1, 4096)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateSendMedia(ctx context.Context, request domainSend.MediaRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Phone, validation.Required),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	if request.File == nil {
		return pkgError.ValidationError("file: cannot be blank.")
	}

	return nil
}
