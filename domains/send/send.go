package send

import (
	"context"
	"mime/multipart"
)

type TextRequest struct {
	Phone   string `json:"phone" form:"phone"`
	Message string `json:"message" form:"message"`
	// ReplyToID optionally quotes a previous message.
	ReplyToID string `json:"reply_to_id" form:"reply_to_id"`
}

type MediaRequest struct {
	Phone   string                `json:"phone" form:"phone"`
	Caption string                `json:"caption" form:"caption"`
	File    *multipart.FileHeader `json:"-" form:"file"`
}

type Response struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

type ISendUsecase interface {
	SendText(ctx context.Context, request TextRequest) (Response, error)
	SendMedia(ctx context.Context, request MediaRequest) (Response, error)
	// SendDepartmentMenu composes the greeting + numbered department list and
	// dispatches it to the contact.
	SendDepartmentMenu(ctx context.Context, phone string) (Response, error)
}
