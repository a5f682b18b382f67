package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	fiberUtils "github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	domainDepartment "github.com/zapdesk/zapdesk/domains/department"
	domainSend "github.com/zapdesk/zapdesk/domains/send"
	"github.com/zapdesk/zapdesk/inbox"
	"github.com/zapdesk/zapdesk/infrastructure/evolution"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
	"github.com/zapdesk/zapdesk/reconcile"
	"github.com/zapdesk/zapdesk/validations"
)

type serviceSend struct {
	store       *inbox.Store
	client      *evolution.Client
	departments domainDepartment.IDepartmentRepository
	mediaDir    string
	mediaBase   string
}

// SendDeps wires the send service. MediaBase is the public URL prefix the
// gateway can fetch uploaded files from.
type SendDeps struct {
	Store       *inbox.Store
	Client      *evolution.Client
	Departments domainDepartment.IDepartmentRepository
	MediaDir    string
	MediaBase   string
}

func NewSendService(deps SendDeps) domainSend.ISendUsecase {
	return &serviceSend{
		store:       deps.Store,
		client:      deps.Client,
		departments: deps.Departments,
		mediaDir:    deps.MediaDir,
		mediaBase:   strings.TrimRight(deps.MediaBase, "/"),
	}
}

// SendText records the message optimistically, dispatches it through the
// gateway and binds the confirmed remote id back onto the local record.
func (service serviceSend) SendText(ctx context.Context, request domainSend.TextRequest) (domainSend.Response, error) {
	if err := validations.ValidateSendText(ctx, request); err != nil {
		return domainSend.Response{}, err
	}

	local := service.store.ApplyLocalMessage(ctx, request.Phone, request.Message)

	if err := service.client.SetPresence(ctx, request.Phone, "composing"); err != nil {
		logrus.WithError(err).Debug("[SEND] Presence update failed")
	}
	remoteID, err := service.client.SendText(ctx, request.Phone, request.Message)
	if err != nil {
		logrus.WithError(err).WithField("phone", request.Phone).Error("[SEND] Failed to send text")
		return domainSend.Response{}, err
	}
	service.store.AttachRemoteID(ctx, request.Phone, local.ID, remoteID)

	logrus.WithFields(logrus.Fields{
		"message_id": remoteID,
		"phone":      request.Phone,
	}).Info("[SEND] Message sent")

	return domainSend.Response{MessageID: remoteID, Status: "sent"}, nil
}

// SendMedia stores the uploaded file locally and hands the gateway a URL it
// can fetch, since the gateway sends media by reference.
func (service serviceSend) SendMedia(ctx context.Context, request domainSend.MediaRequest) (domainSend.Response, error) {
	if err := validations.ValidateSendMedia(ctx, request); err != nil {
		return domainSend.Response{}, err
	}

	ext := filepath.Ext(request.File.Filename)
	filename := fmt.Sprintf("%s%s", fiberUtils.UUIDv4(), ext)
	savePath := filepath.Join(service.mediaDir, filename)
	if err := fasthttp.SaveMultipartFile(request.File, savePath); err != nil {
		logrus.WithError(err).Error("[SEND] Failed to store uploaded media")
		return domainSend.Response{}, pkgError.ValidationError("failed to store uploaded file")
	}

	mediaURL := service.mediaBase + "/" + filename
	remoteID, err := service.client.SendMedia(ctx, request.Phone, mediaURL, mediaTypeFor(ext), request.Caption)
	if err != nil {
		logrus.WithError(err).WithField("phone", request.Phone).Error("[SEND] Failed to send media")
		return domainSend.Response{}, err
	}

	caption := request.Caption
	if caption == "" {
		caption = request.File.Filename
	}
	local := service.store.ApplyLocalMessage(ctx, request.Phone, caption)
	service.store.AttachRemoteID(ctx, request.Phone, local.ID, remoteID)

	return domainSend.Response{MessageID: remoteID, Status: "sent"}, nil
}

// SendDepartmentMenu re-issues the greeting and numbered department list on
// demand, for chats where the automatic prompt was missed or needs resending.
func (service serviceSend) SendDepartmentMenu(ctx context.Context, phone string) (domainSend.Response, error) {
	if phone == "" {
		return domainSend.Response{}, pkgError.ValidationError("phone: cannot be blank.")
	}

	departments, err := service.departments.List(ctx)
	if err != nil {
		return domainSend.Response{}, err
	}
	if len(departments) == 0 {
		return domainSend.Response{}, pkgError.ValidationError("no departments configured")
	}

	menu := reconcile.ComposeMenu(time.Now(), departments)
	remoteID, err := service.client.SendText(ctx, phone, menu)
	if err != nil {
		return domainSend.Response{}, err
	}
	return domainSend.Response{MessageID: remoteID, Status: "sent"}, nil
}

func mediaTypeFor(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return "image"
	case ".mp4", ".mov", ".avi":
		return "video"
	case ".mp3", ".ogg", ".m4a", ".wav":
		return "audio"
	default:
		return "document"
	}
}
