package usecase

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	domainChat "github.com/zapdesk/zapdesk/domains/chat"
	"github.com/zapdesk/zapdesk/inbox"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
)

// ReadMarker acknowledges unread messages at the gateway.
type ReadMarker interface {
	MarkRead(ctx context.Context, chatJID string) error
}

type serviceChat struct {
	store  *inbox.Store
	marker ReadMarker
}

func NewChatService(store *inbox.Store, marker ReadMarker) domainChat.IChatUsecase {
	return &serviceChat{store: store, marker: marker}
}

// ListChats serves the console inbox from the live in-memory collection, so
// agents always see the latest reconciled state rather than a storage read.
func (service serviceChat) ListChats(ctx context.Context, request domainChat.ListChatsRequest) ([]domainChat.Chat, error) {
	chats := service.store.Snapshot()

	filtered := make([]domainChat.Chat, 0, len(chats))
	for _, c := range chats {
		if request.Status != "" && string(c.Status) != request.Status {
			continue
		}
		if request.DepartmentID != "" && c.DepartmentID != request.DepartmentID {
			continue
		}
		if request.Search != "" && !matchesSearch(c, request.Search) {
			continue
		}
		// The inbox list carries summaries only; transcripts load on demand.
		c.Messages = nil
		filtered = append(filtered, c)
	}
	return filtered, nil
}

func (service serviceChat) GetChatMessages(ctx context.Context, request domainChat.GetChatMessagesRequest) ([]domainChat.Message, error) {
	c, ok := service.store.Get(request.ChatID)
	if !ok {
		return nil, pkgError.NotFoundError("chat not found")
	}

	// Opening the transcript counts as reading it.
	if c.UnreadCount > 0 {
		service.store.MarkRead(ctx, c.ID)
		if service.marker != nil {
			if err := service.marker.MarkRead(ctx, c.RemoteJID); err != nil {
				logrus.WithError(err).Debugf("[CHAT] Read acknowledgement failed for %s", c.RemoteJID)
			}
		}
	}

	msgs := c.Messages
	if request.Limit > 0 && len(msgs) > request.Limit {
		msgs = msgs[len(msgs)-request.Limit:]
	}
	return msgs, nil
}

func (service serviceChat) CloseChat(ctx context.Context, request domainChat.CloseChatRequest) (domainChat.Chat, error) {
	c, ok := service.store.CloseChat(ctx, request.ChatID)
	if !ok {
		return domainChat.Chat{}, pkgError.NotFoundError("chat not found")
	}
	return c, nil
}

func (service serviceChat) AssignChat(ctx context.Context, request domainChat.AssignChatRequest) (domainChat.Chat, error) {
	if request.DepartmentID == "" && request.UserID == "" {
		return domainChat.Chat{}, pkgError.ValidationError("department_id or user_id is required")
	}
	c, ok := service.store.AssignChat(ctx, request.ChatID, request.DepartmentID, request.UserID)
	if !ok {
		return domainChat.Chat{}, pkgError.NotFoundError("chat not found")
	}
	return c, nil
}

func (service serviceChat) RateChat(ctx context.Context, request domainChat.RateChatRequest) (domainChat.Chat, error) {
	if request.Rating < 1 || request.Rating > 5 {
		return domainChat.Chat{}, pkgError.ValidationError("rating must be between 1 and 5")
	}
	c, ok := service.store.RecordRating(ctx, request.ChatID, request.Rating)
	if !ok {
		return domainChat.Chat{}, pkgError.NotFoundError("chat not found")
	}
	return c, nil
}

func matchesSearch(c domainChat.Chat, search string) bool {
	s := strings.ToLower(search)
	return strings.Contains(strings.ToLower(c.Name), s) ||
		strings.Contains(c.Phone, search) ||
		strings.Contains(strings.ToLower(c.LastMessage), s)
}
