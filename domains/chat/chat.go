package chat

import (
	"context"
	"time"
)

// Status is the lifecycle state of a chat.
type Status string

const (
	StatusOpen    Status = "open"
	StatusPending Status = "pending"
	StatusClosed  Status = "closed"
)

// Role identifies who produced a message.
type Role string

const (
	RoleUser   Role = "user"
	RoleAgent  Role = "agent"
	RoleSystem Role = "system"
)

// DeliveryStatus tracks gateway acknowledgement of an outbound message.
type DeliveryStatus string

const (
	DeliverySent      DeliveryStatus = "sent"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryRead      DeliveryStatus = "read"
)

// Message is one entry in a chat transcript. RemoteID is assigned by the
// gateway asynchronously after a send; until then only the local ID is set.
type Message struct {
	ID        string         `json:"id"`
	RemoteID  string         `json:"remote_id,omitempty"`
	Content   string         `json:"content"`
	Sender    Role           `json:"sender"`
	// SenderJID is the raw transport identity of the author, when known. The
	// consolidator uses it to resolve alias-keyed chats to a phone number.
	SenderJID string `json:"sender_jid,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Status    DeliveryStatus `json:"status,omitempty"`
	MediaURL  string         `json:"media_url,omitempty"`
	MediaType string         `json:"media_type,omitempty"`
	// ReplyToID is a non-owning back-reference, resolved by id lookup only.
	ReplyToID string `json:"reply_to_id,omitempty"`
}

// Chat is one logical conversation with a contact. ID is the canonical phone
// key when the contact is resolved, otherwise the transport alias. Messages
// are kept time-ordered by the reconciliation engine.
type Chat struct {
	ID        string `json:"id"`
	RemoteJID string `json:"remote_jid"`
	Phone     string `json:"phone,omitempty"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar,omitempty"`

	DepartmentID   string `json:"department_id,omitempty"`
	AssignedUserID string `json:"assigned_user_id,omitempty"`

	Status   Status    `json:"status"`
	Messages []Message `json:"messages"`

	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`

	MenuSent          bool `json:"menu_sent"`
	AwaitingSelection bool `json:"awaiting_selection"`
	AwaitingRating    bool `json:"awaiting_rating"`
	Rating            int  `json:"rating,omitempty"`

	UnreadCount int `json:"unread_count"`

	// StatusChangedAt guards against a stale fetch downgrading a locally
	// advanced status.
	StatusChangedAt time.Time `json:"status_changed_at"`
}

// HasNumericIdentity reports whether the chat is keyed by a resolved phone
// number rather than a transport alias.
func (c *Chat) HasNumericIdentity() bool {
	return c.Phone != ""
}

type ListChatsRequest struct {
	Status       string `json:"status" query:"status"`
	DepartmentID string `json:"department_id" query:"department_id"`
	Search       string `json:"search" query:"search"`
}

type GetChatMessagesRequest struct {
	ChatID string `json:"chat_id" uri:"chat_id"`
	Limit  int    `json:"limit" query:"limit"`
}

type CloseChatRequest struct {
	ChatID string `json:"chat_id" uri:"chat_id"`
}

type AssignChatRequest struct {
	ChatID       string `json:"chat_id" uri:"chat_id"`
	DepartmentID string `json:"department_id" form:"department_id"`
	UserID       string `json:"user_id" form:"user_id"`
}

type RateChatRequest struct {
	ChatID string `json:"chat_id" uri:"chat_id"`
	Rating int    `json:"rating" form:"rating"`
}

type IChatUsecase interface {
	ListChats(ctx context.Context, request ListChatsRequest) ([]Chat, error)
	GetChatMessages(ctx context.Context, request GetChatMessagesRequest) ([]Message, error)
	CloseChat(ctx context.Context, request CloseChatRequest) (Chat, error)
	AssignChat(ctx context.Context, request AssignChatRequest) (Chat, error)
	// RateChat records a satisfaction score collected outside the automatic
	// post-close prompt, e.g. relayed from a phone call.
	RateChat(ctx context.Context, request RateChatRequest) (Chat, error)
}

// IChatRepository persists reconciled chats. The inbox store is the single
// writer; reads serve cold start and the REST layer.
type IChatRepository interface {
	InitSchema(ctx context.Context) error
	UpsertChat(ctx context.Context, c *Chat) error
	GetChat(ctx context.Context, id string) (*Chat, error)
	ListChats(ctx context.Context) ([]Chat, error)
	DeleteChat(ctx context.Context, id string) error
	ClearDepartment(ctx context.Context, departmentID string) error
}
