package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainChat "github.com/zapdesk/zapdesk/domains/chat"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
)

// --- Persistence Models ---

type chatModel struct {
	ID             string `gorm:"primaryKey;column:id"`
	RemoteJID      string `gorm:"column:remote_jid;index"`
	Phone          string `gorm:"column:phone;index"`
	Name           string `gorm:"column:name"`
	Avatar         string `gorm:"column:avatar"`
	DepartmentID   string `gorm:"column:department_id;index"`
	AssignedUserID string `gorm:"column:assigned_user_id"`
	Status         string `gorm:"column:status;default:'open';index"`

	LastMessage   string    `gorm:"column:last_message"`
	LastMessageAt time.Time `gorm:"column:last_message_at;index"`

	MenuSent          bool `gorm:"column:menu_sent;default:false"`
	AwaitingSelection bool `gorm:"column:awaiting_selection;default:false"`
	AwaitingRating    bool `gorm:"column:awaiting_rating;default:false"`
	Rating            int  `gorm:"column:rating;default:0"`
	UnreadCount       int  `gorm:"column:unread_count;default:0"`

	StatusChangedAt time.Time `gorm:"column:status_changed_at"`
	CreatedAt       time.Time `gorm:"column:created_at;not null"`
	UpdatedAt       time.Time `gorm:"column:updated_at;not null"`
}

func (chatModel) TableName() string { return "chats" }

type messageModel struct {
	ID        string    `gorm:"primaryKey;column:id"`
	ChatID    string    `gorm:"column:chat_id;not null;index"`
	RemoteID  string    `gorm:"column:remote_id;index"`
	Content   string    `gorm:"column:content;type:text"`
	Sender    string    `gorm:"column:sender;not null"`
	SenderJID string    `gorm:"column:sender_jid"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index"`
	Status    string    `gorm:"column:status"`
	MediaURL  string    `gorm:"column:media_url"`
	MediaType string    `gorm:"column:media_type"`
	ReplyToID string    `gorm:"column:reply_to_id"`
}

func (messageModel) TableName() string { return "messages" }

// --- Repository Implementation ---

type ChatGormRepository struct {
	db *gorm.DB
}

func NewChatGormRepository(db *gorm.DB) *ChatGormRepository {
	return &ChatGormRepository{db: db}
}

func (r *ChatGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&chatModel{}, &messageModel{})
}

// UpsertChat mirrors an in-memory chat into storage. The store merges
// transcripts before calling here, so the persisted message set is replaced
// wholesale inside one transaction.
func (r *ChatGormRepository) UpsertChat(ctx context.Context, c *domainChat.Chat) error {
	model := toChatModel(*c)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&model).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", c.ID).Delete(&messageModel{}).Error; err != nil {
			return err
		}
		if len(c.Messages) == 0 {
			return nil
		}
		rows := make([]messageModel, len(c.Messages))
		for i, m := range c.Messages {
			rows[i] = toMessageModel(c.ID, m)
		}
		return tx.Create(&rows).Error
	})
}

func (r *ChatGormRepository) GetChat(ctx context.Context, id string) (*domainChat.Chat, error) {
	var m chatModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgError.NotFoundError("chat not found")
		}
		return nil, err
	}
	c := fromChatModel(m)

	var rows []messageModel
	if err := r.db.WithContext(ctx).Where("chat_id = ?", id).Order("timestamp ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		c.Messages = append(c.Messages, fromMessageModel(row))
	}
	return &c, nil
}

func (r *ChatGormRepository) ListChats(ctx context.Context) ([]domainChat.Chat, error) {
	var models []chatModel
	if err := r.db.WithContext(ctx).Order("last_message_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	var rows []messageModel
	if err := r.db.WithContext(ctx).Order("timestamp ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	byChat := make(map[string][]domainChat.Message, len(models))
	for _, row := range rows {
		byChat[row.ChatID] = append(byChat[row.ChatID], fromMessageModel(row))
	}

	res := make([]domainChat.Chat, len(models))
	for i, m := range models {
		c := fromChatModel(m)
		c.Messages = byChat[m.ID]
		res[i] = c
	}
	return res, nil
}

func (r *ChatGormRepository) DeleteChat(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", id).Delete(&messageModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&chatModel{}, "id = ?", id).Error
	})
}

// ClearDepartment nulls the routing reference on every chat pointing at a
// deleted department. Chats themselves are never cascaded.
func (r *ChatGormRepository) ClearDepartment(ctx context.Context, departmentID string) error {
	return r.db.WithContext(ctx).Model(&chatModel{}).
		Where("department_id = ?", departmentID).
		Update("department_id", "").Error
}

// --- Mappers ---

func toChatModel(c domainChat.Chat) chatModel {
	return chatModel{
		ID:                c.ID,
		RemoteJID:         c.RemoteJID,
		Phone:             c.Phone,
		Name:              c.Name,
		Avatar:            c.Avatar,
		DepartmentID:      c.DepartmentID,
		AssignedUserID:    c.AssignedUserID,
		Status:            string(c.Status),
		LastMessage:       c.LastMessage,
		LastMessageAt:     c.LastMessageAt,
		MenuSent:          c.MenuSent,
		AwaitingSelection: c.AwaitingSelection,
		AwaitingRating:    c.AwaitingRating,
		Rating:            c.Rating,
		UnreadCount:       c.UnreadCount,
		StatusChangedAt:   c.StatusChangedAt,
	}
}

func fromChatModel(m chatModel) domainChat.Chat {
	return domainChat.Chat{
		ID:                m.ID,
		RemoteJID:         m.RemoteJID,
		Phone:             m.Phone,
		Name:              m.Name,
		Avatar:            m.Avatar,
		DepartmentID:      m.DepartmentID,
		AssignedUserID:    m.AssignedUserID,
		Status:            domainChat.Status(m.Status),
		LastMessage:       m.LastMessage,
		LastMessageAt:     m.LastMessageAt,
		MenuSent:          m.MenuSent,
		AwaitingSelection: m.AwaitingSelection,
		AwaitingRating:    m.AwaitingRating,
		Rating:            m.Rating,
		UnreadCount:       m.UnreadCount,
		StatusChangedAt:   m.StatusChangedAt,
	}
}

func toMessageModel(chatID string, m domainChat.Message) messageModel {
	return messageModel{
		ID:        m.ID,
		ChatID:    chatID,
		RemoteID:  m.RemoteID,
		Content:   m.Content,
		Sender:    string(m.Sender),
		SenderJID: m.SenderJID,
		Timestamp: m.Timestamp,
		Status:    string(m.Status),
		MediaURL:  m.MediaURL,
		MediaType: m.MediaType,
		ReplyToID: m.ReplyToID,
	}
}

func fromMessageModel(m messageModel) domainChat.Message {
	return domainChat.Message{
		ID:        m.ID,
		RemoteID:  m.RemoteID,
		Content:   m.Content,
		Sender:    domainChat.Role(m.Sender),
		SenderJID: m.SenderJID,
		Timestamp: m.Timestamp,
		Status:    domainChat.DeliveryStatus(m.Status),
		MediaURL:  m.MediaURL,
		MediaType: m.MediaType,
		ReplyToID: m.ReplyToID,
	}
}
