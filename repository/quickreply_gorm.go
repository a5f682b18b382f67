package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domainQuickReply "github.com/zapdesk/zapdesk/domains/quickreply"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
)

type quickReplyModel struct {
	ID        string    `gorm:"primaryKey;column:id"`
	Shortcut  string    `gorm:"column:shortcut;not null;uniqueIndex"`
	Content   string    `gorm:"column:content;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (quickReplyModel) TableName() string { return "quick_replies" }

type QuickReplyGormRepository struct {
	db *gorm.DB
}

func NewQuickReplyGormRepository(db *gorm.DB) *QuickReplyGormRepository {
	return &QuickReplyGormRepository{db: db}
}

func (r *QuickReplyGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&quickReplyModel{})
}

func (r *QuickReplyGormRepository) List(ctx context.Context) ([]domainQuickReply.QuickReply, error) {
	var models []quickReplyModel
	if err := r.db.WithContext(ctx).Order("shortcut ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domainQuickReply.QuickReply, len(models))
	for i, m := range models {
		res[i] = fromQuickReplyModel(m)
	}
	return res, nil
}

func (r *QuickReplyGormRepository) GetByID(ctx context.Context, id string) (*domainQuickReply.QuickReply, error) {
	var m quickReplyModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgError.NotFoundError("quick reply not found")
		}
		return nil, err
	}
	q := fromQuickReplyModel(m)
	return &q, nil
}

func (r *QuickReplyGormRepository) Create(ctx context.Context, q *domainQuickReply.QuickReply) error {
	model := toQuickReplyModel(*q)
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *QuickReplyGormRepository) Update(ctx context.Context, q *domainQuickReply.QuickReply) error {
	model := toQuickReplyModel(*q)
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *QuickReplyGormRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&quickReplyModel{}, "id = ?", id).Error
}

func toQuickReplyModel(q domainQuickReply.QuickReply) quickReplyModel {
	return quickReplyModel{
		ID:        q.ID,
		Shortcut:  q.Shortcut,
		Content:   q.Content,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

func fromQuickReplyModel(m quickReplyModel) domainQuickReply.QuickReply {
	return domainQuickReply.QuickReply{
		ID:        m.ID,
		Shortcut:  m.Shortcut,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
