package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domainContact "github.com/zapdesk/zapdesk/domains/contact"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
)

type contactModel struct {
	ID         string     `gorm:"primaryKey;column:id"`
	Phone      string     `gorm:"column:phone;not null;uniqueIndex"`
	Name       string     `gorm:"column:name;not null"`
	Avatar     string     `gorm:"column:avatar"`
	Provenance string     `gorm:"column:provenance;default:'manual'"`
	LastSyncAt *time.Time `gorm:"column:last_sync_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;not null"`
}

func (contactModel) TableName() string { return "contacts" }

type ContactGormRepository struct {
	db *gorm.DB
}

func NewContactGormRepository(db *gorm.DB) *ContactGormRepository {
	return &ContactGormRepository{db: db}
}

func (r *ContactGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&contactModel{})
}

func (r *ContactGormRepository) List(ctx context.Context, search string) ([]domainContact.Contact, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR phone LIKE ?", like, like)
	}
	var models []contactModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domainContact.Contact, len(models))
	for i, m := range models {
		res[i] = fromContactModel(m)
	}
	return res, nil
}

func (r *ContactGormRepository) GetByID(ctx context.Context, id string) (*domainContact.Contact, error) {
	var m contactModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgError.NotFoundError("contact not found")
		}
		return nil, err
	}
	c := fromContactModel(m)
	return &c, nil
}

func (r *ContactGormRepository) GetByPhone(ctx context.Context, phone string) (*domainContact.Contact, error) {
	var m contactModel
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgError.NotFoundError("contact not found")
		}
		return nil, err
	}
	c := fromContactModel(m)
	return &c, nil
}

func (r *ContactGormRepository) Create(ctx context.Context, c *domainContact.Contact) error {
	model := toContactModel(*c)
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *ContactGormRepository) Update(ctx context.Context, c *domainContact.Contact) error {
	model := toContactModel(*c)
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *ContactGormRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&contactModel{}, "id = ?", id).Error
}

func toContactModel(c domainContact.Contact) contactModel {
	return contactModel{
		ID:         c.ID,
		Phone:      c.Phone,
		Name:       c.Name,
		Avatar:     c.Avatar,
		Provenance: string(c.Provenance),
		LastSyncAt: c.LastSyncAt,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func fromContactModel(m contactModel) domainContact.Contact {
	return domainContact.Contact{
		ID:         m.ID,
		Phone:      m.Phone,
		Name:       m.Name,
		Avatar:     m.Avatar,
		Provenance: domainContact.Provenance(m.Provenance),
		LastSyncAt: m.LastSyncAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
