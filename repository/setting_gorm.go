package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainSetting "github.com/zapdesk/zapdesk/domains/setting"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
)

type settingModel struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (settingModel) TableName() string { return "settings" }

type SettingGormRepository struct {
	db *gorm.DB
}

func NewSettingGormRepository(db *gorm.DB) *SettingGormRepository {
	return &SettingGormRepository{db: db}
}

func (r *SettingGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&settingModel{})
}

func (r *SettingGormRepository) List(ctx context.Context) ([]domainSetting.Setting, error) {
	var models []settingModel
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domainSetting.Setting, len(models))
	for i, m := range models {
		res[i] = domainSetting.Setting{Key: m.Key, Value: m.Value, UpdatedAt: m.UpdatedAt}
	}
	return res, nil
}

func (r *SettingGormRepository) Get(ctx context.Context, key string) (*domainSetting.Setting, error) {
	var m settingModel
	if err := r.db.WithContext(ctx).First(&m, "key = ?", key).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgError.NotFoundError("setting not found")
		}
		return nil, err
	}
	return &domainSetting.Setting{Key: m.Key, Value: m.Value, UpdatedAt: m.UpdatedAt}, nil
}

func (r *SettingGormRepository) Upsert(ctx context.Context, s *domainSetting.Setting) error {
	model := settingModel{Key: s.Key, Value: s.Value, UpdatedAt: s.UpdatedAt}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&model).Error
}

func (r *SettingGormRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&settingModel{}, "key = ?", key).Error
}
