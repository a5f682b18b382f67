package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	pkgError "github.com/zapdesk/zapdesk/pkg/error"
	domainUser "github.com/zapdesk/zapdesk/domains/user"
)

type userModel struct {
	ID           string    `gorm:"primaryKey;column:id"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;not null;uniqueIndex"`
	Role         string    `gorm:"column:role;default:'agent'"`
	DepartmentID string    `gorm:"column:department_id;index"`
	Enabled      bool      `gorm:"column:enabled;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

func (userModel) TableName() string { return "users" }

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&userModel{})
}

func (r *UserGormRepository) List(ctx context.Context) ([]domainUser.User, error) {
	var models []userModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domainUser.User, len(models))
	for i, m := range models {
		res[i] = fromUserModel(m)
	}
	return res, nil
}

func (r *UserGormRepository) GetByID(ctx context.Context, id string) (*domainUser.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgError.NotFoundError("user not found")
		}
		return nil, err
	}
	u := fromUserModel(m)
	return &u, nil
}

func (r *UserGormRepository) Create(ctx context.Context, u *domainUser.User) error {
	model := toUserModel(*u)
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *UserGormRepository) Update(ctx context.Context, u *domainUser.User) error {
	model := toUserModel(*u)
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *UserGormRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&userModel{}, "id = ?", id).Error
}

func (r *UserGormRepository) ClearDepartment(ctx context.Context, departmentID string) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("department_id = ?", departmentID).
		Update("department_id", "").Error
}

func toUserModel(u domainUser.User) userModel {
	return userModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		DepartmentID: u.DepartmentID,
		Enabled:      u.Enabled,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func fromUserModel(m userModel) domainUser.User {
	return domainUser.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Role:         domainUser.Role(m.Role),
		DepartmentID: m.DepartmentID,
		Enabled:      m.Enabled,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
