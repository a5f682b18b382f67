package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domainDepartment "github.com/zapdesk/zapdesk/domains/department"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
)

type departmentModel struct {
	ID        string    `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name;not null"`
	Position  int       `gorm:"column:position;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (departmentModel) TableName() string { return "departments" }

type DepartmentGormRepository struct {
	db *gorm.DB
}

func NewDepartmentGormRepository(db *gorm.DB) *DepartmentGormRepository {
	return &DepartmentGormRepository{db: db}
}

func (r *DepartmentGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&departmentModel{})
}

func (r *DepartmentGormRepository) List(ctx context.Context) ([]domainDepartment.Department, error) {
	var models []departmentModel
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domainDepartment.Department, len(models))
	for i, m := range models {
		res[i] = fromDepartmentModel(m)
	}
	return res, nil
}

func (r *DepartmentGormRepository) GetByID(ctx context.Context, id string) (*domainDepartment.Department, error) {
	var m departmentModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgError.NotFoundError("department not found")
		}
		return nil, err
	}
	d := fromDepartmentModel(m)
	return &d, nil
}

func (r *DepartmentGormRepository) Create(ctx context.Context, d *domainDepartment.Department) error {
	model := toDepartmentModel(*d)
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *DepartmentGormRepository) Update(ctx context.Context, d *domainDepartment.Department) error {
	model := toDepartmentModel(*d)
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *DepartmentGormRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&departmentModel{}, "id = ?", id).Error
}

// SavePositions rewrites the menu order in one transaction so a concurrent
// menu compose never observes a half-renumbered list.
func (r *DepartmentGormRepository) SavePositions(ctx context.Context, ordered []domainDepartment.Department) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range ordered {
			if err := tx.Model(&departmentModel{}).Where("id = ?", d.ID).
				Update("position", d.Position).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func toDepartmentModel(d domainDepartment.Department) departmentModel {
	return departmentModel{
		ID:        d.ID,
		Name:      d.Name,
		Position:  d.Position,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func fromDepartmentModel(m departmentModel) domainDepartment.Department {
	return domainDepartment.Department{
		ID:        m.ID,
		Name:      m.Name,
		Position:  m.Position,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
