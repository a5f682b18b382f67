package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	pkgError "github.com/zapdesk/zapdesk/pkg/error"
	domainWorkflow "github.com/zapdesk/zapdesk/domains/workflow"
)

type workflowModel struct {
	ID      string `gorm:"primaryKey;column:id"`
	Name    string `gorm:"column:name;not null"`
	Keyword string `gorm:"column:keyword;not null;index"`
	Enabled bool   `gorm:"column:enabled;default:true"`
	// Steps is a JSON array; step ordering lives inside the document.
	Steps     string    `gorm:"column:steps;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (workflowModel) TableName() string { return "workflows" }

type WorkflowGormRepository struct {
	db *gorm.DB
}

func NewWorkflowGormRepository(db *gorm.DB) *WorkflowGormRepository {
	return &WorkflowGormRepository{db: db}
}

func (r *WorkflowGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&workflowModel{})
}

func (r *WorkflowGormRepository) List(ctx context.Context) ([]domainWorkflow.Workflow, error) {
	var models []workflowModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domainWorkflow.Workflow, len(models))
	for i, m := range models {
		res[i] = fromWorkflowModel(m)
	}
	return res, nil
}

func (r *WorkflowGormRepository) GetByID(ctx context.Context, id string) (*domainWorkflow.Workflow, error) {
	var m workflowModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgError.NotFoundError("workflow not found")
		}
		return nil, err
	}
	w := fromWorkflowModel(m)
	return &w, nil
}

func (r *WorkflowGormRepository) Create(ctx context.Context, w *domainWorkflow.Workflow) error {
	model := toWorkflowModel(*w)
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *WorkflowGormRepository) Update(ctx context.Context, w *domainWorkflow.Workflow) error {
	model := toWorkflowModel(*w)
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *WorkflowGormRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&workflowModel{}, "id = ?", id).Error
}

func toWorkflowModel(w domainWorkflow.Workflow) workflowModel {
	steps, _ := json.Marshal(w.Steps)
	return workflowModel{
		ID:        w.ID,
		Name:      w.Name,
		Keyword:   w.Keyword,
		Enabled:   w.Enabled,
		Steps:     string(steps),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func fromWorkflowModel(m workflowModel) domainWorkflow.Workflow {
	w := domainWorkflow.Workflow{
		ID:        m.ID,
		Name:      m.Name,
		Keyword:   m.Keyword,
		Enabled:   m.Enabled,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Steps != "" && m.Steps != "null" {
		_ = json.Unmarshal([]byte(m.Steps), &w.Steps)
	}
	return w
}
