package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	domainWorkflow "github.com/zapdesk/zapdesk/domains/workflow"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
)

type serviceWorkflow struct {
	repo domainWorkflow.IWorkflowRepository
}

func NewWorkflowService(repo domainWorkflow.IWorkflowRepository) domainWorkflow.IWorkflowUsecase {
	return &serviceWorkflow{repo: repo}
}

func (service serviceWorkflow) List(ctx context.Context) ([]domainWorkflow.Workflow, error) {
	return service.repo.List(ctx)
}

func (service serviceWorkflow) Create(ctx context.Context, request domainWorkflow.SaveRequest) (domainWorkflow.Workflow, error) {
	if request.Name == "" || request.Keyword == "" {
		return domainWorkflow.Workflow{}, pkgError.ValidationError("name and keyword are required")
	}

	now := time.Now().UTC()
	w := domainWorkflow.Workflow{
		ID:        uuid.New().String(),
		Name:      request.Name,
		Keyword:   strings.ToLower(request.Keyword),
		Enabled:   true,
		Steps:     normalizeSteps(request.Steps),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if request.Enabled != nil {
		w.Enabled = *request.Enabled
	}
	if err := service.repo.Create(ctx, &w); err != nil {
		return domainWorkflow.Workflow{}, err
	}
	return w, nil
}

func (service serviceWorkflow) Update(ctx context.Context, request domainWorkflow.SaveRequest) (domainWorkflow.Workflow, error) {
	if request.ID == "" {
		return domainWorkflow.Workflow{}, pkgError.ValidationError("id is required")
	}

	w, err := service.repo.GetByID(ctx, request.ID)
	if err != nil {
		return domainWorkflow.Workflow{}, err
	}
	if request.Name != "" {
		w.Name = request.Name
	}
	if request.Keyword != "" {
		w.Keyword = strings.ToLower(request.Keyword)
	}
	if request.Enabled != nil {
		w.Enabled = *request.Enabled
	}
	if request.Steps != nil {
		w.Steps = normalizeSteps(request.Steps)
	}
	w.UpdatedAt = time.Now().UTC()

	if err := service.repo.Update(ctx, w); err != nil {
		return domainWorkflow.Workflow{}, err
	}
	return *w, nil
}

func (service serviceWorkflow) Delete(ctx context.Context, id string) error {
	if _, err := service.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return service.repo.Delete(ctx, id)
}

// Match returns the first enabled workflow whose keyword occurs in the
// message content, case-insensitively. Nil without error means no match.
func (service serviceWorkflow) Match(ctx context.Context, content string) (*domainWorkflow.Workflow, error) {
	workflows, err := service.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(content)
	for _, w := range workflows {
		if !w.Enabled || w.Keyword == "" {
			continue
		}
		if strings.Contains(lowered, w.Keyword) {
			matched := w
			return &matched, nil
		}
	}
	return nil, nil
}

// normalizeSteps renumbers positions to a dense 1..n sequence preserving the
// requested order.
func normalizeSteps(steps []domainWorkflow.Step) []domainWorkflow.Step {
	out := append([]domainWorkflow.Step(nil), steps...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}
