package usecase

import (
	"context"
	"strings"
	"time"

	domainSetting "github.com/zapdesk/zapdesk/domains/setting"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
)

type serviceSetting struct {
	repo domainSetting.ISettingRepository
}

func NewSettingService(repo domainSetting.ISettingRepository) domainSetting.ISettingUsecase {
	return &serviceSetting{repo: repo}
}

func (service serviceSetting) List(ctx context.Context) ([]domainSetting.Setting, error) {
	return service.repo.List(ctx)
}

func (service serviceSetting) Get(ctx context.Context, key string) (domainSetting.Setting, error) {
	s, err := service.repo.Get(ctx, key)
	if err != nil {
		return domainSetting.Setting{}, err
	}
	return *s, nil
}

func (service serviceSetting) Set(ctx context.Context, request domainSetting.SaveRequest) (domainSetting.Setting, error) {
	key := strings.TrimSpace(request.Key)
	if key == "" {
		return domainSetting.Setting{}, pkgError.ValidationError("key is required")
	}

	s := domainSetting.Setting{
		Key:       key,
		Value:     request.Value,
		UpdatedAt: time.Now().UTC(),
	}
	if err := service.repo.Upsert(ctx, &s); err != nil {
		return domainSetting.Setting{}, err
	}
	return s, nil
}

func (service serviceSetting) Delete(ctx context.Context, key string) error {
	if _, err := service.repo.Get(ctx, key); err != nil {
		return err
	}
	return service.repo.Delete(ctx, key)
}
