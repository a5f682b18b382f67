package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainSetting "github.com/zapdesk/zapdesk/domains/setting"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
)

func TestSettingRepo_UpsertOverwrites(t *testing.T) {
	db := openTestDB(t)
	repo := NewSettingGormRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.InitSchema(ctx))

	now := time.Now().UTC()
	require.NoError(t, repo.Upsert(ctx, &domainSetting.Setting{Key: "greeting_enabled", Value: "true", UpdatedAt: now}))
	require.NoError(t, repo.Upsert(ctx, &domainSetting.Setting{Key: "greeting_enabled", Value: "false", UpdatedAt: now.Add(time.Minute)}))

	got, err := repo.Get(ctx, "greeting_enabled")
	require.NoError(t, err)
	assert.Equal(t, "false", got.Value)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSettingRepo_GetMissing(t *testing.T) {
	db := openTestDB(t)
	repo := NewSettingGormRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.InitSchema(ctx))

	_, err := repo.Get(ctx, "nope")
	require.Error(t, err)
	assert.IsType(t, pkgError.NotFoundError(""), err)
}
