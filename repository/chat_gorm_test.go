package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domainChat "github.com/zapdesk/zapdesk/domains/chat"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func sampleChat(ts time.Time) domainChat.Chat {
	return domainChat.Chat{
		ID:        "5511999998888",
		RemoteJID: "5511999998888@s.whatsapp.net",
		Phone:     "5511999998888",
		Name:      "Maria",
		Status:    domainChat.StatusOpen,
		Messages: []domainChat.Message{
			{ID: "M1", RemoteID: "M1", Content: "oi", Sender: domainChat.RoleUser, Timestamp: ts},
			{ID: "M2", RemoteID: "M2", Content: "ola", Sender: domainChat.RoleAgent, Timestamp: ts.Add(time.Minute)},
		},
		LastMessage:   "ola",
		LastMessageAt: ts.Add(time.Minute),
	}
}

func TestChatGormRepository_UpsertRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewChatGormRepository(openTestDB(t))
	require.NoError(t, repo.InitSchema(ctx))

	ts := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	c := sampleChat(ts)
	require.NoError(t, repo.UpsertChat(ctx, &c))

	got, err := repo.GetChat(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.Name)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "oi", got.Messages[0].Content)
	assert.Equal(t, domainChat.RoleAgent, got.Messages[1].Sender)
}

func TestChatGormRepository_UpsertReplacesTranscript(t *testing.T) {
	ctx := context.Background()
	repo := NewChatGormRepository(openTestDB(t))
	require.NoError(t, repo.InitSchema(ctx))

	ts := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	c := sampleChat(ts)
	require.NoError(t, repo.UpsertChat(ctx, &c))

	c.Status = domainChat.StatusPending
	c.DepartmentID = "d1"
	c.Messages = append(c.Messages, domainChat.Message{
		ID: "M3", RemoteID: "M3", Content: "pode me ajudar?", Sender: domainChat.RoleUser, Timestamp: ts.Add(2 * time.Minute),
	})
	require.NoError(t, repo.UpsertChat(ctx, &c))

	got, err := repo.GetChat(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domainChat.StatusPending, got.Status)
	assert.Equal(t, "d1", got.DepartmentID)
	assert.Len(t, got.Messages, 3)
}

func TestChatGormRepository_GetChatNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewChatGormRepository(openTestDB(t))
	require.NoError(t, repo.InitSchema(ctx))

	_, err := repo.GetChat(ctx, "missing")
	require.Error(t, err)
	_, ok := err.(pkgError.GenericError)
	assert.True(t, ok)
}

func TestChatGormRepository_ClearDepartment(t *testing.T) {
	ctx := context.Background()
	repo := NewChatGormRepository(openTestDB(t))
	require.NoError(t, repo.InitSchema(ctx))

	ts := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	c := sampleChat(ts)
	c.DepartmentID = "d1"
	require.NoError(t, repo.UpsertChat(ctx, &c))

	require.NoError(t, repo.ClearDepartment(ctx, "d1"))

	got, err := repo.GetChat(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, got.DepartmentID)
}

func TestChatGormRepository_ListOrdersByActivity(t *testing.T) {
	ctx := context.Background()
	repo := NewChatGormRepository(openTestDB(t))
	require.NoError(t, repo.InitSchema(ctx))

	ts := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	older := sampleChat(ts)
	newer := sampleChat(ts)
	newer.ID = "5511999991111"
	newer.RemoteJID = "5511999991111@s.whatsapp.net"
	newer.Phone = "5511999991111"
	newer.LastMessageAt = ts.Add(time.Hour)
	newer.Messages = nil

	require.NoError(t, repo.UpsertChat(ctx, &older))
	require.NoError(t, repo.UpsertChat(ctx, &newer))

	chats, err := repo.ListChats(ctx)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "5511999991111", chats[0].ID)
	assert.Len(t, chats[1].Messages, 2)
}
