package inbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainChat "github.com/zapdesk/zapdesk/domains/chat"
	"github.com/zapdesk/zapdesk/infrastructure/evolution"
)

func TestFromRawChat(t *testing.T) {
	t.Run("keys chat by canonical phone", func(t *testing.T) {
		c, ok := FromRawChat(evolution.RawChat{
			RemoteJID:   "5511999998888@s.whatsapp.net",
			Name:        "Maria",
			UnreadCount: 3,
		})
		require.True(t, ok)
		assert.Equal(t, "5511999998888", c.ID)
		assert.Equal(t, "5511999998888", c.Phone)
		assert.Equal(t, "Maria", c.Name)
		assert.Equal(t, 3, c.UnreadCount)
	})

	t.Run("resolves alias through lid field", func(t *testing.T) {
		c, ok := FromRawChat(evolution.RawChat{
			RemoteJID: "abc123@lid",
			LID:       "5511999998888@s.whatsapp.net",
		})
		require.True(t, ok)
		assert.Equal(t, "5511999998888", c.ID)
	})

	t.Run("keeps unresolvable alias under raw jid", func(t *testing.T) {
		c, ok := FromRawChat(evolution.RawChat{RemoteJID: "abc123@lid"})
		require.True(t, ok)
		assert.Equal(t, "abc123@lid", c.ID)
		assert.Empty(t, c.Phone)
	})

	t.Run("rejects group chats", func(t *testing.T) {
		_, ok := FromRawChat(evolution.RawChat{RemoteJID: "12036304@g.us"})
		assert.False(t, ok)

		_, ok = FromRawChat(evolution.RawChat{RemoteJID: "5511999998888@s.whatsapp.net", IsGroup: true})
		assert.False(t, ok)
	})
}

func TestFromRawMessage(t *testing.T) {
	msg := FromRawMessage(evolution.RawMessage{
		ID:        "M1",
		RemoteID:  "M1",
		Content:   "oi",
		SenderPN:  "5511999998888@s.whatsapp.net",
		SenderLID: "abc123@lid",
		Timestamp: 1717250400,
		Status:    "read",
	})
	assert.Equal(t, domainChat.RoleUser, msg.Sender)
	assert.Equal(t, "5511999998888@s.whatsapp.net", msg.SenderJID, "phone identity wins over the alias")
	assert.Equal(t, domainChat.DeliveryRead, msg.Status)
	assert.Equal(t, time.Unix(1717250400, 0).UTC(), msg.Timestamp)

	agent := FromRawMessage(evolution.RawMessage{ID: "M2", Content: "ola", FromMe: true, Timestamp: 1717250460})
	assert.Equal(t, domainChat.RoleAgent, agent.Sender)
	assert.Equal(t, domainChat.DeliverySent, agent.Status)
}

func TestChatForEvent(t *testing.T) {
	c, ok := chatForEvent(evolution.RawMessage{
		ID:        "M1",
		ChatJID:   "5511999998888@s.whatsapp.net",
		Content:   "oi",
		Timestamp: 1717250400,
	})
	require.True(t, ok)
	assert.Equal(t, "5511999998888", c.ID)
	require.Len(t, c.Messages, 1)
	assert.Equal(t, "oi", c.Messages[0].Content)

	_, ok = chatForEvent(evolution.RawMessage{ID: "M2", ChatJID: "12036304@g.us"})
	assert.False(t, ok)
}
