package evolution

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payloadFromJSON(t *testing.T, raw string) messagePayload {
	t.Helper()
	var p messagePayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestParseMessage_Conversation(t *testing.T) {
	p := payloadFromJSON(t, `{
		"key": {"id": "MSG1", "remoteJid": "5511999998888@s.whatsapp.net", "fromMe": false},
		"messageType": "conversation",
		"messageTimestamp": 1717250000,
		"message": {"conversation": "oi, preciso de ajuda"}
	}`)

	msg, err := parseMessage(p)
	require.NoError(t, err)
	assert.Equal(t, "MSG1", msg.RemoteID)
	assert.Equal(t, "oi, preciso de ajuda", msg.Content)
	assert.Equal(t, "5511999998888@s.whatsapp.net", msg.SenderJID, "direct chats fall back to the chat jid as sender")
	assert.False(t, msg.FromMe)
}

func TestParseMessage_ExtendedTextWithQuote(t *testing.T) {
	p := payloadFromJSON(t, `{
		"key": {"id": "MSG2", "remoteJid": "5511999998888@s.whatsapp.net", "fromMe": true},
		"messageTimestamp": 1717250010,
		"message": {"extendedTextMessage": {"text": "segue o link", "contextInfo": {"stanzaId": "MSG1"}}}
	}`)

	msg, err := parseMessage(p)
	require.NoError(t, err)
	assert.Equal(t, "segue o link", msg.Content)
	assert.Equal(t, "MSG1", msg.ReplyToID)
	assert.True(t, msg.FromMe)
}

func TestParseMessage_MediaVariants(t *testing.T) {
	p := payloadFromJSON(t, `{
		"key": {"id": "MSG3", "remoteJid": "5511999998888@s.whatsapp.net"},
		"messageTimestamp": 1717250020,
		"message": {"imageMessage": {"url": "https://cdn/img.jpg", "caption": "comprovante"}}
	}`)

	msg, err := parseMessage(p)
	require.NoError(t, err)
	assert.Equal(t, "comprovante", msg.Content)
	assert.Equal(t, "https://cdn/img.jpg", msg.MediaURL)
	assert.Equal(t, "image", msg.Type)
}

func TestParseMessage_LIDSenderFields(t *testing.T) {
	p := payloadFromJSON(t, `{
		"key": {"id": "MSG4", "remoteJid": "abc123@lid", "participant": "abc123@lid"},
		"participantPn": "5511999998888@s.whatsapp.net",
		"participantLid": "abc123@lid",
		"messageTimestamp": 1717250030,
		"message": {"conversation": "oi"}
	}`)

	msg, err := parseMessage(p)
	require.NoError(t, err)
	assert.Equal(t, "5511999998888@s.whatsapp.net", msg.SenderIdentity(), "phone field wins over the alias")
}

func TestParseMessage_UnknownVariantSkipped(t *testing.T) {
	p := payloadFromJSON(t, `{
		"key": {"id": "MSG5", "remoteJid": "5511999998888@s.whatsapp.net"},
		"messageTimestamp": 1717250040,
		"message": {"pollCreationMessage": {"name": "enquete"}}
	}`)

	_, err := parseMessage(p)
	assert.ErrorIs(t, err, errUnparseable)
}

func TestParseMessage_MissingKeyRejected(t *testing.T) {
	p := payloadFromJSON(t, `{"messageTimestamp": 1, "message": {"conversation": "x"}}`)

	_, err := parseMessage(p)
	assert.ErrorIs(t, err, errUnparseable)
}

func TestParseChat_SkipsMalformedMessages(t *testing.T) {
	var p chatPayload
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "chat1",
		"remoteJid": "5511999998888@s.whatsapp.net",
		"pushName": "Maria",
		"unreadMessages": 2,
		"messages": [
			{"key": {"id": "M1", "remoteJid": "5511999998888@s.whatsapp.net"}, "messageTimestamp": 1, "message": {"conversation": "oi"}},
			{"key": {"id": "M2", "remoteJid": "5511999998888@s.whatsapp.net"}, "messageTimestamp": 2, "message": {"mysteryMessage": {}}}
		]
	}`), &p))

	chat := parseChat(p)

	assert.Equal(t, "Maria", chat.Name)
	assert.Equal(t, 2, chat.UnreadCount)
	require.Len(t, chat.Messages, 1, "the malformed item is skipped, the rest of the batch survives")
	assert.Equal(t, "M1", chat.Messages[0].RemoteID)
}

func TestParseMessageEvent_WrappedAndBare(t *testing.T) {
	bare := `{
		"key": {"id": "E1", "remoteJid": "5511999998888@s.whatsapp.net"},
		"messageTimestamp": 10,
		"message": {"conversation": "oi"}
	}`
	msg, err := ParseMessageEvent([]byte(bare))
	require.NoError(t, err)
	assert.Equal(t, "E1", msg.RemoteID)

	wrapped := `{"event": "messages.upsert", "data": ` + bare + `}`
	msg, err = ParseMessageEvent([]byte(wrapped))
	require.NoError(t, err)
	assert.Equal(t, "E1", msg.RemoteID)

	_, err = ParseMessageEvent([]byte(`not json`))
	assert.Error(t, err)
}
