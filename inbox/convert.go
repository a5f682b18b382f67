package inbox

import (
	"time"

	domainChat "github.com/zapdesk/zapdesk/domains/chat"
	"github.com/zapdesk/zapdesk/infrastructure/evolution"
	"github.com/zapdesk/zapdesk/reconcile"
)

// FromRawChat normalizes one gateway chat record into a domain chat keyed by
// its canonical identity. Group conversations are rejected: the console only
// handles direct customer chats.
func FromRawChat(rc evolution.RawChat) (domainChat.Chat, bool) {
	if rc.IsGroup || reconcile.IsGroupJID(rc.RemoteJID) {
		return domainChat.Chat{}, false
	}

	c := domainChat.Chat{
		RemoteJID:   rc.RemoteJID,
		Name:        rc.Name,
		Avatar:      rc.Avatar,
		UnreadCount: rc.UnreadCount,
	}

	if key, ok := reconcile.CanonicalKeyWithFallback(rc.RemoteJID, rc.LID); ok {
		c.ID = key
		c.Phone = key
	} else {
		// Unresolvable alias: keep the chat under it, pending resolution.
		c.ID = rc.RemoteJID
	}

	for _, rm := range rc.Messages {
		c.Messages = append(c.Messages, FromRawMessage(rm))
	}
	if rc.LastMessageTs > 0 {
		c.LastMessageAt = time.Unix(rc.LastMessageTs, 0).UTC()
	}
	return c, true
}

// FromRawMessage maps a gateway message into the domain shape. FromMe marks
// the agent side of the conversation.
func FromRawMessage(rm evolution.RawMessage) domainChat.Message {
	sender := domainChat.RoleUser
	if rm.FromMe {
		sender = domainChat.RoleAgent
	}

	msg := domainChat.Message{
		ID:        rm.ID,
		RemoteID:  rm.RemoteID,
		Content:   rm.Content,
		Sender:    sender,
		SenderJID: rm.SenderIdentity(),
		Timestamp: time.Unix(rm.Timestamp, 0).UTC(),
		MediaURL:  rm.MediaURL,
		MediaType: rm.Type,
		ReplyToID: rm.ReplyToID,
	}

	switch rm.Status {
	case "read":
		msg.Status = domainChat.DeliveryRead
	case "delivery_ack", "delivered":
		msg.Status = domainChat.DeliveryDelivered
	default:
		if rm.FromMe {
			msg.Status = domainChat.DeliverySent
		}
	}
	return msg
}

// chatForEvent wraps a single pushed message into a candidate chat so the
// event path runs through the exact same normalize/consolidate/merge
// pipeline as a fetch result.
func chatForEvent(rm evolution.RawMessage) (domainChat.Chat, bool) {
	rc := evolution.RawChat{
		RemoteJID: rm.ChatJID,
		Messages:  []evolution.RawMessage{rm},
	}
	if ts := rm.Timestamp; ts > 0 {
		rc.LastMessageTs = ts
	}
	return FromRawChat(rc)
}
