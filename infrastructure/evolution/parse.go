package evolution

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

var errUnparseable = errors.New("evolution: unparseable payload variant")

// chatPayload mirrors the gateway's chat record shape.
type chatPayload struct {
	ID             string           `json:"id"`
	RemoteJID      string           `json:"remoteJid"`
	LID            string           `json:"lid"`
	PushName       string           `json:"pushName"`
	ProfilePicURL  string           `json:"profilePicUrl"`
	UnreadMessages int              `json:"unreadMessages"`
	UpdatedAt      int64            `json:"updatedAt"`
	Messages       []messagePayload `json:"messages"`
}

// messagePayload mirrors the gateway's message shape: routing key plus a
// one-of message body whose variant is named by messageType.
type messagePayload struct {
	Key struct {
		ID          string `json:"id"`
		RemoteJID   string `json:"remoteJid"`
		FromMe      bool   `json:"fromMe"`
		Participant string `json:"participant"`
	} `json:"key"`
	PushName         string          `json:"pushName"`
	ParticipantPN    string          `json:"participantPn"`
	ParticipantLID   string          `json:"participantLid"`
	MessageType      string          `json:"messageType"`
	MessageTimestamp int64           `json:"messageTimestamp"`
	Status           string          `json:"status"`
	Message          json.RawMessage `json:"message"`
}

// messageBody enumerates the gateway's known one-of variants. Extraction is
// shape-tagged and depth-bounded: unknown variants are skipped, never probed.
type messageBody struct {
	Conversation        string `json:"conversation"`
	ExtendedTextMessage *struct {
		Text        string `json:"text"`
		ContextInfo *struct {
			StanzaID string `json:"stanzaId"`
		} `json:"contextInfo"`
	} `json:"extendedTextMessage"`
	ImageMessage    *mediaBody `json:"imageMessage"`
	VideoMessage    *mediaBody `json:"videoMessage"`
	AudioMessage    *mediaBody `json:"audioMessage"`
	DocumentMessage *mediaBody `json:"documentMessage"`
	ReactionMessage *struct {
		Text string `json:"text"`
		Key  struct {
			ID string `json:"id"`
		} `json:"key"`
	} `json:"reactionMessage"`
}

type mediaBody struct {
	URL      string `json:"url"`
	Caption  string `json:"caption"`
	MimeType string `json:"mimetype"`
}

// parseMessage normalizes one gateway message into a RawMessage. Returns
// errUnparseable for variants outside the enumerated set; callers skip the
// item and keep processing the batch.
func parseMessage(p messagePayload) (RawMessage, error) {
	if p.Key.ID == "" && p.Key.RemoteJID == "" {
		return RawMessage{}, errUnparseable
	}

	msg := RawMessage{
		ID:        p.Key.ID,
		RemoteID:  p.Key.ID,
		ChatJID:   p.Key.RemoteJID,
		SenderJID: p.Key.Participant,
		SenderPN:  p.ParticipantPN,
		SenderLID: p.ParticipantLID,
		FromMe:    p.Key.FromMe,
		Type:      p.MessageType,
		Timestamp: p.MessageTimestamp,
		Status:    strings.ToLower(p.Status),
	}
	if msg.SenderJID == "" && !p.Key.FromMe {
		msg.SenderJID = p.Key.RemoteJID
	}

	if len(p.Message) == 0 {
		return RawMessage{}, errUnparseable
	}
	var body messageBody
	if err := json.Unmarshal(p.Message, &body); err != nil {
		return RawMessage{}, errUnparseable
	}

	switch {
	case body.Conversation != "":
		msg.Content = body.Conversation
	case body.ExtendedTextMessage != nil:
		msg.Content = body.ExtendedTextMessage.Text
		if ctx := body.ExtendedTextMessage.ContextInfo; ctx != nil {
			msg.ReplyToID = ctx.StanzaID
		}
	case body.ImageMessage != nil:
		fillMedia(&msg, body.ImageMessage, "image")
	case body.VideoMessage != nil:
		fillMedia(&msg, body.VideoMessage, "video")
	case body.AudioMessage != nil:
		fillMedia(&msg, body.AudioMessage, "audio")
	case body.DocumentMessage != nil:
		fillMedia(&msg, body.DocumentMessage, "document")
	case body.ReactionMessage != nil:
		msg.Content = body.ReactionMessage.Text
		msg.Type = "reaction"
		msg.ReplyToID = body.ReactionMessage.Key.ID
	default:
		return RawMessage{}, errUnparseable
	}

	if strings.TrimSpace(msg.Content) == "" && msg.MediaURL == "" {
		return RawMessage{}, errUnparseable
	}
	return msg, nil
}

func fillMedia(msg *RawMessage, media *mediaBody, kind string) {
	msg.Content = media.Caption
	msg.MediaURL = media.URL
	if msg.Type == "" {
		msg.Type = kind
	}
}

// parseChat normalizes one gateway chat record, parsing its embedded
// messages. Malformed embedded messages are skipped individually.
func parseChat(p chatPayload) RawChat {
	jid := p.RemoteJID
	if jid == "" {
		jid = p.ID
	}
	c := RawChat{
		ID:            p.ID,
		RemoteJID:     jid,
		LID:           p.LID,
		Name:          p.PushName,
		Avatar:        p.ProfilePicURL,
		UnreadCount:   p.UnreadMessages,
		LastMessageTs: p.UpdatedAt,
		IsGroup:       strings.HasSuffix(jid, "@g.us"),
	}
	for _, mp := range p.Messages {
		msg, err := parseMessage(mp)
		if err != nil {
			logrus.Debugf("[EVOLUTION] Skipping unparseable message in chat %s", jid)
			continue
		}
		c.Messages = append(c.Messages, msg)
	}
	return c
}

// ParseMessageEvent decodes a websocket event payload carrying one message.
// Payloads arrive either as a bare message object or wrapped in {"data": ...}.
func ParseMessageEvent(raw []byte) (RawMessage, error) {
	var wrapped struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	body := raw
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Data) > 0 {
		body = wrapped.Data
	}

	var p messagePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return RawMessage{}, errUnparseable
	}
	return parseMessage(p)
}
