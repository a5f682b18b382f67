package evolution

// Raw wire types for the Evolution API gateway. Every payload shape the
// gateway emits is normalized into RawChat/RawMessage at this boundary;
// nothing past the parser ever probes gateway JSON directly.

// RawChat is one chat record as reported by the gateway. Records may be
// partial, duplicated or keyed by an unstable alias; the reconciliation
// engine sorts that out.
type RawChat struct {
	ID            string `json:"id"`
	RemoteJID     string `json:"remoteJid"`
	LID           string `json:"lid,omitempty"`
	Name          string `json:"pushName"`
	Avatar        string `json:"profilePicUrl,omitempty"`
	UnreadCount   int    `json:"unreadCount"`
	LastMessageTs int64  `json:"lastMessageTimestamp"`
	IsGroup       bool   `json:"isGroup"`

	Messages []RawMessage `json:"messages,omitempty"`
}

// RawMessage is one normalized message. Timestamps are unix seconds.
type RawMessage struct {
	ID        string `json:"id"`
	RemoteID  string `json:"keyId"`
	ChatJID   string `json:"remoteJid"`
	SenderJID string `json:"participant,omitempty"`
	SenderPN  string `json:"participantPn,omitempty"`
	SenderLID string `json:"participantLid,omitempty"`
	FromMe    bool   `json:"fromMe"`
	Content   string `json:"content"`
	Type      string `json:"messageType"`
	Timestamp int64  `json:"messageTimestamp"`
	Status    string `json:"status,omitempty"`
	MediaURL  string `json:"mediaUrl,omitempty"`
	ReplyToID string `json:"quotedId,omitempty"`
}

// SenderIdentity returns the best raw identifier for the author, preferring
// the phone-number field over the LID alias.
func (m RawMessage) SenderIdentity() string {
	if m.SenderPN != "" {
		return m.SenderPN
	}
	if m.SenderJID != "" {
		return m.SenderJID
	}
	return m.SenderLID
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
	Quoted string `json:"quoted,omitempty"`
}

type sendMediaRequest struct {
	Number    string `json:"number"`
	Caption   string `json:"caption,omitempty"`
	MediaURL  string `json:"mediaUrl"`
	MediaType string `json:"mediatype"`
}

type sendResponse struct {
	Key struct {
		ID        string `json:"id"`
		RemoteJID string `json:"remoteJid"`
		FromMe    bool   `json:"fromMe"`
	} `json:"key"`
	Status string `json:"status"`
}

type findChatsResponse struct {
	Chats []chatPayload `json:"chats"`
}

type findMessagesResponse struct {
	Messages struct {
		Records []messagePayload `json:"records"`
	} `json:"messages"`
}
