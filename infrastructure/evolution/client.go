package evolution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	pkgError "github.com/zapdesk/zapdesk/pkg/error"
)

// Client talks to one Evolution API instance over HTTP. All methods tolerate
// partial or stale gateway data; callers run results through the
// reconciliation engine rather than trusting them.
type Client struct {
	baseURL  string
	apiKey   string
	instance string
	http     *http.Client
}

func NewClient(baseURL, apiKey, instance string) *Client {
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		instance: instance,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Instance() string {
	return c.instance
}

// FetchChats returns every chat record the gateway currently reports. The
// result may contain duplicates and alias-keyed records.
func (c *Client) FetchChats(ctx context.Context) ([]RawChat, error) {
	var payload findChatsResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/chat/findChats/%s", c.instance), map[string]any{}, &payload); err != nil {
		return nil, err
	}

	chats := make([]RawChat, 0, len(payload.Chats))
	for _, p := range payload.Chats {
		chats = append(chats, parseChat(p))
	}
	return chats, nil
}

// FetchMessages returns up to limit messages for one chat, newest last.
func (c *Client) FetchMessages(ctx context.Context, chatJID string, limit int) ([]RawMessage, error) {
	body := map[string]any{
		"where": map[string]any{
			"key": map[string]any{"remoteJid": chatJID},
		},
		"limit": limit,
	}

	var payload findMessagesResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/chat/findMessages/%s", c.instance), body, &payload); err != nil {
		return nil, err
	}

	msgs := make([]RawMessage, 0, len(payload.Messages.Records))
	for _, p := range payload.Messages.Records {
		msg, err := parseMessage(p)
		if err != nil {
			logrus.Debugf("[EVOLUTION] Skipping unparseable message for %s", chatJID)
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// SendText dispatches a text message and returns the gateway-assigned
// message id.
func (c *Client) SendText(ctx context.Context, phone, text string) (string, error) {
	req := sendTextRequest{Number: phone, Text: text}

	var payload sendResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/message/sendText/%s", c.instance), req, &payload); err != nil {
		return "", err
	}
	return payload.Key.ID, nil
}

// SendMedia dispatches a media message by URL with an optional caption.
func (c *Client) SendMedia(ctx context.Context, phone, mediaURL, mediaType, caption string) (string, error) {
	req := sendMediaRequest{Number: phone, MediaURL: mediaURL, MediaType: mediaType, Caption: caption}

	var payload sendResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/message/sendMedia/%s", c.instance), req, &payload); err != nil {
		return "", err
	}
	return payload.Key.ID, nil
}

// SetPresence publishes a presence state ("composing", "paused") on a chat.
// Best effort; callers ignore failures.
func (c *Client) SetPresence(ctx context.Context, phone, presence string) error {
	body := map[string]any{"number": phone, "presence": presence, "delay": 1200}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/chat/sendPresence/%s", c.instance), body, nil)
}

// MarkRead acknowledges every unread message in a chat.
func (c *Client) MarkRead(ctx context.Context, chatJID string) error {
	body := map[string]any{
		"readMessages": []map[string]any{{"remoteJid": chatJID, "fromMe": false}},
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/chat/markMessageAsRead/%s", c.instance), body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgError.GatewayError(fmt.Sprintf("gateway unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return pkgError.GatewayError(fmt.Sprintf("gateway returned %d on %s: %s", resp.StatusCode, path, snippet))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgError.GatewayError(fmt.Sprintf("gateway sent malformed response on %s: %v", path, err))
	}
	return nil
}
