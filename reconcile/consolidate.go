package reconcile

import (
	"strings"

	domainChat "github.com/zapdesk/zapdesk/domains/chat"
)

// Consolidate collapses raw chat records that refer to the same real-world
// contact. The transport issues unstable aliases (LIDs, generated ids) for
// new or renamed contacts, so one person can show up as several records
// until a message reveals the actual phone number.
func Consolidate(raw []domainChat.Chat, opts MergeOptions) []domainChat.Chat {
	aliasToPhone := resolveAliases(raw)

	groups := make(map[string][]domainChat.Chat)
	order := make([]string, 0, len(raw))
	for _, c := range raw {
		key := groupKey(c, aliasToPhone)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}

	out := make([]domainChat.Chat, 0, len(order))
	for _, key := range order {
		merged := mergeGroup(groups[key], aliasToPhone, opts)
		// Noise records: nothing said, nobody resolvable.
		if len(merged.Messages) == 0 && !merged.HasNumericIdentity() {
			continue
		}
		out = append(out, merged)
	}
	return out
}

// resolveAliases builds the alias -> best-known phone key map by scanning
// every message's sender identity. A customer message naming a reliable
// phone number resolves its parent chat's alias.
func resolveAliases(raw []domainChat.Chat) map[string]string {
	resolved := make(map[string]string)
	for _, c := range raw {
		if c.HasNumericIdentity() {
			continue
		}
		for _, m := range c.Messages {
			if m.Sender != domainChat.RoleUser {
				continue
			}
			if key, ok := CanonicalKey(m.SenderJID); ok {
				resolved[c.ID] = key
				break
			}
		}
	}
	return resolved
}

func groupKey(c domainChat.Chat, aliasToPhone map[string]string) string {
	if c.HasNumericIdentity() {
		return c.Phone
	}
	if phone, ok := aliasToPhone[c.ID]; ok {
		return phone
	}
	return c.ID
}

// mergeGroup unions the raw chats of one contact. The record with a
// resolvable numeric identity is the base; an already-resolved numeric id is
// never downgraded back to an alias.
func mergeGroup(group []domainChat.Chat, aliasToPhone map[string]string, opts MergeOptions) domainChat.Chat {
	base := group[0]
	for _, c := range group[1:] {
		if !base.HasNumericIdentity() && c.HasNumericIdentity() {
			base = c
		}
	}

	// Merging a chat with itself is a no-op (the message merge is
	// idempotent), so every member is folded in unconditionally.
	for _, c := range group {
		base = mergeChatPair(base, c, opts)
	}

	// An alias chat whose sender revealed a phone number is promoted to the
	// numeric key even with no phone-keyed sibling present.
	if !base.HasNumericIdentity() {
		if phone, ok := aliasToPhone[base.ID]; ok {
			base.Phone = phone
			base.ID = phone
		}
	} else {
		base.ID = base.Phone
	}

	refreshLastMessage(&base)
	return base
}

func mergeChatPair(base, other domainChat.Chat, opts MergeOptions) domainChat.Chat {
	base.Messages = MergeMessages(base.Messages, other.Messages, opts)

	if base.Phone == "" {
		base.Phone = other.Phone
	}
	if base.RemoteJID == "" || (IsAlias(base.RemoteJID) && !IsAlias(other.RemoteJID) && other.RemoteJID != "") {
		base.RemoteJID = other.RemoteJID
	}
	if strings.TrimSpace(base.Name) == "" {
		base.Name = other.Name
	}
	if base.Avatar == "" {
		base.Avatar = other.Avatar
	}
	if other.UnreadCount > base.UnreadCount {
		base.UnreadCount = other.UnreadCount
	}

	base = ReconcileStatus(base, other)
	return base
}

// refreshLastMessage recomputes the last-message cache fields from the
// merged transcript.
func refreshLastMessage(c *domainChat.Chat) {
	if len(c.Messages) == 0 {
		c.LastMessage = ""
		return
	}
	last := c.Messages[len(c.Messages)-1]
	c.LastMessage = last.Content
	c.LastMessageAt = last.Timestamp
}
