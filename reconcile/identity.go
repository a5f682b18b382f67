package reconcile

import "strings"

const (
	suffixUser  = "@s.whatsapp.net"
	suffixGroup = "@g.us"
	suffixLID   = "@lid"

	// Identifiers with fewer significant digits than this are too short to
	// be a phone number; treating them as match keys causes false merges.
	minReliableDigits = 8
)

// CanonicalKey maps a raw contact identifier (free-form phone string or
// transport JID) to the canonical phone key used for chat matching. The
// second return is false when the identifier cannot be trusted as a contact
// identity: group JIDs, bare aliases and too-short digit runs.
func CanonicalKey(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	// Group conversations are never a contact identity.
	if strings.HasSuffix(raw, suffixGroup) {
		return "", false
	}
	// A LID is issued instead of a phone number; even a fully numeric one is
	// not dialable. It only resolves through the fallback field or through
	// message-sender evidence.
	if strings.HasSuffix(raw, suffixLID) {
		return "", false
	}

	digits := digitsOf(raw)
	if len(digits) < minReliableDigits {
		return "", false
	}
	return digits, true
}

// CanonicalKeyWithFallback tries raw first, then the alternate identifier
// field some gateway payloads carry (sender_pn next to sender_lid).
func CanonicalKeyWithFallback(raw, alt string) (string, bool) {
	if key, ok := CanonicalKey(raw); ok {
		return key, true
	}
	return CanonicalKey(alt)
}

// IsGroupJID reports whether the identifier names a group conversation.
func IsGroupJID(raw string) bool {
	return strings.HasSuffix(strings.TrimSpace(raw), suffixGroup)
}

// IsAlias reports whether the identifier is an unstable transport-issued
// alias (LID or generated id) rather than a phone-backed JID.
func IsAlias(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if strings.HasSuffix(raw, suffixLID) {
		return true
	}
	_, ok := CanonicalKey(raw)
	return !ok && !IsGroupJID(raw)
}

func digitsOf(raw string) string {
	// Digits left of the @ only; the server part is never part of the number.
	if at := strings.IndexByte(raw, '@'); at >= 0 {
		raw = raw[:at]
	}
	// Device suffixes like 5511999998888:12 are stripped the same way.
	if colon := strings.IndexByte(raw, ':'); colon >= 0 {
		raw = raw[:colon]
	}
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
}
