package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalKey(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"plain phone", "5511999998888", "5511999998888", true},
		{"formatted phone", "+55 (11) 99999-8888", "5511999998888", true},
		{"user jid", "5511999998888@s.whatsapp.net", "5511999998888", true},
		{"device suffix", "5511999998888:12@s.whatsapp.net", "5511999998888", true},
		{"group jid", "123456789012@g.us", "", false},
		{"lid alias", "abc123@lid", "", false},
		{"numeric lid alias", "203641258182505@lid", "", false},
		{"short number", "1234567", "", false},
		{"empty", "", "", false},
		{"eight digits is enough", "12345678", "12345678", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := CanonicalKey(c.raw)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestCanonicalKeyWithFallback(t *testing.T) {
	key, ok := CanonicalKeyWithFallback("abc123@lid", "5511999998888@s.whatsapp.net")
	assert.True(t, ok)
	assert.Equal(t, "5511999998888", key)

	_, ok = CanonicalKeyWithFallback("abc123@lid", "")
	assert.False(t, ok)

	// Group jid in the fallback slot must not resolve either.
	_, ok = CanonicalKeyWithFallback("abc123@lid", "123456789012@g.us")
	assert.False(t, ok)
}

func TestIsAlias(t *testing.T) {
	assert.True(t, IsAlias("abc123@lid"))
	assert.True(t, IsAlias("203641258182505@lid"))
	assert.True(t, IsAlias("gen-7f3a"))
	assert.False(t, IsAlias("5511999998888@s.whatsapp.net"))
	assert.False(t, IsAlias("123456789012@g.us"))
	assert.False(t, IsAlias(""))
}
