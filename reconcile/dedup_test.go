package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainChat "github.com/zapdesk/zapdesk/domains/chat"
)

var t0 = time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)

func msg(id, remoteID, content string, sender domainChat.Role, offset time.Duration) domainChat.Message {
	return domainChat.Message{
		ID:        id,
		RemoteID:  remoteID,
		Content:   content,
		Sender:    sender,
		Timestamp: t0.Add(offset),
	}
}

func TestMergeMessages_RemoteIDDedup(t *testing.T) {
	remote := []domainChat.Message{msg("", "R1", "oi", domainChat.RoleUser, 0)}
	local := []domainChat.Message{msg("local-1", "R1", "oi", domainChat.RoleUser, 2*time.Second)}

	merged := MergeMessages(remote, local, DefaultMergeOptions())

	require.Len(t, merged, 1)
	assert.Equal(t, "R1", merged[0].RemoteID)
	// Richer metadata survives: the local id is backfilled onto the winner.
	assert.Equal(t, "local-1", merged[0].ID)
}

func TestMergeMessages_PrefersRemoteIDVersion(t *testing.T) {
	optimistic := msg("local-1", "", "tudo certo!", domainChat.RoleAgent, 0)
	confirmed := msg("local-1", "R9", "tudo certo!", domainChat.RoleAgent, 20*time.Second)

	merged := MergeMessages([]domainChat.Message{confirmed}, []domainChat.Message{optimistic}, DefaultMergeOptions())

	require.Len(t, merged, 1)
	assert.Equal(t, "R9", merged[0].RemoteID)
	assert.Equal(t, confirmed.Timestamp, merged[0].Timestamp)
}

func TestMergeMessages_ContentHeuristicWindows(t *testing.T) {
	opts := DefaultMergeOptions()

	// Agent echo 25s later: inside the 30s agent window, one message.
	a1 := msg("a1", "", "segue o boleto", domainChat.RoleAgent, 0)
	a2 := msg("", "R2", "segue o boleto", domainChat.RoleAgent, 25*time.Second)
	merged := MergeMessages([]domainChat.Message{a2}, []domainChat.Message{a1}, opts)
	assert.Len(t, merged, 1)

	// Same gap for a customer: outside the 10s window, two messages.
	u1 := msg("u1", "", "ok", domainChat.RoleUser, 0)
	u2 := msg("u2", "", "ok", domainChat.RoleUser, 25*time.Second)
	merged = MergeMessages([]domainChat.Message{u1}, []domainChat.Message{u2}, opts)
	assert.Len(t, merged, 2)

	// Different senders never collapse on content alone.
	x1 := msg("x1", "", "ok", domainChat.RoleUser, 0)
	x2 := msg("x2", "", "ok", domainChat.RoleAgent, time.Second)
	merged = MergeMessages([]domainChat.Message{x1}, []domainChat.Message{x2}, opts)
	assert.Len(t, merged, 2)
}

func TestMergeMessages_TrimsContentForComparison(t *testing.T) {
	a := msg("a", "", "oi", domainChat.RoleUser, 0)
	b := msg("b", "", "  oi  ", domainChat.RoleUser, 3*time.Second)

	merged := MergeMessages([]domainChat.Message{a}, []domainChat.Message{b}, DefaultMergeOptions())
	assert.Len(t, merged, 1)
}

func TestMergeMessages_AgentFirstTieBreak(t *testing.T) {
	// Agent reply at t+0.5s carries a skewed timestamp after the customer's
	// next message; within the 10s window the agent still sorts first.
	agent := msg("a", "", "posso ajudar?", domainChat.RoleAgent, 500*time.Millisecond)
	user := msg("u", "", "preciso de suporte", domainChat.RoleUser, 0)

	merged := MergeMessages([]domainChat.Message{user}, []domainChat.Message{agent}, DefaultMergeOptions())

	require.Len(t, merged, 2)
	assert.Equal(t, "a", merged[0].ID)
	assert.Equal(t, "u", merged[1].ID)
}

func TestMergeMessages_PlainOrderOutsideWindow(t *testing.T) {
	user := msg("u", "", "oi", domainChat.RoleUser, 0)
	agent := msg("a", "", "bom dia", domainChat.RoleAgent, 20*time.Second)

	merged := MergeMessages([]domainChat.Message{user, agent}, nil, DefaultMergeOptions())

	require.Len(t, merged, 2)
	assert.Equal(t, "u", merged[0].ID)
	assert.Equal(t, "a", merged[1].ID)
}

func TestMergeMessages_Idempotent(t *testing.T) {
	remote := []domainChat.Message{
		msg("", "R1", "oi", domainChat.RoleUser, 0),
		msg("", "R2", "bom dia, como posso ajudar?", domainChat.RoleAgent, 5*time.Second),
		msg("", "R3", "quero segunda via", domainChat.RoleUser, 40*time.Second),
	}
	local := []domainChat.Message{
		msg("l1", "", "bom dia, como posso ajudar?", domainChat.RoleAgent, 3*time.Second),
		msg("l2", "", "um momento", domainChat.RoleAgent, time.Minute),
	}
	opts := DefaultMergeOptions()

	once := MergeMessages(remote, local, opts)
	twice := MergeMessages(once, once, opts)

	assert.Equal(t, once, twice, "merge(merge(A,B), merge(A,B)) must equal merge(A,B)")
}

func TestMergeMessages_EmptyInputs(t *testing.T) {
	opts := DefaultMergeOptions()

	assert.Empty(t, MergeMessages(nil, nil, opts))

	only := []domainChat.Message{msg("a", "", "oi", domainChat.RoleUser, 0)}
	assert.Equal(t, only, MergeMessages(only, nil, opts))
	assert.Equal(t, only, MergeMessages(nil, only, opts))
}
