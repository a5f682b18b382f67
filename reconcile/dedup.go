package reconcile

import (
	"sort"
	"strings"
	"time"

	domainChat "github.com/zapdesk/zapdesk/domains/chat"
)

// MergeMessages merges two message sequences (typically a remote fetch and
// the local optimistic state) into one ordered, duplicate-free sequence.
//
// The routine is idempotent: merging an already-merged sequence with itself
// yields the same sequence. Overlapping poll, push and optimistic triggers
// rely on that.
func MergeMessages(remote, local []domainChat.Message, opts MergeOptions) []domainChat.Message {
	merged := make([]domainChat.Message, 0, len(remote)+len(local))

	absorb := func(msg domainChat.Message) {
		for i := range merged {
			if isDuplicate(merged[i], msg, opts) {
				merged[i] = preferMessage(merged[i], msg)
				return
			}
		}
		merged = append(merged, msg)
	}

	for _, m := range remote {
		absorb(m)
	}
	for _, m := range local {
		absorb(m)
	}

	sortMessages(merged, opts.ReorderWindow)
	return merged
}

// isDuplicate applies the duplicate test in priority order: remote id,
// local id, then the content+window heuristic.
func isDuplicate(a, b domainChat.Message, opts MergeOptions) bool {
	if a.RemoteID != "" && b.RemoteID != "" {
		return a.RemoteID == b.RemoteID
	}
	if a.ID != "" && a.ID == b.ID {
		return true
	}
	if a.Sender != b.Sender {
		return false
	}
	if strings.TrimSpace(a.Content) != strings.TrimSpace(b.Content) {
		return false
	}
	window := opts.UserDedupWindow
	if a.Sender == domainChat.RoleAgent {
		// Agent sends are confirmed by the gateway with delay, so the echo
		// can land well after the optimistic timestamp.
		window = opts.AgentDedupWindow
	}
	return absDelta(a.Timestamp, b.Timestamp) <= window
}

// preferMessage picks the surviving version of a duplicate pair: the one
// carrying a remote id is authoritative, otherwise the most recent. Fields
// the winner is missing are backfilled from the loser.
func preferMessage(a, b domainChat.Message) domainChat.Message {
	winner, loser := a, b
	switch {
	case a.RemoteID == "" && b.RemoteID != "":
		winner, loser = b, a
	case a.RemoteID != "" && b.RemoteID == "":
		// keep a
	case b.Timestamp.After(a.Timestamp):
		winner, loser = b, a
	}

	if winner.ID == "" {
		winner.ID = loser.ID
	}
	if winner.RemoteID == "" {
		winner.RemoteID = loser.RemoteID
	}
	if winner.SenderJID == "" {
		winner.SenderJID = loser.SenderJID
	}
	if winner.ReplyToID == "" {
		winner.ReplyToID = loser.ReplyToID
	}
	if winner.MediaURL == "" {
		winner.MediaURL = loser.MediaURL
		winner.MediaType = loser.MediaType
	}
	if winner.Status == "" {
		winner.Status = loser.Status
	}
	return winner
}

// sortMessages orders by timestamp ascending with the agent-first tie-break:
// when two messages from different senders fall within the reorder window,
// the agent one sorts first. This keeps an agent reply visually before the
// customer's next message even when clock skew says otherwise.
func sortMessages(msgs []domainChat.Message, reorderWindow time.Duration) {
	sort.SliceStable(msgs, func(i, j int) bool {
		a, b := msgs[i], msgs[j]
		if a.Sender != b.Sender && absDelta(a.Timestamp, b.Timestamp) <= reorderWindow {
			if a.Sender == domainChat.RoleAgent && b.Sender != domainChat.RoleAgent {
				return true
			}
			if b.Sender == domainChat.RoleAgent && a.Sender != domainChat.RoleAgent {
				return false
			}
		}
		return a.Timestamp.Before(b.Timestamp)
	})
}

func absDelta(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}
