package reconcile

import "time"

// MergeOptions carries the heuristic windows used by the message merge. The
// values compensate for clock skew between optimistic local timestamps and
// gateway-confirmed ones, so they are parameters rather than constants.
type MergeOptions struct {
	// ReorderWindow: an agent message within this window of a message from a
	// different sender is ordered first regardless of exact timestamp.
	ReorderWindow time.Duration
	// AgentDedupWindow: same-content agent messages within this window are
	// considered one message (gateway confirmations can arrive late).
	AgentDedupWindow time.Duration
	// UserDedupWindow: same for everything not sent by an agent.
	UserDedupWindow time.Duration
}

func DefaultMergeOptions() MergeOptions {
	return MergeOptions{
		ReorderWindow:    10 * time.Second,
		AgentDedupWindow: 30 * time.Second,
		UserDedupWindow:  10 * time.Second,
	}
}
