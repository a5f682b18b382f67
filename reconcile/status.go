package reconcile

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	domainChat "github.com/zapdesk/zapdesk/domains/chat"
	domainDepartment "github.com/zapdesk/zapdesk/domains/department"
)

var ratingPattern = regexp.MustCompile(`^[1-5]$`)

// ApplyInbound runs the chat status machine for one incoming message and
// returns the updated chat plus whether the message belongs in the visible
// transcript. Control input (a department selection digit, a rating digit)
// is consumed rather than displayed.
//
// Permitted transitions:
//
//	open    --numeric department reply--> pending
//	closed  --rating digit, awaiting--->  closed (rating recorded)
//	closed  --any other user message--->  open   (full re-triage)
//
// Everything else leaves the status untouched.
func ApplyInbound(c domainChat.Chat, msg domainChat.Message, departments []domainDepartment.Department, now time.Time) (domainChat.Chat, bool) {
	if msg.Sender != domainChat.RoleUser {
		return c, true
	}
	content := strings.TrimSpace(msg.Content)

	switch c.Status {
	case domainChat.StatusClosed:
		if c.AwaitingRating && ratingPattern.MatchString(content) {
			rating, _ := strconv.Atoi(content)
			c.Rating = rating
			c.AwaitingRating = false
			c.StatusChangedAt = now
			return c, false
		}
		// Any other customer message reopens the chat for full re-triage.
		c.Status = domainChat.StatusOpen
		c.DepartmentID = ""
		c.AssignedUserID = ""
		c.AwaitingRating = false
		c.MenuSent = false
		c.AwaitingSelection = false
		c.StatusChangedAt = now
		return c, true

	case domainChat.StatusOpen:
		if c.AwaitingSelection {
			if selected, ok := SelectDepartment(content, departments); ok {
				c.DepartmentID = selected.ID
				c.Status = domainChat.StatusPending
				c.AwaitingSelection = false
				c.StatusChangedAt = now
				return c, false
			}
		}
		return c, true

	default:
		return c, true
	}
}

// Close resolves a chat from the agent side and arms the satisfaction rating.
// Closing an already-closed chat is a no-op.
func Close(c domainChat.Chat, now time.Time) domainChat.Chat {
	if c.Status == domainChat.StatusClosed {
		return c
	}
	c.Status = domainChat.StatusClosed
	c.AwaitingRating = true
	c.AwaitingSelection = false
	c.StatusChangedAt = now
	return c
}

// ReconcileStatus folds status fields reported by an external source into the
// local chat. The external side never wins: a periodic fetch must not
// downgrade a locally-reopened or locally-closed chat. Only a strictly newer
// StatusChangedAt takes effect, which only happens when the incoming record
// came from our own persistence.
func ReconcileStatus(local, incoming domainChat.Chat) domainChat.Chat {
	if incoming.StatusChangedAt.After(local.StatusChangedAt) {
		local.Status = incoming.Status
		local.DepartmentID = incoming.DepartmentID
		local.AssignedUserID = incoming.AssignedUserID
		local.AwaitingRating = incoming.AwaitingRating
		local.AwaitingSelection = incoming.AwaitingSelection
		local.MenuSent = incoming.MenuSent
		local.Rating = incoming.Rating
		local.StatusChangedAt = incoming.StatusChangedAt
	}
	return local
}
