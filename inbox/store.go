package inbox

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	domainChat "github.com/zapdesk/zapdesk/domains/chat"
	domainDepartment "github.com/zapdesk/zapdesk/domains/department"
	domainWorkflow "github.com/zapdesk/zapdesk/domains/workflow"
	"github.com/zapdesk/zapdesk/reconcile"
)

// Sender is the outbound slice of the gateway the store needs.
type Sender interface {
	SendText(ctx context.Context, phone, text string) (string, error)
}

// DepartmentSource supplies the ordered department list for menu prompts and
// numeric selection.
type DepartmentSource interface {
	List(ctx context.Context) ([]domainDepartment.Department, error)
}

// AutoResponder resolves a keyword-triggered reply sequence for an inbound
// customer message. Implemented by the workflow service.
type AutoResponder interface {
	Match(ctx context.Context, content string) (*domainWorkflow.Workflow, error)
}

// Broadcaster pushes a state change to connected console clients.
type Broadcaster func(code string, payload any)

// Store is the shared in-memory chat collection every trigger source merges
// into: the periodic poll, the push event stream and local agent actions.
// All mutation funnels through apply, whose building blocks are pure and
// idempotent, so overlapping triggers cannot lose updates.
type Store struct {
	mu    sync.RWMutex
	chats map[string]domainChat.Chat
	// consumed tracks control-input messages (menu digits, ratings) per chat
	// so a later fetch of the same gateway history does not resurrect them
	// in the visible transcript.
	consumed  map[string]map[string]bool
	lastFetch map[string]time.Time

	opts        reconcile.MergeOptions
	throttle    time.Duration
	sender      Sender
	departments DepartmentSource
	workflows   AutoResponder
	repo        domainChat.IChatRepository
	broadcast   Broadcaster
	now         func() time.Time
}

type StoreDeps struct {
	Sender      Sender
	Departments DepartmentSource
	Workflows   AutoResponder
	Repo        domainChat.IChatRepository
	Broadcast   Broadcaster
	// Now overrides the clock in tests.
	Now func() time.Time
}

func NewStore(opts reconcile.MergeOptions, throttle time.Duration, deps StoreDeps) *Store {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Broadcast == nil {
		deps.Broadcast = func(string, any) {}
	}
	return &Store{
		chats:       make(map[string]domainChat.Chat),
		consumed:    make(map[string]map[string]bool),
		lastFetch:   make(map[string]time.Time),
		opts:        opts,
		throttle:    throttle,
		sender:      deps.Sender,
		departments: deps.Departments,
		workflows:   deps.Workflows,
		repo:        deps.Repo,
		broadcast:   deps.Broadcast,
		now:         deps.Now,
	}
}

// Load warms the collection from persistence on startup.
func (s *Store) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	chats, err := s.repo.ListChats(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chats {
		s.chats[c.ID] = c
	}
	logrus.Infof("[INBOX] Loaded %d chats from storage", len(chats))
	return nil
}

// Snapshot returns every chat ordered by most recent activity.
func (s *Store) Snapshot() []domainChat.Chat {
	s.mu.RLock()
	out := make([]domainChat.Chat, 0, len(s.chats))
	for _, c := range s.chats {
		out = append(out, c)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out
}

func (s *Store) Get(id string) (domainChat.Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chats[id]
	return c, ok
}

// ApplyFetch merges a full fetch result into the collection. Partial,
// duplicate or stale input is fine on every call.
func (s *Store) ApplyFetch(ctx context.Context, incoming []domainChat.Chat) {
	s.apply(ctx, incoming)
}

// ApplyEvent runs one pushed message through the exact same pipeline as a
// fetch result.
func (s *Store) ApplyEvent(ctx context.Context, candidate domainChat.Chat) {
	s.apply(ctx, []domainChat.Chat{candidate})
}

// ApplyLocalMessage records an agent send optimistically, before the gateway
// confirms it. Returns the local message so the caller can attach the remote
// id later.
func (s *Store) ApplyLocalMessage(ctx context.Context, chatID, content string) domainChat.Message {
	msg := domainChat.Message{
		ID:        uuid.New().String(),
		Content:   content,
		Sender:    domainChat.RoleAgent,
		Timestamp: s.now(),
		Status:    domainChat.DeliverySent,
	}

	s.mu.Lock()
	c, ok := s.chats[chatID]
	if !ok {
		c = domainChat.Chat{ID: chatID, Status: domainChat.StatusOpen}
		if key, keyOK := reconcile.CanonicalKey(chatID); keyOK {
			c.Phone = key
		}
	}
	c.Messages = reconcile.MergeMessages(c.Messages, []domainChat.Message{msg}, s.opts)
	refreshLastMessage(&c)
	s.chats[c.ID] = c
	s.mu.Unlock()

	s.commit(ctx, c)
	return msg
}

// AttachRemoteID binds the gateway-assigned id to a previously optimistic
// message once the send is confirmed.
func (s *Store) AttachRemoteID(ctx context.Context, chatID, localID, remoteID string) {
	if remoteID == "" {
		return
	}
	s.mu.Lock()
	c, ok := s.chats[chatID]
	if ok {
		for i := range c.Messages {
			if c.Messages[i].ID == localID {
				c.Messages[i].RemoteID = remoteID
				break
			}
		}
		s.chats[chatID] = c
	}
	s.mu.Unlock()

	if ok {
		s.commit(ctx, c)
	}
}

// CloseChat resolves a chat from the agent side and asks the customer for a
// 1-5 rating.
func (s *Store) CloseChat(ctx context.Context, chatID string) (domainChat.Chat, bool) {
	s.mu.Lock()
	c, ok := s.chats[chatID]
	if !ok {
		s.mu.Unlock()
		return domainChat.Chat{}, false
	}
	c = reconcile.Close(c, s.now())
	s.chats[chatID] = c
	s.mu.Unlock()

	s.commit(ctx, c)

	if dest := destination(c); dest != "" && s.sender != nil {
		if _, err := s.sender.SendText(ctx, dest, "Atendimento encerrado. Avalie nosso atendimento respondendo com uma nota de 1 a 5."); err != nil {
			logrus.WithError(err).Warn("[INBOX] Failed to send rating prompt")
		}
	}
	return c, true
}

// AssignChat routes a chat manually from the console, bypassing the menu.
func (s *Store) AssignChat(ctx context.Context, chatID, departmentID, userID string) (domainChat.Chat, bool) {
	s.mu.Lock()
	c, ok := s.chats[chatID]
	if !ok {
		s.mu.Unlock()
		return domainChat.Chat{}, false
	}
	if departmentID != "" {
		c.DepartmentID = departmentID
		if c.Status == domainChat.StatusOpen {
			c.Status = domainChat.StatusPending
		}
		// Manual routing supersedes the menu flow.
		c.MenuSent = true
		c.AwaitingSelection = false
	}
	if userID != "" {
		c.AssignedUserID = userID
	}
	c.StatusChangedAt = s.now()
	s.chats[chatID] = c
	s.mu.Unlock()

	s.commit(ctx, c)
	return c, true
}

// ClearDepartment drops a deleted department from every chat that references
// it. References are nulled, chats are never cascaded away.
func (s *Store) ClearDepartment(ctx context.Context, departmentID string) {
	s.mu.Lock()
	var touched []domainChat.Chat
	for id, c := range s.chats {
		if c.DepartmentID == departmentID {
			c.DepartmentID = ""
			s.chats[id] = c
			touched = append(touched, c)
		}
	}
	s.mu.Unlock()

	for _, c := range touched {
		s.commit(ctx, c)
	}
}

// RecordRating stores an agent-entered satisfaction score and clears the
// awaiting-rating flag so a later customer digit is treated as content.
func (s *Store) RecordRating(ctx context.Context, chatID string, rating int) (domainChat.Chat, bool) {
	s.mu.Lock()
	c, ok := s.chats[chatID]
	if !ok {
		s.mu.Unlock()
		return domainChat.Chat{}, false
	}
	c.Rating = rating
	c.AwaitingRating = false
	c.StatusChangedAt = s.now()
	s.chats[chatID] = c
	s.mu.Unlock()

	s.commit(ctx, c)
	return c, true
}

// HasOutstandingPrompt reports whether any chat is still waiting on a menu
// reply.
func (s *Store) HasOutstandingPrompt() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.chats {
		if c.AwaitingSelection {
			return true
		}
	}
	return false
}

// MarkRead zeroes a chat's unread counter once an agent opened it.
func (s *Store) MarkRead(ctx context.Context, chatID string) {
	s.mu.Lock()
	c, ok := s.chats[chatID]
	if ok && c.UnreadCount > 0 {
		c.UnreadCount = 0
		s.chats[chatID] = c
	} else {
		ok = false
	}
	s.mu.Unlock()

	if ok {
		s.commit(ctx, c)
	}
}

// NeedsBackfill reports whether the per-chat message re-fetch throttle allows
// another fetch now, and if so, stamps it.
func (s *Store) NeedsBackfill(chatID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if last, ok := s.lastFetch[chatID]; ok && now.Sub(last) < s.throttle {
		return false
	}
	s.lastFetch[chatID] = now
	return true
}

// apply is the single reconciliation path: normalize is done by the caller,
// then consolidate, merge, run the status machine over newly-arrived
// customer messages, maybe prompt for a department, commit and broadcast.
func (s *Store) apply(ctx context.Context, incoming []domainChat.Chat) {
	var departments []domainDepartment.Department
	if s.departments != nil {
		if list, err := s.departments.List(ctx); err == nil {
			departments = list
		} else {
			logrus.WithError(err).Warn("[INBOX] Department list unavailable, skipping menu logic this round")
		}
	}

	type pendingSend struct {
		dest string
		text string
	}
	var sends []pendingSend
	var autoReplies []pendingSend
	var changed []domainChat.Chat

	s.mu.Lock()
	existing := make([]domainChat.Chat, 0, len(s.chats))
	for _, c := range s.chats {
		existing = append(existing, c)
	}
	sort.SliceStable(existing, func(i, j int) bool { return existing[i].ID < existing[j].ID })

	merged := reconcile.Consolidate(append(existing, incoming...), s.opts)

	// Consolidation can retire a chat key, typically an alias promoted to its
	// phone number. The retired row must leave storage as well, and control
	// input consumed under the old key has to follow the transcript to the
	// surviving chat or a later history fetch would replay it.
	mergedIDs := make(map[string]bool, len(merged))
	for _, c := range merged {
		mergedIDs[c.ID] = true
	}
	var dropped []string
	for id, prev := range s.chats {
		if mergedIDs[id] {
			continue
		}
		dropped = append(dropped, id)
		if succ := s.successorOf(prev, merged); succ != "" {
			s.adoptTombstones(id, succ)
		} else {
			delete(s.consumed, id)
		}
		delete(s.lastFetch, id)
	}

	next := make(map[string]domainChat.Chat, len(merged))
	for _, c := range merged {
		prev, had := s.chats[c.ID]
		var freshUser []domainChat.Message
		c, freshUser = s.runStatusMachine(c, prev, had, departments)
		if c.Status == "" {
			c.Status = domainChat.StatusOpen
		}

		if s.shouldPrompt(c, departments) {
			if dest := destination(c); dest != "" {
				sends = append(sends, pendingSend{dest: dest, text: reconcile.ComposeMenu(s.now(), departments)})
				c.MenuSent = true
				c.AwaitingSelection = true
				c.StatusChangedAt = s.now()
				// The menu owns this turn.
				freshUser = nil
			}
		}

		if s.workflows != nil && !c.AwaitingSelection && !c.AwaitingRating {
			if dest := destination(c); dest != "" {
				for _, m := range freshUser {
					autoReplies = append(autoReplies, pendingSend{dest: dest, text: m.Content})
				}
			}
		}

		next[c.ID] = c
		if !had || !reflect.DeepEqual(prev, c) {
			changed = append(changed, c)
		}
	}
	s.chats = next
	s.mu.Unlock()

	for _, c := range changed {
		s.commit(ctx, c)
	}
	for _, id := range dropped {
		if s.repo == nil {
			break
		}
		if err := s.repo.DeleteChat(ctx, id); err != nil {
			logrus.WithError(err).Warnf("[INBOX] Failed to remove superseded chat %s from storage", id)
		}
	}
	for _, snd := range sends {
		if s.sender == nil {
			continue
		}
		if _, err := s.sender.SendText(ctx, snd.dest, snd.text); err != nil {
			logrus.WithError(err).Warn("[INBOX] Failed to send department menu")
		}
	}
	for _, ar := range autoReplies {
		wf, err := s.workflows.Match(ctx, ar.text)
		if err != nil {
			logrus.WithError(err).Debug("[INBOX] Workflow lookup failed")
			continue
		}
		if wf == nil || s.sender == nil {
			continue
		}
		go s.runWorkflow(ctx, ar.dest, wf)
	}
}

// runWorkflow sends a matched auto-reply sequence, honoring per-step delays.
// The replies come back through the gateway echo, so the transcript is not
// written here.
func (s *Store) runWorkflow(ctx context.Context, dest string, wf *domainWorkflow.Workflow) {
	for _, step := range wf.Steps {
		if step.DelaySeconds > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(step.DelaySeconds) * time.Second):
			}
		}
		if _, err := s.sender.SendText(ctx, dest, step.Content); err != nil {
			logrus.WithError(err).Warnf("[INBOX] Workflow %s stopped at step %d", wf.Name, step.Position)
			return
		}
	}
}

// runStatusMachine walks the messages that were not known before this round
// and feeds the customer ones to the status machine, stripping control input
// from the transcript. It also returns the fresh customer messages that
// survived, the candidates for workflow auto-replies. Caller holds the lock.
func (s *Store) runStatusMachine(c, prev domainChat.Chat, had bool, departments []domainDepartment.Department) (domainChat.Chat, []domainChat.Message) {
	known := make(map[string]bool, len(prev.Messages))
	if had {
		for _, m := range prev.Messages {
			if m.RemoteID != "" {
				known[m.RemoteID] = true
			}
			if m.ID != "" {
				known[m.ID] = true
			}
		}
	}
	tombstones := s.consumed[c.ID]

	var freshUser []domainChat.Message
	kept := make([]domainChat.Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		if tombstones != nil && (tombstones[m.RemoteID] || tombstones[m.ID]) {
			continue
		}

		isKnown := (m.RemoteID != "" && known[m.RemoteID]) || (m.ID != "" && known[m.ID])
		if !isKnown && m.Sender == domainChat.RoleUser {
			var keep bool
			c, keep = reconcile.ApplyInbound(c, m, departments, s.now())
			if !keep {
				s.tombstone(c.ID, m)
				continue
			}
			freshUser = append(freshUser, m)
		}
		kept = append(kept, m)
	}
	c.Messages = kept
	refreshLastMessage(&c)
	return c, freshUser
}

// successorOf finds the merged chat that absorbed a retired one, by matching
// message ids from the retired transcript and its consumed set. Caller holds
// the lock.
func (s *Store) successorOf(prev domainChat.Chat, merged []domainChat.Chat) string {
	ids := make(map[string]bool, len(prev.Messages)*2)
	for _, m := range prev.Messages {
		if m.RemoteID != "" {
			ids[m.RemoteID] = true
		}
		if m.ID != "" {
			ids[m.ID] = true
		}
	}
	for k := range s.consumed[prev.ID] {
		ids[k] = true
	}
	if len(ids) == 0 {
		return ""
	}
	for _, c := range merged {
		for _, m := range c.Messages {
			if (m.RemoteID != "" && ids[m.RemoteID]) || (m.ID != "" && ids[m.ID]) {
				return c.ID
			}
		}
	}
	return ""
}

// adoptTombstones moves the consumed set of a retired chat key under the key
// of the chat that absorbed it. Caller holds the lock.
func (s *Store) adoptTombstones(oldID, newID string) {
	old := s.consumed[oldID]
	delete(s.consumed, oldID)
	if len(old) == 0 {
		return
	}
	set := s.consumed[newID]
	if set == nil {
		s.consumed[newID] = old
		return
	}
	for k := range old {
		set[k] = true
	}
}

func (s *Store) tombstone(chatID string, m domainChat.Message) {
	set := s.consumed[chatID]
	if set == nil {
		set = make(map[string]bool)
		s.consumed[chatID] = set
	}
	if m.RemoteID != "" {
		set[m.RemoteID] = true
	}
	if m.ID != "" {
		set[m.ID] = true
	}
}

// shouldPrompt: first customer message arrived, nothing routed yet, no
// prompt sent yet, and there are departments to offer.
func (s *Store) shouldPrompt(c domainChat.Chat, departments []domainDepartment.Department) bool {
	if len(departments) == 0 || c.MenuSent || c.DepartmentID != "" {
		return false
	}
	if c.Status != domainChat.StatusOpen {
		return false
	}
	for _, m := range c.Messages {
		if m.Sender == domainChat.RoleUser {
			return true
		}
	}
	return false
}

func (s *Store) commit(ctx context.Context, c domainChat.Chat) {
	if s.repo != nil {
		if err := s.repo.UpsertChat(ctx, &c); err != nil {
			logrus.WithError(err).Errorf("[INBOX] Failed to persist chat %s", c.ID)
		}
	}
	s.broadcast("CHAT_UPSERT", c)
}

// destination picks the sendable address for a chat: the canonical phone
// when resolved, the raw remote identifier otherwise.
func destination(c domainChat.Chat) string {
	if c.Phone != "" {
		return c.Phone
	}
	return c.RemoteJID
}

func refreshLastMessage(c *domainChat.Chat) {
	if len(c.Messages) == 0 {
		return
	}
	last := c.Messages[len(c.Messages)-1]
	c.LastMessage = last.Content
	c.LastMessageAt = last.Timestamp
}
