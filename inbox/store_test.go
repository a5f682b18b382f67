package inbox

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainChat "github.com/zapdesk/zapdesk/domains/chat"
	domainDepartment "github.com/zapdesk/zapdesk/domains/department"
	domainWorkflow "github.com/zapdesk/zapdesk/domains/workflow"
	"github.com/zapdesk/zapdesk/reconcile"
)

var base = time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)

type fakeSender struct {
	mu    sync.Mutex
	sent  []string
	dests []string
}

func (f *fakeSender) SendText(ctx context.Context, phone, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	f.dests = append(f.dests, phone)
	return "REMOTE-" + phone, nil
}

func (f *fakeSender) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

type fakeWorkflows struct {
	wf *domainWorkflow.Workflow
}

func (f *fakeWorkflows) Match(ctx context.Context, content string) (*domainWorkflow.Workflow, error) {
	if f.wf != nil && strings.Contains(strings.ToLower(content), f.wf.Keyword) {
		return f.wf, nil
	}
	return nil, nil
}

type fakeRepo struct {
	mu      sync.Mutex
	upserts []string
	deletes []string
}

func (f *fakeRepo) InitSchema(ctx context.Context) error { return nil }

func (f *fakeRepo) UpsertChat(ctx context.Context, c *domainChat.Chat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, c.ID)
	return nil
}

func (f *fakeRepo) GetChat(ctx context.Context, id string) (*domainChat.Chat, error) {
	return nil, nil
}

func (f *fakeRepo) ListChats(ctx context.Context) ([]domainChat.Chat, error) { return nil, nil }

func (f *fakeRepo) DeleteChat(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return nil
}

func (f *fakeRepo) ClearDepartment(ctx context.Context, departmentID string) error { return nil }

func (f *fakeRepo) deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deletes...)
}

type fakeDepartments struct {
	list []domainDepartment.Department
}

func (f *fakeDepartments) List(ctx context.Context) ([]domainDepartment.Department, error) {
	return f.list, nil
}

func newTestStore(sender *fakeSender) *Store {
	departments := &fakeDepartments{list: []domainDepartment.Department{
		{ID: "d1", Name: "Sales", Position: 1},
		{ID: "d2", Name: "Support", Position: 2},
	}}
	clock := base
	return NewStore(reconcile.DefaultMergeOptions(), 5*time.Second, StoreDeps{
		Sender:      sender,
		Departments: departments,
		Now:         func() time.Time { return clock },
	})
}

func userMsg(id, content string, offset time.Duration) domainChat.Message {
	return domainChat.Message{
		ID:        id,
		RemoteID:  id,
		Content:   content,
		Sender:    domainChat.RoleUser,
		SenderJID: "5511999998888@s.whatsapp.net",
		Timestamp: base.Add(offset),
	}
}

func candidateChat(msgs ...domainChat.Message) domainChat.Chat {
	return domainChat.Chat{
		ID:        "5511999998888",
		Phone:     "5511999998888",
		RemoteJID: "5511999998888@s.whatsapp.net",
		Messages:  msgs,
	}
}

func TestStore_FirstMessageTriggersMenuOnce(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	ctx := context.Background()

	store.ApplyFetch(ctx, []domainChat.Chat{candidateChat(userMsg("M1", "oi", 0))})

	sent := sender.messages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "1 - Sales")
	assert.Contains(t, sent[0], "2 - Support")

	c, ok := store.Get("5511999998888")
	require.True(t, ok)
	assert.True(t, c.MenuSent)
	assert.True(t, c.AwaitingSelection)
	assert.Equal(t, domainChat.StatusOpen, c.Status)

	// The same fetch arriving again must not re-prompt.
	store.ApplyFetch(ctx, []domainChat.Chat{candidateChat(userMsg("M1", "oi", 0))})
	assert.Len(t, sender.messages(), 1)
}

func TestStore_NumericReplySelectsDepartment(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	ctx := context.Background()

	store.ApplyFetch(ctx, []domainChat.Chat{candidateChat(userMsg("M1", "oi", 0))})
	store.ApplyEvent(ctx, candidateChat(userMsg("M2", "2", time.Minute)))

	c, ok := store.Get("5511999998888")
	require.True(t, ok)
	assert.Equal(t, domainChat.StatusPending, c.Status)
	assert.Equal(t, "d2", c.DepartmentID)
	assert.False(t, c.AwaitingSelection)

	for _, m := range c.Messages {
		assert.NotEqual(t, "2", m.Content, "the selection digit is control input, not transcript")
	}
}

func TestStore_ConsumedDigitStaysStrippedAfterRefetch(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	ctx := context.Background()

	store.ApplyFetch(ctx, []domainChat.Chat{candidateChat(userMsg("M1", "oi", 0))})
	store.ApplyEvent(ctx, candidateChat(userMsg("M2", "2", time.Minute)))

	// The gateway's history still contains the digit; a later full fetch
	// must not resurrect it.
	store.ApplyFetch(ctx, []domainChat.Chat{candidateChat(
		userMsg("M1", "oi", 0),
		userMsg("M2", "2", time.Minute),
	)})

	c, _ := store.Get("5511999998888")
	require.Len(t, c.Messages, 1)
	assert.Equal(t, "oi", c.Messages[0].Content)
	assert.Equal(t, domainChat.StatusPending, c.Status, "stale fetch must not downgrade the routed status")
}

func TestStore_OutOfRangeReplyLeavesChatUnassigned(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	ctx := context.Background()

	store.ApplyFetch(ctx, []domainChat.Chat{candidateChat(userMsg("M1", "oi", 0))})
	store.ApplyEvent(ctx, candidateChat(userMsg("M2", "9", time.Minute)))

	c, _ := store.Get("5511999998888")
	assert.Equal(t, domainChat.StatusOpen, c.Status)
	assert.Empty(t, c.DepartmentID)
	// The prompt is not resent automatically.
	assert.Len(t, sender.messages(), 1)
}

func TestStore_PushAndPollDeduplicate(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	ctx := context.Background()

	msg := userMsg("M1", "oi", 0)
	store.ApplyEvent(ctx, candidateChat(msg))
	store.ApplyFetch(ctx, []domainChat.Chat{candidateChat(msg)})
	store.ApplyEvent(ctx, candidateChat(msg))

	c, _ := store.Get("5511999998888")
	assert.Len(t, c.Messages, 1, "same remote id through poll and push yields one instance")
}

func TestStore_OptimisticSendMergesWithEcho(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	ctx := context.Background()

	local := store.ApplyLocalMessage(ctx, "5511999998888", "bom dia, como posso ajudar?")
	store.AttachRemoteID(ctx, "5511999998888", local.ID, "R77")

	// The gateway echoes the send a few seconds later.
	echo := domainChat.Message{
		ID:        "R77",
		RemoteID:  "R77",
		Content:   "bom dia, como posso ajudar?",
		Sender:    domainChat.RoleAgent,
		Timestamp: base.Add(8 * time.Second),
	}
	store.ApplyFetch(ctx, []domainChat.Chat{candidateChat(echo)})

	c, _ := store.Get("5511999998888")
	require.Len(t, c.Messages, 1)
	assert.Equal(t, "R77", c.Messages[0].RemoteID)
}

func TestStore_CloseSendsRatingPromptAndRecordsRating(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	ctx := context.Background()

	store.ApplyFetch(ctx, []domainChat.Chat{candidateChat(userMsg("M1", "oi", 0))})

	closed, ok := store.CloseChat(ctx, "5511999998888")
	require.True(t, ok)
	assert.Equal(t, domainChat.StatusClosed, closed.Status)
	assert.True(t, closed.AwaitingRating)

	sent := sender.messages()
	require.NotEmpty(t, sent)
	assert.Contains(t, sent[len(sent)-1], "1 a 5")

	store.ApplyEvent(ctx, candidateChat(userMsg("M2", "4", time.Minute)))

	c, _ := store.Get("5511999998888")
	assert.Equal(t, domainChat.StatusClosed, c.Status)
	assert.Equal(t, 4, c.Rating)
	assert.False(t, c.AwaitingRating)
}

func TestStore_ClosedChatReopensOnText(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	ctx := context.Background()

	store.ApplyFetch(ctx, []domainChat.Chat{candidateChat(userMsg("M1", "oi", 0))})
	store.AssignChat(ctx, "5511999998888", "d1", "agent-1")
	store.CloseChat(ctx, "5511999998888")

	store.ApplyEvent(ctx, candidateChat(userMsg("M2", "obrigado, voltei", time.Minute)))

	c, _ := store.Get("5511999998888")
	assert.Equal(t, domainChat.StatusOpen, c.Status)
	assert.Empty(t, c.DepartmentID, "reopen clears routing for re-triage")
	assert.Empty(t, c.AssignedUserID)
	assert.False(t, c.AwaitingRating)
}

func TestStore_AliasEventConsolidatesIntoPhoneChat(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	ctx := context.Background()

	store.ApplyFetch(ctx, []domainChat.Chat{candidateChat(userMsg("M1", "oi", 0))})

	aliasChat := domainChat.Chat{
		ID:        "abc123@lid",
		RemoteJID: "abc123@lid",
		Messages: []domainChat.Message{{
			ID:        "M9",
			RemoteID:  "M9",
			Content:   "mensagem pelo alias",
			Sender:    domainChat.RoleUser,
			SenderJID: "5511999998888@s.whatsapp.net",
			Timestamp: base.Add(2 * time.Minute),
		}},
	}
	store.ApplyEvent(ctx, aliasChat)

	_, aliasExists := store.Get("abc123@lid")
	assert.False(t, aliasExists, "alias record must fold into the numeric chat")

	c, ok := store.Get("5511999998888")
	require.True(t, ok)
	assert.Len(t, c.Messages, 2)
}

func TestStore_AliasPromotionDeletesSupersededRow(t *testing.T) {
	sender := &fakeSender{}
	repo := &fakeRepo{}
	store := newTestStore(sender)
	store.repo = repo
	ctx := context.Background()

	// The alias chat arrives first and lands in storage under its own key.
	store.ApplyEvent(ctx, domainChat.Chat{
		ID:        "abc123@lid",
		RemoteJID: "abc123@lid",
		Messages: []domainChat.Message{{
			ID: "M1", RemoteID: "M1", Content: "oi",
			Sender: domainChat.RoleUser, SenderJID: "abc123@lid",
			Timestamp: base,
		}},
	})
	_, ok := store.Get("abc123@lid")
	require.True(t, ok)

	// A later message exposes the phone number and promotes the key.
	store.ApplyEvent(ctx, domainChat.Chat{
		ID:        "abc123@lid",
		RemoteJID: "abc123@lid",
		Messages: []domainChat.Message{{
			ID: "M2", RemoteID: "M2", Content: "meu pedido atrasou",
			Sender: domainChat.RoleUser, SenderJID: "5511999998888@s.whatsapp.net",
			Timestamp: base.Add(time.Minute),
		}},
	})

	_, ok = store.Get("abc123@lid")
	assert.False(t, ok)
	c, ok := store.Get("5511999998888")
	require.True(t, ok)
	assert.Len(t, c.Messages, 2)
	assert.Contains(t, repo.deleted(), "abc123@lid", "superseded row must leave storage too")
}

func TestStore_ConsumedDigitFollowsAliasPromotion(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	ctx := context.Background()

	aliasMsg := func(id, content string, offset time.Duration) domainChat.Message {
		return domainChat.Message{
			ID: id, RemoteID: id, Content: content,
			Sender: domainChat.RoleUser, SenderJID: "abc123@lid",
			Timestamp: base.Add(offset),
		}
	}
	aliasChat := func(msgs ...domainChat.Message) domainChat.Chat {
		return domainChat.Chat{ID: "abc123@lid", RemoteJID: "abc123@lid", Messages: msgs}
	}

	store.ApplyEvent(ctx, aliasChat(aliasMsg("M1", "oi", 0)))
	store.ApplyEvent(ctx, aliasChat(aliasMsg("M2", "1", time.Minute)))

	c, ok := store.Get("abc123@lid")
	require.True(t, ok)
	require.Equal(t, "d1", c.DepartmentID)

	// A later message exposes the phone number. The digit consumed under the
	// alias key must stay consumed under the promoted key.
	reveal := userMsg("M3", "meu pedido atrasou", 2*time.Minute)
	store.ApplyEvent(ctx, aliasChat(reveal))

	store.ApplyFetch(ctx, []domainChat.Chat{aliasChat(
		aliasMsg("M1", "oi", 0),
		aliasMsg("M2", "1", time.Minute),
		reveal,
	)})

	c, ok = store.Get("5511999998888")
	require.True(t, ok)
	for _, m := range c.Messages {
		assert.NotEqual(t, "1", m.Content, "the consumed digit must not resurrect after promotion")
	}
	assert.Equal(t, "d1", c.DepartmentID)
	assert.Equal(t, domainChat.StatusPending, c.Status)
}

func TestStore_AssignChat(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	ctx := context.Background()

	store.ApplyFetch(ctx, []domainChat.Chat{candidateChat(userMsg("M1", "oi", 0))})

	c, ok := store.AssignChat(ctx, "5511999998888", "d1", "agent-7")
	require.True(t, ok)
	assert.Equal(t, domainChat.StatusPending, c.Status)
	assert.Equal(t, "d1", c.DepartmentID)
	assert.Equal(t, "agent-7", c.AssignedUserID)
	assert.False(t, c.AwaitingSelection)

	_, ok = store.AssignChat(ctx, "nope", "d1", "")
	assert.False(t, ok)
}

func TestStore_ClearDepartment(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	ctx := context.Background()

	store.ApplyFetch(ctx, []domainChat.Chat{candidateChat(userMsg("M1", "oi", 0))})
	store.AssignChat(ctx, "5511999998888", "d1", "")

	store.ClearDepartment(ctx, "d1")

	c, _ := store.Get("5511999998888")
	assert.Empty(t, c.DepartmentID)
}

func TestStore_BackfillThrottle(t *testing.T) {
	sender := &fakeSender{}
	clock := base
	store := NewStore(reconcile.DefaultMergeOptions(), 5*time.Second, StoreDeps{
		Sender: sender,
		Now:    func() time.Time { return clock },
	})

	assert.True(t, store.NeedsBackfill("c1"))
	assert.False(t, store.NeedsBackfill("c1"), "second fetch within the window is throttled")
	assert.True(t, store.NeedsBackfill("c2"), "throttle is per chat")

	clock = clock.Add(6 * time.Second)
	assert.True(t, store.NeedsBackfill("c1"))
}

func TestStore_SnapshotOrdersByActivity(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	ctx := context.Background()

	older := domainChat.Chat{
		ID: "5511999990000", Phone: "5511999990000", RemoteJID: "5511999990000@s.whatsapp.net",
		Messages: []domainChat.Message{{ID: "A", RemoteID: "A", Content: "oi", Sender: domainChat.RoleUser, Timestamp: base}},
	}
	newer := domainChat.Chat{
		ID: "5511999991111", Phone: "5511999991111", RemoteJID: "5511999991111@s.whatsapp.net",
		Messages: []domainChat.Message{{ID: "B", RemoteID: "B", Content: "oi", Sender: domainChat.RoleUser, Timestamp: base.Add(time.Hour)}},
	}
	store.ApplyFetch(ctx, []domainChat.Chat{older, newer})

	snap := store.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "5511999991111", snap[0].ID)
}

func TestStore_WorkflowAutoReplyOnRoutedChat(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	store.workflows = &fakeWorkflows{wf: &domainWorkflow.Workflow{
		Name:    "Pricing",
		Keyword: "preço",
		Enabled: true,
		Steps: []domainWorkflow.Step{
			{Position: 1, Content: "Nossos planos começam em R$ 49."},
			{Position: 2, Content: "Posso te enviar a tabela completa?"},
		},
	}}
	ctx := context.Background()

	store.ApplyFetch(ctx, []domainChat.Chat{candidateChat(userMsg("M1", "oi", 0))})
	store.ApplyEvent(ctx, candidateChat(userMsg("M2", "1", time.Minute)))
	baseline := len(sender.messages())

	store.ApplyEvent(ctx, candidateChat(userMsg("M3", "qual o preço?", 2*time.Minute)))

	require.Eventually(t, func() bool {
		return len(sender.messages()) == baseline+2
	}, time.Second, 10*time.Millisecond)
	sent := sender.messages()
	assert.Equal(t, "Nossos planos começam em R$ 49.", sent[baseline])
	assert.Equal(t, "Posso te enviar a tabela completa?", sent[baseline+1])

	// A refetch of the same history must not fire the sequence again.
	store.ApplyEvent(ctx, candidateChat(userMsg("M3", "qual o preço?", 2*time.Minute)))
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, sender.messages(), baseline+2)
}

func TestStore_WorkflowSkippedWhileMenuOwnsTheTurn(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	store.workflows = &fakeWorkflows{wf: &domainWorkflow.Workflow{
		Name:    "Pricing",
		Keyword: "preço",
		Enabled: true,
		Steps:   []domainWorkflow.Step{{Position: 1, Content: "Tabela de preços"}},
	}}
	ctx := context.Background()

	// First contact matches the keyword, but the department menu takes
	// precedence over the auto-reply.
	store.ApplyFetch(ctx, []domainChat.Chat{candidateChat(userMsg("M1", "qual o preço?", 0))})

	time.Sleep(50 * time.Millisecond)
	sent := sender.messages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "1 - Sales")
}

func TestStore_MarkReadClearsUnread(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	ctx := context.Background()

	c := candidateChat(userMsg("M1", "oi", 0))
	c.UnreadCount = 3
	store.ApplyFetch(ctx, []domainChat.Chat{c})

	got, ok := store.Get("5511999998888")
	require.True(t, ok)
	require.Equal(t, 3, got.UnreadCount)

	store.MarkRead(ctx, "5511999998888")
	got, _ = store.Get("5511999998888")
	assert.Zero(t, got.UnreadCount)
}

func TestStore_HasOutstandingPrompt(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	ctx := context.Background()

	assert.False(t, store.HasOutstandingPrompt())

	store.ApplyFetch(ctx, []domainChat.Chat{candidateChat(userMsg("M1", "oi", 0))})
	assert.True(t, store.HasOutstandingPrompt())

	store.ApplyEvent(ctx, candidateChat(userMsg("M2", "1", time.Minute)))
	assert.False(t, store.HasOutstandingPrompt())
}

func TestStore_RecordRatingClearsAwaitingFlag(t *testing.T) {
	sender := &fakeSender{}
	store := newTestStore(sender)
	ctx := context.Background()

	store.ApplyFetch(ctx, []domainChat.Chat{candidateChat(userMsg("M1", "oi", 0))})
	_, ok := store.CloseChat(ctx, "5511999998888")
	require.True(t, ok)

	c, ok := store.RecordRating(ctx, "5511999998888", 5)
	require.True(t, ok)
	assert.Equal(t, 5, c.Rating)
	assert.False(t, c.AwaitingRating)
	assert.Equal(t, domainChat.StatusClosed, c.Status)

	_, ok = store.RecordRating(ctx, "unknown", 3)
	assert.False(t, ok)
}
