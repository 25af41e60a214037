package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unknownAction struct{}

func (unknownAction) ActionType() string { return "test/unknown" }

type recordingObserver struct {
	mu      sync.Mutex
	actions []string
}

func (o *recordingObserver) ObserveDispatch(action string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.actions = append(o.actions, action)
}

func newTestRoot(t *testing.T, opts ...Option) (*Root, *time.Time) {
	t.Helper()

	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	seq := 0
	base := []Option{
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	}
	return New(append(base, opts...)...), &now
}

func dispatch(t *testing.T, r *Root, actions ...Action) {
	t.Helper()
	for _, a := range actions {
		require.NoError(t, r.Dispatch(context.Background(), a), a.ActionType())
	}
}

func TestDispatchRejectsUnknownAction(t *testing.T) {
	r, _ := newTestRoot(t)

	err := r.Dispatch(context.Background(), unknownAction{})
	require.ErrorIs(t, err, ErrUnknownAction)

	err = r.Dispatch(context.Background(), nil)
	require.ErrorIs(t, err, ErrUnknownAction)
}

func TestDispatchHonoursCanceledContext(t *testing.T) {
	r, _ := newTestRoot(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Dispatch(ctx, AddProduct{Product: Product{ID: "p"}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, r.Products())
}

func TestDispatchNotifiesObserver(t *testing.T) {
	obs := &recordingObserver{}
	r, _ := newTestRoot(t, WithObserver(obs))

	dispatch(t, r, StartSession{ProductID: "1", ProductName: "CloudSync Pro"}, AcceptGuidelines{})
	_ = r.Dispatch(context.Background(), unknownAction{})

	assert.Equal(t, []string{"session/startSession", "session/acceptGuidelines"}, obs.actions)
}

func TestProductSelection(t *testing.T) {
	r, _ := newTestRoot(t)
	p := Product{ID: "1", Name: "CloudSync Pro"}

	dispatch(t, r, AddProduct{Product: p}, SelectProduct{Product: p})
	selected, ok := r.SelectedProduct()
	require.True(t, ok)
	assert.Equal(t, "CloudSync Pro", selected.Name)

	dispatch(t, r, ClearSelectedProduct{})
	_, ok = r.SelectedProduct()
	assert.False(t, ok)

	got, ok := r.Product("1")
	require.True(t, ok)
	assert.Equal(t, p, got)
}

func TestDocumentSetIsOrderIndependent(t *testing.T) {
	initial := []Document{
		{ID: "a", ProductID: "1", Purpose: enums.DocumentPurposeTraining},
		{ID: "b", ProductID: "1", Purpose: enums.DocumentPurposeReference},
	}
	additions := []Document{
		{ID: "c", ProductID: "1", Purpose: enums.DocumentPurposeTraining},
		{ID: "d", ProductID: "2", Purpose: enums.DocumentPurposeTechnical},
	}
	deletions := []string{"a", "d"}

	build := func(order []Action) []string {
		r, _ := newTestRoot(t, WithInitialState(State{Documents: DocumentState{Documents: initial}}))
		dispatch(t, r, order...)
		var ids []string
		for _, d := range r.Documents() {
			ids = append(ids, d.ID)
		}
		return ids
	}

	// Deletions that target additions must follow them; the rest can interleave freely.
	orderA := []Action{AddDocument{additions[0]}, AddDocument{additions[1]}, DeleteDocument{deletions[0]}, DeleteDocument{deletions[1]}}
	orderB := []Action{DeleteDocument{deletions[0]}, AddDocument{additions[1]}, AddDocument{additions[0]}, DeleteDocument{deletions[1]}}

	assert.ElementsMatch(t, []string{"b", "c"}, build(orderA))
	assert.ElementsMatch(t, build(orderA), build(orderB))
}

func TestDeleteUnknownDocumentIsNoop(t *testing.T) {
	r, _ := newTestRoot(t, WithInitialState(MockState("hash")))
	before := len(r.Documents())
	dispatch(t, r, DeleteDocument{ID: "missing"})
	assert.Len(t, r.Documents(), before)
}

func TestAddDocumentDoesNotEnforceCap(t *testing.T) {
	r, _ := newTestRoot(t)
	for i := 0; i < 12; i++ {
		dispatch(t, r, AddDocument{Document: Document{ID: fmt.Sprintf("d%d", i), ProductID: "1", Purpose: enums.DocumentPurposeTraining}})
	}
	assert.Len(t, r.DocumentsByProduct("1"), 12)
}

func TestSessionCompleteMovesToHistory(t *testing.T) {
	r, now := newTestRoot(t)

	dispatch(t, r, StartSession{ProductID: "1", ProductName: "CloudSync Pro"})
	cur, ok := r.CurrentSession("")
	require.True(t, ok)
	assert.Equal(t, enums.SessionStatusInProgress, cur.Status)
	assert.False(t, cur.GuidelinesAccepted)
	assert.False(t, cur.VideoWatched)
	assert.NotNil(t, cur.Messages)

	*now = now.Add(30 * time.Minute)
	dispatch(t, r, CompleteSession{})

	_, ok = r.CurrentSession("")
	assert.False(t, ok, "current slot should be cleared")

	history := r.Sessions()
	require.Len(t, history, 1)
	assert.Equal(t, enums.SessionStatusCompleted, history[0].Status)
	require.NotNil(t, history[0].CompletedAt)
	assert.Equal(t, *now, *history[0].CompletedAt)
	assert.Equal(t, *now, history[0].LastAccessedAt)
}

func TestSessionMarkIncomplete(t *testing.T) {
	r, _ := newTestRoot(t)

	dispatch(t, r, StartSession{ProductID: "2", ProductName: "DataGuard Shield"}, AcceptGuidelines{}, MarkIncomplete{})

	history := r.Sessions()
	require.Len(t, history, 1)
	assert.Equal(t, enums.SessionStatusIncomplete, history[0].Status)
	assert.Nil(t, history[0].CompletedAt)
	assert.True(t, history[0].GuidelinesAccepted)
}

func TestSessionActionsWithoutCurrentAreNoops(t *testing.T) {
	r, _ := newTestRoot(t)

	dispatch(t, r,
		AcceptGuidelines{},
		CompleteVideo{},
		AddMessage{Role: enums.MessageRoleUser, Content: "hi"},
		CompleteSession{},
		MarkIncomplete{},
	)

	_, ok := r.CurrentSession("")
	assert.False(t, ok)
	assert.Empty(t, r.Sessions())
}

func TestStartSessionOverwritesCurrent(t *testing.T) {
	r, _ := newTestRoot(t)

	dispatch(t, r, StartSession{ProductID: "1", ProductName: "CloudSync Pro"}, AcceptGuidelines{})
	dispatch(t, r, StartSession{ProductID: "2", ProductName: "DataGuard Shield"})

	cur, ok := r.CurrentSession("")
	require.True(t, ok)
	assert.Equal(t, "2", cur.ProductID)
	assert.False(t, cur.GuidelinesAccepted)
	assert.Empty(t, r.Sessions(), "overwritten session is not archived")
}

func TestAddMessageAppendsInOrder(t *testing.T) {
	r, _ := newTestRoot(t)
	dispatch(t, r, StartSession{ProductID: "1", ProductName: "CloudSync Pro"}, AcceptGuidelines{}, CompleteVideo{})

	prior, _ := r.CurrentSession("")
	contents := []string{"first", "second", "second", "third"}
	for i, c := range contents {
		role := enums.MessageRoleUser
		if i%2 == 1 {
			role = enums.MessageRoleAssistant
		}
		dispatch(t, r, AddMessage{Role: role, Content: c})
	}

	cur, _ := r.CurrentSession("")
	require.Len(t, cur.Messages, len(prior.Messages)+len(contents))
	for i, c := range contents {
		assert.Equal(t, c, cur.Messages[i].Content)
		assert.NotEmpty(t, cur.Messages[i].ID)
	}
	assert.NotEqual(t, cur.Messages[1].ID, cur.Messages[2].ID, "duplicates get distinct ids")
}

func TestAddMessageForStaleSessionIsDropped(t *testing.T) {
	r, _ := newTestRoot(t)
	dispatch(t, r, StartSession{ProductID: "1", ProductName: "CloudSync Pro"})
	first, _ := r.CurrentSession("")
	dispatch(t, r, CompleteSession{}, StartSession{ProductID: "2", ProductName: "DataGuard Shield"})

	dispatch(t, r, AddMessage{SessionID: first.ID, Role: enums.MessageRoleAssistant, Content: "late reply"})
	cur, _ := r.CurrentSession("")
	assert.Empty(t, cur.Messages)

	dispatch(t, r, AddMessage{SessionID: cur.ID, Role: enums.MessageRoleAssistant, Content: "on time"})
	cur, _ = r.CurrentSession("")
	assert.Len(t, cur.Messages, 1)
}

func TestSessionsAreKeptPerUser(t *testing.T) {
	r, _ := newTestRoot(t)

	dispatch(t, r,
		StartSession{UserID: "u2", ProductID: "1", ProductName: "CloudSync Pro"},
		StartSession{UserID: "u4", ProductID: "2", ProductName: "DataGuard Shield"},
		AcceptGuidelines{UserID: "u2"},
	)

	priya, ok := r.CurrentSession("u2")
	require.True(t, ok)
	sneha, ok := r.CurrentSession("u4")
	require.True(t, ok)
	assert.Equal(t, "u2", priya.UserID)
	assert.True(t, priya.GuidelinesAccepted)
	assert.False(t, sneha.GuidelinesAccepted)
	assert.NotEqual(t, priya.ID, sneha.ID)

	dispatch(t, r, MarkIncomplete{UserID: "u4"}, AddMessage{UserID: "u4", Content: "late"})
	_, ok = r.CurrentSession("u4")
	assert.False(t, ok)
	priya, ok = r.CurrentSession("u2")
	require.True(t, ok, "another user's abandon leaves this session alone")
	assert.Empty(t, priya.Messages)

	history := r.Sessions()
	require.Len(t, history, 1)
	assert.Equal(t, "u4", history[0].UserID)

	got, ok := r.Session(priya.ID)
	require.True(t, ok)
	assert.Equal(t, "u2", got.UserID)
}

func TestCloudSyncProWalkthrough(t *testing.T) {
	r, _ := newTestRoot(t)

	dispatch(t, r,
		StartSession{ProductID: "1", ProductName: "CloudSync Pro"},
		AcceptGuidelines{},
		CompleteVideo{},
		AddMessage{Role: enums.MessageRoleUser, Content: "hi"},
		CompleteSession{},
	)

	history := r.Sessions()
	require.Len(t, history, 1)
	s := history[0]
	assert.Equal(t, "CloudSync Pro", s.ProductName)
	assert.True(t, s.VideoWatched)
	assert.True(t, s.GuidelinesAccepted)
	assert.Len(t, s.Messages, 1)
	assert.Equal(t, enums.SessionStatusCompleted, s.Status)
}

func TestSessionLookupCoversCurrentAndHistory(t *testing.T) {
	r, _ := newTestRoot(t, WithInitialState(MockState("hash")))
	dispatch(t, r, StartSession{ProductID: "1", ProductName: "CloudSync Pro"})
	cur, _ := r.CurrentSession("")

	got, ok := r.Session(cur.ID)
	require.True(t, ok)
	assert.Equal(t, cur.ID, got.ID)

	got, ok = r.Session("s1")
	require.True(t, ok)
	assert.Len(t, got.Messages, 2)

	_, ok = r.Session("nope")
	assert.False(t, ok)
}

func TestSelectorsReturnCopies(t *testing.T) {
	r, _ := newTestRoot(t, WithInitialState(MockState("hash")))

	sessions := r.Sessions()
	sessions[0].Messages[0].Content = "mutated"
	sessions[0].ProductName = "mutated"

	fresh := r.Sessions()
	assert.Equal(t, "How do I configure the sync settings?", fresh[0].Messages[0].Content)
	assert.Equal(t, "CloudSync Pro", fresh[0].ProductName)

	users := r.Users()
	*users[0].LastLogin = time.Time{}
	again, _ := r.User(users[0].ID)
	assert.False(t, again.LastLogin.IsZero())

	snap := r.Snapshot()
	snap.Products.Products[0].Name = "mutated"
	p, _ := r.Product("1")
	assert.Equal(t, "CloudSync Pro", p.Name)
}

func TestWithInitialStateCopiesInput(t *testing.T) {
	seed := MockState("hash")
	r, _ := newTestRoot(t, WithInitialState(seed))
	seed.Products.Products[0].Name = "changed after seeding"

	p, _ := r.Product("1")
	assert.Equal(t, "CloudSync Pro", p.Name)
}

func TestConcurrentDispatch(t *testing.T) {
	r := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Dispatch(ctx, AddDocument{Document: Document{ID: fmt.Sprintf("doc-%d", i), ProductID: "1"}})
			_ = r.Dispatch(ctx, FilterUsers{Term: "a"})
			_ = r.Snapshot()
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.Documents(), 50)
}

func TestErrUnknownActionWrapsType(t *testing.T) {
	err := New().Dispatch(context.Background(), unknownAction{})
	assert.True(t, errors.Is(err, ErrUnknownAction))
	assert.Contains(t, err.Error(), "unknownAction")
}
