package sessions

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/angelmondragon/trainingdesk-backend/internal/assistant"
	"github.com/angelmondragon/trainingdesk-backend/internal/store"
	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
	"github.com/angelmondragon/trainingdesk-backend/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResponder struct {
	replyFn func(ctx context.Context, prompt string) (string, error)
}

func (f fakeResponder) Reply(ctx context.Context, prompt string) (string, error) {
	return f.replyFn(ctx, prompt)
}

type countingReplies struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (c *countingReplies) IncReply(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcomes == nil {
		c.outcomes = map[string]int{}
	}
	c.outcomes[outcome]++
}

var (
	sneha = Owner{UserID: "u4", Role: enums.UserRoleTrainee}
	priya = Owner{UserID: "u2", Role: enums.UserRoleTrainee}
	admin = Owner{UserID: "admin", Role: enums.UserRoleAdmin}
)

func newTestService(t *testing.T, responder assistant.Responder) (Service, *store.Root, *countingReplies) {
	t.Helper()
	root := store.New(store.WithInitialState(store.MockState("hash")))
	replies := &countingReplies{}
	if responder == nil {
		responder = assistant.NewCannedResponder(0, assistant.WithReplies("canned"))
	}
	svc, err := NewService(ServiceParams{
		Store:     root,
		Responder: responder,
		Replies:   replies,
		Logger:    logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc, root, replies
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code(), typed.Message())
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	requireCode(t, err, pkgerrors.CodeDependency)
}

func TestFullFlow(t *testing.T) {
	ctx := context.Background()
	svc, _, replies := newTestService(t, nil)

	view, err := svc.Start(ctx, sneha, "1")
	require.NoError(t, err)
	assert.Equal(t, "CloudSync Pro", view.ProductName)
	assert.Equal(t, PhaseGuidelinesPending, view.Phase)

	view, err = svc.AcceptGuidelines(ctx, sneha)
	require.NoError(t, err)
	assert.Equal(t, PhaseVideoPending, view.Phase)

	view, err = svc.CompleteVideo(ctx, sneha)
	require.NoError(t, err)
	assert.Equal(t, PhaseChat, view.Phase)

	res, err := svc.SendMessage(ctx, sneha, "  hi  ")
	require.NoError(t, err)
	assert.Equal(t, "hi", res.UserMessage.Content)
	assert.Equal(t, enums.MessageRoleUser, res.UserMessage.Role)
	require.NotNil(t, res.Reply)
	assert.Equal(t, "canned", res.Reply.Content)
	assert.Len(t, res.Session.Messages, 2)

	done, err := svc.Complete(ctx, sneha)
	require.NoError(t, err)
	assert.Equal(t, PhaseCompleted, done.Phase)
	assert.Equal(t, enums.SessionStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)

	_, err = svc.Current(ctx, sneha)
	requireCode(t, err, pkgerrors.CodeNotFound)
	assert.Equal(t, 1, replies.outcomes[metrics.ReplyDelivered])
}

func TestStartRejectsUnknownProductAndDoubleStart(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, nil)

	_, err := svc.Start(ctx, sneha, "")
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Start(ctx, sneha, "404")
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Start(ctx, sneha, "2")
	require.NoError(t, err)
	_, err = svc.Start(ctx, sneha, "3")
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

func TestOrderingIsEnforced(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, nil)

	_, err := svc.AcceptGuidelines(ctx, sneha)
	requireCode(t, err, pkgerrors.CodeStateConflict)

	_, err = svc.Start(ctx, sneha, "1")
	require.NoError(t, err)

	_, err = svc.CompleteVideo(ctx, sneha)
	requireCode(t, err, pkgerrors.CodeStateConflict)

	_, err = svc.SendMessage(ctx, sneha, "too early")
	requireCode(t, err, pkgerrors.CodeStateConflict)

	_, err = svc.Complete(ctx, sneha)
	requireCode(t, err, pkgerrors.CodeStateConflict)

	_, err = svc.AcceptGuidelines(ctx, sneha)
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, sneha, "still too early")
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

func TestSendMessageValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, nil)
	_, err := svc.SendMessage(ctx, sneha, "   ")
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Start(ctx, sneha, "1")
	require.NoError(t, err)
	_, _ = svc.AcceptGuidelines(ctx, sneha)
	_, _ = svc.CompleteVideo(ctx, sneha)

	_, err = svc.SendMessage(ctx, sneha, strings.Repeat("é", 4001))
	requireCode(t, err, pkgerrors.CodeValidation)

	res, err := svc.SendMessage(ctx, sneha, "  "+strings.Repeat("é", 4000)+"  ")
	require.NoError(t, err, "limit counts characters after trimming")
	assert.Equal(t, 4000, utf8.RuneCountInString(res.UserMessage.Content))
}

func TestAbandonFromAnyPhase(t *testing.T) {
	ctx := context.Background()
	svc, root, _ := newTestService(t, nil)

	_, err := svc.Abandon(ctx, sneha)
	requireCode(t, err, pkgerrors.CodeStateConflict)

	_, err = svc.Start(ctx, sneha, "2")
	require.NoError(t, err)
	view, err := svc.Abandon(ctx, sneha)
	require.NoError(t, err)
	assert.Equal(t, PhaseIncomplete, view.Phase)
	assert.Nil(t, view.CompletedAt)

	history := root.Sessions()
	assert.Equal(t, enums.SessionStatusIncomplete, history[len(history)-1].Status)
}

func TestReplyForFinishedSessionIsDiscarded(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	entered := make(chan struct{})
	responder := fakeResponder{replyFn: func(ctx context.Context, _ string) (string, error) {
		close(entered)
		<-release
		return "late", nil
	}}
	svc, root, replies := newTestService(t, responder)

	started, err := svc.Start(ctx, sneha, "1")
	require.NoError(t, err)
	_, err = svc.AcceptGuidelines(ctx, sneha)
	require.NoError(t, err)
	_, err = svc.CompleteVideo(ctx, sneha)
	require.NoError(t, err)

	type outcome struct {
		res *SendResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := svc.SendMessage(ctx, sneha, "question")
		done <- outcome{res, err}
	}()

	<-entered
	_, err = svc.Complete(ctx, sneha)
	require.NoError(t, err)
	close(release)

	got := <-done
	require.NoError(t, got.err)
	assert.Nil(t, got.res.Reply)

	archived, ok := root.Session(started.ID)
	require.True(t, ok)
	require.Len(t, archived.Messages, 1)
	assert.Equal(t, "question", archived.Messages[0].Content)
	assert.Equal(t, 1, replies.outcomes[metrics.ReplyDiscarded])
}

func TestReplyCanceledKeepsUserMessage(t *testing.T) {
	responder := fakeResponder{replyFn: func(ctx context.Context, _ string) (string, error) {
		return "", context.Canceled
	}}
	svc, _, replies := newTestService(t, responder)
	ctx := context.Background()

	_, err := svc.Start(ctx, sneha, "1")
	require.NoError(t, err)
	_, _ = svc.AcceptGuidelines(ctx, sneha)
	_, _ = svc.CompleteVideo(ctx, sneha)

	res, err := svc.SendMessage(ctx, sneha, "anyone there?")
	require.NoError(t, err)
	assert.Nil(t, res.Reply)
	assert.Len(t, res.Session.Messages, 1)
	assert.Equal(t, 1, replies.outcomes[metrics.ReplyCanceled])
}

func TestReplyFailureIsDependencyError(t *testing.T) {
	responder := fakeResponder{replyFn: func(context.Context, string) (string, error) {
		return "", errors.New("model offline")
	}}
	svc, _, _ := newTestService(t, responder)
	ctx := context.Background()

	_, _ = svc.Start(ctx, sneha, "1")
	_, _ = svc.AcceptGuidelines(ctx, sneha)
	_, _ = svc.CompleteVideo(ctx, sneha)

	_, err := svc.SendMessage(ctx, sneha, "hello")
	requireCode(t, err, pkgerrors.CodeDependency)
}

func TestHistoryAndGet(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, nil)

	all, err := svc.History(ctx, sneha, HistoryParams{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	completed, err := svc.History(ctx, sneha, HistoryParams{Status: enums.SessionStatusCompleted})
	require.NoError(t, err)
	assert.Len(t, completed, 2)

	byProduct, err := svc.History(ctx, sneha, HistoryParams{ProductID: "3"})
	require.NoError(t, err)
	require.Len(t, byProduct, 1)
	assert.Equal(t, PhaseVideoPending, byProduct[0].Phase)

	_, err = svc.History(ctx, sneha, HistoryParams{Status: "paused"})
	requireCode(t, err, pkgerrors.CodeValidation)

	s1, err := svc.Get(ctx, sneha, "s1")
	require.NoError(t, err)
	assert.Len(t, s1.Messages, 2)

	_, err = svc.Get(ctx, sneha, "missing")
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestSessionsAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, nil)

	mine, err := svc.Start(ctx, sneha, "1")
	require.NoError(t, err)
	assert.Equal(t, "u4", mine.UserID)
	theirs, err := svc.Start(ctx, priya, "1")
	require.NoError(t, err, "a second trainee starts independently")
	assert.NotEqual(t, mine.ID, theirs.ID)

	_, err = svc.AcceptGuidelines(ctx, priya)
	require.NoError(t, err)
	cur, err := svc.Current(ctx, sneha)
	require.NoError(t, err)
	assert.False(t, cur.GuidelinesAccepted)

	abandoned, err := svc.Abandon(ctx, priya)
	require.NoError(t, err)
	assert.Equal(t, theirs.ID, abandoned.ID)
	cur, err = svc.Current(ctx, sneha)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, cur.ID)

	_, err = svc.Get(ctx, priya, "s1")
	requireCode(t, err, pkgerrors.CodeNotFound)
	_, err = svc.Get(ctx, sneha, theirs.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
	got, err := svc.Get(ctx, admin, theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, "u2", got.UserID)

	priyaHistory, err := svc.History(ctx, priya, HistoryParams{})
	require.NoError(t, err)
	require.Len(t, priyaHistory, 1)
	assert.Equal(t, theirs.ID, priyaHistory[0].ID)

	snehaHistory, err := svc.History(ctx, sneha, HistoryParams{})
	require.NoError(t, err)
	assert.Len(t, snehaHistory, 3)

	everything, err := svc.History(ctx, admin, HistoryParams{})
	require.NoError(t, err)
	assert.Len(t, everything, 4)
}

func TestOwnerIsRequired(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, nil)

	_, err := svc.Start(ctx, Owner{}, "1")
	requireCode(t, err, pkgerrors.CodeUnauthorized)
	_, err = svc.History(ctx, Owner{Role: enums.UserRoleAdmin}, HistoryParams{})
	requireCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestPhaseOf(t *testing.T) {
	tests := []struct {
		session store.Session
		want    Phase
	}{
		{store.Session{Status: enums.SessionStatusInProgress}, PhaseGuidelinesPending},
		{store.Session{Status: enums.SessionStatusInProgress, GuidelinesAccepted: true}, PhaseVideoPending},
		{store.Session{Status: enums.SessionStatusInProgress, GuidelinesAccepted: true, VideoWatched: true}, PhaseChat},
		{store.Session{Status: enums.SessionStatusCompleted}, PhaseCompleted},
		{store.Session{Status: enums.SessionStatusIncomplete, GuidelinesAccepted: true}, PhaseIncomplete},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PhaseOf(tt.session))
	}
}
