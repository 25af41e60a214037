package sessions

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/angelmondragon/trainingdesk-backend/internal/assistant"
	"github.com/angelmondragon/trainingdesk-backend/internal/store"
	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
	"github.com/angelmondragon/trainingdesk-backend/pkg/metrics"
)

const maxMessageLength = 4000

// Store is the slice of the root store the session flow needs.
type Store interface {
	Dispatch(ctx context.Context, action store.Action) error
	Product(id string) (store.Product, bool)
	CurrentSession(userID string) (store.Session, bool)
	Sessions() []store.Session
	Session(id string) (store.Session, bool)
}

// ReplyRecorder counts assistant reply outcomes.
type ReplyRecorder interface {
	IncReply(outcome string)
}

// Service runs the guided training flow: guidelines, video, then chat.
type Service interface {
	Start(ctx context.Context, owner Owner, productID string) (*SessionView, error)
	Current(ctx context.Context, owner Owner) (*SessionView, error)
	AcceptGuidelines(ctx context.Context, owner Owner) (*SessionView, error)
	CompleteVideo(ctx context.Context, owner Owner) (*SessionView, error)
	SendMessage(ctx context.Context, owner Owner, content string) (*SendResult, error)
	Complete(ctx context.Context, owner Owner) (*SessionView, error)
	Abandon(ctx context.Context, owner Owner) (*SessionView, error)
	History(ctx context.Context, owner Owner, params HistoryParams) ([]SessionView, error)
	Get(ctx context.Context, owner Owner, id string) (*SessionView, error)
}

type ServiceParams struct {
	Store     Store
	Responder assistant.Responder
	Replies   ReplyRecorder
	Logger    *logger.Logger
}

type service struct {
	store     Store
	responder assistant.Responder
	replies   ReplyRecorder
	logg      *logger.Logger

	// mu makes each precondition check and its dispatch one step.
	mu sync.Mutex
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session store required")
	}
	if params.Responder == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "assistant responder required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		store:     params.Store,
		responder: params.Responder,
		replies:   params.Replies,
		logg:      params.Logger,
	}, nil
}

func (s *service) Start(ctx context.Context, owner Owner, productID string) (*SessionView, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.Validation("validation failed", pkgerrors.FieldErrors{"product_id": "is required"})
	}
	product, ok := s.store.Product(productID)
	if !ok {
		return nil, pkgerrors.NotFound("product", productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.store.CurrentSession(owner.UserID); ok {
		return nil, pkgerrors.StateConflict("a session is already in progress", map[string]any{
			"session_id": cur.ID,
			"product_id": cur.ProductID,
		})
	}
	if err := s.store.Dispatch(ctx, store.StartSession{UserID: owner.UserID, ProductID: product.ID, ProductName: product.Name}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "start session")
	}

	cur, _ := s.store.CurrentSession(owner.UserID)
	ctx = s.logg.WithFields(ctx, map[string]any{"session_id": cur.ID, "product_id": product.ID, "user_id": owner.UserID})
	s.logg.Info(ctx, "session.started")
	view := newView(cur)
	return &view, nil
}

func (s *service) Current(ctx context.Context, owner Owner) (*SessionView, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	cur, ok := s.store.CurrentSession(owner.UserID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no session in progress")
	}
	view := newView(cur)
	return &view, nil
}

func (s *service) AcceptGuidelines(ctx context.Context, owner Owner) (*SessionView, error) {
	return s.advance(ctx, owner, store.AcceptGuidelines{UserID: owner.UserID}, "session.guidelines_accepted", nil)
}

func (s *service) CompleteVideo(ctx context.Context, owner Owner) (*SessionView, error) {
	return s.advance(ctx, owner, store.CompleteVideo{UserID: owner.UserID}, "session.video_completed", func(cur store.Session) error {
		if !cur.GuidelinesAccepted {
			return phaseConflict("guidelines must be accepted before the video", cur)
		}
		return nil
	})
}

// advance applies a flag-setting action to the current session after check passes.
func (s *service) advance(ctx context.Context, owner Owner, action store.Action, event string, check func(store.Session) error) (*SessionView, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.store.CurrentSession(owner.UserID)
	if !ok {
		return nil, noSessionConflict()
	}
	if check != nil {
		if err := check(cur); err != nil {
			return nil, err
		}
	}
	if err := s.store.Dispatch(ctx, action); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update session")
	}

	updated, _ := s.store.CurrentSession(owner.UserID)
	s.logg.Info(s.logg.WithSessionID(ctx, updated.ID), event)
	view := newView(updated)
	return &view, nil
}

func (s *service) SendMessage(ctx context.Context, owner Owner, content string) (*SendResult, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, pkgerrors.Validation("validation failed", pkgerrors.FieldErrors{"content": "is required"})
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return nil, pkgerrors.Validation("validation failed", pkgerrors.FieldErrors{"content": "must be at most 4000 characters"})
	}

	s.mu.Lock()
	cur, ok := s.store.CurrentSession(owner.UserID)
	if !ok {
		s.mu.Unlock()
		return nil, noSessionConflict()
	}
	if phase := PhaseOf(cur); phase != PhaseChat {
		s.mu.Unlock()
		return nil, phaseConflict("chat opens after the guidelines are accepted and the video is watched", cur)
	}
	if err := s.store.Dispatch(ctx, store.AddMessage{UserID: owner.UserID, SessionID: cur.ID, Role: enums.MessageRoleUser, Content: content}); err != nil {
		s.mu.Unlock()
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append message")
	}
	afterUser, _ := s.store.CurrentSession(owner.UserID)
	s.mu.Unlock()

	ctx = s.logg.WithSessionID(ctx, cur.ID)
	result := &SendResult{UserMessage: lastMessage(afterUser)}

	reply, err := s.responder.Reply(ctx, content)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.recordReply(metrics.ReplyCanceled)
			s.logg.Warn(ctx, "session.reply_canceled")
			result.Session = newView(afterUser)
			return result, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assistant reply")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	latest, ok := s.store.CurrentSession(owner.UserID)
	if !ok || latest.ID != cur.ID {
		s.recordReply(metrics.ReplyDiscarded)
		s.logg.Info(ctx, "session.reply_discarded")
		if archived, found := s.store.Session(cur.ID); found {
			result.Session = newView(archived)
		}
		return result, nil
	}
	// Detached so a produced reply is stored even if the caller went away.
	if err := s.store.Dispatch(context.WithoutCancel(ctx), store.AddMessage{UserID: owner.UserID, SessionID: cur.ID, Role: enums.MessageRoleAssistant, Content: reply}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append reply")
	}
	s.recordReply(metrics.ReplyDelivered)

	updated, _ := s.store.CurrentSession(owner.UserID)
	replyMsg := lastMessage(updated)
	result.Reply = &replyMsg
	result.Session = newView(updated)
	s.logg.Info(ctx, "session.message_exchanged")
	return result, nil
}

func (s *service) Complete(ctx context.Context, owner Owner) (*SessionView, error) {
	return s.finalize(ctx, owner, store.CompleteSession{UserID: owner.UserID}, "session.completed", func(cur store.Session) error {
		if PhaseOf(cur) != PhaseChat {
			return phaseConflict("the video must be watched before completing", cur)
		}
		return nil
	})
}

func (s *service) Abandon(ctx context.Context, owner Owner) (*SessionView, error) {
	return s.finalize(ctx, owner, store.MarkIncomplete{UserID: owner.UserID}, "session.abandoned", nil)
}

func (s *service) finalize(ctx context.Context, owner Owner, action store.Action, event string, check func(store.Session) error) (*SessionView, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.store.CurrentSession(owner.UserID)
	if !ok {
		return nil, noSessionConflict()
	}
	if check != nil {
		if err := check(cur); err != nil {
			return nil, err
		}
	}
	if err := s.store.Dispatch(ctx, action); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalize session")
	}

	archived, ok := s.store.Session(cur.ID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "finalized session missing from history")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"session_id": archived.ID,
		"messages":   len(archived.Messages),
	}), event)
	view := newView(archived)
	return &view, nil
}

// History lists archived sessions the owner may read, oldest first.
func (s *service) History(ctx context.Context, owner Owner, params HistoryParams) ([]SessionView, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	if params.Status != "" && !params.Status.IsValid() {
		return nil, pkgerrors.Validation("validation failed", pkgerrors.FieldErrors{"status": "must be one of the allowed values"})
	}
	all := s.store.Sessions()
	out := make([]SessionView, 0, len(all))
	for _, sess := range all {
		if !owner.canRead(sess) {
			continue
		}
		if params.Status != "" && sess.Status != params.Status {
			continue
		}
		if params.ProductID != "" && sess.ProductID != params.ProductID {
			continue
		}
		out = append(out, newView(sess))
	}
	return out, nil
}

// Get hides sessions of other users behind NotFound.
func (s *service) Get(ctx context.Context, owner Owner, id string) (*SessionView, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	sess, ok := s.store.Session(strings.TrimSpace(id))
	if !ok || !owner.canRead(sess) {
		return nil, pkgerrors.NotFound("session", id)
	}
	view := newView(sess)
	return &view, nil
}

func (s *service) recordReply(outcome string) {
	if s.replies != nil {
		s.replies.IncReply(outcome)
	}
}

func lastMessage(sess store.Session) store.Message {
	if len(sess.Messages) == 0 {
		return store.Message{}
	}
	return sess.Messages[len(sess.Messages)-1]
}

func requireOwner(owner Owner) error {
	if strings.TrimSpace(owner.UserID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session owner required")
	}
	return nil
}

func noSessionConflict() error {
	return pkgerrors.StateConflict("no session in progress", nil)
}

func phaseConflict(message string, cur store.Session) error {
	return pkgerrors.StateConflict(message, map[string]any{
		"session_id": cur.ID,
		"phase":      PhaseOf(cur),
	})
}
