package store

import "github.com/angelmondragon/trainingdesk-backend/pkg/enums"

// SessionState keeps at most one in-flight session per user id.
type SessionState struct {
	Current map[string]*Session `json:"current_sessions"`
	History []Session           `json:"sessions"`
}

func (s *SessionState) reduce(action Action, env reduceEnv) bool {
	switch a := action.(type) {
	case StartSession:
		now := env.now()
		if s.Current == nil {
			s.Current = make(map[string]*Session)
		}
		s.Current[a.UserID] = &Session{
			ID:          env.newID(),
			UserID:      a.UserID,
			ProductID:   a.ProductID,
			ProductName: a.ProductName,
			Messages:    []Message{},
			Status:      enums.SessionStatusInProgress,
			StartedAt:   now,
			// Only creation and finalisation touch LastAccessedAt.
			LastAccessedAt: now,
		}
	case AcceptGuidelines:
		if cur := s.Current[a.UserID]; cur != nil {
			cur.GuidelinesAccepted = true
		}
	case CompleteVideo:
		if cur := s.Current[a.UserID]; cur != nil {
			cur.VideoWatched = true
		}
	case AddMessage:
		cur := s.Current[a.UserID]
		if cur == nil {
			return true
		}
		if a.SessionID != "" && a.SessionID != cur.ID {
			return true
		}
		cur.Messages = append(cur.Messages, Message{
			ID:        env.newID(),
			Role:      a.Role,
			Content:   a.Content,
			Timestamp: env.now(),
		})
	case CompleteSession:
		if cur := s.Current[a.UserID]; cur != nil {
			now := env.now()
			cur.Status = enums.SessionStatusCompleted
			cur.LastAccessedAt = now
			cur.CompletedAt = &now
			s.finalize(a.UserID)
		}
	case MarkIncomplete:
		if cur := s.Current[a.UserID]; cur != nil {
			cur.Status = enums.SessionStatusIncomplete
			cur.LastAccessedAt = env.now()
			cur.CompletedAt = nil
			s.finalize(a.UserID)
		}
	default:
		return false
	}
	return true
}

func (s *SessionState) finalize(userID string) {
	s.History = append(s.History, *s.Current[userID])
	delete(s.Current, userID)
}

func (s SessionState) clone() SessionState {
	out := SessionState{
		Current: make(map[string]*Session, len(s.Current)),
		History: make([]Session, len(s.History)),
	}
	for i := range s.History {
		out.History[i] = s.History[i].clone()
	}
	for userID, cur := range s.Current {
		if cur == nil {
			continue
		}
		c := cur.clone()
		out.Current[userID] = &c
	}
	return out
}

func (s Session) clone() Session {
	out := s
	out.Messages = cloneSlice(s.Messages)
	if out.Messages == nil {
		out.Messages = []Message{}
	}
	if s.CompletedAt != nil {
		completed := *s.CompletedAt
		out.CompletedAt = &completed
	}
	return out
}
