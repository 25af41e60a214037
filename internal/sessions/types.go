package sessions

import (
	"github.com/angelmondragon/trainingdesk-backend/internal/store"
	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
)

// Phase is the step of the guided flow a session is in, derived from its flags.
type Phase string

const (
	PhaseGuidelinesPending Phase = "guidelines_pending"
	PhaseVideoPending      Phase = "video_pending"
	PhaseChat              Phase = "chat"
	PhaseCompleted         Phase = "completed"
	PhaseIncomplete        Phase = "incomplete"
)

// PhaseOf derives the phase of s.
func PhaseOf(s store.Session) Phase {
	switch {
	case s.Status == enums.SessionStatusCompleted:
		return PhaseCompleted
	case s.Status == enums.SessionStatusIncomplete:
		return PhaseIncomplete
	case !s.GuidelinesAccepted:
		return PhaseGuidelinesPending
	case !s.VideoWatched:
		return PhaseVideoPending
	default:
		return PhaseChat
	}
}

// SessionView is a session plus its derived phase.
type SessionView struct {
	store.Session
	Phase Phase `json:"phase"`
}

func newView(s store.Session) SessionView {
	return SessionView{Session: s, Phase: PhaseOf(s)}
}

// SendResult carries the user message and, when one was produced, the assistant reply.
type SendResult struct {
	Session     SessionView    `json:"session"`
	UserMessage store.Message  `json:"user_message"`
	Reply       *store.Message `json:"reply,omitempty"`
}

// HistoryParams filters session history. A zero Status returns every session.
type HistoryParams struct {
	Status    enums.SessionStatus
	ProductID string
}

// Owner is the caller a session operation acts for. Admins may read every
// user's sessions; everyone else sees only their own.
type Owner struct {
	UserID string
	Role   enums.UserRole
}

func (o Owner) canRead(s store.Session) bool {
	return o.Role == enums.UserRoleAdmin || s.UserID == o.UserID
}
