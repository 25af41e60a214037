package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownAction is returned by Dispatch for actions no entity store handles.
var ErrUnknownAction = errors.New("unknown action")

// Observer receives one call per applied action.
type Observer interface {
	ObserveDispatch(action string, took time.Duration)
}

// State is the whole tree addressed by the root store.
type State struct {
	Products    ProductState     `json:"product"`
	Documents   DocumentState    `json:"document"`
	Sessions    SessionState     `json:"session"`
	Users       UserState        `json:"user"`
	Preferences PreferencesState `json:"ui_preferences"`
}

func (s State) clone() State {
	return State{
		Products:    s.Products.clone(),
		Documents:   s.Documents.clone(),
		Sessions:    s.Sessions.clone(),
		Users:       s.Users.clone(),
		Preferences: s.Preferences.clone(),
	}
}

type reduceEnv struct {
	now   func() time.Time
	newID func() string
}

// Root composes the entity stores. Every dispatch runs under one lock, and
// selectors hand out copies so callers never alias store memory.
type Root struct {
	mu       sync.RWMutex
	state    State
	env      reduceEnv
	observer Observer
}

type Option func(*Root)

// WithClock overrides the timestamp source used by session actions.
func WithClock(now func() time.Time) Option {
	return func(r *Root) {
		if now != nil {
			r.env.now = now
		}
	}
}

// WithIDGenerator overrides the id source used for sessions and messages.
func WithIDGenerator(newID func() string) Option {
	return func(r *Root) {
		if newID != nil {
			r.env.newID = newID
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(r *Root) {
		r.observer = observer
	}
}

// WithInitialState seeds the tree. The state is copied.
func WithInitialState(state State) Option {
	return func(r *Root) {
		r.state = state.clone()
		if r.state.Users.Filtered == nil {
			r.state.Users.Filtered = cloneUsers(r.state.Users.Users)
		}
	}
}

func New(opts ...Option) *Root {
	r := &Root{
		env: reduceEnv{
			now:   func() time.Time { return time.Now().UTC() },
			newID: uuid.NewString,
		},
		state: State{
			Products:    ProductState{Products: []Product{}},
			Documents:   DocumentState{Documents: []Document{}},
			Sessions:    SessionState{Current: map[string]*Session{}, History: []Session{}},
			Users:       UserState{Users: []User{}, Filtered: []User{}},
			Preferences: PreferencesState{Preferences: DefaultPreferences()},
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dispatch applies action atomically. Store mutations cannot fail; the only errors are
// ErrUnknownAction and a context that is already done.
func (r *Root) Dispatch(ctx context.Context, action Action) error {
	if action == nil {
		return fmt.Errorf("%w: nil", ErrUnknownAction)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	r.mu.Lock()
	handled := r.apply(action)
	r.mu.Unlock()

	if !handled {
		return fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}
	if r.observer != nil {
		r.observer.ObserveDispatch(action.ActionType(), time.Since(start))
	}
	return nil
}

func (r *Root) apply(action Action) bool {
	switch {
	case r.state.Products.reduce(action):
	case r.state.Documents.reduce(action):
	case r.state.Sessions.reduce(action, r.env):
	case r.state.Users.reduce(action):
	case r.state.Preferences.reduce(action):
	default:
		return false
	}
	return true
}

// Snapshot returns a deep copy of the whole tree.
func (r *Root) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.clone()
}

func (r *Root) Products() []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneSlice(r.state.Products.Products)
}

func (r *Root) Product(id string) (Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.state.Products.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// SelectedProduct returns the product currently selected for viewing, if any.
func (r *Root) SelectedProduct() (Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state.Products.Selected == nil {
		return Product{}, false
	}
	return *r.state.Products.Selected, true
}

func (r *Root) Documents() []Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneSlice(r.state.Documents.Documents)
}

func (r *Root) Document(id string) (Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.state.Documents.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}

// DocumentsByProduct returns the documents of one product in insertion order.
func (r *Root) DocumentsByProduct(productID string) []Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Document, 0)
	for _, d := range r.state.Documents.Documents {
		if d.ProductID == productID {
			out = append(out, d)
		}
	}
	return out
}

// CurrentSession returns a copy of the user's in-flight session, if any.
func (r *Root) CurrentSession(userID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cur := r.state.Sessions.Current[userID]
	if cur == nil {
		return Session{}, false
	}
	return cur.clone(), true
}

// Sessions returns the finalised and seeded session history of every user.
func (r *Root) Sessions() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Sessions.clone().History
}

// Session looks up id among the current sessions first, then in history.
func (r *Root) Session(id string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cur := range r.state.Sessions.Current {
		if cur != nil && cur.ID == id {
			return cur.clone(), true
		}
	}
	for _, s := range r.state.Sessions.History {
		if s.ID == id {
			return s.clone(), true
		}
	}
	return Session{}, false
}

func (r *Root) Users() []User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneUsers(r.state.Users.Users)
}

// FilteredUsers returns the cached search projection and the term that produced it.
func (r *Root) FilteredUsers() ([]User, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneUsers(r.state.Users.Filtered), r.state.Users.SearchTerm
}

func (r *Root) User(id string) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.state.Users.Users {
		if u.ID == id {
			return u.clone(), true
		}
	}
	return User{}, false
}

// UserByEmail matches email case-insensitively.
func (r *Root) UserByEmail(email string) (User, bool) {
	email = strings.TrimSpace(email)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.state.Users.Users {
		if strings.EqualFold(u.Email, email) {
			return u.clone(), true
		}
	}
	return User{}, false
}

func (r *Root) SelectedUser() (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state.Users.Selected == nil {
		return User{}, false
	}
	return r.state.Users.Selected.clone(), true
}

// Preferences returns the store-wide default preferences.
func (r *Root) Preferences() UIPreferences {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Preferences.Preferences
}

func (r *Root) Profile() Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Preferences.Profile
}

// UserSettings returns what userID has saved. ok is false until their first patch.
func (r *Root) UserSettings(userID string) (UserSettings, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	settings, ok := r.state.Preferences.ByUser[userID]
	return settings, ok
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
