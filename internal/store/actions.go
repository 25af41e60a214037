package store

import "github.com/angelmondragon/trainingdesk-backend/pkg/enums"

// Action is a typed state transition. Dispatch applies the actions declared in this file
// and rejects any other implementation with ErrUnknownAction.
type Action interface {
	ActionType() string
}

// Product actions.

type AddProduct struct{ Product Product }

type SelectProduct struct{ Product Product }

type ClearSelectedProduct struct{}

func (AddProduct) ActionType() string           { return "product/addProduct" }
func (SelectProduct) ActionType() string        { return "product/selectProduct" }
func (ClearSelectedProduct) ActionType() string { return "product/clearSelectedProduct" }

// Document actions. AddDocument does not check the per-purpose cap; callers must.

type AddDocument struct{ Document Document }

type DeleteDocument struct{ ID string }

func (AddDocument) ActionType() string    { return "document/addDocument" }
func (DeleteDocument) ActionType() string { return "document/deleteDocument" }

// Session actions. Each addresses the current session of UserID; all of them
// except StartSession are no-ops when that user has none.

// StartSession replaces any current session of the user.
type StartSession struct {
	UserID      string
	ProductID   string
	ProductName string
}

type AcceptGuidelines struct{ UserID string }

type CompleteVideo struct{ UserID string }

// AddMessage appends to the user's current session. When SessionID is set the
// message is dropped unless that session is still current.
type AddMessage struct {
	UserID    string
	SessionID string
	Role      enums.MessageRole
	Content   string
}

type CompleteSession struct{ UserID string }

type MarkIncomplete struct{ UserID string }

func (StartSession) ActionType() string     { return "session/startSession" }
func (AcceptGuidelines) ActionType() string { return "session/acceptGuidelines" }
func (CompleteVideo) ActionType() string    { return "session/completeVideo" }
func (AddMessage) ActionType() string       { return "session/addMessage" }
func (CompleteSession) ActionType() string  { return "session/completeSession" }
func (MarkIncomplete) ActionType() string   { return "session/markIncomplete" }

// User actions.

type SetUsers struct{ Users []User }

type AddUser struct{ User User }

// UpdateUser replaces the stored record with the same id.
type UpdateUser struct{ User User }

type DeleteUser struct{ ID string }

// SetSelectedUser points the selection at User, or clears it when User is nil.
type SetSelectedUser struct{ User *User }

type FilterUsers struct{ Term string }

func (SetUsers) ActionType() string        { return "user/setUsers" }
func (AddUser) ActionType() string         { return "user/addUser" }
func (UpdateUser) ActionType() string      { return "user/updateUser" }
func (DeleteUser) ActionType() string      { return "user/deleteUser" }
func (SetSelectedUser) ActionType() string { return "user/setSelectedUser" }
func (FilterUsers) ActionType() string     { return "user/filterUsers" }

// Preference actions. The first patch for a user copies the store defaults and
// Base into that user's settings; later patches ignore Base.

type UpdatePreferences struct {
	UserID string
	Base   Profile
	Patch  PreferencesPatch
}

type UpdateProfile struct {
	UserID string
	Base   Profile
	Patch  ProfilePatch
}

func (UpdatePreferences) ActionType() string { return "uiPreferences/updatePreferences" }
func (UpdateProfile) ActionType() string     { return "uiPreferences/updateProfile" }
