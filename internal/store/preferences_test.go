package store

import (
	"testing"
	"time"

	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
)

func TestUpdatePreferencesChangesOnlyPatchedFields(t *testing.T) {
	r, _ := newTestRoot(t)
	before := r.Preferences()

	dark := enums.ThemeDark
	dispatch(t, r, UpdatePreferences{Patch: PreferencesPatch{Theme: &dark}})

	after := r.Preferences()
	assert.Equal(t, enums.ThemeDark, after.Theme)
	after.Theme = before.Theme
	assert.Equal(t, before, after)
}

func TestUpdatePreferencesFalseBooleans(t *testing.T) {
	r, _ := newTestRoot(t)
	off := false
	short := enums.ChatVerbosityShort
	dispatch(t, r, UpdatePreferences{Patch: PreferencesPatch{Notifications: &off, ChatVerbosity: &short}})

	got := r.Preferences()
	assert.False(t, got.Notifications)
	assert.Equal(t, enums.ChatVerbosityShort, got.ChatVerbosity)
	assert.True(t, got.EnableCitations)
}

func TestUpdateProfileMerges(t *testing.T) {
	r, _ := newTestRoot(t, WithInitialState(MockState("hash")))
	region := "Western Europe"
	login := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	dispatch(t, r, UpdateProfile{Patch: ProfilePatch{AssignedRegion: &region, LastLogin: &login}})

	p := r.Profile()
	assert.Equal(t, "Sarah Mitchell", p.FullName)
	assert.Equal(t, "Western Europe", p.AssignedRegion)
	assert.Equal(t, login, p.LastLogin)
}

func TestUserSettingsAreIsolated(t *testing.T) {
	r, _ := newTestRoot(t)
	dark := enums.ThemeDark
	base := Profile{FullName: "Priya Singh", Email: "priya.singh@company.com", Role: "Trainee"}

	_, ok := r.UserSettings("u2")
	assert.False(t, ok)

	dispatch(t, r, UpdatePreferences{UserID: "u2", Base: base, Patch: PreferencesPatch{Theme: &dark}})

	priya, ok := r.UserSettings("u2")
	assert.True(t, ok)
	assert.Equal(t, enums.ThemeDark, priya.Preferences.Theme)
	assert.Equal(t, "Priya Singh", priya.Profile.FullName)
	assert.Equal(t, DefaultPreferences(), r.Preferences(), "defaults stay untouched")

	_, ok = r.UserSettings("u4")
	assert.False(t, ok)

	region := "Gujarat West"
	dispatch(t, r, UpdateProfile{UserID: "u2", Base: Profile{FullName: "ignored"}, Patch: ProfilePatch{AssignedRegion: &region}})
	priya, _ = r.UserSettings("u2")
	assert.Equal(t, "Priya Singh", priya.Profile.FullName)
	assert.Equal(t, "Gujarat West", priya.Profile.AssignedRegion)
	assert.Equal(t, enums.ThemeDark, priya.Preferences.Theme)

	snap := r.Snapshot()
	delete(snap.Preferences.ByUser, "u2")
	_, ok = r.UserSettings("u2")
	assert.True(t, ok, "snapshot is a copy")
}

func TestPatchIsEmpty(t *testing.T) {
	assert.True(t, PreferencesPatch{}.IsEmpty())
	on := true
	assert.False(t, PreferencesPatch{Notifications: &on}.IsEmpty())
	assert.True(t, ProfilePatch{}.IsEmpty())
}

func TestDefaultPreferences(t *testing.T) {
	p := New().Preferences()
	assert.Equal(t, DefaultPreferences(), p)
	assert.Equal(t, enums.UILanguageEnglish, p.UILanguage)
	assert.Equal(t, enums.ChatVerbosityDetailed, p.ChatVerbosity)
}
