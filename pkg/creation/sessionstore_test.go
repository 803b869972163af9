package creation

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/young-creators/studio/pkg/apis/studio/v1"
)

func newTestSessionStore(t *testing.T) *SQLiteSessionStore {
	t.Helper()
	store, err := NewSQLiteSessionStore(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSessionStoreRoundTrip(t *testing.T) {
	store := newTestSessionStore(t)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded, "a fresh store has no session")

	state := State{
		Mood: MoodIdle,
		Messages: []DisplayMessage{
			{Text: "משחק חלל", IsUser: true},
			{Text: "איזה צבע?"},
		},
		History: []v1.ConversationMessage{
			{Role: v1.RoleUser, Content: "משחק חלל"},
			{Role: v1.RoleAssistant, Content: "איזה צבע?"},
		},
		CurrentArtifact: "<html></html>",
	}
	require.NoError(t, store.Save(state))

	loaded, err = store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, state, *loaded)
}

func TestSessionStoreSaveOverwrites(t *testing.T) {
	store := newTestSessionStore(t)

	require.NoError(t, store.Save(State{Mood: MoodIdle, CurrentArtifact: "first"}))
	require.NoError(t, store.Save(State{Mood: MoodIdle, CurrentArtifact: "second"}))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "second", loaded.CurrentArtifact)
}

func TestSessionStoreClear(t *testing.T) {
	store := newTestSessionStore(t)

	require.NoError(t, store.Save(State{Mood: MoodIdle}))
	require.NoError(t, store.Clear())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Clearing an empty store is fine.
	assert.NoError(t, store.Clear())
}

func TestOrchestratorHydratesFromStore(t *testing.T) {
	store := newTestSessionStore(t)

	require.NoError(t, store.Save(State{
		// A cycle that died mid-flight cannot resume.
		Mood:            MoodCreating,
		Progress:        42,
		History:         []v1.ConversationMessage{{Role: v1.RoleUser, Content: "משחק"}},
		CurrentArtifact: "<html></html>",
	}))

	orchestrator := New(Config{
		Transcriber: &fakeTranscriber{},
		Dialoguer:   &fakeDialoguer{},
		Generator:   &fakeGenerator{},
		Store:       store,
	})

	state := orchestrator.State()
	assert.Equal(t, MoodIdle, state.Mood)
	assert.Zero(t, state.Progress)
	assert.Equal(t, "<html></html>", state.CurrentArtifact)
	require.Len(t, state.History, 1)
	assert.Equal(t, "משחק", state.History[0].Content)
}
