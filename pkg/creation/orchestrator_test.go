package creation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/young-creators/studio/pkg/apis/studio/v1"
)

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	return f.text, f.err
}

type fakeDialoguer struct {
	mu      sync.Mutex
	reply   string
	ready   bool
	err     error
	history [][]v1.ConversationMessage
}

func (f *fakeDialoguer) Reply(_ context.Context, history []v1.ConversationMessage, _ string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append(f.history, history)
	return f.reply, f.ready, f.err
}

type fakeGenerator struct {
	mu      sync.Mutex
	code    string
	err     error
	calls   int
	block   chan struct{}
	history []v1.ConversationMessage
}

func (f *fakeGenerator) Generate(ctx context.Context, history []v1.ConversationMessage) (string, error) {
	f.mu.Lock()
	f.calls++
	f.history = history
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.code, f.err
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestOrchestrator(dialoguer *fakeDialoguer, generator *fakeGenerator) *Orchestrator {
	return New(Config{
		Transcriber:      &fakeTranscriber{},
		Dialoguer:        dialoguer,
		Generator:        generator,
		RevealInterval:   time.Millisecond,
		ProgressInterval: time.Millisecond,
		HappyHold:        time.Millisecond,
	})
}

func TestClarifyingTurnDoesNotCreate(t *testing.T) {
	dialoguer := &fakeDialoguer{reply: "איזה צבע תרצה?"}
	generator := &fakeGenerator{code: "<html></html>"}
	orchestrator := newTestOrchestrator(dialoguer, generator)

	require.NoError(t, orchestrator.SubmitText(context.Background(), "משחק חלל"))

	state := orchestrator.State()
	assert.Equal(t, MoodIdle, state.Mood)
	assert.Empty(t, state.CurrentArtifact)
	assert.Zero(t, generator.callCount(), "generation must not run without the readiness signal")

	require.Len(t, state.History, 2)
	assert.Equal(t, v1.RoleUser, state.History[0].Role)
	assert.Equal(t, "משחק חלל", state.History[0].Content)
	assert.Equal(t, v1.RoleAssistant, state.History[1].Role)
	assert.Equal(t, "איזה צבע תרצה?", state.History[1].Content)
}

func TestReadyTurnCreatesArtifact(t *testing.T) {
	dialoguer := &fakeDialoguer{reply: "בונה לך את זה!", ready: true}
	generator := &fakeGenerator{code: "<html>done</html>"}
	orchestrator := newTestOrchestrator(dialoguer, generator)

	require.NoError(t, orchestrator.SubmitText(context.Background(), "משחק חלל כחול"))

	state := orchestrator.State()
	assert.Equal(t, MoodIdle, state.Mood)
	assert.Equal(t, "<html>done</html>", state.CurrentArtifact)
	assert.Equal(t, 1, generator.callCount())

	// The generator sees the full history including the final reply.
	require.Len(t, generator.history, 2)
	assert.Equal(t, "בונה לך את זה!", generator.history[1].Content)
}

func TestFailedGenerationReturnsToIdle(t *testing.T) {
	dialoguer := &fakeDialoguer{reply: "בונה!", ready: true}
	generator := &fakeGenerator{err: errors.New("model overloaded")}
	orchestrator := newTestOrchestrator(dialoguer, generator)

	require.NoError(t, orchestrator.SubmitText(context.Background(), "משהו"))

	state := orchestrator.State()
	assert.Equal(t, MoodIdle, state.Mood)
	assert.Empty(t, state.CurrentArtifact, "a failed generation leaves no artifact")
	assert.Zero(t, state.Progress, "progress is discarded on failure")
}

func TestFailedDialogueReturnsToIdle(t *testing.T) {
	dialoguer := &fakeDialoguer{err: errors.New("rate limited")}
	generator := &fakeGenerator{}
	orchestrator := newTestOrchestrator(dialoguer, generator)

	require.NoError(t, orchestrator.SubmitText(context.Background(), "משהו"))

	state := orchestrator.State()
	assert.Equal(t, MoodIdle, state.Mood)
	assert.Zero(t, generator.callCount())
	assert.Empty(t, state.History, "a failed turn records nothing")
	assert.Empty(t, state.Messages, "the display rolls back in step with the history")
}

func TestEmptyTranscriptEndsTurnSilently(t *testing.T) {
	dialoguer := &fakeDialoguer{reply: "?"}
	orchestrator := New(Config{
		Transcriber:      &fakeTranscriber{text: "   "},
		Dialoguer:        dialoguer,
		Generator:        &fakeGenerator{},
		RevealInterval:   time.Millisecond,
		ProgressInterval: time.Millisecond,
		HappyHold:        time.Millisecond,
	})

	require.NoError(t, orchestrator.StartListening())
	require.NoError(t, orchestrator.StopListening(context.Background(), []byte("audio"), "in.webm"))

	state := orchestrator.State()
	assert.Equal(t, MoodIdle, state.Mood)
	assert.Empty(t, state.Messages)
	assert.Empty(t, state.History)
}

func TestInputRefusedWhileBusy(t *testing.T) {
	dialoguer := &fakeDialoguer{reply: "בונה!", ready: true}
	generator := &fakeGenerator{code: "<html></html>", block: make(chan struct{})}
	orchestrator := newTestOrchestrator(dialoguer, generator)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = orchestrator.SubmitText(context.Background(), "ראשון")
	}()

	// Wait for the cycle to reach the generator.
	require.Eventually(t, func() bool {
		return generator.callCount() == 1
	}, time.Second, time.Millisecond)

	assert.Equal(t, ErrBusy, orchestrator.SubmitText(context.Background(), "שני"))
	assert.Equal(t, ErrBusy, orchestrator.StartListening())

	close(generator.block)
	<-done
}

func TestResetCancelsCycleAndClearsState(t *testing.T) {
	dialoguer := &fakeDialoguer{reply: "בונה!", ready: true}
	generator := &fakeGenerator{code: "<html></html>", block: make(chan struct{})}
	orchestrator := newTestOrchestrator(dialoguer, generator)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = orchestrator.SubmitText(context.Background(), "משהו")
	}()

	require.Eventually(t, func() bool {
		return generator.callCount() == 1
	}, time.Second, time.Millisecond)

	orchestrator.Reset()
	<-done

	state := orchestrator.State()
	assert.Equal(t, MoodIdle, state.Mood)
	assert.Empty(t, state.Messages)
	assert.Empty(t, state.History)
	assert.Empty(t, state.CurrentArtifact)

	// The orchestrator accepts input again immediately.
	generator.block = nil
	dialoguer.ready = false
	require.NoError(t, orchestrator.SubmitText(context.Background(), "חדש"))
}

func TestResetLeavesNoStrayProgress(t *testing.T) {
	dialoguer := &fakeDialoguer{reply: "בונה!", ready: true}
	generator := &fakeGenerator{code: "<html></html>", block: make(chan struct{})}
	orchestrator := newTestOrchestrator(dialoguer, generator)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = orchestrator.SubmitText(context.Background(), "משהו")
	}()

	// Wait until the progress ticker has demonstrably advanced.
	require.Eventually(t, func() bool {
		return orchestrator.State().Progress > 0
	}, time.Second, time.Millisecond)

	orchestrator.Reset()

	// In-flight ticker fires must not write progress onto the cleared
	// session.
	assert.Never(t, func() bool {
		state := orchestrator.State()
		return state.Progress != 0 || state.Mood != MoodIdle
	}, 50*time.Millisecond, 5*time.Millisecond)

	close(generator.block)
	<-done
}

func TestStopListeningRequiresListening(t *testing.T) {
	orchestrator := newTestOrchestrator(&fakeDialoguer{}, &fakeGenerator{})
	assert.Equal(t, ErrNotListening, orchestrator.StopListening(context.Background(), nil, ""))
}

func TestLiveTranscriptOnlyWhileListening(t *testing.T) {
	orchestrator := newTestOrchestrator(&fakeDialoguer{}, &fakeGenerator{})

	orchestrator.SetLiveTranscript("מוקדם מדי")
	assert.Empty(t, orchestrator.State().LiveTranscript)

	require.NoError(t, orchestrator.StartListening())
	orchestrator.SetLiveTranscript("משחק חל")
	assert.Equal(t, "משחק חל", orchestrator.State().LiveTranscript)
}

func TestOnChangeReceivesSnapshots(t *testing.T) {
	var mu sync.Mutex
	var moods []Mood

	dialoguer := &fakeDialoguer{reply: "בונה!", ready: true}
	generator := &fakeGenerator{code: "<html></html>"}
	orchestrator := New(Config{
		Transcriber: &fakeTranscriber{},
		Dialoguer:   dialoguer,
		Generator:   generator,
		OnChange: func(state State) {
			mu.Lock()
			moods = append(moods, state.Mood)
			mu.Unlock()
		},
		RevealInterval:   time.Millisecond,
		ProgressInterval: time.Millisecond,
		HappyHold:        time.Millisecond,
	})

	require.NoError(t, orchestrator.SubmitText(context.Background(), "משהו"))

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, moods, MoodThinking)
	assert.Contains(t, moods, MoodSpeaking)
	assert.Contains(t, moods, MoodCreating)
	assert.Contains(t, moods, MoodHappy)
	assert.Equal(t, MoodIdle, moods[len(moods)-1])
}
