// Package creation drives one end-to-end creation cycle: capture →
// transcription → clarifying dialogue → narration → (conditionally)
// artifact generation. It owns all transient session state as an
// explicit value and pushes every mutation through a persistence
// adapter, so front-ends stay pure render functions over State.
package creation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	v1 "github.com/young-creators/studio/pkg/apis/studio/v1"
)

// Mood is the orchestrator's state. Legal flow:
// idle → listening → thinking → speaking → (idle | creating) → happy → idle.
// creating is only reachable from speaking, and only when the dialogue
// signaled readiness.
type Mood string

const (
	MoodIdle      Mood = "idle"
	MoodListening Mood = "listening"
	MoodThinking  Mood = "thinking"
	MoodSpeaking  Mood = "speaking"
	MoodCreating  Mood = "creating"
	MoodHappy     Mood = "happy"
)

var (
	// ErrBusy is returned when input arrives while a cycle is in
	// flight. Only one creation cycle may run at a time.
	ErrBusy = errors.New("a creation cycle is already in flight")

	ErrNotListening = errors.New("not currently listening")
)

// DisplayMessage mirrors a conversation message for rendering.
type DisplayMessage struct {
	Text   string `json:"text"`
	IsUser bool   `json:"isUser"`
}

// State is the full session state. It is a plain value: front-ends
// receive copies and render them; only the orchestrator mutates it.
type State struct {
	Mood            Mood                     `json:"mood"`
	Messages        []DisplayMessage         `json:"messages"`
	History         []v1.ConversationMessage `json:"history"`
	LiveTranscript  string                   `json:"liveTranscript"`
	Revealed        string                   `json:"revealed"`
	Progress        float64                  `json:"progress"`
	CurrentArtifact string                   `json:"currentArtifact"`
}

// Busy reports whether a cycle is in flight and new input must be
// refused.
func (s State) Busy() bool {
	return s.Mood == MoodThinking || s.Mood == MoodSpeaking || s.Mood == MoodCreating
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

type Dialoguer interface {
	// Reply returns the assistant text with the readiness marker already
	// stripped, plus whether it was present.
	Reply(ctx context.Context, history []v1.ConversationMessage, message string) (string, bool, error)
}

type Narrator interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type Generator interface {
	Generate(ctx context.Context, history []v1.ConversationMessage) (string, error)
}

// Player plays narration audio, blocking until playback finishes.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// SessionStore persists session state durably: loaded once at start,
// saved on every mutation, cleared entirely on reset.
type SessionStore interface {
	Load() (*State, error)
	Save(state State) error
	Clear() error
}

type Config struct {
	Transcriber Transcriber
	Dialoguer   Dialoguer
	Narrator    Narrator // optional; narration is skipped when nil
	Player      Player   // optional
	Generator   Generator
	Store       SessionStore // optional

	// OnChange is invoked with a copy of the state after every
	// mutation. It must not call back into the orchestrator
	// synchronously.
	OnChange func(State)

	RevealInterval   time.Duration
	ProgressInterval time.Duration
	HappyHold        time.Duration
}

type Orchestrator struct {
	mu          sync.Mutex
	cfg         Config
	state       State
	cycleCancel context.CancelFunc
}

func New(cfg Config) *Orchestrator {
	if cfg.RevealInterval <= 0 {
		cfg.RevealInterval = 80 * time.Millisecond
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = 150 * time.Millisecond
	}
	if cfg.HappyHold <= 0 {
		cfg.HappyHold = 3 * time.Second
	}

	o := &Orchestrator{cfg: cfg, state: State{Mood: MoodIdle}}

	if cfg.Store != nil {
		if state, err := cfg.Store.Load(); err != nil {
			log.WithError(err).Warn("could not hydrate session state")
		} else if state != nil {
			o.state = *state
			// A cycle that was mid-flight when the process died cannot
			// resume.
			if o.state.Busy() || o.state.Mood == MoodListening {
				o.state.Mood = MoodIdle
				o.state.Progress = 0
				o.state.LiveTranscript = ""
			}
		}
	}

	return o
}

// State returns a copy of the current session state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.copyStateLocked()
}

// StartListening begins a capture. Refused while a cycle is in flight.
func (o *Orchestrator) StartListening() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Busy() || o.state.Mood == MoodListening {
		return ErrBusy
	}

	o.state.Mood = MoodListening
	o.state.LiveTranscript = ""
	o.commitLocked()
	return nil
}

// SetLiveTranscript records a best-effort interim transcript while
// listening. Ignored in any other mood.
func (o *Orchestrator) SetLiveTranscript(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Mood != MoodListening {
		return
	}
	o.state.LiveTranscript = text
	o.commitLocked()
}

// StopListening finalizes the capture and runs the rest of the cycle:
// transcription, the dialogue turn, narration with the word reveal, and
// generation when the dialogue signaled readiness. Whatever audio was
// recorded is transcribed; there is no mid-flight cancellation short of
// Reset. An empty transcript or a failed call ends the turn silently
// back at idle.
func (o *Orchestrator) StopListening(ctx context.Context, audio []byte, filename string) error {
	o.mu.Lock()
	if o.state.Mood != MoodListening {
		o.mu.Unlock()
		return ErrNotListening
	}
	o.state.Mood = MoodThinking
	o.commitLocked()
	o.mu.Unlock()

	cycleCtx := o.beginCycle(ctx)

	text, err := o.cfg.Transcriber.Transcribe(cycleCtx, audio, filename)
	if err != nil {
		if cycleCtx.Err() == nil {
			log.WithError(err).Error("transcription failed")
			o.toIdle()
		}
		return nil
	}
	if strings.TrimSpace(text) == "" {
		// Nothing was said.
		o.toIdle()
		return nil
	}

	return o.runTurn(cycleCtx, text)
}

// SubmitText runs a cycle from typed input, skipping capture and
// transcription.
func (o *Orchestrator) SubmitText(ctx context.Context, text string) error {
	o.mu.Lock()
	if o.state.Busy() || o.state.Mood == MoodListening {
		o.mu.Unlock()
		return ErrBusy
	}
	o.state.Mood = MoodThinking
	o.commitLocked()
	o.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		o.toIdle()
		return nil
	}

	return o.runTurn(o.beginCycle(ctx), text)
}

// Reset forcibly returns to idle from any state, cancels an in-flight
// cycle, and clears all durable session state.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cycleCancel != nil {
		o.cycleCancel()
		o.cycleCancel = nil
	}

	o.state = State{Mood: MoodIdle}

	if o.cfg.Store != nil {
		if err := o.cfg.Store.Clear(); err != nil {
			log.WithError(err).Warn("could not clear session state")
		}
	}
	if o.cfg.OnChange != nil {
		o.cfg.OnChange(o.copyStateLocked())
	}
}

func (o *Orchestrator) runTurn(ctx context.Context, text string) error {
	o.mu.Lock()
	o.state.LiveTranscript = ""
	o.state.Messages = append(o.state.Messages, DisplayMessage{Text: text, IsUser: true})
	history := append([]v1.ConversationMessage(nil), o.state.History...)
	o.commitLocked()
	o.mu.Unlock()

	reply, ready, err := o.cfg.Dialoguer.Reply(ctx, history, text)
	if err != nil {
		if ctx.Err() == nil {
			log.WithError(err).Error("dialogue turn failed")
			// Roll the display message back so Messages stays in step
			// with History, which records nothing for a failed turn.
			o.mu.Lock()
			if n := len(o.state.Messages); n > 0 && o.state.Messages[n-1].IsUser && o.state.Messages[n-1].Text == text {
				o.state.Messages = o.state.Messages[:n-1]
				o.commitLocked()
			}
			o.mu.Unlock()
			o.toIdle()
		}
		return nil
	}

	o.mu.Lock()
	o.state.History = append(o.state.History,
		v1.ConversationMessage{Role: v1.RoleUser, Content: text},
		v1.ConversationMessage{Role: v1.RoleAssistant, Content: reply},
	)
	fullHistory := append([]v1.ConversationMessage(nil), o.state.History...)
	o.state.Messages = append(o.state.Messages, DisplayMessage{Text: reply})
	o.state.Mood = MoodSpeaking
	o.state.Revealed = ""
	o.commitLocked()
	o.mu.Unlock()

	o.speak(ctx, reply)

	if ctx.Err() != nil {
		return nil
	}

	if !ready {
		o.toIdle()
		return nil
	}

	return o.create(ctx, fullHistory)
}

// speak runs the word-by-word reveal concurrently with narration and
// waits for both. Narration failures are logged and do not end the
// cycle.
func (o *Orchestrator) speak(ctx context.Context, reply string) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		o.reveal(ctx, reply)
	}()

	if o.cfg.Narrator != nil && o.cfg.Player != nil {
		audio, err := o.cfg.Narrator.Synthesize(ctx, reply)
		if err != nil {
			log.WithError(err).Warn("narration failed")
		} else if err := o.cfg.Player.Play(ctx, audio); err != nil {
			log.WithError(err).Warn("narration playback failed")
		}
	}

	wg.Wait()
}

// create issues the single-shot generation request while a local ticker
// advances the cosmetic progress estimate. On success the artifact is
// stored and the happy mood held briefly; on failure progress is
// discarded and the session returns to idle with no artifact.
func (o *Orchestrator) create(ctx context.Context, history []v1.ConversationMessage) error {
	o.mu.Lock()
	o.state.Mood = MoodCreating
	o.state.Progress = 0
	o.commitLocked()
	o.mu.Unlock()

	done := make(chan struct{})
	go o.tickProgress(ctx, done)

	code, err := o.cfg.Generator.Generate(ctx, history)
	close(done)

	if ctx.Err() != nil {
		// Reset already cleared the session; leave it alone.
		return nil
	}
	if err != nil {
		log.WithError(err).Error("artifact generation failed")
		o.toIdle()
		return nil
	}

	o.mu.Lock()
	o.state.Progress = 100
	o.state.CurrentArtifact = code
	o.state.Mood = MoodHappy
	o.commitLocked()
	o.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil
	case <-time.After(o.cfg.HappyHold):
	}

	o.toIdle()
	return nil
}

func (o *Orchestrator) tickProgress(ctx context.Context, done <-chan struct{}) {
	start := time.Now()
	ticker := time.NewTicker(o.cfg.ProgressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			estimate := SimulatedProgress(time.Since(start))
			o.mu.Lock()
			// A fire that raced a reset must not revive progress on the
			// cleared session.
			if o.state.Mood == MoodCreating && estimate > o.state.Progress {
				o.state.Progress = estimate
				o.commitLocked()
			}
			o.mu.Unlock()
		}
	}
}

func (o *Orchestrator) beginCycle(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	o.mu.Lock()
	o.cycleCancel = cancel
	o.mu.Unlock()
	return ctx
}

func (o *Orchestrator) toIdle() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Mood == MoodIdle {
		return
	}
	o.state.Mood = MoodIdle
	o.state.Progress = 0
	o.state.LiveTranscript = ""
	o.commitLocked()
}

// commitLocked persists the state and notifies the front-end. Callers
// hold o.mu.
func (o *Orchestrator) commitLocked() {
	if o.cfg.Store != nil {
		if err := o.cfg.Store.Save(o.state); err != nil {
			log.WithError(err).Warn("could not persist session state")
		}
	}
	if o.cfg.OnChange != nil {
		o.cfg.OnChange(o.copyStateLocked())
	}
}

func (o *Orchestrator) copyStateLocked() State {
	out := o.state
	out.Messages = append([]DisplayMessage(nil), o.state.Messages...)
	out.History = append([]v1.ConversationMessage(nil), o.state.History...)
	return out
}
