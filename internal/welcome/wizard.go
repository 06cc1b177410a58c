package welcome

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/park285/chess-coach-go/internal/obslog"
	"go.uber.org/zap"
)

var (
	ErrInvalidTransition = errors.New("welcome wizard: invalid transition")
	ErrUnknownSkillLevel = errors.New("welcome wizard: unknown skill level")
)

// Persisted keys owned by the Store collaborator. The completion flag is
// a boolean-as-string so any KV backend can hold it.
const (
	keyCompleted = "completed"
	keyProfile   = "profile"

	completedFlagValue = "true"
)

// EventSink receives the discrete user actions a view wires back to the
// wizard. The wizard itself is the sink handed to RenderStep.
type EventSink interface {
	SelectSkillLevel(ctx context.Context, level string) error
	ConfirmGoals(ctx context.Context, goals []string) error
	Back(ctx context.Context) error
	Finish(ctx context.Context) error
	Dismiss(ctx context.Context) error
}

// Renderer is the abstract view the wizard drives. Implementations own
// all widget/DOM concerns; the wizard only emits step intents.
type Renderer interface {
	RenderStep(ctx context.Context, step int, profile UserProfile, sink EventSink) error
	Teardown(ctx context.Context)
}

// Consumer is notified exactly once with the finalized profile, after
// persistence succeeds.
type Consumer interface {
	OnWelcomeCompleted(ctx context.Context, profile UserProfile)
}

// ConsumerFunc adapts a function to the Consumer interface.
type ConsumerFunc func(ctx context.Context, profile UserProfile)

func (f ConsumerFunc) OnWelcomeCompleted(ctx context.Context, profile UserProfile) {
	f(ctx, profile)
}

// Wizard is the 3-step onboarding state machine. One instance per
// session; the modal UI guarantees transitions are never concurrent.
type Wizard struct {
	store    Store
	renderer Renderer
	consumer Consumer

	teardownDelay time.Duration

	sessionID string
	state     State
	profile   UserProfile

	// set when the deferred notify+teardown has been scheduled for the
	// current completion; cleared by Reset.
	teardownScheduled bool
}

func NewWizard(store Store, renderer Renderer, consumer Consumer, teardownDelay time.Duration) *Wizard {
	if teardownDelay < 0 {
		teardownDelay = 0
	}
	return &Wizard{
		store:         store,
		renderer:      renderer,
		consumer:      consumer,
		teardownDelay: teardownDelay,
		sessionID:     uuid.NewString(),
		state:         StateNotStarted,
		profile:       defaultProfile(),
	}
}

func (w *Wizard) SessionID() string { return w.sessionID }

func (w *Wizard) State() State { return w.state }

// Profile returns a copy of the in-progress profile.
func (w *Wizard) Profile() UserProfile {
	p := w.profile
	p.Goals = append([]string(nil), w.profile.Goals...)
	if w.profile.StartDate != nil {
		t := *w.profile.StartDate
		p.StartDate = &t
	}
	return p
}

// Initialize checks the persisted completion flag. A prior completion
// hydrates the profile silently and leaves the wizard inert; otherwise
// the stepped flow starts at step 1 with fresh defaults. Store read
// failures and malformed profiles degrade to a fresh first run.
func (w *Wizard) Initialize(ctx context.Context) error {
	if w.state != StateNotStarted {
		return ErrInvalidTransition
	}

	flag, ok, err := w.store.Get(ctx, keyCompleted)
	if err != nil {
		obslog.L().Warn("welcome_flag_read_error", zap.String("session_id", w.sessionID), zap.Error(err))
		ok = false
	}
	if ok && flag == completedFlagValue {
		if w.hydrate(ctx) {
			w.state = StateCompleted
			obslog.L().Info("welcome_hydrate", zap.String("session_id", w.sessionID))
			return nil
		}
		// Stored profile was unreadable: treat as not completed.
	}

	w.profile = defaultProfile()
	w.state = StateSkillLevel
	obslog.L().Info("welcome_start", zap.String("session_id", w.sessionID))
	return w.render(ctx)
}

// hydrate loads the persisted profile; false means fall back to a fresh
// run (missing or malformed payload).
func (w *Wizard) hydrate(ctx context.Context) bool {
	raw, ok, err := w.store.Get(ctx, keyProfile)
	if err != nil || !ok {
		if err != nil {
			obslog.L().Warn("welcome_profile_read_error", zap.String("session_id", w.sessionID), zap.Error(err))
		}
		return false
	}
	profile, err := decodeProfile(raw)
	if err != nil {
		obslog.L().Warn("welcome_profile_malformed", zap.String("session_id", w.sessionID), zap.Error(err))
		return false
	}
	w.profile = profile
	return true
}

func (w *Wizard) SelectSkillLevel(ctx context.Context, level string) error {
	if w.state != StateSkillLevel {
		return ErrInvalidTransition
	}
	parsed, err := ParseSkillLevel(level)
	if err != nil {
		return err
	}
	w.profile.SkillLevel = parsed
	w.state = StateGoals
	obslog.L().Info("welcome_step",
		zap.String("session_id", w.sessionID),
		zap.Int("step", stepNumber(w.state)),
		zap.String("skill_level", string(parsed)),
	)
	return w.render(ctx)
}

// ConfirmGoals stores the toggled-on set. An empty set is valid; tokens
// outside the vocabulary are dropped.
func (w *Wizard) ConfirmGoals(ctx context.Context, goals []string) error {
	if w.state != StateGoals {
		return ErrInvalidTransition
	}
	w.profile.Goals = normalizeGoals(goals)
	w.state = StateTour
	obslog.L().Info("welcome_step",
		zap.String("session_id", w.sessionID),
		zap.Int("step", stepNumber(w.state)),
		zap.Strings("goals", w.profile.Goals),
	)
	return w.render(ctx)
}

func (w *Wizard) Back(ctx context.Context) error {
	switch w.state {
	case StateGoals:
		w.state = StateSkillLevel
	case StateTour:
		w.state = StateGoals
	default:
		return ErrInvalidTransition
	}
	obslog.L().Info("welcome_back",
		zap.String("session_id", w.sessionID),
		zap.Int("step", stepNumber(w.state)),
	)
	return w.render(ctx)
}

// Finish completes the flow: stamp the profile, persist profile then
// flag, and schedule the one-shot notify+teardown. If persistence fails
// the wizard stays on the tour step so the action can be retried.
func (w *Wizard) Finish(ctx context.Context) error {
	if w.state != StateTour {
		return ErrInvalidTransition
	}

	now := time.Now().UTC()
	w.profile.CompletedWelcome = true
	w.profile.StartDate = &now

	raw, err := encodeProfile(w.profile)
	if err == nil {
		err = w.store.Set(ctx, keyProfile, raw)
	}
	if err == nil {
		err = w.store.Set(ctx, keyCompleted, completedFlagValue)
	}
	if err != nil {
		w.profile.CompletedWelcome = false
		w.profile.StartDate = nil
		obslog.L().Error("welcome_persist_error", zap.String("session_id", w.sessionID), zap.Error(err))
		return err
	}

	w.state = StateCompleted
	obslog.L().Info("welcome_complete",
		zap.String("session_id", w.sessionID),
		zap.String("skill_level", string(w.profile.SkillLevel)),
		zap.Strings("goals", w.profile.Goals),
	)
	w.scheduleTeardown()
	return nil
}

// scheduleTeardown runs the deferred notify+teardown exactly once. The
// delay is cosmetic; the wizard is already terminal when it fires.
func (w *Wizard) scheduleTeardown() {
	if w.teardownScheduled {
		return
	}
	w.teardownScheduled = true
	profile := w.Profile()
	time.AfterFunc(w.teardownDelay, func() {
		ctx := context.Background()
		if w.consumer != nil {
			w.consumer.OnWelcomeCompleted(ctx, profile)
		}
		if w.renderer != nil {
			w.renderer.Teardown(ctx)
		}
	})
}

func (w *Wizard) Dismiss(ctx context.Context) error {
	switch w.state {
	case StateCompleted, StateDismissed:
		return ErrInvalidTransition
	}
	w.state = StateDismissed
	obslog.L().Info("welcome_dismiss", zap.String("session_id", w.sessionID))
	if w.renderer != nil {
		w.renderer.Teardown(ctx)
	}
	return nil
}

// Reset clears both persisted keys and restores in-memory defaults. Any
// live UI is untouched; the caller re-initializes to reflect the reset.
func (w *Wizard) Reset(ctx context.Context) error {
	if err := w.store.Remove(ctx, keyProfile); err != nil {
		return err
	}
	if err := w.store.Remove(ctx, keyCompleted); err != nil {
		return err
	}
	w.profile = defaultProfile()
	w.state = StateNotStarted
	w.teardownScheduled = false
	obslog.L().Info("welcome_reset", zap.String("session_id", w.sessionID))
	return nil
}

func (w *Wizard) render(ctx context.Context) error {
	if w.renderer == nil {
		return nil
	}
	return w.renderer.RenderStep(ctx, stepNumber(w.state), w.Profile(), w)
}
