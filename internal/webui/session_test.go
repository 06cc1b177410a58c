package webui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/park285/chess-coach-go/internal/msgcat"
	"github.com/park285/chess-coach-go/internal/welcome"
	"github.com/park285/chess-coach-go/pkg/coachdto"
)

// frameRecorder buffers outbound frames so tests can assert on them,
// including the async teardown frame.
type frameRecorder struct {
	frames chan coachdto.WizardFrame
}

func newFrameRecorder() *frameRecorder {
	return &frameRecorder{frames: make(chan coachdto.WizardFrame, 32)}
}

func (r *frameRecorder) WriteFrame(ctx context.Context, frame coachdto.WizardFrame) error {
	r.frames <- frame
	return nil
}

func (r *frameRecorder) next(t *testing.T) coachdto.WizardFrame {
	t.Helper()
	select {
	case f := <-r.frames:
		return f
	case <-time.After(2 * time.Second):
		t.Fatalf("no frame received")
		return coachdto.WizardFrame{}
	}
}

func (r *frameRecorder) expectNone(t *testing.T) {
	t.Helper()
	select {
	case f := <-r.frames:
		t.Fatalf("unexpected frame: %+v", f)
	case <-time.After(50 * time.Millisecond):
	}
}

func newTestSession(t *testing.T, store welcome.Store) (*session, *frameRecorder) {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat: %v", err)
	}
	rec := newFrameRecorder()
	sess := newSession(rec, cat)
	wizard := welcome.NewWizard(store, sess, nil, 0)
	sess.attach(wizard)
	return sess, rec
}

func TestSessionRendersFirstStep(t *testing.T) {
	sess, rec := newTestSession(t, welcome.NewMemoryStore())
	if err := sess.start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	frame := rec.next(t)
	if frame.Type != coachdto.FrameStep || frame.Step != 1 || frame.TotalSteps != 3 {
		t.Fatalf("unexpected frame: %+v", frame)
	}
	if len(frame.SkillLevels) != 4 {
		t.Fatalf("skill choices = %d, want 4", len(frame.SkillLevels))
	}
	if frame.Title == "" || frame.Body == "" {
		t.Fatalf("missing copy: %+v", frame)
	}
}

func TestSessionFullFlow(t *testing.T) {
	ctx := context.Background()
	store := welcome.NewMemoryStore()
	sess, rec := newTestSession(t, store)
	if err := sess.start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	rec.next(t) // step 1

	if err := sess.handleAction(ctx, coachdto.WizardAction{Action: coachdto.ActionSelectSkill, SkillLevel: "intermediate"}); err != nil {
		t.Fatalf("select_skill: %v", err)
	}
	step2 := rec.next(t)
	if step2.Step != 2 || len(step2.Goals) != 5 {
		t.Fatalf("unexpected step 2 frame: %+v", step2)
	}
	if step2.Profile == nil || step2.Profile.SkillLevel != "intermediate" {
		t.Fatalf("profile not carried: %+v", step2.Profile)
	}

	if err := sess.handleAction(ctx, coachdto.WizardAction{Action: coachdto.ActionConfirmGoals, Goals: []string{"tactics", "endgames", "bogus"}}); err != nil {
		t.Fatalf("confirm_goals: %v", err)
	}
	step3 := rec.next(t)
	if step3.Step != 3 {
		t.Fatalf("unexpected step 3 frame: %+v", step3)
	}

	if err := sess.handleAction(ctx, coachdto.WizardAction{Action: coachdto.ActionFinish}); err != nil {
		t.Fatalf("finish: %v", err)
	}
	completed := rec.next(t)
	if completed.Type != coachdto.FrameCompleted {
		t.Fatalf("expected completed frame, got %+v", completed)
	}
	if completed.Profile == nil || !completed.Profile.CompletedWelcome || completed.Profile.StartDate == nil {
		t.Fatalf("incomplete profile: %+v", completed.Profile)
	}
	if got := completed.Profile.Goals; len(got) != 2 {
		t.Fatalf("goals = %v", got)
	}
	teardown := rec.next(t)
	if teardown.Type != coachdto.FrameTeardown {
		t.Fatalf("expected teardown frame, got %+v", teardown)
	}
}

func TestSessionHydratesCompleted(t *testing.T) {
	ctx := context.Background()
	store := welcome.NewMemoryStore()

	sess, rec := newTestSession(t, store)
	if err := sess.start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	rec.next(t)
	_ = sess.handleAction(ctx, coachdto.WizardAction{Action: coachdto.ActionSelectSkill, SkillLevel: "beginner"})
	rec.next(t)
	_ = sess.handleAction(ctx, coachdto.WizardAction{Action: coachdto.ActionConfirmGoals, Goals: []string{"openings"}})
	rec.next(t)
	if err := sess.handleAction(ctx, coachdto.WizardAction{Action: coachdto.ActionFinish}); err != nil {
		t.Fatalf("finish: %v", err)
	}
	rec.next(t) // completed
	rec.next(t) // teardown

	// Reconnect against the same store: no stepped flow, one completed frame.
	sess2, rec2 := newTestSession(t, store)
	if err := sess2.start(ctx); err != nil {
		t.Fatalf("second start: %v", err)
	}
	frame := rec2.next(t)
	if frame.Type != coachdto.FrameCompleted {
		t.Fatalf("expected completed frame, got %+v", frame)
	}
	if frame.Profile.SkillLevel != "beginner" || len(frame.Profile.Goals) != 1 {
		t.Fatalf("hydrated profile: %+v", frame.Profile)
	}
	rec2.expectNone(t)
}

func TestSessionResetRestartsFlow(t *testing.T) {
	ctx := context.Background()
	store := welcome.NewMemoryStore()
	sess, rec := newTestSession(t, store)
	if err := sess.start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	rec.next(t)
	_ = sess.handleAction(ctx, coachdto.WizardAction{Action: coachdto.ActionSelectSkill, SkillLevel: "casual"})
	rec.next(t)
	_ = sess.handleAction(ctx, coachdto.WizardAction{Action: coachdto.ActionConfirmGoals, Goals: nil})
	rec.next(t)
	if err := sess.handleAction(ctx, coachdto.WizardAction{Action: coachdto.ActionFinish}); err != nil {
		t.Fatalf("finish: %v", err)
	}
	rec.next(t) // completed
	rec.next(t) // teardown

	if err := sess.handleAction(ctx, coachdto.WizardAction{Action: coachdto.ActionReset}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	frame := rec.next(t)
	if frame.Type != coachdto.FrameStep || frame.Step != 1 {
		t.Fatalf("expected fresh step 1, got %+v", frame)
	}
	if frame.Profile.SkillLevel != "" || len(frame.Profile.Goals) != 0 {
		t.Fatalf("profile not reset: %+v", frame.Profile)
	}
}

func TestSessionRejectsBadActions(t *testing.T) {
	ctx := context.Background()
	sess, rec := newTestSession(t, welcome.NewMemoryStore())
	if err := sess.start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	rec.next(t)

	if err := sess.handleAction(ctx, coachdto.WizardAction{Action: "launch_rocket"}); !errors.Is(err, errUnknownAction) {
		t.Fatalf("err = %v, want errUnknownAction", err)
	}
	// Goals before a skill level is out of order.
	if err := sess.handleAction(ctx, coachdto.WizardAction{Action: coachdto.ActionConfirmGoals, Goals: []string{"tactics"}}); !errors.Is(err, welcome.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if err := sess.handleAction(ctx, coachdto.WizardAction{Action: coachdto.ActionSelectSkill, SkillLevel: "grandmaster"}); !errors.Is(err, welcome.ErrUnknownSkillLevel) {
		t.Fatalf("err = %v, want ErrUnknownSkillLevel", err)
	}
	rec.expectNone(t)
}
