package webui

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/park285/chess-coach-go/internal/adapter/coachpresenter"
	"github.com/park285/chess-coach-go/internal/msgcat"
	"github.com/park285/chess-coach-go/internal/obslog"
	"github.com/park285/chess-coach-go/internal/welcome"
	"github.com/park285/chess-coach-go/pkg/coachdto"
)

var errUnknownAction = errors.New("unknown wizard action")

// frameWriter pushes one frame to the client. The WebSocket connection
// satisfies it in production; tests record frames instead.
type frameWriter interface {
	WriteFrame(ctx context.Context, frame coachdto.WizardFrame) error
}

// session binds one connection to one wizard. It is the wizard's
// Renderer: step intents become outbound frames, inbound action frames
// are dispatched to the wizard as the event sink. All dispatching runs
// on the single read loop, so wizard transitions never race.
type session struct {
	writer frameWriter
	cat    *msgcat.Catalog
	wizard *welcome.Wizard
}

func newSession(writer frameWriter, cat *msgcat.Catalog) *session {
	return &session{writer: writer, cat: cat}
}

func (s *session) attach(w *welcome.Wizard) { s.wizard = w }

// start initializes the wizard. A previously completed run produces a
// single completed frame instead of the stepped flow.
func (s *session) start(ctx context.Context) error {
	if err := s.wizard.Initialize(ctx); err != nil {
		return err
	}
	if s.wizard.State() == welcome.StateCompleted {
		return s.writeCompleted(ctx)
	}
	return nil
}

// handleAction dispatches one client action. The returned error is a
// client-visible rejection (bad action, out-of-order event); the caller
// reports it and keeps the connection alive.
func (s *session) handleAction(ctx context.Context, action coachdto.WizardAction) error {
	switch action.Action {
	case coachdto.ActionSelectSkill:
		return s.wizard.SelectSkillLevel(ctx, action.SkillLevel)
	case coachdto.ActionConfirmGoals:
		return s.wizard.ConfirmGoals(ctx, action.Goals)
	case coachdto.ActionBack:
		return s.wizard.Back(ctx)
	case coachdto.ActionFinish:
		if err := s.wizard.Finish(ctx); err != nil {
			return err
		}
		return s.writeCompleted(ctx)
	case coachdto.ActionDismiss:
		return s.wizard.Dismiss(ctx)
	case coachdto.ActionReset:
		if err := s.wizard.Reset(ctx); err != nil {
			return err
		}
		return s.start(ctx)
	default:
		return fmt.Errorf("%w: %q", errUnknownAction, action.Action)
	}
}

// RenderStep implements welcome.Renderer.
func (s *session) RenderStep(ctx context.Context, step int, profile welcome.UserProfile, sink welcome.EventSink) error {
	frame := coachdto.WizardFrame{
		Type:       coachdto.FrameStep,
		Step:       step,
		TotalSteps: welcome.TotalSteps,
		Profile:    coachpresenter.ToDTOProfile(profile),
	}
	copyData := map[string]string{"SkillLevel": string(profile.SkillLevel)}
	key := fmt.Sprintf("welcome.step%d", step)
	frame.Title = s.cat.RenderOr(key+".title", copyData, "")
	frame.Body = s.cat.RenderOr(key+".body", copyData, "")

	switch step {
	case 1:
		for _, level := range welcome.SkillLevels() {
			frame.SkillLevels = append(frame.SkillLevels, coachdto.Choice{
				Value: string(level),
				Label: s.cat.RenderOr("welcome.skill."+string(level), nil, string(level)),
			})
		}
	case 2:
		for _, goal := range welcome.GoalVocabulary() {
			frame.Goals = append(frame.Goals, coachdto.Choice{
				Value: goal,
				Label: s.cat.RenderOr("welcome.goal."+goal, nil, goal),
			})
		}
	}
	return s.writer.WriteFrame(ctx, frame)
}

// Teardown implements welcome.Renderer. The client closes the modal on
// this frame; write errors just mean the client already went away.
func (s *session) Teardown(ctx context.Context) {
	err := s.writer.WriteFrame(ctx, coachdto.WizardFrame{Type: coachdto.FrameTeardown})
	if err != nil {
		obslog.L().Debug("welcome_teardown_write_error", zap.Error(err))
	}
}

func (s *session) writeCompleted(ctx context.Context) error {
	return s.writer.WriteFrame(ctx, coachdto.WizardFrame{
		Type:    coachdto.FrameCompleted,
		Profile: coachpresenter.ToDTOProfile(s.wizard.Profile()),
	})
}

func (s *session) writeError(ctx context.Context, err error) {
	werr := s.writer.WriteFrame(ctx, coachdto.WizardFrame{
		Type:  coachdto.FrameError,
		Error: err.Error(),
	})
	if werr != nil {
		obslog.L().Debug("welcome_error_write_error", zap.Error(werr))
	}
}
