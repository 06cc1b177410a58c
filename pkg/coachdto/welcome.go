package coachdto

import "time"

// Frame types pushed by the server over the wizard WebSocket.
const (
	FrameStep      = "step"
	FrameCompleted = "completed"
	FrameTeardown  = "teardown"
	FrameError     = "error"
)

// Actions accepted from the client.
const (
	ActionSelectSkill  = "select_skill"
	ActionConfirmGoals = "confirm_goals"
	ActionBack         = "back"
	ActionFinish       = "finish"
	ActionDismiss      = "dismiss"
	ActionReset        = "reset"
)

type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type WelcomeProfile struct {
	SkillLevel       string     `json:"skill_level,omitempty"`
	Goals            []string   `json:"goals"`
	CompletedWelcome bool       `json:"completed_welcome"`
	StartDate        *time.Time `json:"start_date,omitempty"`
}

// WizardFrame is a server-to-client message. Step frames carry the copy
// and choices for the current step; error frames carry Error only.
type WizardFrame struct {
	Type        string          `json:"type"`
	Step        int             `json:"step,omitempty"`
	TotalSteps  int             `json:"total_steps,omitempty"`
	Title       string          `json:"title,omitempty"`
	Body        string          `json:"body,omitempty"`
	Profile     *WelcomeProfile `json:"profile,omitempty"`
	SkillLevels []Choice        `json:"skill_levels,omitempty"`
	Goals       []Choice        `json:"goals,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// WizardAction is a client-to-server message.
type WizardAction struct {
	Action     string   `json:"action"`
	SkillLevel string   `json:"skill_level,omitempty"`
	Goals      []string `json:"goals,omitempty"`
}
