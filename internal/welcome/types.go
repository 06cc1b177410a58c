package welcome

import (
	"encoding/json"
	"fmt"
	"time"
)

// SkillLevel is the user-declared experience level collected in step 1.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillCasual       SkillLevel = "casual"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// ParseSkillLevel maps a raw UI token onto the enum.
func ParseSkillLevel(s string) (SkillLevel, error) {
	switch SkillLevel(s) {
	case SkillBeginner, SkillCasual, SkillIntermediate, SkillAdvanced:
		return SkillLevel(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSkillLevel, s)
	}
}

// Goal vocabulary collected in step 2. Selection is an order-independent
// set; anything outside the vocabulary is silently dropped.
const (
	GoalOpenings   = "openings"
	GoalTactics    = "tactics"
	GoalEndgames   = "endgames"
	GoalPositional = "positional"
	GoalTime       = "time"
)

var goalVocabulary = []string{GoalOpenings, GoalTactics, GoalEndgames, GoalPositional, GoalTime}

// SkillLevels lists the selectable levels in display order.
func SkillLevels() []SkillLevel {
	return []SkillLevel{SkillBeginner, SkillCasual, SkillIntermediate, SkillAdvanced}
}

// GoalVocabulary lists the selectable goals in display order.
func GoalVocabulary() []string {
	return append([]string(nil), goalVocabulary...)
}

// normalizeGoals filters against the vocabulary and dedupes. The result
// uses the vocabulary order so persisted profiles compare stably.
func normalizeGoals(goals []string) []string {
	selected := make(map[string]bool, len(goals))
	for _, g := range goals {
		selected[g] = true
	}
	out := make([]string, 0, len(goalVocabulary))
	for _, g := range goalVocabulary {
		if selected[g] {
			out = append(out, g)
		}
	}
	return out
}

// UserProfile is the onboarding result. Once CompletedWelcome is set and
// StartDate stamped it is treated as immutable reference data.
type UserProfile struct {
	SkillLevel       SkillLevel `json:"skill_level,omitempty"`
	Goals            []string   `json:"goals"`
	CompletedWelcome bool       `json:"completed_welcome"`
	StartDate        *time.Time `json:"start_date,omitempty"`
}

// HasGoal reports set membership.
func (p UserProfile) HasGoal(goal string) bool {
	for _, g := range p.Goals {
		if g == goal {
			return true
		}
	}
	return false
}

func defaultProfile() UserProfile {
	return UserProfile{Goals: []string{}}
}

func encodeProfile(p UserProfile) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}
	return string(raw), nil
}

// decodeProfile validates the stored payload. Any violation is an error;
// the wizard recovers by falling back to defaults.
func decodeProfile(raw string) (UserProfile, error) {
	var p UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return UserProfile{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	if p.SkillLevel != "" {
		if _, err := ParseSkillLevel(string(p.SkillLevel)); err != nil {
			return UserProfile{}, err
		}
	}
	for _, g := range p.Goals {
		if !goalKnown(g) {
			return UserProfile{}, fmt.Errorf("unknown goal %q in stored profile", g)
		}
	}
	if p.Goals == nil {
		p.Goals = []string{}
	}
	return p, nil
}

func goalKnown(goal string) bool {
	for _, g := range goalVocabulary {
		if g == goal {
			return true
		}
	}
	return false
}

// State of the wizard step machine.
type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StateSkillLevel State = "STEP_SKILL_LEVEL"
	StateGoals      State = "STEP_GOALS"
	StateTour       State = "STEP_TOUR"
	StateCompleted  State = "COMPLETED"
	StateDismissed  State = "DISMISSED"
)

// TotalSteps of the stepped flow.
const TotalSteps = 3

func stepNumber(s State) int {
	switch s {
	case StateSkillLevel:
		return 1
	case StateGoals:
		return 2
	case StateTour:
		return 3
	default:
		return 0
	}
}
