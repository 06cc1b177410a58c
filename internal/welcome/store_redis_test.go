package welcome

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	url := fmt.Sprintf("redis://%s/0", mr.Addr())
	s, err := NewRedisStore(url, "coach:welcome:test")
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRedisStoreRoundtrip(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v, want absent", ok, err)
	}
	if err := s.Set(ctx, "completed", "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(ctx, "completed")
	if err != nil || !ok || v != "true" {
		t.Fatalf("Get = %q ok=%v err=%v", v, ok, err)
	}
	if err := s.Remove(ctx, "completed"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "completed"); ok {
		t.Fatalf("key survived Remove")
	}
}

func TestWizardFullFlowOverRedis(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	notified := make(chan UserProfile, 1)
	w := NewWizard(s, nil, ConsumerFunc(func(ctx context.Context, p UserProfile) { notified <- p }), 0)
	if err := w.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := w.SelectSkillLevel(ctx, "intermediate"); err != nil {
		t.Fatalf("SelectSkillLevel: %v", err)
	}
	if err := w.ConfirmGoals(ctx, []string{"positional", "openings"}); err != nil {
		t.Fatalf("ConfirmGoals: %v", err)
	}
	if err := w.Finish(ctx); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	select {
	case p := <-notified:
		if p.SkillLevel != SkillIntermediate || len(p.Goals) != 2 {
			t.Fatalf("unexpected final profile: %+v", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("consumer not notified")
	}

	// A later session over the same redis namespace hydrates silently.
	w2 := NewWizard(s, nil, nil, 0)
	if err := w2.Initialize(ctx); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}
	if w2.State() != StateCompleted {
		t.Fatalf("state = %s, want %s", w2.State(), StateCompleted)
	}
	if p := w2.Profile(); !p.HasGoal(GoalPositional) || !p.HasGoal(GoalOpenings) {
		t.Fatalf("hydrated goals = %v", p.Goals)
	}
}
