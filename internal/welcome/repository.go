package welcome

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/park285/chess-coach-go/internal/obslog"
	"go.uber.org/zap"
)

// Repository upserts finalized profiles into Postgres. It implements
// Consumer so it can be wired straight into the wizard; persistence
// failures are logged, never surfaced into wizard state.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) OnWelcomeCompleted(ctx context.Context, profile UserProfile) {
	if err := r.SaveProfile(ctx, profile); err != nil {
		obslog.L().Error("welcome_profile_persist_error", zap.Error(err))
		return
	}
	obslog.L().Info("welcome_profile_persist",
		zap.String("skill_level", string(profile.SkillLevel)),
		zap.Strings("goals", profile.Goals),
	)
}

// SaveProfile upserts the finalized profile, one row per session start.
func (r *Repository) SaveProfile(ctx context.Context, profile UserProfile) error {
	if r == nil || r.db == nil {
		return nil
	}
	if !profile.CompletedWelcome || profile.StartDate == nil {
		return fmt.Errorf("profile not finalized")
	}

	goalsRaw, err := json.Marshal(profile.Goals)
	if err != nil {
		return fmt.Errorf("marshal goals: %w", err)
	}

	const q = `INSERT INTO coach_profiles (
	    skill_level, goals, completed_welcome, start_date, created_at
	  ) VALUES ($1, $2::jsonb, $3, $4, NOW())
	  ON CONFLICT (start_date) DO UPDATE SET
	    skill_level=EXCLUDED.skill_level,
	    goals=EXCLUDED.goals,
	    completed_welcome=EXCLUDED.completed_welcome`

	if _, err := r.db.ExecContext(ctx, q,
		string(profile.SkillLevel),
		string(goalsRaw),
		profile.CompletedWelcome,
		*profile.StartDate,
	); err != nil {
		return fmt.Errorf("upsert coach profile: %w", err)
	}
	return nil
}
