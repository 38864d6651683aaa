package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/garnizeh/internradar/pkg/models"
	"github.com/garnizeh/internradar/pkg/repository"
)

// JobTypeSyncSkills repairs a GitHub user's empty skill list from their
// public repository languages.
const JobTypeSyncSkills = "github.sync_skills"

// SkillSource resolves a GitHub username to a list of skills.
type SkillSource interface {
	Skills(ctx context.Context, username string) ([]string, error)
}

type syncSkillsPayload struct {
	UserID int64 `json:"user_id"`
}

// NewSyncSkillsHandler returns the handler for JobTypeSyncSkills jobs.
// A user that no longer exists, or lost their GitHub link since the job
// was enqueued, completes the job without work. An empty extraction
// result never overwrites stored skills.
func NewSyncSkillsHandler(users repository.UserRepo, source SkillSource, logger *slog.Logger) Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, j *models.BackgroundJob) error {
		var p syncSkillsPayload
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}

		u, err := users.GetUserByID(ctx, p.UserID)
		if err != nil {
			return fmt.Errorf("load user %d: %w", p.UserID, err)
		}
		if u == nil || u.GitHubUsername == "" {
			logger.Info("skill sync skipped", "user_id", p.UserID)
			return nil
		}
		if len(u.Skills) > 0 {
			return nil
		}

		skills, err := source.Skills(ctx, u.GitHubUsername)
		if err != nil {
			return fmt.Errorf("extract skills for %q: %w", u.GitHubUsername, err)
		}
		if len(skills) == 0 {
			logger.Info("skill sync found nothing", "user_id", u.ID, "username", u.GitHubUsername)
			return nil
		}

		if err := users.UpdateSkills(ctx, u.ID, skills); err != nil {
			return fmt.Errorf("persist skills for user %d: %w", u.ID, err)
		}
		logger.Info("skill sync done", "user_id", u.ID, "skills", len(skills))
		return nil
	}
}
