package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/garnizeh/internradar/internal/github"
	"github.com/garnizeh/internradar/internal/jobs"
	"github.com/garnizeh/internradar/pkg/models"
	"github.com/garnizeh/internradar/pkg/repository"
)

// Enqueuer submits background jobs; implemented by the worker pool.
type Enqueuer interface {
	Enqueue(ctx context.Context, typ string, payload any, priority int, maxAttempts int) (int64, error)
}

type GitHubHandler struct {
	userRepo repository.UserRepo
	skills   SkillSource
	queue    Enqueuer
}

func NewGitHubHandler(ur repository.UserRepo, skills SkillSource, queue Enqueuer) *GitHubHandler {
	return &GitHubHandler{userRepo: ur, skills: skills, queue: queue}
}

// mergeSkills unions two lists, first occurrence wins on casing.
func mergeSkills(existing, extracted []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(existing)+len(extracted))
	for _, list := range [][]string{existing, extracted} {
		for _, s := range list {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			key := strings.ToLower(s)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// SyncSkills re-extracts the user's skills on demand and merges them
// into the stored list, so manually added skills survive a re-sync.
func (h *GitHubHandler) SyncSkills(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID <= 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx := r.Context()
	user, err := h.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		http.Error(w, "Error loading user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if user.Provider != models.ProviderGitHub || user.GitHubUsername == "" {
		http.Error(w, "GitHub account not linked", http.StatusBadRequest)
		return
	}

	extracted, err := h.skills.Skills(ctx, user.GitHubUsername)
	if err != nil {
		switch {
		case errors.Is(err, github.ErrAccountNotFound):
			http.Error(w, "GitHub account not found", http.StatusNotFound)
		case errors.Is(err, github.ErrUpstreamUnavailable):
			http.Error(w, "GitHub unavailable", http.StatusBadGateway)
		default:
			http.Error(w, "Skill extraction failed", http.StatusInternalServerError)
		}
		return
	}

	merged := mergeSkills(user.Skills, extracted)
	if err := h.userRepo.UpdateSkills(ctx, userID, merged); err != nil {
		http.Error(w, "Error updating skills", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"skills": merged, "extracted": len(extracted)}, http.StatusOK)
}

// BackfillSkills enqueues a repair job for every GitHub account whose
// skill list is still empty.
func (h *GitHubHandler) BackfillSkills(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		http.Error(w, "job queue not configured", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	users, err := h.userRepo.ListGitHubUsersWithoutSkills(ctx)
	if err != nil {
		http.Error(w, "Error listing users", http.StatusInternalServerError)
		return
	}

	enqueued := 0
	for _, u := range users {
		payload := map[string]int64{"user_id": u.ID}
		if _, err := h.queue.Enqueue(ctx, jobs.JobTypeSyncSkills, payload, 100, 3); err != nil {
			logger.Warn("backfill enqueue failed", "user_id", u.ID, "err", err)
			continue
		}
		enqueued++
	}

	writeJSON(w, map[string]any{"candidates": len(users), "enqueued": enqueued}, http.StatusOK)
}
