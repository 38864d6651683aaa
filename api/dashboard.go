package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/garnizeh/internradar/internal/recommend"
	"github.com/garnizeh/internradar/pkg/models"
	"github.com/garnizeh/internradar/pkg/repository"
)

type DashboardHandler struct {
	userRepo        repository.UserRepo
	internshipRepo  repository.InternshipRepo
	applicationRepo repository.ApplicationRepo
}

func NewDashboardHandler(ur repository.UserRepo, ir repository.InternshipRepo, ar repository.ApplicationRepo) *DashboardHandler {
	return &DashboardHandler{userRepo: ur, internshipRepo: ir, applicationRepo: ar}
}

type dashboardStats struct {
	TotalViews          int64 `json:"totalViews"`
	TotalApplications   int64 `json:"totalApplications"`
	Applied             int64 `json:"applied"`
	Bookmarked          int64 `json:"bookmarked"`
	TotalInternships    int64 `json:"totalInternships"`
	MatchingInternships int   `json:"matchingInternships"`
}

func (h *DashboardHandler) stats(ctx context.Context, user *models.User) (dashboardStats, error) {
	var s dashboardStats
	s.TotalViews = user.Activity.TotalViews
	s.TotalApplications = user.Activity.TotalApplications

	applied, err := h.applicationRepo.CountApplicationsByUser(ctx, user.ID, models.StatusApplied)
	if err != nil {
		return s, err
	}
	s.Applied = applied

	bookmarked, err := h.applicationRepo.CountApplicationsByUser(ctx, user.ID, models.StatusBookmarked)
	if err != nil {
		return s, err
	}
	s.Bookmarked = bookmarked

	total, err := h.internshipRepo.CountInternships(ctx)
	if err != nil {
		return s, err
	}
	s.TotalInternships = total

	if len(user.Skills) > 0 {
		internships, err := h.internshipRepo.ListInternships(ctx)
		if err != nil {
			return s, err
		}
		for _, i := range internships {
			if score, _ := recommend.ScoreOne(user.Skills, i.RequiredSkills); score > 0 {
				s.MatchingInternships++
			}
		}
	}

	return s, nil
}

// profileCompletion scores how filled-in the account is, in steps of 20.
func profileCompletion(u *models.User) int {
	pct := 0
	if strings.TrimSpace(u.Name) != "" {
		pct += 20
	}
	if strings.TrimSpace(u.Email) != "" {
		pct += 20
	}
	if u.Provider == models.ProviderGitHub {
		pct += 20
	}
	if len(u.Skills) > 0 {
		pct += 20
	}
	if len(u.Preferences.Locations) > 0 || len(u.Preferences.Types) > 0 || len(u.Preferences.Durations) > 0 {
		pct += 20
	}
	return pct
}

func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
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

	stats, err := h.stats(ctx, user)
	if err != nil {
		http.Error(w, "Error loading stats", http.StatusInternalServerError)
		return
	}

	recent, err := h.applicationRepo.ListRecentByUser(ctx, userID, 5)
	if err != nil {
		http.Error(w, "Error loading recent activity", http.StatusInternalServerError)
		return
	}
	if recent == nil {
		recent = []models.Application{}
	}

	writeJSON(w, map[string]any{
		"user":              user,
		"stats":             stats,
		"recent":            recent,
		"profileCompletion": profileCompletion(user),
	}, http.StatusOK)
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
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

	stats, err := h.stats(ctx, user)
	if err != nil {
		http.Error(w, "Error loading stats", http.StatusInternalServerError)
		return
	}

	writeJSON(w, stats, http.StatusOK)
}

type updateProfileRequest struct {
	Name        *string             `json:"name,omitempty"`
	Skills      []string            `json:"skills,omitempty"`
	Preferences *models.Preferences `json:"preferences,omitempty"`
}

// UpdateProfile lets the user edit their display name, manual skills
// and matching preferences. Absent fields stay untouched.
func (h *DashboardHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID <= 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
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

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			http.Error(w, "name cannot be empty", http.StatusBadRequest)
			return
		}
		user.Name = name
	}
	if req.Skills != nil {
		user.Skills = req.Skills
	}
	if req.Preferences != nil {
		user.Preferences = *req.Preferences
	}

	if err := h.userRepo.UpdateUser(ctx, user); err != nil {
		http.Error(w, "Error updating user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, user, http.StatusOK)
}
