package api

import (
	"net/http"

	"github.com/garnizeh/internradar/internal/recommend"
	"github.com/garnizeh/internradar/pkg/models"
	"github.com/garnizeh/internradar/pkg/repository"
)

type RecommendationsHandler struct {
	userRepo       repository.UserRepo
	internshipRepo repository.InternshipRepo
}

func NewRecommendationsHandler(ur repository.UserRepo, ir repository.InternshipRepo) *RecommendationsHandler {
	return &RecommendationsHandler{userRepo: ur, internshipRepo: ir}
}

type recommendationsResponse struct {
	RequiresGitHub  bool                       `json:"requiresGitHub"`
	Message         string                     `json:"message,omitempty"`
	Count           int                        `json:"count"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// List scores all internships against the user's skills. Accounts
// without a GitHub link are told to connect one; linked accounts
// without extracted skills get the unranked list labelled General.
func (h *RecommendationsHandler) List(w http.ResponseWriter, r *http.Request) {
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

	if user.Provider != models.ProviderGitHub {
		writeJSON(w, recommendationsResponse{
			RequiresGitHub:  true,
			Message:         "Connect your GitHub account to get skill-based recommendations",
			Recommendations: []recommend.Recommendation{},
		}, http.StatusOK)
		return
	}

	internships, err := h.internshipRepo.ListInternships(ctx)
	if err != nil {
		http.Error(w, "failed to list internships", http.StatusInternalServerError)
		return
	}

	if len(user.Skills) == 0 {
		out := make([]recommend.Recommendation, 0, len(internships))
		for _, i := range internships {
			out = append(out, recommend.Recommendation{Internship: i, MatchLabel: "General"})
		}
		writeJSON(w, recommendationsResponse{
			Message:         "No skills detected yet, showing everything",
			Count:           len(out),
			Recommendations: out,
		}, http.StatusOK)
		return
	}

	recs := recommend.Score(user.Skills, internships)
	writeJSON(w, recommendationsResponse{Count: len(recs), Recommendations: recs}, http.StatusOK)
}
