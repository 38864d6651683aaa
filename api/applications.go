package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/garnizeh/internradar/pkg/models"
	"github.com/garnizeh/internradar/pkg/repository"
	"github.com/gorilla/mux"
)

type ApplicationsHandler struct {
	applicationRepo repository.ApplicationRepo
	internshipRepo  repository.InternshipRepo
	userRepo        repository.UserRepo
}

func NewApplicationsHandler(ar repository.ApplicationRepo, ir repository.InternshipRepo, ur repository.UserRepo) *ApplicationsHandler {
	return &ApplicationsHandler{applicationRepo: ar, internshipRepo: ir, userRepo: ur}
}

type interactionRequest struct {
	InternshipID int64  `json:"internship_id"`
	Status       string `json:"status"`
	Source       string `json:"source,omitempty"`
}

func validStatus(s string) bool {
	switch s {
	case models.StatusViewed, models.StatusApplied, models.StatusBookmarked:
		return true
	}
	return false
}

func validSource(s string) bool {
	switch s {
	case "", models.SourceDashboard, models.SourceRecommendations, models.SourceSearch:
		return true
	}
	return false
}

// RecordInteraction upserts the (user, internship) record and keeps the
// activity counters in step: a first touch counts as a view, a first
// transition to applied counts as an application.
func (h *ApplicationsHandler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID <= 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.InternshipID <= 0 || !validStatus(req.Status) || !validSource(req.Source) {
		http.Error(w, "invalid fields", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	internship, err := h.internshipRepo.GetInternshipByID(ctx, req.InternshipID)
	if err != nil {
		http.Error(w, "failed to load internship", http.StatusInternalServerError)
		return
	}
	if internship == nil {
		http.Error(w, "internship not found", http.StatusNotFound)
		return
	}

	existing, err := h.applicationRepo.GetApplication(ctx, userID, req.InternshipID)
	if err != nil {
		http.Error(w, "failed to load application", http.StatusInternalServerError)
		return
	}

	id, err := h.applicationRepo.UpsertApplication(ctx, &models.Application{
		UserID:       userID,
		InternshipID: req.InternshipID,
		Status:       req.Status,
		Source:       req.Source,
	})
	if err != nil {
		http.Error(w, "failed to store application", http.StatusInternalServerError)
		return
	}

	var views, applications int64
	if existing == nil {
		views = 1
	}
	if req.Status == models.StatusApplied && (existing == nil || existing.AppliedAt == nil) {
		applications = 1
	}
	if views > 0 || applications > 0 {
		if err := h.userRepo.BumpActivity(ctx, userID, views, applications); err != nil {
			logger.Warn("bump activity failed", "user_id", userID, "err", err)
		}
	}

	writeJSON(w, map[string]any{"id": id, "status": req.Status}, http.StatusOK)
}

func (h *ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID <= 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	status := q.Get("status")
	if status != "" && !validStatus(status) {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	limit := 10
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	page := 1
	if p := q.Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	offset := (page - 1) * limit

	ctx := r.Context()
	apps, err := h.applicationRepo.ListApplicationsByUser(ctx, userID, status, limit, offset)
	if err != nil {
		http.Error(w, "failed to list applications", http.StatusInternalServerError)
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}

	total, err := h.applicationRepo.CountApplicationsByUser(ctx, userID, status)
	if err != nil {
		http.Error(w, "failed to count applications", http.StatusInternalServerError)
		return
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	writeJSON(w, map[string]any{
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": totalPages,
		"items":      apps,
	}, http.StatusOK)
}

func (h *ApplicationsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID <= 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 5
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 50 {
			limit = v
		}
	}

	apps, err := h.applicationRepo.ListRecentByUser(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, "failed to list recent applications", http.StatusInternalServerError)
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}

	writeJSON(w, map[string]any{"items": apps}, http.StatusOK)
}

// Status reports how the user last interacted with one internship.
func (h *ApplicationsHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID <= 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	internshipID, err := strconv.ParseInt(mux.Vars(r)["internshipID"], 10, 64)
	if err != nil || internshipID <= 0 {
		http.Error(w, "invalid internship id", http.StatusBadRequest)
		return
	}

	app, err := h.applicationRepo.GetApplication(r.Context(), userID, internshipID)
	if err != nil {
		http.Error(w, "failed to load application", http.StatusInternalServerError)
		return
	}

	if app == nil {
		writeJSON(w, map[string]any{"status": nil}, http.StatusOK)
		return
	}
	writeJSON(w, map[string]any{"status": app.Status, "application": app}, http.StatusOK)
}

func (h *ApplicationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID <= 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid application id", http.StatusBadRequest)
		return
	}

	deleted, err := h.applicationRepo.DeleteApplication(r.Context(), userID, id)
	if err != nil {
		http.Error(w, "failed to delete application", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "application not found", http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]any{"deleted": true}, http.StatusOK)
}

// Clear wipes the user's history and resets the activity counters with it.
func (h *ApplicationsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID <= 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx := r.Context()
	deleted, err := h.applicationRepo.DeleteAllByUser(ctx, userID)
	if err != nil {
		http.Error(w, "failed to clear applications", http.StatusInternalServerError)
		return
	}

	if err := h.userRepo.ResetActivity(ctx, userID); err != nil {
		logger.Warn("reset activity failed", "user_id", userID, "err", err)
	}

	writeJSON(w, map[string]any{"deleted": deleted}, http.StatusOK)
}
