package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/garnizeh/internradar/internal/ingest"
	"github.com/garnizeh/internradar/pkg/models"
	"github.com/garnizeh/internradar/pkg/repository"
)

// Refresher runs one ingestion pass against the postings feed.
type Refresher interface {
	Refresh(ctx context.Context, query string) (ingest.Result, error)
}

type InternshipsHandler struct {
	internshipRepo repository.InternshipRepo
	refresher      Refresher
	feedQuery      string
}

func NewInternshipsHandler(ir repository.InternshipRepo, refresher Refresher, feedQuery string) *InternshipsHandler {
	return &InternshipsHandler{internshipRepo: ir, refresher: refresher, feedQuery: feedQuery}
}

func (h *InternshipsHandler) List(w http.ResponseWriter, r *http.Request) {
	internships, err := h.internshipRepo.ListInternships(r.Context())
	if err != nil {
		http.Error(w, "failed to list internships", http.StatusInternalServerError)
		return
	}
	if internships == nil {
		internships = []models.Internship{}
	}

	writeJSON(w, map[string]any{"count": len(internships), "items": internships}, http.StatusOK)
}

func (h *InternshipsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		http.Error(w, "q is required", http.StatusBadRequest)
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}

	internships, err := h.internshipRepo.SearchInternships(r.Context(), q, limit)
	if err != nil {
		http.Error(w, "failed to search internships", http.StatusInternalServerError)
		return
	}
	if internships == nil {
		internships = []models.Internship{}
	}

	writeJSON(w, map[string]any{"query": q, "count": len(internships), "items": internships}, http.StatusOK)
}

// Refresh triggers one synchronous ingestion run. The optional q query
// parameter overrides the configured feed query.
func (h *InternshipsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.refresher == nil {
		http.Error(w, "ingestion not configured", http.StatusServiceUnavailable)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		query = h.feedQuery
	}

	res, err := h.refresher.Refresh(r.Context(), query)
	if err != nil {
		logger.Error("feed refresh failed", "err", err)
		http.Error(w, "feed refresh failed", http.StatusBadGateway)
		return
	}

	writeJSON(w, res, http.StatusOK)
}
