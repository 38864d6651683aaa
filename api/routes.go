package api

import (
	"github.com/garnizeh/internradar/internal/config"
	"github.com/garnizeh/internradar/internal/db"
	"github.com/garnizeh/internradar/internal/repository/sqlite"
	"github.com/gorilla/mux"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB, skills SkillSource, refresher Refresher, queue Enqueuer) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(database, logger)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	internshipsHandler := NewInternshipsHandler(repo, refresher, cfg.JSearch.Query)
	recommendationsHandler := NewRecommendationsHandler(repo, repo)
	applicationsHandler := NewApplicationsHandler(repo, repo, repo)
	dashboardHandler := NewDashboardHandler(repo, repo, repo)
	githubHandler := NewGitHubHandler(repo, skills, queue)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/v1/auth/login", authHandler.Login).Methods("POST")

	// GitHub OAuth is open by nature; only wired when configured
	if cfg.GitHub.OAuthEnabled() {
		oauthHandler := NewOAuthHandler(repo, cfg.GitHub, skills, cfg.JWTSecret, cfg.TokenDuration)
		r.HandleFunc("/v1/auth/github", oauthHandler.Start).Methods("GET")
		r.HandleFunc("/v1/auth/github/callback", oauthHandler.Callback).Methods("GET")
	}

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	apiV1.HandleFunc("/auth/profile", authHandler.Profile).Methods("GET")

	// Internship endpoints
	apiV1.HandleFunc("/internships", internshipsHandler.List).Methods("GET")
	apiV1.HandleFunc("/internships/search", internshipsHandler.Search).Methods("GET")
	apiV1.HandleFunc("/internships/refresh", internshipsHandler.Refresh).Methods("POST")

	// Recommendation endpoints
	apiV1.HandleFunc("/recommendations", recommendationsHandler.List).Methods("GET")

	// Application endpoints
	apiV1.HandleFunc("/applications/interaction", applicationsHandler.RecordInteraction).Methods("POST")
	apiV1.HandleFunc("/applications", applicationsHandler.List).Methods("GET")
	apiV1.HandleFunc("/applications", applicationsHandler.Clear).Methods("DELETE")
	apiV1.HandleFunc("/applications/recent", applicationsHandler.Recent).Methods("GET")
	apiV1.HandleFunc("/applications/status/{internshipID}", applicationsHandler.Status).Methods("GET")
	apiV1.HandleFunc("/applications/{id}", applicationsHandler.Delete).Methods("DELETE")

	// Dashboard endpoints
	apiV1.HandleFunc("/dashboard/overview", dashboardHandler.Overview).Methods("GET")
	apiV1.HandleFunc("/dashboard/stats", dashboardHandler.Stats).Methods("GET")
	apiV1.HandleFunc("/dashboard/profile", dashboardHandler.UpdateProfile).Methods("PUT")

	// GitHub skill endpoints
	apiV1.HandleFunc("/github/sync-skills", githubHandler.SyncSkills).Methods("POST")
	apiV1.HandleFunc("/github/backfill-skills", githubHandler.BackfillSkills).Methods("POST")

	return r
}
