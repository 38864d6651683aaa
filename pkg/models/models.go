package models

import (
	"encoding/json"
	"time"
)

// Domain models matching the database schema in db/migrations/0001_init.sql

// Auth providers.
const (
	ProviderLocal  = "local"
	ProviderGitHub = "github"
)

// Application statuses.
const (
	StatusViewed     = "viewed"
	StatusApplied    = "applied"
	StatusBookmarked = "bookmarked"
)

// Interaction sources.
const (
	SourceDashboard       = "dashboard"
	SourceRecommendations = "recommendations"
	SourceSearch          = "search"
)

type User struct {
	ID             int64       `json:"id" db:"id"`
	Name           string      `json:"name" db:"name" validate:"required"`
	Email          string      `json:"email" db:"email" validate:"required,email"`
	PasswordHash   string      `json:"-" db:"password_hash"`
	Provider       string      `json:"provider" db:"provider"`
	GitHubID       string      `json:"github_id,omitempty" db:"github_id"`
	GitHubUsername string      `json:"github_username,omitempty" db:"github_username"`
	AvatarURL      string      `json:"avatar_url,omitempty" db:"avatar_url"`
	Skills         []string    `json:"skills" db:"skills"`
	Preferences    Preferences `json:"preferences" db:"preferences"`
	Activity       Activity    `json:"activity" db:"activity"`
	Created        int64       `json:"created" db:"created"`
	Updated        int64       `json:"updated" db:"updated"`
}

// Preferences are free-form personalization fields. No scoring logic reads
// them; they are stored and echoed back to the client.
type Preferences struct {
	Locations  []string `json:"preferred_locations"`
	StipendMin int      `json:"stipend_min"`
	StipendMax int      `json:"stipend_max"`
	Durations  []string `json:"preferred_durations"`
	Types      []string `json:"preferred_types"`
}

// Activity tracks per-user interaction counters.
type Activity struct {
	LastLoginAt       int64 `json:"last_login_at"`
	TotalApplications int64 `json:"total_applications"`
	TotalViews        int64 `json:"total_views"`
}

type Internship struct {
	ID             int64    `json:"id" db:"id"`
	Title          string   `json:"title" db:"title" validate:"required"`
	Company        string   `json:"company" db:"company" validate:"required"`
	Location       string   `json:"location" db:"location"`
	Stipend        string   `json:"stipend" db:"stipend"`
	Description    string   `json:"description" db:"description"`
	RequiredSkills []string `json:"required_skills" db:"required_skills"`
	Source         string   `json:"source,omitempty" db:"source"`
	ApplyLink      string   `json:"apply_link" db:"apply_link" validate:"required"`
	Created        int64    `json:"created" db:"created"`
	Updated        int64    `json:"updated" db:"updated"`
}

type Application struct {
	ID           int64  `json:"id" db:"id"`
	UserID       int64  `json:"user_id" db:"user_id"`
	InternshipID int64  `json:"internship_id" db:"internship_id"`
	Status       string `json:"status" db:"status"`
	Source       string `json:"source" db:"source"`
	ViewedAt     int64  `json:"viewed_at" db:"viewed_at"`
	AppliedAt    *int64 `json:"applied_at,omitempty" db:"applied_at"`
	Created      int64  `json:"created" db:"created"`
	Updated      int64  `json:"updated" db:"updated"`

	// Internship is populated by list endpoints that join the posting.
	Internship *Internship `json:"internship,omitempty" db:"-"`
}

type BackgroundJob struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	Status      string          `json:"status"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	Priority    int             `json:"priority"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	NextTryAt   *time.Time      `json:"next_try_at,omitempty"`
	LastError   string          `json:"last_error,omitempty"`
	Created     time.Time       `json:"created"`
	Updated     time.Time       `json:"updated"`
}
