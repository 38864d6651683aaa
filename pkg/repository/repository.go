package repository

import (
	"context"

	"github.com/garnizeh/internradar/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByGitHubID(ctx context.Context, githubID string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	UpdateSkills(ctx context.Context, id int64, skills []string) error
	TouchLogin(ctx context.Context, id int64) error
	BumpActivity(ctx context.Context, id int64, views, applications int64) error
	ResetActivity(ctx context.Context, id int64) error
	// ListGitHubUsersWithoutSkills finds github-provider accounts whose
	// stored skill set is empty; used by the backfill job.
	ListGitHubUsersWithoutSkills(ctx context.Context) ([]models.User, error)
}

type InternshipRepo interface {
	CreateInternship(ctx context.Context, i *models.Internship) (int64, error)
	GetInternshipByID(ctx context.Context, id int64) (*models.Internship, error)
	GetInternshipByApplyLink(ctx context.Context, link string) (*models.Internship, error)
	ListInternships(ctx context.Context) ([]models.Internship, error)
	SearchInternships(ctx context.Context, query string, limit int) ([]models.Internship, error)
	CountInternships(ctx context.Context) (int64, error)
}

type ApplicationRepo interface {
	// UpsertApplication inserts the (user, internship) record or, when one
	// already exists, overwrites its status and source in place.
	UpsertApplication(ctx context.Context, a *models.Application) (int64, error)
	GetApplication(ctx context.Context, userID, internshipID int64) (*models.Application, error)
	ListApplicationsByUser(ctx context.Context, userID int64, status string, limit, offset int) ([]models.Application, error)
	CountApplicationsByUser(ctx context.Context, userID int64, status string) (int64, error)
	ListRecentByUser(ctx context.Context, userID int64, limit int) ([]models.Application, error)
	DeleteApplication(ctx context.Context, userID, applicationID int64) (bool, error)
	DeleteAllByUser(ctx context.Context, userID int64) (int64, error)
}

// JobQueue is the durable background-job queue used by the worker pool.
type JobQueue interface {
	Enqueue(ctx context.Context, j *models.BackgroundJob) (int64, error)
	FetchNext(ctx context.Context) (*models.BackgroundJob, error)
	UpdateJob(ctx context.Context, j *models.BackgroundJob) error
	MoveToDeadLetter(ctx context.Context, j *models.BackgroundJob) error
}
