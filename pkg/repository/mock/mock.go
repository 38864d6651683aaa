// Package mock provides hand-rolled repository fakes for handler and
// worker tests. Every method delegates to an optional function field so
// tests override only what they need.
package mock

import (
	"context"

	"github.com/garnizeh/internradar/pkg/models"
	"github.com/garnizeh/internradar/pkg/repository"
)

var (
	_ repository.UserRepo        = (*UserRepo)(nil)
	_ repository.InternshipRepo  = (*InternshipRepo)(nil)
	_ repository.ApplicationRepo = (*ApplicationRepo)(nil)
	_ repository.JobQueue        = (*JobQueue)(nil)
)

type UserRepo struct {
	CreateUserFn                   func(ctx context.Context, u *models.User) (int64, error)
	GetUserByIDFn                  func(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmailFn               func(ctx context.Context, email string) (*models.User, error)
	GetUserByGitHubIDFn            func(ctx context.Context, githubID string) (*models.User, error)
	UpdateUserFn                   func(ctx context.Context, u *models.User) error
	UpdateSkillsFn                 func(ctx context.Context, id int64, skills []string) error
	TouchLoginFn                   func(ctx context.Context, id int64) error
	BumpActivityFn                 func(ctx context.Context, id int64, views, applications int64) error
	ResetActivityFn                func(ctx context.Context, id int64) error
	ListGitHubUsersWithoutSkillsFn func(ctx context.Context) ([]models.User, error)
}

func (m *UserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if m.CreateUserFn == nil {
		return 0, nil
	}
	return m.CreateUserFn(ctx, u)
}

func (m *UserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetUserByIDFn == nil {
		return nil, nil
	}
	return m.GetUserByIDFn(ctx, id)
}

func (m *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetUserByEmailFn == nil {
		return nil, nil
	}
	return m.GetUserByEmailFn(ctx, email)
}

func (m *UserRepo) GetUserByGitHubID(ctx context.Context, githubID string) (*models.User, error) {
	if m.GetUserByGitHubIDFn == nil {
		return nil, nil
	}
	return m.GetUserByGitHubIDFn(ctx, githubID)
}

func (m *UserRepo) UpdateUser(ctx context.Context, u *models.User) error {
	if m.UpdateUserFn == nil {
		return nil
	}
	return m.UpdateUserFn(ctx, u)
}

func (m *UserRepo) UpdateSkills(ctx context.Context, id int64, skills []string) error {
	if m.UpdateSkillsFn == nil {
		return nil
	}
	return m.UpdateSkillsFn(ctx, id, skills)
}

func (m *UserRepo) TouchLogin(ctx context.Context, id int64) error {
	if m.TouchLoginFn == nil {
		return nil
	}
	return m.TouchLoginFn(ctx, id)
}

func (m *UserRepo) BumpActivity(ctx context.Context, id int64, views, applications int64) error {
	if m.BumpActivityFn == nil {
		return nil
	}
	return m.BumpActivityFn(ctx, id, views, applications)
}

func (m *UserRepo) ResetActivity(ctx context.Context, id int64) error {
	if m.ResetActivityFn == nil {
		return nil
	}
	return m.ResetActivityFn(ctx, id)
}

func (m *UserRepo) ListGitHubUsersWithoutSkills(ctx context.Context) ([]models.User, error) {
	if m.ListGitHubUsersWithoutSkillsFn == nil {
		return nil, nil
	}
	return m.ListGitHubUsersWithoutSkillsFn(ctx)
}

type InternshipRepo struct {
	CreateInternshipFn         func(ctx context.Context, i *models.Internship) (int64, error)
	GetInternshipByIDFn        func(ctx context.Context, id int64) (*models.Internship, error)
	GetInternshipByApplyLinkFn func(ctx context.Context, link string) (*models.Internship, error)
	ListInternshipsFn          func(ctx context.Context) ([]models.Internship, error)
	SearchInternshipsFn        func(ctx context.Context, query string, limit int) ([]models.Internship, error)
	CountInternshipsFn         func(ctx context.Context) (int64, error)
}

func (m *InternshipRepo) CreateInternship(ctx context.Context, i *models.Internship) (int64, error) {
	if m.CreateInternshipFn == nil {
		return 0, nil
	}
	return m.CreateInternshipFn(ctx, i)
}

func (m *InternshipRepo) GetInternshipByID(ctx context.Context, id int64) (*models.Internship, error) {
	if m.GetInternshipByIDFn == nil {
		return nil, nil
	}
	return m.GetInternshipByIDFn(ctx, id)
}

func (m *InternshipRepo) GetInternshipByApplyLink(ctx context.Context, link string) (*models.Internship, error) {
	if m.GetInternshipByApplyLinkFn == nil {
		return nil, nil
	}
	return m.GetInternshipByApplyLinkFn(ctx, link)
}

func (m *InternshipRepo) ListInternships(ctx context.Context) ([]models.Internship, error) {
	if m.ListInternshipsFn == nil {
		return nil, nil
	}
	return m.ListInternshipsFn(ctx)
}

func (m *InternshipRepo) SearchInternships(ctx context.Context, query string, limit int) ([]models.Internship, error) {
	if m.SearchInternshipsFn == nil {
		return nil, nil
	}
	return m.SearchInternshipsFn(ctx, query, limit)
}

func (m *InternshipRepo) CountInternships(ctx context.Context) (int64, error) {
	if m.CountInternshipsFn == nil {
		return 0, nil
	}
	return m.CountInternshipsFn(ctx)
}

type ApplicationRepo struct {
	UpsertApplicationFn       func(ctx context.Context, a *models.Application) (int64, error)
	GetApplicationFn          func(ctx context.Context, userID, internshipID int64) (*models.Application, error)
	ListApplicationsByUserFn  func(ctx context.Context, userID int64, status string, limit, offset int) ([]models.Application, error)
	CountApplicationsByUserFn func(ctx context.Context, userID int64, status string) (int64, error)
	ListRecentByUserFn        func(ctx context.Context, userID int64, limit int) ([]models.Application, error)
	DeleteApplicationFn       func(ctx context.Context, userID, applicationID int64) (bool, error)
	DeleteAllByUserFn         func(ctx context.Context, userID int64) (int64, error)
}

func (m *ApplicationRepo) UpsertApplication(ctx context.Context, a *models.Application) (int64, error) {
	if m.UpsertApplicationFn == nil {
		return 0, nil
	}
	return m.UpsertApplicationFn(ctx, a)
}

func (m *ApplicationRepo) GetApplication(ctx context.Context, userID, internshipID int64) (*models.Application, error) {
	if m.GetApplicationFn == nil {
		return nil, nil
	}
	return m.GetApplicationFn(ctx, userID, internshipID)
}

func (m *ApplicationRepo) ListApplicationsByUser(ctx context.Context, userID int64, status string, limit, offset int) ([]models.Application, error) {
	if m.ListApplicationsByUserFn == nil {
		return nil, nil
	}
	return m.ListApplicationsByUserFn(ctx, userID, status, limit, offset)
}

func (m *ApplicationRepo) CountApplicationsByUser(ctx context.Context, userID int64, status string) (int64, error) {
	if m.CountApplicationsByUserFn == nil {
		return 0, nil
	}
	return m.CountApplicationsByUserFn(ctx, userID, status)
}

func (m *ApplicationRepo) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]models.Application, error) {
	if m.ListRecentByUserFn == nil {
		return nil, nil
	}
	return m.ListRecentByUserFn(ctx, userID, limit)
}

func (m *ApplicationRepo) DeleteApplication(ctx context.Context, userID, applicationID int64) (bool, error) {
	if m.DeleteApplicationFn == nil {
		return false, nil
	}
	return m.DeleteApplicationFn(ctx, userID, applicationID)
}

func (m *ApplicationRepo) DeleteAllByUser(ctx context.Context, userID int64) (int64, error) {
	if m.DeleteAllByUserFn == nil {
		return 0, nil
	}
	return m.DeleteAllByUserFn(ctx, userID)
}

type JobQueue struct {
	EnqueueFn          func(ctx context.Context, j *models.BackgroundJob) (int64, error)
	FetchNextFn        func(ctx context.Context) (*models.BackgroundJob, error)
	UpdateJobFn        func(ctx context.Context, j *models.BackgroundJob) error
	MoveToDeadLetterFn func(ctx context.Context, j *models.BackgroundJob) error
}

func (m *JobQueue) Enqueue(ctx context.Context, j *models.BackgroundJob) (int64, error) {
	if m.EnqueueFn == nil {
		return 0, nil
	}
	return m.EnqueueFn(ctx, j)
}

func (m *JobQueue) FetchNext(ctx context.Context) (*models.BackgroundJob, error) {
	if m.FetchNextFn == nil {
		return nil, nil
	}
	return m.FetchNextFn(ctx)
}

func (m *JobQueue) UpdateJob(ctx context.Context, j *models.BackgroundJob) error {
	if m.UpdateJobFn == nil {
		return nil
	}
	return m.UpdateJobFn(ctx, j)
}

func (m *JobQueue) MoveToDeadLetter(ctx context.Context, j *models.BackgroundJob) error {
	if m.MoveToDeadLetterFn == nil {
		return nil
	}
	return m.MoveToDeadLetterFn(ctx, j)
}
