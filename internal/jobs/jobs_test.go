package jobs_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/garnizeh/internradar/internal/jobs"
	"github.com/garnizeh/internradar/pkg/models"
	"github.com/garnizeh/internradar/pkg/repository/mock"
)

func TestBackoffDuration(t *testing.T) {
	if got := jobs.BackoffDuration(0); got != time.Second {
		t.Fatalf("attempt 0: got %v", got)
	}
	if got := jobs.BackoffDuration(1); got != 2*time.Second {
		t.Fatalf("attempt 1: got %v", got)
	}
	if got := jobs.BackoffDuration(3); got != 8*time.Second {
		t.Fatalf("attempt 3: got %v", got)
	}
	if got := jobs.BackoffDuration(30); got != 5*time.Minute {
		t.Fatalf("expected cap at 5m, got %v", got)
	}
}

// memQueue is a tiny in-memory queue so the pool can be driven without
// a database.
type memQueue struct {
	mu   sync.Mutex
	jobs []*models.BackgroundJob
	dead []*models.BackgroundJob
}

func (q *memQueue) Enqueue(_ context.Context, j *models.BackgroundJob) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	j.ID = int64(len(q.jobs) + 1)
	j.Status = "queued"
	q.jobs = append(q.jobs, j)
	return j.ID, nil
}

func (q *memQueue) FetchNext(_ context.Context) (*models.BackgroundJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := time.Now()
	for _, j := range q.jobs {
		ready := j.NextTryAt == nil || !j.NextTryAt.After(now)
		if (j.Status == "queued" || j.Status == "retry") && ready {
			j.Status = "running"
			return j, nil
		}
	}
	return nil, nil
}

func (q *memQueue) UpdateJob(_ context.Context, j *models.BackgroundJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, cur := range q.jobs {
		if cur.ID == j.ID {
			q.jobs[i] = j
			return nil
		}
	}
	return errors.New("job not found")
}

func (q *memQueue) MoveToDeadLetter(_ context.Context, j *models.BackgroundJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dead = append(q.dead, j)
	for i, cur := range q.jobs {
		if cur.ID == j.ID {
			q.jobs = append(q.jobs[:i], q.jobs[i+1:]...)
			break
		}
	}
	return nil
}

func (q *memQueue) status(id int64) string {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, j := range q.jobs {
		if j.ID == id {
			return j.Status
		}
	}
	return ""
}

func (q *memQueue) deadCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.dead)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestWorkerPoolProcessesJob(t *testing.T) {
	q := &memQueue{}
	done := make(chan json.RawMessage, 1)
	handlers := map[string]jobs.Handler{
		"noop": func(_ context.Context, j *models.BackgroundJob) error {
			done <- j.Payload
			return nil
		},
	}

	pool := jobs.NewWorkerPool(q, handlers, nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)
	defer pool.Stop()

	id, err := pool.Enqueue(ctx, "noop", map[string]string{"k": "v"}, 0, 3)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	select {
	case payload := <-done:
		var m map[string]string
		if err := json.Unmarshal(payload, &m); err != nil || m["k"] != "v" {
			t.Fatalf("unexpected payload %s (%v)", payload, err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("handler never ran")
	}

	waitFor(t, func() bool { return q.status(id) == "done" })
}

func TestWorkerPoolDeadLettersAfterMaxAttempts(t *testing.T) {
	q := &memQueue{}
	handlers := map[string]jobs.Handler{
		"boom": func(context.Context, *models.BackgroundJob) error {
			return errors.New("always fails")
		},
	}

	pool := jobs.NewWorkerPool(q, handlers, nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)
	defer pool.Stop()

	if _, err := pool.Enqueue(ctx, "boom", nil, 0, 1); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	waitFor(t, func() bool { return q.deadCount() == 1 })
}

func TestWorkerPoolDeadLettersUnknownType(t *testing.T) {
	q := &memQueue{}
	pool := jobs.NewWorkerPool(q, map[string]jobs.Handler{}, nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)
	defer pool.Stop()

	if _, err := pool.Enqueue(ctx, "mystery", nil, 0, 3); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	waitFor(t, func() bool { return q.deadCount() == 1 })
}

type fakeSource struct {
	skills []string
	err    error
	calls  int
}

func (f *fakeSource) Skills(context.Context, string) ([]string, error) {
	f.calls++
	return f.skills, f.err
}

func syncJob(t *testing.T, userID int64) *models.BackgroundJob {
	t.Helper()
	payload, err := json.Marshal(map[string]int64{"user_id": userID})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &models.BackgroundJob{Type: jobs.JobTypeSyncSkills, Payload: payload}
}

func TestSyncSkillsHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("persists extracted skills", func(t *testing.T) {
		var saved []string
		users := &mock.UserRepo{
			GetUserByIDFn: func(_ context.Context, id int64) (*models.User, error) {
				return &models.User{ID: id, Provider: models.ProviderGitHub, GitHubUsername: "octocat"}, nil
			},
			UpdateSkillsFn: func(_ context.Context, _ int64, skills []string) error {
				saved = skills
				return nil
			},
		}
		source := &fakeSource{skills: []string{"Go", "TypeScript"}}

		h := jobs.NewSyncSkillsHandler(users, source, nil)
		if err := h(ctx, syncJob(t, 7)); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if len(saved) != 2 {
			t.Fatalf("expected skills persisted, got %#v", saved)
		}
	})

	t.Run("empty extraction never overwrites", func(t *testing.T) {
		users := &mock.UserRepo{
			GetUserByIDFn: func(_ context.Context, id int64) (*models.User, error) {
				return &models.User{ID: id, Provider: models.ProviderGitHub, GitHubUsername: "octocat"}, nil
			},
			UpdateSkillsFn: func(context.Context, int64, []string) error {
				t.Fatalf("UpdateSkills must not be called for empty extraction")
				return nil
			},
		}
		h := jobs.NewSyncSkillsHandler(users, &fakeSource{}, nil)
		if err := h(ctx, syncJob(t, 7)); err != nil {
			t.Fatalf("handler: %v", err)
		}
	})

	t.Run("skips users with skills already set", func(t *testing.T) {
		source := &fakeSource{skills: []string{"Go"}}
		users := &mock.UserRepo{
			GetUserByIDFn: func(_ context.Context, id int64) (*models.User, error) {
				return &models.User{ID: id, Provider: models.ProviderGitHub, GitHubUsername: "octocat", Skills: []string{"Rust"}}, nil
			},
		}
		h := jobs.NewSyncSkillsHandler(users, source, nil)
		if err := h(ctx, syncJob(t, 7)); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if source.calls != 0 {
			t.Fatalf("expected no extraction for already-populated user")
		}
	})

	t.Run("missing user completes without error", func(t *testing.T) {
		h := jobs.NewSyncSkillsHandler(&mock.UserRepo{}, &fakeSource{}, nil)
		if err := h(ctx, syncJob(t, 404)); err != nil {
			t.Fatalf("handler: %v", err)
		}
	})

	t.Run("extraction error propagates for retry", func(t *testing.T) {
		users := &mock.UserRepo{
			GetUserByIDFn: func(_ context.Context, id int64) (*models.User, error) {
				return &models.User{ID: id, Provider: models.ProviderGitHub, GitHubUsername: "octocat"}, nil
			},
		}
		h := jobs.NewSyncSkillsHandler(users, &fakeSource{err: errors.New("github down")}, nil)
		if err := h(ctx, syncJob(t, 7)); err == nil {
			t.Fatalf("expected error to propagate")
		}
	})
}
