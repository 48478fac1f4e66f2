// internal/usecase/usecase_test.go
package usecase_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/H0guera/task-tracker/internal/metrics"
	"github.com/H0guera/task-tracker/internal/storage/postgres"
	"github.com/H0guera/task-tracker/pkg/logger"
)

func TestMain(m *testing.M) {
	metrics.Register(nil)
	os.Exit(m.Run())
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "debug", DevMode: true})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

// ===== in-memory fakes =====

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*postgres.User // by id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*postgres.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *postgres.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return postgres.ErrAlreadyExists
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*postgres.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*postgres.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*postgres.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*postgres.Task)}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *postgres.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id string) (*postgres.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	cp := *task
	return &cp, nil
}

func (r *fakeTaskRepo) List(_ context.Context, status *postgres.TaskStatus) ([]*postgres.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*postgres.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		if status != nil && task.Status != *status {
			continue
		}
		cp := *task
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *postgres.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return postgres.ErrNotFound
	}
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return postgres.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

type fakeTokenStore struct {
	mu   sync.Mutex
	keys map[string]time.Time // key → expiry
	ttl  time.Duration
}

func newFakeTokenStore(ttl time.Duration) *fakeTokenStore {
	return &fakeTokenStore{keys: make(map[string]time.Time), ttl: ttl}
}

func (s *fakeTokenStore) Save(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[userID+":"+token] = time.Now().Add(s.ttl)
	return nil
}

func (s *fakeTokenStore) Exists(_ context.Context, userID, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.keys[userID+":"+token]
	return ok && time.Now().Before(exp), nil
}

func (s *fakeTokenStore) Close() error { return nil }
