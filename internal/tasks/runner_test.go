package tasks

import (
	"context"
	"sync"
	"testing"

	"github.com/gethired/gethired/internal/domain/task"

	"github.com/google/uuid"
)

type mockTaskRepo struct {
	mu        sync.Mutex
	succeeded []uuid.UUID
	failed    map[uuid.UUID]string
}

func (m *mockTaskRepo) Enqueue(context.Context, task.Task) error { return nil }
func (m *mockTaskRepo) ClaimPending(context.Context, int) ([]task.Task, error) {
	return nil, nil
}
func (m *mockTaskRepo) MarkSucceeded(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.succeeded = append(m.succeeded, id)
	return nil
}
func (m *mockTaskRepo) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed == nil {
		m.failed = map[uuid.UUID]string{}
	}
	m.failed[id] = reason
	return nil
}

func TestRunner_SuccessReachesSucceeded(t *testing.T) {
	repo := &mockTaskRepo{}
	jobs := &mockJobStore{}
	handlers := NewHandlers(jobs, nil, nil, nil, &mockModel{vector: []float32{1}}, nil, nil)
	r := NewRunner(repo, handlers, 1, 0, nil)

	id := uuid.New()
	r.execute(context.Background(), task.Task{
		ID:      id,
		Kind:    task.KindJobEmbed,
		Payload: mustPayload(t, task.JobEmbedPayload{JobID: uuid.New()}),
	})

	if len(repo.succeeded) != 1 || repo.succeeded[0] != id {
		t.Fatalf("task must end succeeded, got %+v", repo)
	}
	if len(repo.failed) != 0 {
		t.Fatal("no failure expected")
	}
}

func TestRunner_FailureReachesFailedWithReason(t *testing.T) {
	repo := &mockTaskRepo{}
	handlers := NewHandlers(nil, nil, nil, nil, nil, nil, nil)
	r := NewRunner(repo, handlers, 1, 0, nil)

	id := uuid.New()
	r.execute(context.Background(), task.Task{ID: id, Kind: "mystery"})

	reason, ok := repo.failed[id]
	if !ok {
		t.Fatal("task must end failed")
	}
	if reason == "" {
		t.Fatal("failure reason must be recorded")
	}
	if len(repo.succeeded) != 0 {
		t.Fatal("no success expected")
	}
}

func TestRunner_BadPayloadStillTerminal(t *testing.T) {
	repo := &mockTaskRepo{}
	handlers := NewHandlers(nil, nil, nil, nil, nil, nil, nil)
	r := NewRunner(repo, handlers, 1, 0, nil)

	id := uuid.New()
	r.execute(context.Background(), task.Task{ID: id, Kind: task.KindJobEmbed, Payload: []byte("{not json")})

	if _, ok := repo.failed[id]; !ok {
		t.Fatal("malformed payload must still land in failed")
	}
}
