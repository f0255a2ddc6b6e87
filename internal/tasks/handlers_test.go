package tasks

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gethired/gethired/internal/domain/job"
	"github.com/gethired/gethired/internal/domain/resume"
	"github.com/gethired/gethired/internal/domain/task"
	"github.com/gethired/gethired/internal/domain/user"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type mockJobStore struct {
	job      job.Job
	embedded map[uuid.UUID]pgvector.Vector
}

func (m *mockJobStore) GetByID(context.Context, uuid.UUID) (job.Job, error) { return m.job, nil }
func (m *mockJobStore) SetEmbedding(_ context.Context, id uuid.UUID, emb pgvector.Vector) error {
	if m.embedded == nil {
		m.embedded = map[uuid.UUID]pgvector.Vector{}
	}
	m.embedded[id] = emb
	return nil
}

type mockUserStore struct {
	profile  user.Profile
	digests  map[uuid.UUID]string
	embedded map[uuid.UUID]pgvector.Vector
}

func (m *mockUserStore) GetProfile(context.Context, uuid.UUID) (user.Profile, error) {
	return m.profile, nil
}
func (m *mockUserStore) SetResumeDigest(_ context.Context, id uuid.UUID, digest string) error {
	if m.digests == nil {
		m.digests = map[uuid.UUID]string{}
	}
	m.digests[id] = digest
	return nil
}
func (m *mockUserStore) SetEmbedding(_ context.Context, id uuid.UUID, emb pgvector.Vector) error {
	if m.embedded == nil {
		m.embedded = map[uuid.UUID]pgvector.Vector{}
	}
	m.embedded[id] = emb
	return nil
}

type mockResumeStore struct {
	contents    map[uuid.UUID]string
	parseFailed map[uuid.UUID]bool
}

func (m *mockResumeStore) GetByID(context.Context, uuid.UUID) (resume.Resume, error) {
	return resume.Resume{}, nil
}
func (m *mockResumeStore) SetContent(_ context.Context, id uuid.UUID, content string) error {
	if m.contents == nil {
		m.contents = map[uuid.UUID]string{}
	}
	m.contents[id] = content
	return nil
}
func (m *mockResumeStore) MarkParseFailed(_ context.Context, id uuid.UUID) error {
	if m.parseFailed == nil {
		m.parseFailed = map[uuid.UUID]bool{}
	}
	m.parseFailed[id] = true
	return nil
}

type mockObjectStore struct {
	objects map[string][]byte
	putErr  error
}

func (m *mockObjectStore) Put(_ context.Context, p string, data []byte, _ string) error {
	if m.putErr != nil {
		return m.putErr
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[p] = data
	return nil
}
func (m *mockObjectStore) Get(_ context.Context, p string) ([]byte, error) {
	data, ok := m.objects[p]
	if !ok {
		return nil, errors.New("no such object")
	}
	return data, nil
}

type mockModel struct {
	text    string
	textErr error
	vector  []float32
}

func (m *mockModel) GenerateText(context.Context, string) (string, error) {
	return m.text, m.textErr
}
func (m *mockModel) Embed(context.Context, string) ([]float32, error) { return m.vector, nil }

type mockQueue struct {
	enqueued []task.Task
}

func (m *mockQueue) Enqueue(_ context.Context, t task.Task) error {
	m.enqueued = append(m.enqueued, t)
	return nil
}

func mustPayload(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestHandlers_ResumeUploadStoresAndChainsParse(t *testing.T) {
	store := &mockObjectStore{}
	queue := &mockQueue{}
	h := NewHandlers(nil, nil, nil, store, nil, queue, nil)

	resumeID := uuid.New()
	payload := mustPayload(t, task.ResumeUploadPayload{
		ResumeID:    resumeID,
		UserID:      uuid.New(),
		FileName:    "cv.pdf",
		StoragePath: "resumes/a/b/cv.pdf",
		ContentB64:  base64.StdEncoding.EncodeToString([]byte("resume bytes")),
	})

	err := h.Handle(context.Background(), task.Task{Kind: task.KindResumeUpload, Payload: payload})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if string(store.objects["resumes/a/b/cv.pdf"]) != "resume bytes" {
		t.Fatal("binary not written to storage")
	}
	if len(queue.enqueued) != 1 || queue.enqueued[0].Kind != task.KindResumeParse {
		t.Fatalf("expected a chained parse task, got %+v", queue.enqueued)
	}
}

func TestHandlers_ResumeParseWritesDigestAndChainsEmbed(t *testing.T) {
	resumeID := uuid.New()
	userID := uuid.New()
	store := &mockObjectStore{objects: map[string][]byte{"p": []byte("raw resume")}}
	resumes := &mockResumeStore{}
	users := &mockUserStore{}
	queue := &mockQueue{}
	h := NewHandlers(nil, users, resumes, store, &mockModel{text: "a tidy digest"}, queue, nil)

	payload := mustPayload(t, task.ResumeParsePayload{
		ResumeID: resumeID, UserID: userID, FileName: "cv.txt", StoragePath: "p",
	})
	if err := h.Handle(context.Background(), task.Task{Kind: task.KindResumeParse, Payload: payload}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if resumes.contents[resumeID] != "a tidy digest" {
		t.Fatal("digest not written to resume row")
	}
	if users.digests[userID] != "a tidy digest" {
		t.Fatal("digest not written to profile")
	}
	if len(queue.enqueued) != 1 || queue.enqueued[0].Kind != task.KindProfileEmbed {
		t.Fatal("profile embed task not chained")
	}
}

func TestHandlers_ResumeParseFailureFlagsResume(t *testing.T) {
	resumeID := uuid.New()
	store := &mockObjectStore{objects: map[string][]byte{"p": []byte("raw")}}
	resumes := &mockResumeStore{}
	h := NewHandlers(nil, &mockUserStore{}, resumes, store, &mockModel{textErr: errors.New("model down")}, &mockQueue{}, nil)

	payload := mustPayload(t, task.ResumeParsePayload{ResumeID: resumeID, StoragePath: "p"})
	err := h.Handle(context.Background(), task.Task{Kind: task.KindResumeParse, Payload: payload})
	if err == nil {
		t.Fatal("expected the handler to fail")
	}
	if !resumes.parseFailed[resumeID] {
		t.Fatal("resume row must be flagged parse_failed")
	}
}

func TestHandlers_JobEmbedWritesVector(t *testing.T) {
	jobID := uuid.New()
	jobs := &mockJobStore{job: job.Job{ID: jobID, Title: "Go Engineer", CompanyName: "Acme", Description: "build things"}}
	h := NewHandlers(jobs, nil, nil, nil, &mockModel{vector: []float32{0.1, 0.2}}, nil, nil)

	payload := mustPayload(t, task.JobEmbedPayload{JobID: jobID})
	if err := h.Handle(context.Background(), task.Task{Kind: task.KindJobEmbed, Payload: payload}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := jobs.embedded[jobID]; !ok {
		t.Fatal("job embedding not stored")
	}
}

func TestHandlers_UnknownKindErrors(t *testing.T) {
	h := NewHandlers(nil, nil, nil, nil, nil, nil, nil)
	if err := h.Handle(context.Background(), task.Task{Kind: "mystery"}); err == nil {
		t.Fatal("unknown kind must error")
	}
}
