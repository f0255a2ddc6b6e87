package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gethired/gethired/internal/config"
	"github.com/gethired/gethired/internal/delivery/http/middleware"
	"github.com/gethired/gethired/internal/domain/waitlist"
	"github.com/gethired/gethired/internal/mailer"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type captureEmbeddings struct {
	jobIDs  []uuid.UUID
	userIDs []uuid.UUID
}

func (m *captureEmbeddings) EnqueueJobEmbed(_ context.Context, jobID uuid.UUID) error {
	m.jobIDs = append(m.jobIDs, jobID)
	return nil
}

func (m *captureEmbeddings) EnqueueProfileEmbed(_ context.Context, userID uuid.UUID) error {
	m.userIDs = append(m.userIDs, userID)
	return nil
}

func (m *captureEmbeddings) SyncMissing(context.Context, int) (int, error) { return 0, nil }

type staticWaitlist struct {
	emails []string
}

func (m *staticWaitlist) Upsert(context.Context, waitlist.Entry) (bool, error) { return true, nil }
func (m *staticWaitlist) CreateFeedback(context.Context, waitlist.Feedback) error {
	return nil
}
func (m *staticWaitlist) ListEmails(context.Context) ([]string, error) { return m.emails, nil }

type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (s *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	return nil
}

func newInternalTestApp(embeddings *captureEmbeddings, sender *recordingSender, emails []string) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())

	b := mailer.NewBroadcaster(sender, config.MailConfig{BatchSize: 5}, nil)
	NewInternalHandler(embeddings, &staticWaitlist{emails: emails}, b).RegisterRoutes(app.Group("/internal"))
	return app
}

func TestHandleBroadcast_ReminderKind(t *testing.T) {
	sender := &recordingSender{}
	app := newInternalTestApp(&captureEmbeddings{}, sender, []string{"a@example.com", "b@example.com"})

	req := httptest.NewRequest("POST", "/internal/broadcast", strings.NewReader(`{"kind":"reminder"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(sender.sent))
	}
	for _, msg := range sender.sent {
		if !strings.Contains(msg.Subject, "Finish setting up") {
			t.Fatalf("expected onboarding reminder, got subject %q", msg.Subject)
		}
	}
}

func TestHandleBroadcast_UnknownKind(t *testing.T) {
	app := newInternalTestApp(&captureEmbeddings{}, &recordingSender{}, nil)

	req := httptest.NewRequest("POST", "/internal/broadcast", strings.NewReader(`{"kind":"spam"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for unknown kind, got %d", resp.StatusCode)
	}
}

func TestHandleBroadcast_PromotionalRequiresSubjectAndBody(t *testing.T) {
	app := newInternalTestApp(&captureEmbeddings{}, &recordingSender{}, nil)

	req := httptest.NewRequest("POST", "/internal/broadcast", strings.NewReader(`{"subject":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 without body, got %d", resp.StatusCode)
	}
}

func TestHandleJobEmbed_Enqueues(t *testing.T) {
	embeddings := &captureEmbeddings{}
	app := newInternalTestApp(embeddings, &recordingSender{}, nil)

	id := uuid.New()
	req := httptest.NewRequest("POST", "/internal/embeddings/jobs/"+id.String(), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 202 {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	if len(embeddings.jobIDs) != 1 || embeddings.jobIDs[0] != id {
		t.Fatalf("job embed not scheduled: %v", embeddings.jobIDs)
	}
}

func TestHandleProfileEmbed_Enqueues(t *testing.T) {
	embeddings := &captureEmbeddings{}
	app := newInternalTestApp(embeddings, &recordingSender{}, nil)

	id := uuid.New()
	req := httptest.NewRequest("POST", "/internal/embeddings/users/"+id.String(), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 202 {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	if len(embeddings.userIDs) != 1 || embeddings.userIDs[0] != id {
		t.Fatalf("profile embed not scheduled: %v", embeddings.userIDs)
	}
}
