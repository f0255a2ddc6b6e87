package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gethired/gethired/internal/domain/user"

	"github.com/google/uuid"
)

type mockModel struct {
	resp string
	err  error
}

func (m mockModel) GenerateText(context.Context, string) (string, error) {
	return m.resp, m.err
}

func rerankFixture(n int) []JobListItem {
	items := make([]JobListItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, JobListItem{ID: uuid.New(), Title: "Job", CompanyName: "Acme"})
	}
	return items
}

func TestRerank_ReordersAndDrops(t *testing.T) {
	items := rerankFixture(3)
	resp := fmt.Sprintf(`{"ranked": [%q, %q], "dropped": [%q]}`,
		items[2].ID, items[0].ID, items[1].ID)

	store := &mockCreditStore{balance: 10, deductOK: true}
	r := NewRerankUsecase(
		staticProfiles{},
		NewCreditGate(store, nil),
		mockModel{resp: resp},
		nil,
	)

	out := r.Rerank(context.Background(), uuid.New(), items)
	if len(out) != 2 {
		t.Fatalf("expected 2 items after drop, got %d", len(out))
	}
	if out[0].ID != items[2].ID || out[1].ID != items[0].ID {
		t.Fatalf("unexpected order: %v", out)
	}
	if len(store.deductCalls) != 1 || store.deductCalls[0] != Cost(OpAISearch) {
		t.Fatalf("expected one deduction of %d, got %v", Cost(OpAISearch), store.deductCalls)
	}
}

func TestRerank_SilentFallbackOnModelError(t *testing.T) {
	items := rerankFixture(2)
	store := &mockCreditStore{balance: 10, deductOK: true}
	r := NewRerankUsecase(
		staticProfiles{},
		NewCreditGate(store, nil),
		mockModel{err: errors.New("model down")},
		nil,
	)

	out := r.Rerank(context.Background(), uuid.New(), items)
	if len(out) != len(items) || out[0].ID != items[0].ID {
		t.Fatal("expected the original page back on model failure")
	}
	if len(store.deductCalls) != 0 {
		t.Fatal("no credits may be charged when the re-rank fails")
	}
}

func TestRerank_SilentFallbackWhenBroke(t *testing.T) {
	items := rerankFixture(2)
	store := &mockCreditStore{balance: Cost(OpAISearch) - 1}
	r := NewRerankUsecase(staticProfiles{}, NewCreditGate(store, nil), mockModel{resp: "{}"}, nil)

	out := r.Rerank(context.Background(), uuid.New(), items)
	if len(out) != len(items) {
		t.Fatal("expected the original page back when balance is below cost")
	}
	if len(store.deductCalls) != 0 {
		t.Fatal("no deduction expected below cost")
	}
}

func TestRerank_KeepsForgottenIDs(t *testing.T) {
	items := rerankFixture(3)
	// Model only mentions one id; the others must stay on the page.
	resp := fmt.Sprintf(`{"ranked": [%q], "dropped": []}`, items[1].ID)

	store := &mockCreditStore{balance: 10, deductOK: true}
	r := NewRerankUsecase(staticProfiles{}, NewCreditGate(store, nil), mockModel{resp: resp}, nil)

	out := r.Rerank(context.Background(), uuid.New(), items)
	if len(out) != 3 {
		t.Fatalf("expected 3 items, got %d", len(out))
	}
	if out[0].ID != items[1].ID {
		t.Fatal("ranked id must come first")
	}
}

func TestParseRerankResponse_CodeFence(t *testing.T) {
	raw := "```json\n{\"ranked\": [\"a\"], \"dropped\": [\"b\"]}\n```"
	resp, err := parseRerankResponse(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(resp.Ranked) != 1 || len(resp.Dropped) != 1 {
		t.Fatalf("unexpected parse: %+v", resp)
	}
}

type staticProfiles struct{}

func (staticProfiles) GetProfile(context.Context, uuid.UUID) (user.Profile, error) {
	name := "Test Applicant"
	return user.Profile{FullName: &name, Skills: []string{"Go"}, AICredits: 10}, nil
}

func TestTruncate_RuneBoundary(t *testing.T) {
	s := strings.Repeat("é", 10) // 2 bytes per rune
	for n := 0; n <= len(s); n++ {
		out := truncate(s, n)
		if !utf8.ValidString(out) {
			t.Fatalf("truncate(%d) produced invalid UTF-8: %q", n, out)
		}
		if len(out) > n {
			t.Fatalf("truncate(%d) returned %d bytes", n, len(out))
		}
	}
	if got := truncate("hello", 3); got != "hel" {
		t.Fatalf("ascii truncation broken: %q", got)
	}
	if got := truncate("hi", 10); got != "hi" {
		t.Fatalf("short strings must pass through, got %q", got)
	}
}
