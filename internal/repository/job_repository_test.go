package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gethired/gethired/internal/database"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

func TestBuildListQuery_NoFilters(t *testing.T) {
	listSQL, countSQL, args, countArgs, err := buildListQuery(JobFilter{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if strings.Contains(listSQL, "WHERE") {
		t.Fatalf("expected no WHERE clause, got %q", listSQL)
	}
	if !strings.Contains(listSQL, "ORDER BY j.created_at DESC") {
		t.Fatalf("expected default sort, got %q", listSQL)
	}
	// default window only: limit + offset
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
	if args[0] != DefaultPageSize || args[1] != 0 {
		t.Fatalf("expected default window (20, 0), got %v", args)
	}
	if len(countArgs) != 0 {
		t.Fatalf("count query has no placeholders, got %d args", len(countArgs))
	}
	if strings.Contains(countSQL, "LIMIT") {
		t.Fatalf("count query must not be windowed: %q", countSQL)
	}
}

func TestBuildListQuery_ConjunctivePredicates(t *testing.T) {
	after := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	f := JobFilter{
		JobType:       "Fulltime",
		Location:      "Berlin",
		MinSalary:     100000,
		MinExperience: 3,
		Platform:      "linkedin",
		CompanyName:   "acme",
		TitleKeywords: []string{"go", "backend"},
		CreatedAfter:  &after,
		SortBy:        SortSalaryMin,
		SortOrder:     "desc",
		Page:          1,
		PageSize:      20,
	}

	listSQL, countSQL, args, countArgs, err := buildListQuery(f)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	for _, want := range []string{
		"j.job_type = $1",
		"= ANY(j.locations)",
		"j.salary_min >= ",
		"j.experience_min >= ",
		"j.platform = ",
		"j.company_name ILIKE ",
		"j.title ILIKE ",
		" OR ",
		"j.created_at >= ",
		"ORDER BY j.salary_min DESC NULLS LAST",
	} {
		if !strings.Contains(listSQL, want) {
			t.Fatalf("missing %q in %q", want, listSQL)
		}
	}
	if got := strings.Count(listSQL, " AND "); got < 7 {
		t.Fatalf("expected conjunctive predicates, got %d ANDs in %q", got, listSQL)
	}
	// 8 predicates (2 keywords share one) + limit + offset
	if len(args) != 11 {
		t.Fatalf("expected 11 args, got %d: %v", len(args), args)
	}
	if len(countArgs) != maxPlaceholder(countSQL) {
		t.Fatalf("count binds %d args against %d placeholders", len(countArgs), maxPlaceholder(countSQL))
	}
}

func TestBuildListQuery_Window(t *testing.T) {
	_, _, args, _, err := buildListQuery(JobFilter{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	limit, offset := args[len(args)-2], args[len(args)-1]
	if limit != 10 || offset != 20 {
		t.Fatalf("expected limit=10 offset=20, got %v %v", limit, offset)
	}

	_, _, args, _, _ = buildListQuery(JobFilter{Page: 1, PageSize: 9999})
	if args[len(args)-2] != MaxPageSize {
		t.Fatalf("expected page size clamped to %d, got %v", MaxPageSize, args[len(args)-2])
	}
}

func TestBuildListQuery_RelevanceRequiresAnchor(t *testing.T) {
	_, _, _, _, err := buildListQuery(JobFilter{SortBy: SortRelevance})
	if err != ErrMissingAnchor {
		t.Fatalf("expected ErrMissingAnchor, got %v", err)
	}

	anchor := pgvector.NewVector([]float32{0.1, 0.2, 0.3})
	listSQL, _, _, _, err := buildListQuery(JobFilter{SortBy: SortRelevance, AnchorEmbedding: &anchor})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(listSQL, "j.embedding <=>") {
		t.Fatalf("expected vector distance ordering, got %q", listSQL)
	}
	if !strings.Contains(listSQL, "j.embedding IS NOT NULL") {
		t.Fatalf("expected embedding presence predicate, got %q", listSQL)
	}
}

// The anchor embedding is referenced by the SELECT and ORDER BY only; the
// count statement must neither mention it nor bind it.
func TestBuildListQuery_RelevanceCountArgsAlign(t *testing.T) {
	anchor := pgvector.NewVector([]float32{0.1, 0.2, 0.3})
	f := JobFilter{
		JobType:         "Fulltime",
		SortBy:          SortRelevance,
		AnchorEmbedding: &anchor,
	}

	listSQL, countSQL, args, countArgs, err := buildListQuery(f)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got, want := len(countArgs), maxPlaceholder(countSQL); got != want {
		t.Fatalf("count binds %d args against %d placeholders in %q", got, want, countSQL)
	}
	if got, want := len(args), maxPlaceholder(listSQL); got != want {
		t.Fatalf("list binds %d args against %d placeholders in %q", got, want, listSQL)
	}
	// job_type predicate + anchor + limit + offset
	if len(args) != 4 || len(countArgs) != 1 {
		t.Fatalf("unexpected arg split: list=%d count=%d", len(args), len(countArgs))
	}
}

// ListJobs runs both statements; a fake DB asserts that every execution
// binds exactly as many args as the statement has placeholders.
func TestListJobs_PlaceholderArgAlignment(t *testing.T) {
	db := &placeholderDB{t: t}
	repo := NewPostgresJobRepository(db)

	anchor := pgvector.NewVector([]float32{0.1, 0.2, 0.3})
	_, _, err := repo.ListJobs(context.Background(), JobFilter{
		JobType:         "Fulltime",
		MinSalary:       100000,
		SortBy:          SortRelevance,
		AnchorEmbedding: &anchor,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if db.queries != 2 {
		t.Fatalf("expected count + list executions, got %d", db.queries)
	}
}

func TestBuildListQuery_Tabs(t *testing.T) {
	uid := uuid.New()

	listSQL, _, _, _, err := buildListQuery(JobFilter{Tab: TabSaved, UserID: uid})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(listSQL, "JOIN bookmarks b") || !strings.Contains(listSQL, "b.user_id = ") {
		t.Fatalf("expected bookmarks join, got %q", listSQL)
	}

	listSQL, _, _, _, err = buildListQuery(JobFilter{Tab: TabApplied, UserID: uid, ApplicationStatus: "interviewing"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(listSQL, "JOIN applications a") || !strings.Contains(listSQL, "a.status = ") {
		t.Fatalf("expected applications join with status, got %q", listSQL)
	}
}

func TestBuildListQuery_UnknownSortKey(t *testing.T) {
	_, _, _, _, err := buildListQuery(JobFilter{SortBy: "drop table"})
	if err == nil {
		t.Fatal("expected error for unknown sort key")
	}
}

func maxPlaceholder(sql string) int {
	max := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] != '$' {
			continue
		}
		n := 0
		for j := i + 1; j < len(sql) && sql[j] >= '0' && sql[j] <= '9'; j++ {
			n = n*10 + int(sql[j]-'0')
		}
		if n > max {
			max = n
		}
	}
	return max
}

// placeholderDB fails the test when a statement is executed with an arg
// count that does not match its highest $n placeholder.
type placeholderDB struct {
	t       *testing.T
	queries int
}

func (d *placeholderDB) check(query string, args []any) {
	d.t.Helper()
	d.queries++
	if want := maxPlaceholder(query); len(args) != want {
		d.t.Fatalf("statement requires %d parameters, got %d: %q", want, len(args), query)
	}
}

func (d *placeholderDB) Ping(context.Context) error { return nil }
func (d *placeholderDB) Close() error               { return nil }

func (d *placeholderDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	d.check(query, args)
	return 0, nil
}

func (d *placeholderDB) Query(_ context.Context, query string, args ...any) (database.Rows, error) {
	d.check(query, args)
	return emptyRows{}, nil
}

func (d *placeholderDB) QueryRow(_ context.Context, query string, args ...any) database.Row {
	d.check(query, args)
	return zeroRow{}
}

func (d *placeholderDB) Begin(context.Context) (database.Tx, error) { return nil, nil }

type emptyRows struct{}

func (emptyRows) Close()            {}
func (emptyRows) Next() bool        { return false }
func (emptyRows) Scan(...any) error { return nil }
func (emptyRows) Err() error        { return nil }

type zeroRow struct{}

func (zeroRow) Scan(dest ...any) error {
	for _, d := range dest {
		if p, ok := d.(*int); ok {
			*p = 0
		}
	}
	return nil
}
