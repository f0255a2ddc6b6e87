package sitemap

import (
	"context"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type fakeJobSource struct {
	slugs []string
	ids   []uuid.UUID
}

func (f *fakeJobSource) CountJobs(context.Context) (int, error) { return len(f.ids), nil }
func (f *fakeJobSource) ListLocationSlugs(context.Context) ([]string, error) {
	return f.slugs, nil
}
func (f *fakeJobSource) ListIDs(_ context.Context, limit, offset int) ([]uuid.UUID, error) {
	if offset >= len(f.ids) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.ids) {
		end = len(f.ids)
	}
	return f.ids[offset:end], nil
}

func makeIDs(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.New()
	}
	return out
}

func parseURLSet(t *testing.T, data []byte) urlSet {
	t.Helper()
	var set urlSet
	if err := xml.Unmarshal(data, &set); err != nil {
		t.Fatalf("invalid xml: %v", err)
	}
	return set
}

func TestBuilder_OrderStaticThenLocationsThenJobs(t *testing.T) {
	src := &fakeJobSource{slugs: []string{"berlin", "remote"}, ids: makeIDs(3)}
	b := NewBuilder(src, "https://gethired.app/")

	data, err := b.Chunk(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	set := parseURLSet(t, data)

	want := len(staticPaths) + 2 + 3
	if len(set.URLs) != want {
		t.Fatalf("expected %d urls, got %d", want, len(set.URLs))
	}
	if set.URLs[0].Loc != "https://gethired.app/" {
		t.Fatalf("static routes must come first, got %s", set.URLs[0].Loc)
	}
	if got := set.URLs[len(staticPaths)].Loc; got != "https://gethired.app/jobs/location/berlin" {
		t.Fatalf("location slugs must follow static routes, got %s", got)
	}
	last := set.URLs[len(set.URLs)-1].Loc
	if !strings.Contains(last, "/jobs/") || strings.Contains(last, "/location/") {
		t.Fatalf("job pages must come last, got %s", last)
	}
}

func TestBuilder_ChunkCeiling(t *testing.T) {
	src := &fakeJobSource{ids: makeIDs(25)}
	b := NewBuilder(src, "https://gethired.app")
	b.chunkSize = 10

	for n := 0; n < 4; n++ {
		data, err := b.Chunk(context.Background(), n)
		if err != nil {
			t.Fatalf("chunk %d: %v", n, err)
		}
		set := parseURLSet(t, data)
		if len(set.URLs) > 10 {
			t.Fatalf("chunk %d exceeds ceiling: %d urls", n, len(set.URLs))
		}
	}

	// 7 static + 25 jobs = 32 urls over chunks of 10: 10, 10, 10, 2.
	data, _ := b.Chunk(context.Background(), 3)
	set := parseURLSet(t, data)
	if len(set.URLs) != 2 {
		t.Fatalf("final chunk should hold the remainder, got %d", len(set.URLs))
	}
}

func TestBuilder_IndexListsEveryChunk(t *testing.T) {
	src := &fakeJobSource{ids: makeIDs(25)}
	b := NewBuilder(src, "https://gethired.app")
	b.chunkSize = 10

	data, err := b.Index(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	var idx sitemapIndex
	if err := xml.Unmarshal(data, &idx); err != nil {
		t.Fatalf("invalid xml: %v", err)
	}
	if len(idx.Sitemaps) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(idx.Sitemaps))
	}
	if idx.Sitemaps[0].Loc != "https://gethired.app/sitemap-0.xml" {
		t.Fatalf("unexpected chunk loc %s", idx.Sitemaps[0].Loc)
	}
}

func TestBuilder_OutOfRangeChunkIsEmpty(t *testing.T) {
	b := NewBuilder(&fakeJobSource{}, "https://gethired.app")
	data, err := b.Chunk(context.Background(), 99)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	set := parseURLSet(t, data)
	if len(set.URLs) != 0 {
		t.Fatalf("expected empty chunk, got %d urls", len(set.URLs))
	}
}
