package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MaxURLsPerChunk is the hard ceiling per sitemap file; crawlers reject
// larger ones.
const MaxURLsPerChunk = 45000

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

var staticPaths = []string{
	"/",
	"/jobs",
	"/waitlist",
	"/pricing",
	"/about",
	"/login",
	"/register",
}

// JobSource is the slice of the job store the sitemap needs.
type JobSource interface {
	CountJobs(ctx context.Context) (int, error)
	ListIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error)
	ListLocationSlugs(ctx context.Context) ([]string, error)
}

type urlEntry struct {
	Loc      string  `xml:"loc"`
	Priority float32 `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type indexEntry struct {
	Loc string `xml:"loc"`
}

type sitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Xmlns    string       `xml:"xmlns,attr"`
	Sitemaps []indexEntry `xml:"sitemap"`
}

// Builder renders the sitemap index and its numbered chunks. URLs are laid
// out in a fixed global order so chunk boundaries stay stable between
// requests: static routes, then location slugs, then job pages.
type Builder struct {
	jobs      JobSource
	publicURL string
	chunkSize int
}

func NewBuilder(jobs JobSource, publicURL string) *Builder {
	return &Builder{
		jobs:      jobs,
		publicURL: strings.TrimRight(publicURL, "/"),
		chunkSize: MaxURLsPerChunk,
	}
}

func (b *Builder) Index(ctx context.Context) ([]byte, error) {
	total, err := b.totalURLs(ctx)
	if err != nil {
		return nil, err
	}

	chunks := (total + b.chunkSize - 1) / b.chunkSize
	if chunks < 1 {
		chunks = 1
	}

	idx := sitemapIndex{Xmlns: xmlns}
	for n := 0; n < chunks; n++ {
		idx.Sitemaps = append(idx.Sitemaps, indexEntry{
			Loc: fmt.Sprintf("%s/sitemap-%d.xml", b.publicURL, n),
		})
	}
	return marshalWithHeader(idx)
}

// Chunk renders chunk n of the global URL list. An out-of-range n yields
// an empty urlset rather than an error.
func (b *Builder) Chunk(ctx context.Context, n int) ([]byte, error) {
	if n < 0 {
		n = 0
	}
	start := n * b.chunkSize
	end := start + b.chunkSize

	slugs, err := b.jobs.ListLocationSlugs(ctx)
	if err != nil {
		return nil, err
	}

	set := urlSet{Xmlns: xmlns, URLs: make([]urlEntry, 0, b.chunkSize)}

	// Static routes and location slugs occupy the head of the global
	// order; only the overlap with [start, end) lands in this chunk.
	head := make([]urlEntry, 0, len(staticPaths)+len(slugs))
	for _, p := range staticPaths {
		head = append(head, urlEntry{Loc: b.publicURL + p, Priority: 1.0})
	}
	for _, slug := range slugs {
		head = append(head, urlEntry{Loc: fmt.Sprintf("%s/jobs/location/%s", b.publicURL, slug), Priority: 0.8})
	}
	for i := start; i < end && i < len(head); i++ {
		set.URLs = append(set.URLs, head[i])
	}

	if len(set.URLs) < b.chunkSize {
		jobOffset := start - len(head)
		if jobOffset < 0 {
			jobOffset = 0
		}
		ids, err := b.jobs.ListIDs(ctx, b.chunkSize-len(set.URLs), jobOffset)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			set.URLs = append(set.URLs, urlEntry{Loc: fmt.Sprintf("%s/jobs/%s", b.publicURL, id), Priority: 0.6})
		}
	}

	return marshalWithHeader(set)
}

func (b *Builder) totalURLs(ctx context.Context) (int, error) {
	slugs, err := b.jobs.ListLocationSlugs(ctx)
	if err != nil {
		return 0, err
	}
	jobCount, err := b.jobs.CountJobs(ctx)
	if err != nil {
		return 0, err
	}
	return len(staticPaths) + len(slugs) + jobCount, nil
}

func marshalWithHeader(v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
