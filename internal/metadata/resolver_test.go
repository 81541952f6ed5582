package metadata

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeSource is a scripted chain member.
type fakeSource struct {
	name  string
	video *Video
	err   error
	calls int
}

func (f *fakeSource) Name() string           { return f.name }
func (f *fakeSource) Timeout() time.Duration { return time.Second }
func (f *fakeSource) Attempt(ctx context.Context, id string) (*Video, error) {
	f.calls++
	return f.video, f.err
}

func TestResolveShortCircuitsOnFirstTitle(t *testing.T) {
	first := &fakeSource{name: "first", video: &Video{Title: "From First", Source: "first"}}
	second := &fakeSource{name: "second", video: &Video{Title: "From Second", Source: "second"}}
	r := &Resolver{sources: []source{first, second}}

	got := r.Resolve(context.Background(), "dQw4w9WgXcQ")
	if got.Title != "From First" {
		t.Errorf("Title = %q, want %q", got.Title, "From First")
	}
	if second.calls != 0 {
		t.Error("second source must not be attempted after a hit")
	}
}

func TestResolveFallsThroughFailures(t *testing.T) {
	failing := &fakeSource{name: "failing", err: errors.New("boom")}
	empty := &fakeSource{name: "empty", video: &Video{}}
	working := &fakeSource{name: "working", video: &Video{Title: "Found", Source: "working"}}
	r := &Resolver{sources: []source{failing, empty, working}}

	got := r.Resolve(context.Background(), "dQw4w9WgXcQ")
	if got.Title != "Found" {
		t.Errorf("Title = %q, want %q", got.Title, "Found")
	}
	if failing.calls != 1 || empty.calls != 1 {
		t.Error("earlier sources must each be attempted exactly once")
	}
	// A record without a title counts as a failed attempt.
	if got.Source != "working" {
		t.Errorf("Source = %q", got.Source)
	}
}

func TestResolveNeverFails(t *testing.T) {
	r := &Resolver{sources: []source{
		&fakeSource{name: "a", err: errors.New("down")},
		&fakeSource{name: "b", err: context.DeadlineExceeded},
		&fakeSource{name: "c", err: errors.New("unparsable")},
	}}

	got := r.Resolve(context.Background(), "dQw4w9WgXcQ")
	if got.Title != "YouTube Video" {
		t.Errorf("fallback title = %q", got.Title)
	}
	if got.Source != SourceFallback {
		t.Errorf("Source = %q, want %q", got.Source, SourceFallback)
	}
	if got.ThumbnailURL != "https://img.youtube.com/vi/dQw4w9WgXcQ/mqdefault.jpg" {
		t.Errorf("ThumbnailURL = %q", got.ThumbnailURL)
	}
	if got.SourceURL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("SourceURL = %q", got.SourceURL)
	}
}

func TestResolveFillsDerivedFields(t *testing.T) {
	// Sources that only carry a title still yield thumbnail and watch URL.
	r := &Resolver{sources: []source{
		&fakeSource{name: "thin", video: &Video{Title: "Thin Record", Source: "thin"}},
	}}

	got := r.Resolve(context.Background(), "a_b-C1234xy")
	if got.ThumbnailURL != "https://img.youtube.com/vi/a_b-C1234xy/mqdefault.jpg" {
		t.Errorf("ThumbnailURL = %q", got.ThumbnailURL)
	}
	if got.SourceURL != "https://www.youtube.com/watch?v=a_b-C1234xy" {
		t.Errorf("SourceURL = %q", got.SourceURL)
	}
}

func TestNewResolverChainOrder(t *testing.T) {
	r := NewResolver(nil, "key")
	if len(r.sources) != 3 {
		t.Fatalf("chain length = %d, want 3", len(r.sources))
	}
	want := []string{SourceOembed, SourceDataAPI, SourceScrape}
	for i, s := range r.sources {
		if s.Name() != want[i] {
			t.Errorf("chain[%d] = %s, want %s", i, s.Name(), want[i])
		}
	}
}

func TestDataAPISkippedWithoutKey(t *testing.T) {
	s := &dataAPISource{client: nil, key: ""}
	_, err := s.Attempt(context.Background(), "dQw4w9WgXcQ")
	if !errors.Is(err, errNoAPIKey) {
		t.Errorf("err = %v, want errNoAPIKey", err)
	}
}
