package metadata

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"mirrorcast/internal/fetch"
	"mirrorcast/internal/metrics"
	"mirrorcast/internal/videoid"
)

// Resolver walks the source chain cheapest-first and short-circuits on the
// first record with a non-empty title. It never fails: when every source is
// exhausted it synthesizes a minimal record.
type Resolver struct {
	sources []source
	group   singleflight.Group
}

// NewResolver builds the fixed chain: oEmbed, Data API (skipped without a
// key), watch-page scrape.
func NewResolver(client *fetch.Client, apiKey string) *Resolver {
	return &Resolver{
		sources: []source{
			&oembedSource{client: client},
			&dataAPISource{client: client, key: apiKey},
			&scrapeSource{client: client},
		},
	}
}

// Resolve produces a descriptive record for id. Always returns a record with
// a non-empty Title; check Source == SourceFallback to detect full
// degradation. Concurrent resolves of the same id are collapsed.
func (r *Resolver) Resolve(ctx context.Context, id string) Video {
	v, _, _ := r.group.Do(id, func() (any, error) {
		return r.resolve(ctx, id), nil
	})
	return v.(Video)
}

func (r *Resolver) resolve(ctx context.Context, id string) Video {
	for _, s := range r.sources {
		start := time.Now()
		sctx, cancel := context.WithTimeout(ctx, s.Timeout())
		v, err := s.Attempt(sctx, id)
		cancel()

		if err != nil || v == nil || v.Title == "" {
			r.countError(s, err)
			slog.Debug("metadata: source failed",
				slog.String("source", s.Name()),
				slog.String("id", id),
				slog.Duration("elapsed", time.Since(start)),
				slog.Any("error", err))
			continue
		}

		if v.ThumbnailURL == "" {
			v.ThumbnailURL = videoid.ThumbnailURL(id)
		}
		v.SourceURL = videoid.WatchURL(id)
		slog.Info("metadata: resolved",
			slog.String("source", s.Name()),
			slog.String("id", id),
			slog.Duration("elapsed", time.Since(start)))
		return *v
	}

	metrics.IncrFallbackRecords()
	slog.Warn("metadata: all sources failed, using fallback record", slog.String("id", id))
	return Fallback(id)
}

// countError is skipped for the configuration-level "no key" case so the
// error counters only reflect real upstream failures.
func (r *Resolver) countError(s source, err error) {
	if err == errNoAPIKey {
		return
	}
	switch s.Name() {
	case SourceOembed:
		metrics.IncrOembedErrors()
	case SourceDataAPI:
		metrics.IncrDataAPIErrors()
	case SourceScrape:
		metrics.IncrScrapeErrors()
	}
}

// Fallback builds the synthetic record returned when every source fails.
func Fallback(id string) Video {
	return Video{
		Title:        "YouTube Video",
		ThumbnailURL: videoid.ThumbnailURL(id),
		SourceURL:    videoid.WatchURL(id),
		Source:       SourceFallback,
	}
}
