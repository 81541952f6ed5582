// Package metadata resolves best-effort descriptive video information via an
// ordered chain of sources: oEmbed, Data API v3, watch-page scrape.
package metadata

import (
	"context"
	"time"
)

// Source names reported in Video.Source.
const (
	SourceOembed   = "oembed"
	SourceDataAPI  = "data_api"
	SourceScrape   = "scrape"
	SourceFallback = "fallback"
)

// Video is a best-effort descriptive record for a single video. Title is
// always non-empty on records returned by Resolver.Resolve; every other
// field may be empty or nil.
type Video struct {
	Title           string   `json:"title"`
	Channel         string   `json:"channel"`
	ThumbnailURL    string   `json:"thumbnailUrl"`
	SourceURL       string   `json:"sourceUrl"`
	Description     string   `json:"description"`
	DurationSeconds *int64   `json:"durationSeconds"`
	ViewCount       *int64   `json:"viewCount"`
	LikeCount       *int64   `json:"likeCount"`
	PublishedAt     string   `json:"publishedAt"`
	Tags            []string `json:"tags"`
	Language        string   `json:"language"`
	CaptionTracks   []string `json:"captionTracks"`
	Source          string   `json:"source"`
}

// source is one metadata provider in the fallback chain. Attempt returns a
// record or an error; a record without a Title counts as a failed attempt.
type source interface {
	Name() string
	Timeout() time.Duration
	Attempt(ctx context.Context, id string) (*Video, error)
}
