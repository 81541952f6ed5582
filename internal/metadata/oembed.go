package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"mirrorcast/internal/fetch"
	"mirrorcast/internal/metrics"
	"mirrorcast/internal/videoid"
)

var oembedEndpoint = "https://www.youtube.com/oembed"

// oembedSource queries the public oEmbed endpoint. Cheap and stable, but the
// protocol only carries title, author and thumbnail; missing duration and
// counts are not a failure.
type oembedSource struct {
	client *fetch.Client
}

type oembedResp struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (s *oembedSource) Name() string           { return SourceOembed }
func (s *oembedSource) Timeout() time.Duration { return 4 * time.Second }

func (s *oembedSource) Attempt(ctx context.Context, id string) (*Video, error) {
	metrics.IncrOembedAttempts()

	u := oembedEndpoint + "?url=" + url.QueryEscape(videoid.WatchURL(id)) + "&format=json"
	resp, err := s.client.Get(ctx, u, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, fmt.Errorf("oembed: %w", err)
	}
	defer resp.Body.Close()

	var out oembedResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode oembed: %w", err)
	}

	return &Video{
		Title:        out.Title,
		Channel:      out.AuthorName,
		ThumbnailURL: out.ThumbnailURL,
		Source:       SourceOembed,
	}, nil
}
