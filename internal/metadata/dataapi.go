package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"mirrorcast/internal/fetch"
	"mirrorcast/internal/metrics"
)

var dataAPIBase = "https://www.googleapis.com/youtube/v3"

var errNoAPIKey = errors.New("no API key configured")

// dataAPISource queries the Data API v3 videos endpoint. Richest record of
// the chain, but requires a credential; without one the attempt is skipped.
type dataAPISource struct {
	client *fetch.Client
	key    string
}

type dataAPIResp struct {
	Items []struct {
		Snippet struct {
			Title                string   `json:"title"`
			Description          string   `json:"description"`
			ChannelTitle         string   `json:"channelTitle"`
			PublishedAt          string   `json:"publishedAt"`
			Tags                 []string `json:"tags"`
			DefaultLanguage      string   `json:"defaultLanguage"`
			DefaultAudioLanguage string   `json:"defaultAudioLanguage"`
			Thumbnails           struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
			Caption  string `json:"caption"` // "true" / "false"
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (s *dataAPISource) Name() string           { return SourceDataAPI }
func (s *dataAPISource) Timeout() time.Duration { return 5 * time.Second }

func (s *dataAPISource) Attempt(ctx context.Context, id string) (*Video, error) {
	if s.key == "" {
		return nil, errNoAPIKey
	}
	metrics.IncrDataAPIAttempts()

	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("id", id)
	params.Set("key", s.key)

	resp, err := s.client.Get(ctx, dataAPIBase+"/videos?"+params.Encode(), map[string]string{
		"Accept":     "application/json",
		"User-Agent": fetch.UserAgentBot,
	})
	if err != nil {
		return nil, fmt.Errorf("data API: %w", err)
	}
	defer resp.Body.Close()

	var out dataAPIResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode data API: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("data API: video %s not found", id)
	}

	item := out.Items[0]
	v := &Video{
		Title:           item.Snippet.Title,
		Channel:         item.Snippet.ChannelTitle,
		ThumbnailURL:    item.Snippet.Thumbnails.Medium.URL,
		Description:     item.Snippet.Description,
		DurationSeconds: ParseISODuration(item.ContentDetails.Duration),
		ViewCount:       parseCount(item.Statistics.ViewCount),
		LikeCount:       parseCount(item.Statistics.LikeCount),
		PublishedAt:     item.Snippet.PublishedAt,
		Tags:            item.Snippet.Tags,
		Language:        firstNonEmpty(item.Snippet.DefaultAudioLanguage, item.Snippet.DefaultLanguage),
		Source:          SourceDataAPI,
	}
	if item.ContentDetails.Caption == "true" && v.Language != "" {
		v.CaptionTracks = []string{v.Language}
	}
	return v, nil
}

// parseCount converts the API's stringly-typed counters; absent or
// malformed values stay nil.
func parseCount(s string) *int64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
