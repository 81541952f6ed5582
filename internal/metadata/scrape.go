package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"mirrorcast/internal/fetch"
	"mirrorcast/internal/metrics"
)

const (
	playerResponseMarker = "var ytInitialPlayerResponse = "

	// scrapeMaxBytes bounds the decoded watch-page size. The blob we need
	// sits early in the document; anything past 2 MB is noise.
	scrapeMaxBytes = 2 * 1024 * 1024
)

var watchPageBase = "https://www.youtube.com/watch?v="

// scrapeSource fetches the public watch page and extracts the embedded
// player-response JSON. Brittle by nature (third-party markup), so every
// parse failure degrades instead of propagating.
type scrapeSource struct {
	client *fetch.Client
}

type playerResponse struct {
	VideoDetails struct {
		VideoID          string   `json:"videoId"`
		Title            string   `json:"title"`
		Author           string   `json:"author"`
		ShortDescription string   `json:"shortDescription"`
		LengthSeconds    string   `json:"lengthSeconds"`
		ViewCount        string   `json:"viewCount"`
		Keywords         []string `json:"keywords"`
	} `json:"videoDetails"`
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []struct {
				LanguageCode string `json:"languageCode"`
			} `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	Microformat *struct {
		PlayerMicroformatRenderer struct {
			PublishDate string `json:"publishDate"`
		} `json:"playerMicroformatRenderer"`
	} `json:"microformat"`
}

func (s *scrapeSource) Name() string           { return SourceScrape }
func (s *scrapeSource) Timeout() time.Duration { return 8 * time.Second }

func (s *scrapeSource) Attempt(ctx context.Context, id string) (*Video, error) {
	metrics.IncrScrapeAttempts()

	body, err := s.fetchWatchPage(ctx, watchPageBase+id)
	if err != nil {
		return nil, err
	}

	if blob := extractMarkedJSON(body, playerResponseMarker); blob != nil {
		if v := parsePlayerResponse(blob); v != nil {
			return v, nil
		}
		slog.Debug("scrape: player response unparsable, trying page title", slog.String("id", id))
	}

	// Last resort: the page title / og:title meta tag.
	return parsePageTitle(body)
}

// fetchWatchPage prefers the browser-fingerprint client; without one it
// falls back to the plain retrying client. Bodies are decoded per their
// declared encoding and capped.
func (s *scrapeSource) fetchWatchPage(ctx context.Context, pageURL string) ([]byte, error) {
	if b := s.client.Browser; b != nil {
		if err := s.client.Wait(ctx); err != nil {
			return nil, err
		}
		body, encoding, status, err := b.Get(pageURL, fetch.ChromeHeaders())
		if err == nil && status == 200 {
			return fetch.DecodeBytes(body, encoding, scrapeMaxBytes), nil
		}
		slog.Debug("scrape: browser fetch failed, using plain client",
			slog.Int("status", status), slog.Any("error", err))
	}

	resp, err := s.client.Get(ctx, pageURL, map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
		"Accept-Encoding": "gzip, deflate, br",
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()
	return fetch.ReadBody(resp, scrapeMaxBytes)
}

// extractMarkedJSON finds marker in body and returns the complete JSON
// object that follows it, tracking brace depth across strings.
func extractMarkedJSON(body []byte, marker string) []byte {
	idx := strings.Index(string(body), marker)
	if idx < 0 {
		return nil
	}
	return extractJSON(body[idx+len(marker):])
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by
// tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	var prev byte
	for i, c := range b {
		if inStr {
			if c == '"' && prev != '\\' {
				inStr = false
			}
		} else {
			switch c {
			case '"':
				inStr = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return b[:i+1]
				}
			}
		}
		prev = c
	}
	return nil
}

// parsePlayerResponse maps the player-response blob onto a Video. Returns
// nil when the blob decodes but carries no usable title.
func parsePlayerResponse(blob []byte) *Video {
	var pr playerResponse
	if err := json.Unmarshal(blob, &pr); err != nil {
		return nil
	}
	if pr.VideoDetails.Title == "" {
		return nil
	}

	v := &Video{
		Title:       pr.VideoDetails.Title,
		Channel:     pr.VideoDetails.Author,
		Description: pr.VideoDetails.ShortDescription,
		Tags:        pr.VideoDetails.Keywords,
		Source:      SourceScrape,
	}
	if n, err := strconv.ParseInt(pr.VideoDetails.LengthSeconds, 10, 64); err == nil && n > 0 {
		v.DurationSeconds = &n
	}
	if n, err := strconv.ParseInt(pr.VideoDetails.ViewCount, 10, 64); err == nil {
		v.ViewCount = &n
	}
	if pr.Captions != nil {
		for _, t := range pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks {
			if t.LanguageCode != "" {
				v.CaptionTracks = append(v.CaptionTracks, t.LanguageCode)
			}
		}
		if len(v.CaptionTracks) > 0 {
			v.Language = v.CaptionTracks[0]
		}
	}
	if pr.Microformat != nil {
		v.PublishedAt = pr.Microformat.PlayerMicroformatRenderer.PublishDate
	}
	return v
}

// parsePageTitle extracts <title> or og:title as the last-resort record.
func parsePageTitle(body []byte) (*Video, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse watch page: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && og != "" {
		title = og
	}
	title = strings.TrimSuffix(title, " - YouTube")
	if title == "" || title == "YouTube" {
		return nil, fmt.Errorf("no title in watch page")
	}

	channel := ""
	if link, ok := doc.Find(`link[itemprop="name"]`).First().Attr("content"); ok {
		channel = link
	}

	return &Video{Title: title, Channel: channel, Source: SourceScrape}, nil
}
