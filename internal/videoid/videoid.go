// Package videoid normalises the many YouTube URL shapes into a canonical
// 11-character video identifier.
package videoid

import (
	"regexp"
	"strings"
)

const idLen = 11

// idRE matches a full, standalone video identifier.
var idRE = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// patterns anchor on the distinct URL markers, most common shapes first.
// Each captures a greedy run of ID characters; the 11-char check below
// rejects over-long captures (e.g. trailing path segments).
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&]v=([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`/embed/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`/v/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`/shorts/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]+)`),
}

// Extract pulls the 11-char video ID out of arbitrary input text.
// Recognises watch?v=, /embed/, /v/, /shorts/ and youtu.be/ URLs as well as
// a bare identifier. Returns false when no valid ID is present.
func Extract(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	for _, re := range patterns {
		m := re.FindStringSubmatch(input)
		if len(m) < 2 {
			continue
		}
		if Valid(m[1]) {
			return m[1], true
		}
		// Marker present but the token is malformed; later patterns anchor
		// on different markers, so keep trying.
	}
	if Valid(input) {
		return input, true
	}
	return "", false
}

// Valid reports whether s is exactly 11 characters of [A-Za-z0-9_-].
func Valid(s string) bool {
	return len(s) == idLen && idRE.MatchString(s)
}

// WatchURL returns the canonical watch page URL for a video ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// ThumbnailURL returns the medium-quality thumbnail URL for a video ID.
func ThumbnailURL(id string) string {
	return "https://img.youtube.com/vi/" + id + "/mqdefault.jpg"
}
