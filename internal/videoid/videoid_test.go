package videoid

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch url extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s&list=PL123", "dQw4w9WgXcQ", true},
		{"watch url v not first", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"embed url", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"v path", "https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"shorts url", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link with query", "https://youtu.be/dQw4w9WgXcQ?t=10", "dQw4w9WgXcQ", true},
		{"bare id", "dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"bare id with whitespace", "  dQw4w9WgXcQ\n", "dQw4w9WgXcQ", true},
		{"no scheme", "youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"id with underscore and dash", "https://youtu.be/a_b-C1234xy", "a_b-C1234xy", true},

		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
		{"not a url", "not a url", "", false},
		{"token too short", "https://youtube.com/watch?v=short", "", false},
		{"bare token too short", "short", "", false},
		{"bare token too long", "dQw4w9WgXcQQ", "", false},
		{"invalid characters", "dQw4w9WgXc!", "", false},
		{"unrelated url", "https://example.com/watch?v=dQw4w9WgXcQtoolongtoken", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Extract(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestValid(t *testing.T) {
	if !Valid("dQw4w9WgXcQ") {
		t.Error("expected canonical id to be valid")
	}
	if Valid("dQw4w9WgXc") || Valid("dQw4w9WgXcQQ") || Valid("dQw4w9WgXc$") {
		t.Error("expected malformed ids to be invalid")
	}
}

func TestURLHelpers(t *testing.T) {
	if got := WatchURL("dQw4w9WgXcQ"); got != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("WatchURL = %q", got)
	}
	if got := ThumbnailURL("dQw4w9WgXcQ"); got != "https://img.youtube.com/vi/dQw4w9WgXcQ/mqdefault.jpg" {
		t.Errorf("ThumbnailURL = %q", got)
	}
}
