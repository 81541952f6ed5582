package api

import (
	"html/template"
	"log/slog"
	"net/http"

	"mirrorcast/internal/metrics"
	"mirrorcast/internal/videoid"
)

// shareTmpl is the confirmation page rendered to the sharing PWA.
var shareTmpl = template.Must(template.New("share").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>MirrorCast</title></head>
<body style="font-family:sans-serif;text-align:center;padding-top:3em">
{{if .OK}}
<h1>Now playing on your mirror</h1>
<p>Video <code>{{.VideoID}}</code> was sent to the display.</p>
{{else}}
<h1>Nothing to play</h1>
<p>{{.Error}}</p>
{{end}}
<p><a href="/">Back</a></p>
</body>
</html>
`))

type sharePage struct {
	OK      bool
	VideoID string
	Error   string
}

// handleShareTarget receives Web Share Target invocations from the PWA. The
// shared payload arrives as url/text/title fields via query (GET) or form
// body (POST); the first field containing an extractable video reference
// wins, in that order; browsers are inconsistent about which field carries
// the link.
func (s *Server) handleShareTarget(w http.ResponseWriter, r *http.Request) {
	metrics.IncrShareRequests()

	if err := r.ParseForm(); err != nil {
		renderShare(w, http.StatusBadRequest, sharePage{Error: "malformed share payload"})
		return
	}

	for _, field := range []string{"url", "text", "title"} {
		value := r.Form.Get(field)
		if value == "" {
			continue
		}
		id, ok := videoid.Extract(value)
		if !ok {
			continue
		}
		if _, err := s.relay.Play(id); err != nil {
			continue
		}
		slog.Info("share-target: playback triggered",
			slog.String("field", field), slog.String("videoId", id))
		renderShare(w, http.StatusOK, sharePage{OK: true, VideoID: id})
		return
	}

	renderShare(w, http.StatusBadRequest, sharePage{Error: "no YouTube link found in the shared content"})
}

func renderShare(w http.ResponseWriter, status int, page sharePage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := shareTmpl.Execute(w, page); err != nil {
		slog.Debug("share-target: render failed", slog.Any("error", err))
	}
}
