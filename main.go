// mirrorcast is a YouTube share-to-display bridge.
//
// Accepts a shared YouTube URL from the companion PWA, resolves best-effort
// video metadata (oEmbed, then the Data API, then a watch-page scrape), and
// relays playback commands to a MagicMirror² display client over WebSocket.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/joho/godotenv"

	"mirrorcast/internal/api"
	"mirrorcast/internal/fetch"
	"mirrorcast/internal/metadata"
	"mirrorcast/internal/playback"
	"mirrorcast/internal/ratelimit"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	port := env.Str("PORT", "8570")
	tlsCert := env.Str("TLS_CERT", "")
	tlsKey := env.Str("TLS_KEY", "")

	slog.Info("starting mirrorcast",
		slog.String("version", version),
		slog.String("port", port),
	)

	client := fetch.NewClient(
		env.Duration("FETCH_TIMEOUT", 10*time.Second),
		env.Float("OUTBOUND_RPS", 4),
		newBrowser(),
	)

	apiKey := env.Str("YOUTUBE_API_KEY", "")
	resolver := metadata.NewResolver(client, apiKey)

	hub := api.NewHub()
	relay := playback.NewRelay(
		playback.CaptionState{
			Enabled: boolEnv("CAPTION_ENABLED", false),
			Lang:    env.Str("CAPTION_LANG", "en"),
		},
		playback.QualityState{
			Target:  env.Str("QUALITY_TARGET", "hd1080"),
			Floor:   env.Str("QUALITY_FLOOR", "large"),
			Ceiling: env.Str("QUALITY_CEILING", "hd2160"),
			Lock:    boolEnv("QUALITY_LOCK", false),
		},
		hub,
	)
	hub.OnStopped = relay.HandleStopped

	limitCfg := ratelimit.Config{
		Max:    env.Int("RATE_LIMIT_MAX", 100),
		Window: env.Duration("RATE_LIMIT_WINDOW", 60*time.Second),
	}
	limiter := ratelimit.New(limitCfg)
	defer limiter.Close()

	server := api.NewServer(relay, resolver, limiter, hub, api.StatusConfig{
		APIKeyConfigured:       apiKey != "",
		RateLimitMax:           limitCfg.Max,
		RateLimitWindowSeconds: int(limitCfg.Window.Seconds()),
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- listen(srv, tlsCert, tlsKey) }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutdown incomplete", slog.Any("error", err))
		}
	}
}

// listen serves TLS when a cert/key pair is configured and loads. A broken
// pair degrades to plain HTTP with a warning rather than failing startup.
func listen(srv *http.Server, certFile, keyFile string) error {
	if certFile != "" && keyFile != "" {
		if _, err := tls.LoadX509KeyPair(certFile, keyFile); err != nil {
			slog.Warn("TLS certificate load failed, falling back to HTTP",
				slog.Any("error", err))
		} else {
			slog.Info("listening with TLS", slog.String("addr", srv.Addr))
			return srv.ListenAndServeTLS(certFile, keyFile)
		}
	}
	slog.Info("listening", slog.String("addr", srv.Addr))
	return srv.ListenAndServe()
}

// newBrowser initializes the fingerprinted scrape client; failure just
// disables it.
func newBrowser() *fetch.Browser {
	if !boolEnv("SCRAPE_BROWSER_CLIENT", true) {
		return nil
	}
	browser, err := fetch.NewBrowser(15)
	if err != nil {
		slog.Warn("browser client init failed, scrape uses plain client",
			slog.Any("error", err))
		return nil
	}
	slog.Info("browser scrape client initialized")
	return browser
}

// boolEnv parses a boolean environment variable with a default.
func boolEnv(name string, def bool) bool {
	v := env.Str(name, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
