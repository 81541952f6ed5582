// Package metrics tracks operational counters across the service.
package metrics

import (
	"fmt"
	"strings"
	"sync/atomic"
)

var counters struct {
	PlayRequests      atomic.Int64
	StopRequests      atomic.Int64
	ControlRequests   atomic.Int64
	OptionsRequests   atomic.Int64
	VideoInfoRequests atomic.Int64
	ShareRequests     atomic.Int64
	RateLimited       atomic.Int64

	OembedAttempts  atomic.Int64
	OembedErrors    atomic.Int64
	DataAPIAttempts atomic.Int64
	DataAPIErrors   atomic.Int64
	ScrapeAttempts  atomic.Int64
	ScrapeErrors    atomic.Int64
	FallbackRecords atomic.Int64

	CommandsSent    atomic.Int64
	CommandsDropped atomic.Int64
	DisplayConnects atomic.Int64
}

// Incrementors for the api package.
func IncrPlayRequests()      { counters.PlayRequests.Add(1) }
func IncrStopRequests()      { counters.StopRequests.Add(1) }
func IncrControlRequests()   { counters.ControlRequests.Add(1) }
func IncrOptionsRequests()   { counters.OptionsRequests.Add(1) }
func IncrVideoInfoRequests() { counters.VideoInfoRequests.Add(1) }
func IncrShareRequests()     { counters.ShareRequests.Add(1) }
func IncrRateLimited()       { counters.RateLimited.Add(1) }

// Incrementors for the metadata package.
func IncrOembedAttempts()  { counters.OembedAttempts.Add(1) }
func IncrOembedErrors()    { counters.OembedErrors.Add(1) }
func IncrDataAPIAttempts() { counters.DataAPIAttempts.Add(1) }
func IncrDataAPIErrors()   { counters.DataAPIErrors.Add(1) }
func IncrScrapeAttempts()  { counters.ScrapeAttempts.Add(1) }
func IncrScrapeErrors()    { counters.ScrapeErrors.Add(1) }
func IncrFallbackRecords() { counters.FallbackRecords.Add(1) }

// Incrementors for the display channel.
func IncrCommandsSent()    { counters.CommandsSent.Add(1) }
func IncrCommandsDropped() { counters.CommandsDropped.Add(1) }
func IncrDisplayConnects() { counters.DisplayConnects.Add(1) }

// Snapshot returns a copy of all counters.
func Snapshot() map[string]int64 {
	return map[string]int64{
		"play_requests":       counters.PlayRequests.Load(),
		"stop_requests":       counters.StopRequests.Load(),
		"control_requests":    counters.ControlRequests.Load(),
		"options_requests":    counters.OptionsRequests.Load(),
		"video_info_requests": counters.VideoInfoRequests.Load(),
		"share_requests":      counters.ShareRequests.Load(),
		"rate_limited":        counters.RateLimited.Load(),
		"oembed_attempts":     counters.OembedAttempts.Load(),
		"oembed_errors":       counters.OembedErrors.Load(),
		"data_api_attempts":   counters.DataAPIAttempts.Load(),
		"data_api_errors":     counters.DataAPIErrors.Load(),
		"scrape_attempts":     counters.ScrapeAttempts.Load(),
		"scrape_errors":       counters.ScrapeErrors.Load(),
		"fallback_records":    counters.FallbackRecords.Load(),
		"commands_sent":       counters.CommandsSent.Load(),
		"commands_dropped":    counters.CommandsDropped.Load(),
		"display_connects":    counters.DisplayConnects.Load(),
	}
}

// Format returns counters as a simple text format for the HTTP endpoint.
func Format() string {
	m := Snapshot()
	var sb strings.Builder
	keys := []string{
		"play_requests", "stop_requests", "control_requests",
		"options_requests", "video_info_requests", "share_requests",
		"rate_limited",
		"oembed_attempts", "oembed_errors",
		"data_api_attempts", "data_api_errors",
		"scrape_attempts", "scrape_errors", "fallback_records",
		"commands_sent", "commands_dropped", "display_connects",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}
