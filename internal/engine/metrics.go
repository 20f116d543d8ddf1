package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	TranscriptRequests  atomic.Int64
	TranscriptDisabled  atomic.Int64
	TranscriptExhausted atomic.Int64
	TrackSweepHits      atomic.Int64
	LanguageSweepHits   atomic.Int64
	InnertubeHits       atomic.Int64
	FetchAttempts       atomic.Int64
	FetchErrors         atomic.Int64
	CacheHits           atomic.Int64
	CacheMisses         atomic.Int64
	PageLoads           atomic.Int64
	LLMCalls            atomic.Int64
	LLMErrors           atomic.Int64
}

// Strategy names used for per-strategy hit counters.
const (
	StrategyTrackSweep     = "track_sweep"
	StrategyInnertubeEarly = "innertube_early"
	StrategyLanguageSweep  = "language_sweep"
	StrategyInnertube      = "innertube"
)

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"transcript_requests":  metrics.TranscriptRequests.Load(),
		"transcript_disabled":  metrics.TranscriptDisabled.Load(),
		"transcript_exhausted": metrics.TranscriptExhausted.Load(),
		"track_sweep_hits":     metrics.TrackSweepHits.Load(),
		"language_sweep_hits":  metrics.LanguageSweepHits.Load(),
		"innertube_hits":       metrics.InnertubeHits.Load(),
		"fetch_attempts":       metrics.FetchAttempts.Load(),
		"fetch_errors":         metrics.FetchErrors.Load(),
		"cache_hits":           metrics.CacheHits.Load(),
		"cache_misses":         metrics.CacheMisses.Load(),
		"page_loads":           metrics.PageLoads.Load(),
		"llm_calls":            metrics.LLMCalls.Load(),
		"llm_errors":           metrics.LLMErrors.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"transcript_requests", "transcript_disabled", "transcript_exhausted",
		"track_sweep_hits", "language_sweep_hits", "innertube_hits",
		"fetch_attempts", "fetch_errors",
		"cache_hits", "cache_misses",
		"page_loads", "llm_calls", "llm_errors",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sources/ and extract/ sub-packages.
func IncrTranscriptRequests()  { metrics.TranscriptRequests.Add(1) }
func IncrTranscriptDisabled()  { metrics.TranscriptDisabled.Add(1) }
func IncrTranscriptExhausted() { metrics.TranscriptExhausted.Add(1) }
func IncrCacheHit()            { metrics.CacheHits.Add(1) }
func IncrCacheMiss()           { metrics.CacheMisses.Add(1) }

// IncrStrategyHit counts a transcript won by the named strategy.
func IncrStrategyHit(name string) {
	switch name {
	case StrategyTrackSweep:
		metrics.TrackSweepHits.Add(1)
	case StrategyLanguageSweep:
		metrics.LanguageSweepHits.Add(1)
	case StrategyInnertube, StrategyInnertubeEarly:
		metrics.InnertubeHits.Add(1)
	}
}

// slowOperation is the duration after which TrackOperation warns. The transcript
// chain is sequential, so one hung request shows up here.
var slowOperation = 5 * time.Second

// TrackOperation logs a warning if an operation takes longer than slowOperation.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > slowOperation {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
