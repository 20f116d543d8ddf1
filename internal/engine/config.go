package engine

import (
	"net/http"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	YouTubeBaseURL      string // scheme+host for timedtext and Innertube endpoints
	PreferredLangs      []string
	DisableTranscripts  bool // default for the user preference when the store has no value
	FetchThreshold      int  // in-page cue count at or above which no transcript fetch is attempted
	PlayerPoll          PollConfig
	MaxContentChars     int
	FetchTimeout        time.Duration
	StoreURL            string
	StoreL1MaxEntries   int
	StoreL1TTL          time.Duration // how long an L1 copy shadows the shared store
	LLMAPIKey           string
	LLMAPIKeyFallbacks  []string
	LLMAPIBase          string
	LLMModel            string
	LLMTemperature      float64
	LLMMaxTokens        int
	HTTPClient          *http.Client
	BrowserClient       *BrowserClient // nil = plain net/http transport
	LLMClient           *llm.Client    // nil = summarization disabled
}

// PollConfig bounds a fixed-delay polling loop.
type PollConfig struct {
	Attempts int
	Delay    time.Duration
}

// DefaultPlayerPoll matches how long the host page usually takes to inject player data (~1.5s).
var DefaultPlayerPoll = PollConfig{Attempts: 6, Delay: 300 * time.Millisecond}

// DefaultFetchThreshold is the in-page cue count below which a transcript fetch is attempted.
const DefaultFetchThreshold = 60

// DefaultYouTubeBaseURL is the origin of the public timedtext and Innertube endpoints.
const DefaultYouTubeBaseURL = "https://www.youtube.com"

var cfg = Config{
	YouTubeBaseURL:  DefaultYouTubeBaseURL,
	FetchThreshold:  DefaultFetchThreshold,
	PlayerPoll:      DefaultPlayerPoll,
	MaxContentChars: 30000,
	FetchTimeout:    15 * time.Second,
	HTTPClient:      http.DefaultClient,
}

// Cfg exposes the engine configuration for sub-packages (sources, extract).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
// Zero values fall back to the package defaults.
func Init(c Config) {
	if c.YouTubeBaseURL == "" {
		c.YouTubeBaseURL = DefaultYouTubeBaseURL
	}
	if c.FetchThreshold <= 0 {
		c.FetchThreshold = DefaultFetchThreshold
	}
	if c.PlayerPoll.Attempts <= 0 {
		c.PlayerPoll = DefaultPlayerPoll
	}
	if c.MaxContentChars <= 0 {
		c.MaxContentChars = 30000
	}
	if c.StoreL1TTL <= 0 {
		c.StoreL1TTL = DefaultL1TTL
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	langs := c.PreferredLangs[:0:0]
	for _, l := range c.PreferredLangs {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	c.PreferredLangs = langs
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	cfg = c
	Cfg = &cfg
}
