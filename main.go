// go_gist: page content, video transcript and summary MCP server.
//
// Exposes four MCP tools: youtube_transcript, page_extract, page_summarize,
// transcript_settings. Runs as HTTP MCP server or stdio transport.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strconv"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/anatolykoptev/go_gist/internal/engine"
	"github.com/anatolykoptev/go_gist/internal/gistserver"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var version = "dev"

func main() {
	_ = godotenv.Load() // best-effort: load .env if present

	mcpPort := env.Str("MCP_PORT", "8893")
	initEngine()

	store, err := engine.OpenStore(context.Background(), engine.Cfg.StoreURL, engine.Cfg.StoreL1MaxEntries, engine.Cfg.StoreL1TTL)
	if err != nil {
		slog.Error("store init failed", slog.String("store_url", engine.Cfg.StoreURL), slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting go_gist",
		slog.String("port", mcpPort),
		slog.Bool("stealth", engine.Cfg.BrowserClient != nil),
		slog.Bool("llm", engine.Cfg.LLMClient != nil),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_gist",
		Version: version,
	}, nil)

	n := gistserver.RegisterTools(server, store, env.Duration("SUMMARY_CACHE_TTL", gistserver.DefaultSummaryTTL))
	slog.Info("tools registered", slog.Int("count", n))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_gist",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 300 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(env.Str(key, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return v
}

func initEngine() {
	// Credentialed timedtext/Innertube calls reuse cookies the endpoints set.
	jar, _ := cookiejar.New(nil)

	c := engine.Config{
		YouTubeBaseURL:     env.Str("YOUTUBE_BASE_URL", engine.DefaultYouTubeBaseURL),
		PreferredLangs:     env.List("PREFERRED_LANGS", ""),
		DisableTranscripts: envBool("DISABLE_TRANSCRIPTS", false),
		FetchThreshold:     env.Int("TRANSCRIPT_FETCH_THRESHOLD", engine.DefaultFetchThreshold),
		PlayerPoll: engine.PollConfig{
			Attempts: env.Int("PLAYER_POLL_ATTEMPTS", engine.DefaultPlayerPoll.Attempts),
			Delay:    env.Duration("PLAYER_POLL_DELAY", engine.DefaultPlayerPoll.Delay),
		},
		MaxContentChars:    env.Int("MAX_CONTENT_CHARS", 30000),
		FetchTimeout:       env.Duration("FETCH_TIMEOUT", 15*time.Second),
		StoreURL:           env.Str("STORE_URL", engine.DefaultSQLitePath()),
		StoreL1MaxEntries:  env.Int("STORE_L1_MAX_ENTRIES", 1000),
		StoreL1TTL:         env.Duration("STORE_L1_TTL", engine.DefaultL1TTL),
		LLMAPIKey:          env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks: env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:         env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:           env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:     env.Float("LLM_TEMPERATURE", 0.2),
		LLMMaxTokens:       env.Int("LLM_MAX_TOKENS", 4096),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	if envBool("USE_STEALTH", false) {
		var opts []stealth.ClientOption
		opts = append(opts, stealth.WithTimeout(15))

		if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
			pool, err := proxypool.NewWebshare(apiKey)
			if err != nil {
				slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
			} else {
				opts = append(opts, stealth.WithProxyPool(pool))
				slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
			}
		}

		bc, err := stealth.NewClient(opts...)
		if err != nil {
			slog.Error("stealth client init failed", slog.Any("error", err))
		} else {
			c.BrowserClient = bc
			slog.Info("stealth browser client initialized")
		}
	}

	if c.LLMAPIKey != "" {
		c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
			llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
			llm.WithMaxTokens(c.LLMMaxTokens),
			llm.WithTemperature(c.LLMTemperature),
			llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		)
	} else {
		slog.Warn("LLM_API_KEY not set, page_summarize disabled")
	}

	engine.Init(c)
}
