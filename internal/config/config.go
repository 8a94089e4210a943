package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr         string // API bind address, e.g., "127.0.0.1:8080" or ":8080"
	LogDir       string // logs directory
	DatabaseURL  string // postgres DSN; empty means in-memory store
	SlackWebhook string // alert channel; empty disables alert delivery

	PollInterval time.Duration // scheduler tick interval
	Concurrency  int           // max concurrent probes per batch

	// Anomaly detector tuning (defaults come from production tuning and
	// stay overridable since they are tuning choices).
	AnomalyWindow        time.Duration
	AnomalyMinBaselineMS float64
	AnomalySpikeFactor   float64
	AnomalyMinCurrentMS  float64

	// Crawler / typosquat cost bounds.
	CrawlMaxPages   int
	CrawlMaxDepth   int
	TyposquatLimit  int

	PublicAPIKeys []string
	AdminAPIKeys  []string
	PublicRPM     int
	PublicBurst   int
}

func FromEnv() Config {
	cfg := Config{
		Addr:                 getStr("ADDR", "127.0.0.1:8080"),
		LogDir:               getStr("LOG_DIR", "logs"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		SlackWebhook:         os.Getenv("SLACK_WEBHOOK"),
		PollInterval:         getDurationSec("POLL_INTERVAL_SEC", 30*time.Second),
		Concurrency:          getInt("MAX_CONCURRENT_CHECKS", 8),
		AnomalyWindow:        getDurationSec("ANOMALY_WINDOW_SEC", 24*time.Hour),
		AnomalyMinBaselineMS: getFloat("ANOMALY_MIN_BASELINE_MS", 10),
		AnomalySpikeFactor:   getFloat("ANOMALY_SPIKE_FACTOR", 3),
		AnomalyMinCurrentMS:  getFloat("ANOMALY_MIN_CURRENT_MS", 50),
		CrawlMaxPages:        getInt("CRAWL_MAX_PAGES", 40),
		CrawlMaxDepth:        getInt("CRAWL_MAX_DEPTH", 5),
		TyposquatLimit:       getInt("TYPOSQUAT_MAX_VARIANTS", 50),
		PublicAPIKeys:        splitKeys(os.Getenv("PUBLIC_API_KEYS")),
		AdminAPIKeys:         splitKeys(os.Getenv("ADMIN_API_KEYS")),
		PublicRPM:            getInt("PUBLIC_RPM", 120),
		PublicBurst:          getInt("PUBLIC_BURST", 30),
	}
	return cfg
}

func getStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}

func getDurationSec(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}

func splitKeys(raw string) []string {
	var out []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
