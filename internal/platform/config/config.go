package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	pstrings "rostersync/pkg/platform/strings"
)

// Config captures process-level configuration for a sync run.
type Config struct {
	// Chat/CRM platform holding subscriber records.
	ChatAPIURL   string
	ChatAPIToken string

	// Upstream scheduling source for monthly shifts.
	ScheduleAPIURL   string
	ScheduleAPIToken string

	// Hospital names whose shifts participate in the sync.
	AllowedLocations []string

	// File paths for the intermediate snapshot and the two outcome ledgers.
	SnapshotFile   string
	NotFoundFile   string
	CreatedFile    string

	// Optional PostgreSQL DSN; when set, ledgers are persisted in a table
	// instead of JSON files.
	LedgerDSN string

	// Optional Redis URL for the subscriber-lookup cache.
	RedisURL string
	CacheTTL time.Duration

	// Reconcile fan-out bound and onboarding inter-record pace.
	Concurrency int
	Pace        time.Duration

	// Optional Pushgateway URL; batch metrics are pushed there after a run.
	PushgatewayURL string

	HTTPTimeout time.Duration
}

// defaultAllowedLocations is the municipal hospital set the job was built
// for. Overridable via ROSTER_ALLOWED_LOCATIONS.
var defaultAllowedLocations = []string{
	"U/E ÁGUAS LINDAS",
	"PAAR",
	"SAMU",
	"U/E JADERLÂNDIA",
	"UPA CIDADE NOVA",
	"UPA DISTRITO",
	"UPA ICUÍ",
	"UPA MARIGHELLA",
	"PRONTO SOCORRO MUNICIPAL DE ANANINDEUA",
	"HOSPITAL MUNICIPAL DE CASTANHAL DRA. MARIA LAISE",
}

// FromEnv builds a Config from environment variables so main stays lean.
// Defaults are applied here; required values are checked by the Require*
// methods once the selected flow is known.
func FromEnv() Config {
	allowed := pstrings.SplitList(os.Getenv("ROSTER_ALLOWED_LOCATIONS"))
	if len(allowed) == 0 {
		allowed = defaultAllowedLocations
	}

	return Config{
		ChatAPIURL:       os.Getenv("CHAT_API_URL"),
		ChatAPIToken:     os.Getenv("CHAT_API_TOKEN"),
		ScheduleAPIURL:   os.Getenv("SCHEDULE_API_URL"),
		ScheduleAPIToken: os.Getenv("SCHEDULE_API_TOKEN"),
		AllowedLocations: allowed,
		SnapshotFile:     envOr("ROSTER_SNAPSHOT_FILE", "producaomes.json"),
		NotFoundFile:     envOr("ROSTER_NOT_FOUND_FILE", "cpfs_nao_encontrados.json"),
		CreatedFile:      envOr("ROSTER_CREATED_FILE", "created_users.json"),
		LedgerDSN:        os.Getenv("LEDGER_DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		CacheTTL:         envDuration("LOOKUP_CACHE_TTL", 24*time.Hour),
		Concurrency:      envInt("SYNC_CONCURRENCY", 8),
		Pace:             envDuration("SYNC_PACE", 500*time.Millisecond),
		PushgatewayURL:   os.Getenv("METRICS_PUSHGATEWAY_URL"),
		HTTPTimeout:      envDuration("HTTP_TIMEOUT", 30*time.Second),
	}
}

// RequireChat validates the chat platform credentials needed by both flows.
func (c Config) RequireChat() error {
	if c.ChatAPIURL == "" {
		return errors.New("CHAT_API_URL is required")
	}
	if c.ChatAPIToken == "" {
		return errors.New("CHAT_API_TOKEN is required")
	}
	return nil
}

// RequireSchedule validates the scheduling source credentials needed by the
// tag flow.
func (c Config) RequireSchedule() error {
	if c.ScheduleAPIURL == "" {
		return errors.New("SCHEDULE_API_URL is required")
	}
	if c.ScheduleAPIToken == "" {
		return errors.New("SCHEDULE_API_TOKEN is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
