package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

type Config struct {
	Discord  DiscordConfig  `json:"discord"`
	DataDir  string         `json:"data_dir"`
	LangFile string         `json:"lang_file"`
	Filter   FilterConfig   `json:"filter"`
	Database DatabaseConfig `json:"database"`
	Events   EventsConfig   `json:"events"`
}

type DiscordConfig struct {
	Prefix string `json:"prefix"`
	Status string `json:"status"`
}

type FilterConfig struct {
	WarnSeconds int `json:"warn_seconds"`
}

type DatabaseConfig struct {
	Driver  string        `json:"driver"`
	SQLite  SQLiteConfig  `json:"sqlite"`
	MongoDB MongoDBConfig `json:"mongodb"`
}

type SQLiteConfig struct {
	Path string `json:"path"`
}

type MongoDBConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

type EventsConfig struct {
	Enabled  bool   `json:"enabled"`
	URL      string `json:"url"`
	Exchange string `json:"exchange"`
}

// LoadConfig reads the static bot configuration. A missing or unreadable
// file is not fatal: the built-in defaults cover everything except the
// Discord token, which comes from the environment.
func LoadConfig(path string) *Config {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[config] Could not read %s (%v) — using defaults", path, err)
	} else if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("[config] Failed to parse %s (%v) — using defaults", path, err)
		cfg = Config{}
	}

	if cfg.Discord.Prefix == "" {
		cfg.Discord.Prefix = "!"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.LangFile == "" {
		cfg.LangFile = "lang.yml"
	}
	if cfg.Filter.WarnSeconds <= 0 {
		cfg.Filter.WarnSeconds = 10
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.SQLite.Path == "" {
		cfg.Database.SQLite.Path = filepath.Join(cfg.DataDir, "bot.db")
	}
	if cfg.Events.Exchange == "" {
		cfg.Events.Exchange = "guardian.events"
	}
	return &cfg
}

// ServerConfig is the mutable per-server state: configured role and channel
// IDs plus the per-type ticket counters. It is rewritten to disk as a whole
// after every mutation. Single-writer: this process is assumed to be the
// only one touching the backing file.
type ServerConfig struct {
	mu       sync.RWMutex
	filePath string

	StaffRoleID         string         `json:"staff_role_id"`
	LogChannelID        string         `json:"log_channel_id"`
	TicketCategoryID    string         `json:"ticket_category_id"`
	SupportChannelID    string         `json:"support_channel_id"`
	TranscriptChannelID string         `json:"transcript_channel_id"`
	TicketCounters      map[string]int `json:"ticket_counters"`
}

// LoadServerConfig loads the server state from path, substituting defaults
// for anything missing. If the file does not exist the defaults are written
// out immediately so operators have something to edit.
func LoadServerConfig(path string) *ServerConfig {
	_ = os.MkdirAll(filepath.Dir(path), 0755)

	sc := &ServerConfig{
		filePath:       path,
		TicketCounters: make(map[string]int),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[config] No server config at %s — writing defaults", path)
		_ = sc.Save()
		return sc
	}
	if err := json.Unmarshal(data, sc); err != nil {
		log.Printf("[config] Failed to parse %s (%v) — starting from defaults", path, err)
	}
	sc.filePath = path
	if sc.TicketCounters == nil {
		sc.TicketCounters = make(map[string]int)
	}
	return sc
}

// Save rewrites the whole document. Failures are logged and returned;
// callers treat persistence as best-effort.
func (sc *ServerConfig) Save() error {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	data, err := json.MarshalIndent(sc, "", "  ")
	if err == nil {
		err = os.WriteFile(sc.filePath, data, 0644)
	}
	if err != nil {
		log.Printf("[config] Failed to save %s: %v", sc.filePath, err)
	}
	return err
}

func (sc *ServerConfig) Lock()    { sc.mu.Lock() }
func (sc *ServerConfig) Unlock()  { sc.mu.Unlock() }
func (sc *ServerConfig) RLock()   { sc.mu.RLock() }
func (sc *ServerConfig) RUnlock() { sc.mu.RUnlock() }

// NextTicketNumber increments and returns the counter for the given ticket
// type, starting at 1 for a type never seen before. The updated counters are
// persisted immediately. Numbers are never reused, even after deletions.
func (sc *ServerConfig) NextTicketNumber(ticketType string) int {
	sc.mu.Lock()
	if _, ok := sc.TicketCounters[ticketType]; !ok {
		sc.TicketCounters[ticketType] = 1
	} else {
		sc.TicketCounters[ticketType]++
	}
	n := sc.TicketCounters[ticketType]
	sc.mu.Unlock()
	_ = sc.Save()
	return n
}
