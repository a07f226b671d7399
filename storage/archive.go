package storage

import (
	"fmt"

	"guardian-bot/config"
)

// Archive keeps a historical record of tickets and filter violations.
// It is strictly observability: every call site treats failures as
// best-effort and the bot runs fine with no archive at all.
type Archive interface {
	Init() error
	Close() error

	RecordTicket(t TicketRecord) error
	UpdateTicketStatus(channelID, status, actorID string) error
	Tickets(guildID string, limit int) ([]TicketRecord, error)

	RecordViolation(v ViolationRecord) error
	RecentViolations(guildID string, limit int) ([]ViolationRecord, error)
}

const (
	TicketOpen    = "open"
	TicketClosed  = "closed"
	TicketDeleted = "deleted"
)

type TicketRecord struct {
	ID        int64  `json:"id"         bson:"-"`
	GuildID   string `json:"guild_id"   bson:"guild_id"`
	ChannelID string `json:"channel_id" bson:"channel_id"`
	UserID    string `json:"user_id"    bson:"user_id"`
	Type      string `json:"type"       bson:"type"`
	Number    int    `json:"number"     bson:"number"`
	Status    string `json:"status"     bson:"status"`
	OpenedAt  string `json:"opened_at"  bson:"opened_at"`
	ClosedAt  string `json:"closed_at"  bson:"closed_at"`
	ClosedBy  string `json:"closed_by"  bson:"closed_by"`
}

type ViolationRecord struct {
	ID        int64    `json:"id"         bson:"-"`
	GuildID   string   `json:"guild_id"   bson:"guild_id"`
	ChannelID string   `json:"channel_id" bson:"channel_id"`
	UserID    string   `json:"user_id"    bson:"user_id"`
	English   []string `json:"english"    bson:"english"`
	Hinglish  []string `json:"hinglish"   bson:"hinglish"`
	Content   string   `json:"content"    bson:"content"`
	Timestamp string   `json:"timestamp"  bson:"timestamp"`
}

// InitArchive opens the configured backend. The caller owns the returned
// handle; a nil Archive (after a failed init) simply disables archiving.
func InitArchive(cfg *config.DatabaseConfig) (Archive, error) {
	switch cfg.Driver {
	case "sqlite":
		db := &SQLiteArchive{Path: cfg.SQLite.Path}
		if err := db.Init(); err != nil {
			return nil, err
		}
		return db, nil

	case "mongodb":
		db := &MongoArchive{URI: cfg.MongoDB.URI, DBName: cfg.MongoDB.Database}
		if err := db.Init(); err != nil {
			return nil, err
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported database driver: %s (use \"sqlite\" or \"mongodb\")", cfg.Driver)
	}
}
