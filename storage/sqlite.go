package storage

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

type SQLiteArchive struct {
	Path string
	db   *sql.DB
}

func (s *SQLiteArchive) Init() error {
	_ = os.MkdirAll(filepath.Dir(s.Path), 0755)

	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return fmt.Errorf("sqlite open: %w", err)
	}
	s.db = db

	schema := `
	CREATE TABLE IF NOT EXISTS tickets (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id    TEXT NOT NULL,
		channel_id  TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		type        TEXT NOT NULL,
		number      INTEGER NOT NULL,
		status      TEXT NOT NULL,
		opened_at   TEXT NOT NULL,
		closed_at   TEXT NOT NULL DEFAULT '',
		closed_by   TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_tickets_guild ON tickets(guild_id);
	CREATE INDEX IF NOT EXISTS idx_tickets_channel ON tickets(channel_id);

	CREATE TABLE IF NOT EXISTS violations (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id    TEXT NOT NULL,
		channel_id  TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		english     TEXT NOT NULL DEFAULT '',
		hinglish    TEXT NOT NULL DEFAULT '',
		content     TEXT NOT NULL,
		timestamp   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_violations_guild ON violations(guild_id);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite schema: %w", err)
	}
	log.Printf("[db] SQLite archive initialised at %s", s.Path)
	return nil
}

func (s *SQLiteArchive) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteArchive) RecordTicket(t TicketRecord) error {
	_, err := s.db.Exec(
		"INSERT INTO tickets (guild_id, channel_id, user_id, type, number, status, opened_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		t.GuildID, t.ChannelID, t.UserID, t.Type, t.Number, t.Status, t.OpenedAt,
	)
	return err
}

func (s *SQLiteArchive) UpdateTicketStatus(channelID, status, actorID string) error {
	// A ticket going back to open carries no close metadata.
	if status == TicketOpen {
		_, err := s.db.Exec(
			"UPDATE tickets SET status = ?, closed_by = '', closed_at = '' WHERE channel_id = ?",
			status, channelID,
		)
		return err
	}
	_, err := s.db.Exec(
		"UPDATE tickets SET status = ?, closed_by = ?, closed_at = datetime('now') WHERE channel_id = ?",
		status, actorID, channelID,
	)
	return err
}

func (s *SQLiteArchive) Tickets(guildID string, limit int) ([]TicketRecord, error) {
	rows, err := s.db.Query(
		"SELECT id, guild_id, channel_id, user_id, type, number, status, opened_at, closed_at, closed_by FROM tickets WHERE guild_id = ? ORDER BY id DESC LIMIT ?",
		guildID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []TicketRecord
	for rows.Next() {
		var t TicketRecord
		if err := rows.Scan(&t.ID, &t.GuildID, &t.ChannelID, &t.UserID, &t.Type, &t.Number, &t.Status, &t.OpenedAt, &t.ClosedAt, &t.ClosedBy); err != nil {
			continue
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (s *SQLiteArchive) RecordViolation(v ViolationRecord) error {
	_, err := s.db.Exec(
		"INSERT INTO violations (guild_id, channel_id, user_id, english, hinglish, content, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)",
		v.GuildID, v.ChannelID, v.UserID, joinWords(v.English), joinWords(v.Hinglish), v.Content, v.Timestamp,
	)
	return err
}

func (s *SQLiteArchive) RecentViolations(guildID string, limit int) ([]ViolationRecord, error) {
	rows, err := s.db.Query(
		"SELECT id, guild_id, channel_id, user_id, english, hinglish, content, timestamp FROM violations WHERE guild_id = ? ORDER BY id DESC LIMIT ?",
		guildID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var violations []ViolationRecord
	for rows.Next() {
		var v ViolationRecord
		var english, hinglish string
		if err := rows.Scan(&v.ID, &v.GuildID, &v.ChannelID, &v.UserID, &english, &hinglish, &v.Content, &v.Timestamp); err != nil {
			continue
		}
		v.English = splitWords(english)
		v.Hinglish = splitWords(hinglish)
		violations = append(violations, v)
	}
	return violations, rows.Err()
}

func joinWords(words []string) string {
	return strings.Join(words, ",")
}

func splitWords(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
