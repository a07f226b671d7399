package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"guardian-bot/filter"
	"guardian-bot/lang"
	"guardian-bot/storage"

	"github.com/bwmarrin/discordgo"
)

// checkMessage runs the content filter over one message and performs the
// violation side effects: delete, transient warning, log entry, archive
// record, event. The decision itself lives in the filter package.
func (h *Handler) checkMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	res := h.filter.Evaluate(m.Content)
	if !res.Violation() {
		return
	}

	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		log.Printf("[filter] Failed to delete message %s: %v", m.ID, err)
	}

	warnText := lang.T("filter_warning", "user", m.Author.Mention())
	if warn, err := s.ChannelMessageSend(m.ChannelID, warnText); err == nil {
		delay := time.Duration(h.cfg.Filter.WarnSeconds) * time.Second
		channelID, warnID := m.ChannelID, warn.ID
		time.AfterFunc(delay, func() {
			_ = s.ChannelMessageDelete(channelID, warnID)
		})
	}

	h.logViolation(s, m, res)

	if h.archive != nil {
		if err := h.archive.RecordViolation(storage.ViolationRecord{
			GuildID:   m.GuildID,
			ChannelID: m.ChannelID,
			UserID:    m.Author.ID,
			English:   res.English,
			Hinglish:  res.Hinglish,
			Content:   m.Content,
			Timestamp: time.Now().Format(time.RFC3339),
		}); err != nil {
			log.Printf("[filter] Failed to archive violation: %v", err)
		}
	}
	h.events.Publish("filter.violation", map[string]any{
		"guild_id":   m.GuildID,
		"channel_id": m.ChannelID,
		"user_id":    m.Author.ID,
		"english":    res.English,
		"hinglish":   res.Hinglish,
	})
}

func (h *Handler) logViolation(s *discordgo.Session, m *discordgo.MessageCreate, res filter.Result) {
	h.server.RLock()
	logCh := h.server.LogChannelID
	h.server.RUnlock()
	if logCh == "" {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       lang.T("filter_log_title"),
		Description: fmt.Sprintf("**User:** <@%s>\n**Channel:** <#%s>", m.Author.ID, m.ChannelID),
		Color:       0xED4245,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if len(res.English) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "English Violations", Value: strings.Join(res.English, ", "),
		})
	}
	if len(res.Hinglish) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Hinglish Violations", Value: strings.Join(res.Hinglish, ", "),
		})
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Message Content", Value: "||" + m.Content + "||",
	})

	if _, err := s.ChannelMessageSendEmbed(logCh, embed); err != nil {
		log.Printf("[filter] Log channel unavailable: %v", err)
	}
}
