package handlers

import (
	"errors"
	"fmt"
	"strings"

	"guardian-bot/filter"
	"guardian-bot/lang"

	"github.com/bwmarrin/discordgo"
)

func (h *Handler) handleAddBadWord(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if !h.hasChannelPermission(s, m.Author.ID, m.ChannelID, discordgo.PermissionManageMessages) {
		h.reply(s, m.ChannelID, lang.T("no_permission"))
		return
	}
	if len(args) < 2 {
		h.reply(s, m.ChannelID, "Usage: "+h.cfg.Discord.Prefix+"add_bad_word <language> <word>")
		return
	}
	language := strings.ToLower(args[0])
	if !filter.Valid(language) {
		h.reply(s, m.ChannelID, lang.T("words_invalid_language"))
		return
	}
	word := strings.ToLower(strings.Join(args[1:], " "))

	err := h.words.Add(language, word)
	switch {
	case errors.Is(err, filter.ErrWordExists):
		h.reply(s, m.ChannelID, lang.T("words_exists", "word", word, "language", language))
	case err != nil:
		h.reply(s, m.ChannelID, fmt.Sprintf("Failed to add word: %v", err))
	default:
		h.reply(s, m.ChannelID, lang.T("words_added", "word", word, "language", language))
	}
}

func (h *Handler) handleRemoveBadWord(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if !h.hasChannelPermission(s, m.Author.ID, m.ChannelID, discordgo.PermissionManageMessages) {
		h.reply(s, m.ChannelID, lang.T("no_permission"))
		return
	}
	if len(args) < 2 {
		h.reply(s, m.ChannelID, "Usage: "+h.cfg.Discord.Prefix+"remove_bad_word <language> <word>")
		return
	}
	language := strings.ToLower(args[0])
	if !filter.Valid(language) {
		h.reply(s, m.ChannelID, lang.T("words_invalid_language"))
		return
	}
	word := strings.ToLower(strings.Join(args[1:], " "))

	err := h.words.Remove(language, word)
	switch {
	case errors.Is(err, filter.ErrWordNotFound):
		h.reply(s, m.ChannelID, lang.T("words_missing", "word", word, "language", language))
	case err != nil:
		h.reply(s, m.ChannelID, fmt.Sprintf("Failed to remove word: %v", err))
	default:
		h.reply(s, m.ChannelID, lang.T("words_removed", "word", word, "language", language))
	}
}

func (h *Handler) handleListBadWords(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if !h.hasChannelPermission(s, m.Author.ID, m.ChannelID, discordgo.PermissionManageMessages) {
		h.reply(s, m.ChannelID, lang.T("no_permission"))
		return
	}

	var only string
	if len(args) > 0 {
		only = strings.ToLower(args[0])
		if !filter.Valid(only) {
			h.reply(s, m.ChannelID, lang.T("words_invalid_language"))
			return
		}
	}

	var sb strings.Builder
	for _, name := range filter.ListNames {
		if only != "" && name != only {
			continue
		}
		words := h.words.Words(name)
		if len(words) == 0 {
			sb.WriteString(lang.T("words_none", "language", capitalize(name)))
			sb.WriteString("\n")
			continue
		}
		fmt.Fprintf(&sb, "**%s bad words (%d):**\n%s\n\n", capitalize(name), len(words), strings.Join(words, ", "))
	}

	for _, chunk := range chunkString(strings.TrimRight(sb.String(), "\n"), maxMessageLen) {
		h.reply(s, m.ChannelID, chunk)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
