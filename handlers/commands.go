package handlers

import (
	"log"
	"strings"

	"guardian-bot/config"
	"guardian-bot/events"
	"guardian-bot/filter"
	"guardian-bot/storage"

	"github.com/bwmarrin/discordgo"
)

const (
	maxMessageLen    = 2000
	historyScanLimit = 100
)

// Handler owns the stores and wires Discord events to them. All mutable
// state lives behind the store handles; nothing here is package-global.
type Handler struct {
	cfg     *config.Config
	server  *config.ServerConfig
	words   *filter.WordListStore
	filter  *filter.Filter
	archive storage.Archive
	events  *events.Publisher
}

func New(cfg *config.Config, server *config.ServerConfig, words *filter.WordListStore, f *filter.Filter, archive storage.Archive, pub *events.Publisher) *Handler {
	return &Handler{
		cfg:     cfg,
		server:  server,
		words:   words,
		filter:  f,
		archive: archive,
		events:  pub,
	}
}

func (h *Handler) Register(s *discordgo.Session) {
	s.AddHandler(h.onMessageCreate)
	s.AddHandler(h.onInteractionCreate)
}

func (h *Handler) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	// Filter first, then commands. Always both: a message that trips the
	// filter can still invoke a command.
	h.checkMessage(s, m)
	h.dispatchCommand(s, m)
}

func (h *Handler) dispatchCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	prefix := h.cfg.Discord.Prefix
	if !strings.HasPrefix(m.Content, prefix) {
		return
	}
	fields := strings.Fields(strings.TrimPrefix(m.Content, prefix))
	if len(fields) == 0 {
		return
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "setup_tickets":
		h.handleSetupTickets(s, m)
	case "set_staff_role":
		h.handleSetStaffRole(s, m, args)
	case "set_log_channel":
		h.handleSetLogChannel(s, m, args)
	case "set_ticket_category":
		h.handleSetTicketCategory(s, m, args)
	case "set_transcript_channel":
		h.handleSetTranscriptChannel(s, m, args)
	case "close":
		h.handleCloseCommand(s, m)
	case "add_bad_word":
		h.handleAddBadWord(s, m, args)
	case "remove_bad_word":
		h.handleRemoveBadWord(s, m, args)
	case "list_bad_words":
		h.handleListBadWords(s, m, args)
	}
}

func (h *Handler) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" || i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case customID == selectCustomID:
		h.handleTicketTypeSelect(s, i)
	case strings.HasPrefix(customID, closePrefix):
		h.handleTicketClose(s, i, ownerFromCustomID(customID))
	case strings.HasPrefix(customID, reopenPrefix):
		h.handleTicketReopen(s, i, ownerFromCustomID(customID))
	case customID == deleteCustomID:
		h.handleTicketDelete(s, i)
	case customID == transcriptCustomID:
		h.handleTicketTranscript(s, i)
	default:
		log.Printf("[commands] Unknown component: %s", customID)
	}
}

func (h *Handler) reply(s *discordgo.Session, channelID, content string) {
	if _, err := s.ChannelMessageSend(channelID, content); err != nil {
		log.Printf("[commands] Failed to reply in %s: %v", channelID, err)
	}
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   flags,
		},
	})
	if err != nil {
		log.Printf("[commands] Failed to respond: %v", err)
	}
}

func followup(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, _ = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

// hasChannelPermission resolves the member's effective permissions in the
// channel. Administrators pass every check.
func (h *Handler) hasChannelPermission(s *discordgo.Session, userID, channelID string, perm int64) bool {
	perms, err := s.UserChannelPermissions(userID, channelID)
	if err != nil {
		log.Printf("[commands] Failed to resolve permissions for %s: %v", userID, err)
		return false
	}
	return perms&(perm|discordgo.PermissionAdministrator) != 0
}

func parseRoleArg(arg string) string {
	arg = strings.TrimSuffix(strings.TrimPrefix(arg, "<@&"), ">")
	if isSnowflake(arg) {
		return arg
	}
	return ""
}

func parseChannelArg(arg string) string {
	arg = strings.TrimSuffix(strings.TrimPrefix(arg, "<#"), ">")
	if isSnowflake(arg) {
		return arg
	}
	return ""
}

func isSnowflake(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// chunkString splits s into pieces of at most size runes, in order.
// Concatenating the pieces restores s.
func chunkString(s string, size int) []string {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	var chunks []string
	for len(runes) > size {
		chunks = append(chunks, string(runes[:size]))
		runes = runes[size:]
	}
	return append(chunks, string(runes))
}
