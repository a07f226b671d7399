package handlers

import (
	"log"

	"guardian-bot/lang"

	"github.com/bwmarrin/discordgo"
)

// handleSetupTickets posts the ticket panel (embed plus type select menu)
// in the invoking channel, records it as the support channel, and removes
// the invoking message.
func (h *Handler) handleSetupTickets(s *discordgo.Session, m *discordgo.MessageCreate) {
	if !h.hasChannelPermission(s, m.Author.ID, m.ChannelID, discordgo.PermissionAdministrator) {
		h.reply(s, m.ChannelID, lang.T("no_permission"))
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       lang.T("ticket_panel_title"),
		Description: lang.T("ticket_panel_body"),
		Color:       0x3498DB,
	}

	opts := make([]discordgo.SelectMenuOption, 0, len(ticketTypes))
	for _, t := range ticketTypes {
		opts = append(opts, discordgo.SelectMenuOption{
			Label: t.Label,
			Value: t.Value,
			Emoji: &discordgo.ComponentEmoji{Name: t.Emoji},
		})
	}

	_, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						MenuType:    discordgo.StringSelectMenu,
						CustomID:    selectCustomID,
						Placeholder: "Select ticket type",
						Options:     opts,
					},
				},
			},
		},
	})
	if err != nil {
		log.Printf("[admin] Failed to post ticket panel: %v", err)
		return
	}

	h.server.Lock()
	h.server.SupportChannelID = m.ChannelID
	h.server.Unlock()
	_ = h.server.Save()

	_ = s.ChannelMessageDelete(m.ChannelID, m.ID)
}

func (h *Handler) handleSetStaffRole(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if !h.hasChannelPermission(s, m.Author.ID, m.ChannelID, discordgo.PermissionAdministrator) {
		h.reply(s, m.ChannelID, lang.T("no_permission"))
		return
	}
	if len(args) < 1 {
		h.reply(s, m.ChannelID, "Usage: "+h.cfg.Discord.Prefix+"set_staff_role <@role>")
		return
	}
	roleID := parseRoleArg(args[0])
	if roleID == "" || !roleExists(s, m.GuildID, roleID) {
		h.reply(s, m.ChannelID, "Usage: "+h.cfg.Discord.Prefix+"set_staff_role <@role>")
		return
	}

	h.server.Lock()
	h.server.StaffRoleID = roleID
	h.server.Unlock()
	_ = h.server.Save()

	h.reply(s, m.ChannelID, lang.T("staff_role_set", "role", "<@&"+roleID+">"))
}

func (h *Handler) handleSetLogChannel(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	channelID := h.resolveChannelArg(s, m, args, "set_log_channel")
	if channelID == "" {
		return
	}

	h.server.Lock()
	h.server.LogChannelID = channelID
	h.server.Unlock()
	_ = h.server.Save()

	h.reply(s, m.ChannelID, lang.T("log_channel_set", "channel", "<#"+channelID+">"))
}

func (h *Handler) handleSetTranscriptChannel(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	channelID := h.resolveChannelArg(s, m, args, "set_transcript_channel")
	if channelID == "" {
		return
	}

	h.server.Lock()
	h.server.TranscriptChannelID = channelID
	h.server.Unlock()
	_ = h.server.Save()

	h.reply(s, m.ChannelID, lang.T("transcript_channel_set", "channel", "<#"+channelID+">"))
}

// handleSetTicketCategory takes a raw category ID (categories have no
// mention syntax) and verifies it names a category channel.
func (h *Handler) handleSetTicketCategory(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if !h.hasChannelPermission(s, m.Author.ID, m.ChannelID, discordgo.PermissionAdministrator) {
		h.reply(s, m.ChannelID, lang.T("no_permission"))
		return
	}
	if len(args) < 1 || !isSnowflake(args[0]) {
		h.reply(s, m.ChannelID, "Usage: "+h.cfg.Discord.Prefix+"set_ticket_category <category-id>")
		return
	}

	ch, err := s.Channel(args[0])
	if err != nil || ch.Type != discordgo.ChannelTypeGuildCategory {
		h.reply(s, m.ChannelID, lang.T("not_a_category"))
		return
	}

	h.server.Lock()
	h.server.TicketCategoryID = ch.ID
	h.server.Unlock()
	_ = h.server.Save()

	h.reply(s, m.ChannelID, lang.T("ticket_category_set", "category", ch.Name))
}

// resolveChannelArg handles the shared admin-check/parse/verify steps of the
// set-channel commands. Returns "" after replying when anything fails.
func (h *Handler) resolveChannelArg(s *discordgo.Session, m *discordgo.MessageCreate, args []string, command string) string {
	if !h.hasChannelPermission(s, m.Author.ID, m.ChannelID, discordgo.PermissionAdministrator) {
		h.reply(s, m.ChannelID, lang.T("no_permission"))
		return ""
	}
	if len(args) < 1 {
		h.reply(s, m.ChannelID, "Usage: "+h.cfg.Discord.Prefix+command+" <#channel>")
		return ""
	}
	channelID := parseChannelArg(args[0])
	if channelID == "" {
		h.reply(s, m.ChannelID, "Usage: "+h.cfg.Discord.Prefix+command+" <#channel>")
		return ""
	}
	if _, err := s.Channel(channelID); err != nil {
		h.reply(s, m.ChannelID, "Usage: "+h.cfg.Discord.Prefix+command+" <#channel>")
		return ""
	}
	return channelID
}

func roleExists(s *discordgo.Session, guildID, roleID string) bool {
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		log.Printf("[admin] Failed to fetch roles: %v", err)
		return false
	}
	for _, r := range roles {
		if r.ID == roleID {
			return true
		}
	}
	return false
}
