package handlers

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"guardian-bot/lang"
	"guardian-bot/storage"

	"github.com/bwmarrin/discordgo"
)

const (
	selectCustomID     = "ticket_type_select"
	closePrefix        = "ticket_close"
	reopenPrefix       = "ticket_reopen"
	deleteCustomID     = "ticket_delete"
	transcriptCustomID = "ticket_transcript"

	deleteCountdown = 5 * time.Second

	// Chunks ship inside ``` fences; the fence characters count against
	// the message length limit.
	transcriptChunkSize = maxMessageLen - 6
)

// isStaff reports whether perms carries the message-management privilege
// that gates reopen, delete and transcript.
func isStaff(perms int64) bool {
	return perms&(discordgo.PermissionManageMessages|discordgo.PermissionAdministrator) != 0
}

// canCloseTicket reports whether userID may close a ticket owned by owner.
// The owner may close their own ticket; staff may close any ticket,
// including one whose control carries no owner binding.
func canCloseTicket(owner, userID string, perms int64) bool {
	if owner != "" && userID == owner {
		return true
	}
	return isStaff(perms)
}

type ticketType struct {
	Value string
	Label string
	Emoji string
}

var ticketTypes = []ticketType{
	{"partnership", "Partnership", "🤝"},
	{"support", "Support", "🛠️"},
	{"bug", "Bug Report", "🐛"},
	{"issue", "Have Issue", "❓"},
	{"giveaway", "Won Giveaway", "🎉"},
	{"report", "Report Player", "🚨"},
}

func ticketTypeLabel(value string) string {
	for _, t := range ticketTypes {
		if t.Value == value {
			return t.Label
		}
	}
	return strings.ToUpper(value[:1]) + value[1:]
}

func isTicketChannelName(name string) bool {
	if strings.Contains(name, "ticket") {
		return true
	}
	for _, t := range ticketTypes {
		if strings.Contains(name, t.Value) {
			return true
		}
	}
	return false
}

// The owner's ID rides in the close/reopen CustomID so the binding survives
// process restarts. A control with no owner segment has an unknown owner and
// only staff may act on it.
func closeCustomID(owner string) string {
	if owner == "" {
		return closePrefix
	}
	return closePrefix + ":" + owner
}

func reopenCustomID(owner string) string {
	if owner == "" {
		return reopenPrefix
	}
	return reopenPrefix + ":" + owner
}

func ownerFromCustomID(customID string) string {
	if _, owner, ok := strings.Cut(customID, ":"); ok {
		return owner
	}
	return ""
}

func closeButtonRow(owner string, disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label: "Close Ticket", Style: discordgo.DangerButton,
					Disabled: disabled,
					CustomID: closeCustomID(owner),
					Emoji:    &discordgo.ComponentEmoji{Name: "🔒"},
				},
			},
		},
	}
}

func optionsRow(owner string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label: "Reopen", Style: discordgo.SuccessButton,
					CustomID: reopenCustomID(owner),
					Emoji:    &discordgo.ComponentEmoji{Name: "🔓"},
				},
				discordgo.Button{
					Label: "Delete", Style: discordgo.DangerButton,
					CustomID: deleteCustomID,
					Emoji:    &discordgo.ComponentEmoji{Name: "🗑️"},
				},
				discordgo.Button{
					Label: "Transcript", Style: discordgo.PrimaryButton,
					CustomID: transcriptCustomID,
					Emoji:    &discordgo.ComponentEmoji{Name: "📝"},
				},
			},
		},
	}
}

func (h *Handler) handleTicketTypeSelect(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	if len(data.Values) == 0 {
		return
	}
	h.createTicket(s, i, data.Values[0])
}

func (h *Handler) createTicket(s *discordgo.Session, i *discordgo.InteractionCreate, typ string) {
	h.server.RLock()
	catID := h.server.TicketCategoryID
	staffRole := h.server.StaffRoleID
	h.server.RUnlock()

	if catID == "" {
		respond(s, i, lang.T("ticket_no_category"), true)
		return
	}
	if _, err := s.Channel(catID); err != nil {
		respond(s, i, lang.T("ticket_no_category"), true)
		return
	}

	userID := i.Member.User.ID
	num := h.server.NextTicketNumber(typ)
	channelName := fmt.Sprintf("%s-%d", typ, num)

	overwrites := []*discordgo.PermissionOverwrite{
		{ID: i.GuildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
		{
			ID:    userID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory,
		},
		{
			ID:    s.State.User.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory,
		},
	}
	staffMention := ""
	if staffRole != "" {
		staffMention = "<@&" + staffRole + ">"
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    staffRole,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory | discordgo.PermissionManageMessages,
		})
	}

	ch, err := s.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:                 channelName,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             catID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		respond(s, i, fmt.Sprintf("Failed to create ticket channel: %v", err), true)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s Ticket #%d", ticketTypeLabel(typ), num),
		Description: lang.T("ticket_intro", "user", "<@"+userID+">", "staff", staffMention),
		Color:       0x3498DB,
		Footer:      &discordgo.MessageEmbedFooter{Text: lang.T("ticket_intro_footer")},
	}
	if typ == "report" {
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Player Report", Value: lang.T("ticket_report_prompt")},
		}
	} else {
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Important", Value: lang.T("ticket_info_prompt")},
		}
	}

	_, _ = s.ChannelMessageSendComplex(ch.ID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: closeButtonRow(userID, false),
	})
	if staffMention != "" {
		_, _ = s.ChannelMessageSend(ch.ID, lang.T("ticket_staff_ping", "staff", staffMention))
	}

	respond(s, i, lang.T("ticket_created", "channel", "<#"+ch.ID+">"), true)

	h.logTicketCreated(s, i.GuildID, userID, typ, ch.ID)

	if h.archive != nil {
		if err := h.archive.RecordTicket(storage.TicketRecord{
			GuildID:   i.GuildID,
			ChannelID: ch.ID,
			UserID:    userID,
			Type:      typ,
			Number:    num,
			Status:    storage.TicketOpen,
			OpenedAt:  time.Now().Format(time.RFC3339),
		}); err != nil {
			log.Printf("[tickets] Failed to archive ticket %s: %v", channelName, err)
		}
	}
	h.events.Publish("ticket.created", map[string]any{
		"guild_id":   i.GuildID,
		"channel_id": ch.ID,
		"user_id":    userID,
		"type":       typ,
		"number":     num,
	})
}

func (h *Handler) logTicketCreated(s *discordgo.Session, guildID, userID, typ, channelID string) {
	h.server.RLock()
	logCh := h.server.LogChannelID
	h.server.RUnlock()
	if logCh == "" {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Ticket Created",
		Description: fmt.Sprintf("**User:** <@%s>\n**Type:** %s\n**Channel:** <#%s>", userID, typ, channelID),
		Color:       0x57F287,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if _, err := s.ChannelMessageSendEmbed(logCh, embed); err != nil {
		log.Printf("[tickets] Log channel unavailable: %v", err)
	}
}

func (h *Handler) handleTicketClose(s *discordgo.Session, i *discordgo.InteractionCreate, owner string) {
	member := i.Member
	if !canCloseTicket(owner, member.User.ID, member.Permissions) {
		respond(s, i, lang.T("ticket_close_denied"), true)
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    lang.T("ticket_closed_prompt"),
			Components: optionsRow(owner),
		},
	})
	if err != nil {
		log.Printf("[tickets] Failed to respond to close: %v", err)
		return
	}

	// Disable the close control on the message that carried it.
	disabled := closeButtonRow(owner, true)
	if _, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    i.ChannelID,
		ID:         i.Message.ID,
		Components: &disabled,
	}); err != nil {
		log.Printf("[tickets] Failed to disable close button: %v", err)
	}

	if h.archive != nil {
		_ = h.archive.UpdateTicketStatus(i.ChannelID, storage.TicketClosed, member.User.ID)
	}
	h.events.Publish("ticket.closed", map[string]any{
		"guild_id":   i.GuildID,
		"channel_id": i.ChannelID,
		"closed_by":  member.User.ID,
	})
}

func (h *Handler) handleTicketReopen(s *discordgo.Session, i *discordgo.InteractionCreate, owner string) {
	if !isStaff(i.Member.Permissions) {
		respond(s, i, lang.T("ticket_reopen_denied"), true)
		return
	}

	// Restore the close control on the introductory message, located by
	// history scan. The options message itself still carries components, so
	// skip it.
	if target := findComponentMessage(s, i.ChannelID, i.Message.ID); target != nil {
		enabled := closeButtonRow(owner, false)
		if _, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel:    i.ChannelID,
			ID:         target.ID,
			Components: &enabled,
		}); err != nil {
			log.Printf("[tickets] Failed to restore close button: %v", err)
		}
	} else {
		log.Printf("[tickets] No close control found to restore in %s", i.ChannelID)
	}

	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    lang.T("ticket_reopened"),
			Components: []discordgo.MessageComponent{},
		},
	})

	if h.archive != nil {
		_ = h.archive.UpdateTicketStatus(i.ChannelID, storage.TicketOpen, i.Member.User.ID)
	}
	h.events.Publish("ticket.reopened", map[string]any{
		"guild_id":   i.GuildID,
		"channel_id": i.ChannelID,
		"actor_id":   i.Member.User.ID,
	})
}

func (h *Handler) handleTicketDelete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !isStaff(i.Member.Permissions) {
		respond(s, i, lang.T("ticket_delete_denied"), true)
		return
	}

	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    lang.T("ticket_deleting"),
			Components: []discordgo.MessageComponent{},
		},
	})

	if h.archive != nil {
		_ = h.archive.UpdateTicketStatus(i.ChannelID, storage.TicketDeleted, i.Member.User.ID)
	}
	h.events.Publish("ticket.deleted", map[string]any{
		"guild_id":   i.GuildID,
		"channel_id": i.ChannelID,
		"actor_id":   i.Member.User.ID,
	})

	// No cancel path: once the countdown starts the channel is gone.
	time.Sleep(deleteCountdown)
	if _, err := s.ChannelDelete(i.ChannelID); err != nil {
		log.Printf("[tickets] Failed to delete channel %s: %v", i.ChannelID, err)
	}
}

func (h *Handler) handleTicketTranscript(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !isStaff(i.Member.Permissions) {
		respond(s, i, lang.T("transcript_denied"), true)
		return
	}

	respond(s, i, lang.T("transcript_creating"), true)

	h.server.RLock()
	destID := h.server.TranscriptChannelID
	h.server.RUnlock()
	if destID == "" {
		followup(s, i, lang.T("transcript_channel_gone"))
		return
	}
	if _, err := s.Channel(destID); err != nil {
		followup(s, i, lang.T("transcript_channel_gone"))
		return
	}

	channelName := i.ChannelID
	createdAt := snowflakeTime(i.ChannelID)
	if ch, err := s.Channel(i.ChannelID); err == nil {
		channelName = ch.Name
	}

	doc := renderTranscript(channelName, createdAt, fetchChannelHistory(s, i.ChannelID))
	for _, chunk := range chunkString(doc, transcriptChunkSize) {
		if _, err := s.ChannelMessageSend(destID, "```"+chunk+"```"); err != nil {
			log.Printf("[tickets] Failed to send transcript chunk: %v", err)
			followup(s, i, lang.T("transcript_channel_gone"))
			return
		}
	}

	followup(s, i, lang.T("transcript_saved"))
}

// handleCloseCommand closes the current channel's ticket from chat. The
// close control's owner (if any) is read back out of the message so the
// follow-up options keep the binding.
func (h *Handler) handleCloseCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	if !h.hasChannelPermission(s, m.Author.ID, m.ChannelID, discordgo.PermissionManageMessages) {
		h.reply(s, m.ChannelID, lang.T("no_permission"))
		return
	}

	ch, err := s.Channel(m.ChannelID)
	if err != nil || !isTicketChannelName(ch.Name) {
		h.reply(s, m.ChannelID, lang.T("ticket_not_a_ticket"))
		return
	}

	target := findComponentMessage(s, m.ChannelID, "")
	if target == nil {
		h.reply(s, m.ChannelID, lang.T("ticket_no_close_button"))
		return
	}
	owner := ownerFromMessage(target)

	disabled := closeButtonRow(owner, true)
	if _, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    m.ChannelID,
		ID:         target.ID,
		Components: &disabled,
	}); err != nil {
		log.Printf("[tickets] Failed to disable close button: %v", err)
	}

	_, _ = s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Content:    lang.T("ticket_closed_prompt"),
		Components: optionsRow(owner),
	})

	if h.archive != nil {
		_ = h.archive.UpdateTicketStatus(m.ChannelID, storage.TicketClosed, m.Author.ID)
	}
	h.events.Publish("ticket.closed", map[string]any{
		"guild_id":   m.GuildID,
		"channel_id": m.ChannelID,
		"closed_by":  m.Author.ID,
	})
}

// findComponentMessage returns the most recent message in the channel that
// carries interactive components, skipping skipID. The scan is capped at
// historyScanLimit messages.
func findComponentMessage(s *discordgo.Session, channelID, skipID string) *discordgo.Message {
	msgs, err := s.ChannelMessages(channelID, historyScanLimit, "", "", "")
	if err != nil {
		log.Printf("[tickets] Failed to scan history in %s: %v", channelID, err)
		return nil
	}
	for _, m := range msgs {
		if m.ID == skipID {
			continue
		}
		if len(m.Components) > 0 {
			return m
		}
	}
	return nil
}

// ownerFromMessage digs the owner ID out of a close control on the message.
// Resurrected controls without an owner segment yield "".
func ownerFromMessage(m *discordgo.Message) string {
	for _, c := range m.Components {
		var row *discordgo.ActionsRow
		switch v := c.(type) {
		case *discordgo.ActionsRow:
			row = v
		case discordgo.ActionsRow:
			row = &v
		default:
			continue
		}
		for _, inner := range row.Components {
			var btn *discordgo.Button
			switch b := inner.(type) {
			case *discordgo.Button:
				btn = b
			case discordgo.Button:
				btn = &b
			default:
				continue
			}
			if strings.HasPrefix(btn.CustomID, closePrefix) {
				return ownerFromCustomID(btn.CustomID)
			}
		}
	}
	return ""
}

// fetchChannelHistory pages through the channel's entire history and
// returns it oldest-first.
func fetchChannelHistory(s *discordgo.Session, channelID string) []*discordgo.Message {
	var all []*discordgo.Message
	beforeID := ""
	for {
		batch, err := s.ChannelMessages(channelID, 100, beforeID, "", "")
		if err != nil {
			log.Printf("[tickets] Failed to fetch history in %s: %v", channelID, err)
			break
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		beforeID = batch[len(batch)-1].ID
		if len(batch) < 100 {
			break
		}
	}
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all
}

func renderTranscript(channelName string, createdAt time.Time, msgs []*discordgo.Message) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Transcript for %s\nCreated: %s\n\n", channelName, createdAt.Format("2006-01-02 15:04:05"))

	for _, m := range msgs {
		author := "unknown"
		if m.Author != nil {
			author = m.Author.Username
		}
		fmt.Fprintf(&sb, "%s - %s: %s\n", m.Timestamp.Format("2006-01-02 15:04:05"), author, m.Content)
		if len(m.Attachments) > 0 {
			urls := make([]string, len(m.Attachments))
			for idx, a := range m.Attachments {
				urls[idx] = a.URL
			}
			fmt.Fprintf(&sb, "Attachments: %s\n", strings.Join(urls, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func snowflakeTime(id string) time.Time {
	n, _ := strconv.ParseInt(id, 10, 64)
	ms := (n >> 22) + 1420070400000
	return time.Unix(ms/1000, (ms%1000)*1e6)
}
