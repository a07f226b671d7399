package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func TestChunkString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		size   int
		chunks int
	}{
		{name: "empty", input: "", size: 2000, chunks: 0},
		{name: "short", input: "hello", size: 2000, chunks: 1},
		{name: "exact boundary", input: strings.Repeat("a", 2000), size: 2000, chunks: 1},
		{name: "one over", input: strings.Repeat("a", 2001), size: 2000, chunks: 2},
		{name: "many", input: strings.Repeat("a", 5000), size: 2000, chunks: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := chunkString(tt.input, tt.size)
			require.Len(t, chunks, tt.chunks)
			for _, c := range chunks {
				require.LessOrEqual(t, len([]rune(c)), tt.size)
			}
			require.Equal(t, tt.input, strings.Join(chunks, ""),
				"chunks must reassemble to the original document")
		})
	}
}

func TestChunkStringMultibyte(t *testing.T) {
	input := strings.Repeat("🎫", 30)
	chunks := chunkString(input, 7)
	require.Equal(t, input, strings.Join(chunks, ""))
	for _, c := range chunks {
		require.True(t, strings.HasPrefix(c, "🎫"), "chunking must not split runes")
	}
}

func TestTranscriptChunksFitFenced(t *testing.T) {
	doc := strings.Repeat("a", 3*maxMessageLen)
	chunks := chunkString(doc, transcriptChunkSize)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		require.LessOrEqual(t, len("```"+c+"```"), maxMessageLen)
	}
}

func TestCanCloseTicket(t *testing.T) {
	tests := []struct {
		name   string
		owner  string
		userID string
		perms  int64
		want   bool
	}{
		{name: "owner without privileges", owner: "42", userID: "42", want: true},
		{name: "non-owner without privileges", owner: "42", userID: "99", want: false},
		{name: "non-owner with manage messages", owner: "42", userID: "99", perms: discordgo.PermissionManageMessages, want: true},
		{name: "non-owner administrator", owner: "42", userID: "99", perms: discordgo.PermissionAdministrator, want: true},
		{name: "unknown owner without privileges", owner: "", userID: "42", want: false},
		{name: "unknown owner with manage messages", owner: "", userID: "42", perms: discordgo.PermissionManageMessages, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, canCloseTicket(tt.owner, tt.userID, tt.perms))
		})
	}
}

func TestIsStaff(t *testing.T) {
	require.False(t, isStaff(0))
	require.False(t, isStaff(discordgo.PermissionSendMessages))
	require.True(t, isStaff(discordgo.PermissionManageMessages))
	require.True(t, isStaff(discordgo.PermissionAdministrator))
}

func TestOwnerCustomIDRoundTrip(t *testing.T) {
	require.Equal(t, "ticket_close:42", closeCustomID("42"))
	require.Equal(t, "ticket_close", closeCustomID(""))
	require.Equal(t, "42", ownerFromCustomID("ticket_close:42"))
	require.Equal(t, "", ownerFromCustomID("ticket_close"),
		"resurrected control without an owner segment has unknown owner")
	require.Equal(t, "42", ownerFromCustomID(reopenCustomID("42")))
}

func TestIsTicketChannelName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"support-1", true},
		{"bug-12", true},
		{"partnership-3", true},
		{"report-1", true},
		{"giveaway-2", true},
		{"issue-9", true},
		{"my-ticket-channel", true},
		{"general", false},
		{"staff-chat", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isTicketChannelName(tt.name))
		})
	}
}

func TestOwnerFromMessage(t *testing.T) {
	msg := &discordgo.Message{
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "Close Ticket", CustomID: "ticket_close:9001"},
				},
			},
		},
	}
	require.Equal(t, "9001", ownerFromMessage(msg))

	noOwner := &discordgo.Message{
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					&discordgo.Button{Label: "Close Ticket", CustomID: "ticket_close"},
				},
			},
		},
	}
	require.Equal(t, "", ownerFromMessage(noOwner))

	require.Equal(t, "", ownerFromMessage(&discordgo.Message{}))
}

func TestRenderTranscript(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	msgs := []*discordgo.Message{
		{
			Content:   "hello",
			Author:    &discordgo.User{Username: "alice"},
			Timestamp: time.Date(2026, 3, 1, 10, 1, 2, 0, time.UTC),
		},
		{
			Content:   "here is a screenshot",
			Author:    &discordgo.User{Username: "bob"},
			Timestamp: time.Date(2026, 3, 1, 10, 2, 3, 0, time.UTC),
			Attachments: []*discordgo.MessageAttachment{
				{URL: "https://cdn.example/one.png"},
				{URL: "https://cdn.example/two.png"},
			},
		},
	}

	doc := renderTranscript("support-1", created, msgs)

	require.True(t, strings.HasPrefix(doc, "Transcript for support-1\nCreated: 2026-03-01 10:00:00\n\n"))
	require.Contains(t, doc, "2026-03-01 10:01:02 - alice: hello\n")
	require.Contains(t, doc, "2026-03-01 10:02:03 - bob: here is a screenshot\n")
	require.Contains(t, doc, "Attachments: https://cdn.example/one.png, https://cdn.example/two.png\n")

	// Oldest first.
	require.Less(t, strings.Index(doc, "alice"), strings.Index(doc, "bob"))
}

func TestParseArgs(t *testing.T) {
	require.Equal(t, "123", parseRoleArg("<@&123>"))
	require.Equal(t, "123", parseRoleArg("123"))
	require.Equal(t, "", parseRoleArg("<@!123>"))
	require.Equal(t, "", parseRoleArg("notanid"))

	require.Equal(t, "456", parseChannelArg("<#456>"))
	require.Equal(t, "456", parseChannelArg("456"))
	require.Equal(t, "", parseChannelArg("general"))
}
