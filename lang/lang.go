package lang

import (
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	mu       sync.RWMutex
	messages map[string]string
)

// defaults are the built-in reply texts. A lang file overrides them per key.
var defaults = map[string]string{
	"filter_warning":   "{user}, please avoid using inappropriate language in this server.",
	"filter_log_title": "Language Violation",

	"ticket_panel_title": "Support Tickets",
	"ticket_panel_body": "**Need Help? Please Read Carefully**\n\n" +
		"- Click the option that best matches the type of support you need.\n" +
		"- Provide a clear and detailed description of your issue.\n" +
		"- Missing or vague information may cause delays.\n" +
		"- Include any relevant details like error messages or steps to reproduce.\n" +
		"- Repeated spam or unnecessary pinging of staff may lead to a timeout.\n\n" +
		"**Thank you for helping us help you!**",

	"ticket_created":       "Ticket created: {channel}",
	"ticket_no_category":   "Ticket category not configured. Please contact an admin.",
	"ticket_intro":         "Hello {user}! A staff member will be with you shortly.\n\n**Staff will be notified:** {staff}",
	"ticket_intro_footer":  "Staff will be with you shortly.",
	"ticket_staff_ping":    "{staff} New ticket created!",
	"ticket_report_prompt": "Please provide:\n- Player's username\n- What they did\n- When it happened\n- Any evidence (screenshots/videos)",
	"ticket_info_prompt":   "Please provide all relevant information to help us assist you faster.",

	"ticket_close_denied":      "Only the ticket owner or staff can close this ticket.",
	"ticket_closed_prompt":     "Ticket closed. What would you like to do?",
	"ticket_reopen_denied":     "Only staff can reopen tickets.",
	"ticket_reopened":          "Ticket reopened!",
	"ticket_delete_denied":     "Only staff can delete tickets.",
	"ticket_deleting":          "Deleting ticket in 5 seconds...",
	"transcript_denied":        "Only staff can save transcripts.",
	"transcript_creating":      "Creating transcript...",
	"transcript_saved":         "Transcript saved!",
	"transcript_channel_gone":  "Transcript channel not found!",
	"ticket_not_a_ticket":      "This is not a ticket channel.",
	"ticket_no_close_button":   "Close button not found in this ticket.",

	"words_invalid_language": "Language must be 'english' or 'hinglish'",
	"words_added":            "Added '{word}' to {language} bad words list.",
	"words_exists":           "'{word}' is already in the {language} bad words list.",
	"words_removed":          "Removed '{word}' from {language} bad words list.",
	"words_missing":          "'{word}' is not in the {language} bad words list.",
	"words_none":             "No {language} bad words configured.",

	"staff_role_set":         "Staff role set to {role}",
	"log_channel_set":        "Log channel set to {channel}",
	"ticket_category_set":    "Ticket category set to {category}",
	"transcript_channel_set": "Transcript channel set to {channel}",
	"not_a_category":         "That channel is not a category.",
	"no_permission":          "You don't have permission to use this command.",
}

// Load reads the message catalogue from path and overlays it on the
// defaults. A missing file just means defaults; a malformed one is fatal.
func Load(path string) {
	m := make(map[string]string, len(defaults))
	for k, v := range defaults {
		m[k] = v
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[lang] Could not read %s: %v, using built-in messages", path, err)
	} else {
		var raw map[string]string
		if err := yaml.Unmarshal(data, &raw); err != nil {
			log.Fatalf("[lang] Failed to parse %s: %v", path, err)
		}
		for k, v := range raw {
			m[k] = v
		}
		log.Printf("[lang] Loaded %s (%d overrides)", path, len(raw))
	}

	mu.Lock()
	messages = m
	mu.Unlock()
}

// T returns the message for key with {placeholder} substitution applied
// from pairs of (name, value). Unknown keys come back braced so they are
// easy to spot in chat.
func T(key string, pairs ...string) string {
	mu.RLock()
	s, ok := messages[key]
	mu.RUnlock()

	if !ok {
		if s, ok = defaults[key]; !ok {
			return "{" + key + "}"
		}
	}

	for j := 0; j+1 < len(pairs); j += 2 {
		s = strings.ReplaceAll(s, "{"+pairs[j]+"}", pairs[j+1])
	}
	return s
}
