package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))

	require.Equal(t, "!", cfg.Discord.Prefix)
	require.Equal(t, "data", cfg.DataDir)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 10, cfg.Filter.WarnSeconds)
}

func TestLoadServerConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.json")

	sc := LoadServerConfig(path)
	require.NotNil(t, sc.TicketCounters)

	// Defaults must be written out immediately.
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestNextTicketNumber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.json")
	sc := LoadServerConfig(path)

	require.Equal(t, 1, sc.NextTicketNumber("support"))
	require.Equal(t, 2, sc.NextTicketNumber("support"))

	// Counters are independent per type.
	require.Equal(t, 1, sc.NextTicketNumber("bug"))
	require.Equal(t, 3, sc.NextTicketNumber("support"))

	// Counters survive a reload.
	reloaded := LoadServerConfig(path)
	require.Equal(t, 4, reloaded.NextTicketNumber("support"))
	require.Equal(t, 2, reloaded.NextTicketNumber("bug"))
	require.Equal(t, 1, reloaded.NextTicketNumber("partnership"))
}

func TestServerConfigSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.json")
	sc := LoadServerConfig(path)

	sc.Lock()
	sc.StaffRoleID = "123"
	sc.LogChannelID = "456"
	sc.TranscriptChannelID = "789"
	sc.Unlock()
	require.NoError(t, sc.Save())

	reloaded := LoadServerConfig(path)
	require.Equal(t, "123", reloaded.StaffRoleID)
	require.Equal(t, "456", reloaded.LogChannelID)
	require.Equal(t, "789", reloaded.TranscriptChannelID)
}
