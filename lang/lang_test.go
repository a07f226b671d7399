package lang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTDefaults(t *testing.T) {
	require.Equal(t, "Only staff can reopen tickets.", T("ticket_reopen_denied"))
	require.Equal(t, "That channel is not a category.", T("not_a_category"))
}

func TestTSubstitution(t *testing.T) {
	got := T("filter_warning", "user", "<@123>")
	require.Equal(t, "<@123>, please avoid using inappropriate language in this server.", got)

	got = T("words_added", "word", "foo", "language", "english")
	require.Equal(t, "Added 'foo' to english bad words list.", got)
}

func TestTUnknownKey(t *testing.T) {
	require.Equal(t, "{no_such_key}", T("no_such_key"))
}

func TestTOddPairsIgnoresDangler(t *testing.T) {
	got := T("words_added", "word", "foo", "language")
	require.Equal(t, "Added 'foo' to {language} bad words list.", got)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lang.yml")
	data := "ticket_reopened: \"Back in business!\"\ncustom_key: \"hi {name}\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	Load(path)
	t.Cleanup(func() { Load(filepath.Join(t.TempDir(), "missing.yml")) })

	require.Equal(t, "Back in business!", T("ticket_reopened"))
	require.Equal(t, "hi bob", T("custom_key", "name", "bob"))

	// Keys the file does not mention keep their defaults.
	require.Equal(t, "Only staff can delete tickets.", T("ticket_delete_denied"))
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Equal(t, "Ticket reopened!", T("ticket_reopened"))
}
