package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, dir, list, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, "bad_words_"+list+".txt"), []byte(content), 0644)
	require.NoError(t, err)
}

func TestWordListStoreLoad(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, ListEnglish, "badword1\nDARN\n\n  heck  \n")

	s := NewWordListStore(dir)

	require.Equal(t, []string{"badword1", "darn", "heck"}, s.Words(ListEnglish))
	require.Empty(t, s.Words(ListHinglish), "missing file should load as empty list")
}

func TestWordListStoreContains(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, ListEnglish, "ass\nbadword1\n")
	s := NewWordListStore(dir)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain match",
			text: "this contains badword1",
			want: []string{"badword1"},
		},
		{
			name: "case insensitive",
			text: "THIS CONTAINS BADWORD1",
			want: []string{"badword1"},
		},
		{
			name: "substring inside longer word",
			text: "touch grass",
			want: []string{"ass"},
		},
		{
			name: "no match",
			text: "perfectly fine message",
			want: nil,
		},
		{
			name: "multiple matches",
			text: "badword1 in the grass",
			want: []string{"ass", "badword1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, s.Contains(ListEnglish, tt.text))
		})
	}
}

func TestWordListStoreAdd(t *testing.T) {
	dir := t.TempDir()
	s := NewWordListStore(dir)

	require.NoError(t, s.Add(ListEnglish, "Slur"))
	require.Equal(t, []string{"slur"}, s.Words(ListEnglish))

	err := s.Add(ListEnglish, "slur")
	require.ErrorIs(t, err, ErrWordExists)

	require.ErrorIs(t, s.Add("klingon", "slur"), ErrUnknownList)

	// A fresh store loaded from the same files sees the same list.
	reloaded := NewWordListStore(dir)
	require.Equal(t, s.Words(ListEnglish), reloaded.Words(ListEnglish))
}

func TestWordListStoreRemove(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, ListHinglish, "one\ntwo\nthree\n")
	s := NewWordListStore(dir)

	require.ErrorIs(t, s.Remove(ListHinglish, "missing"), ErrWordNotFound)
	require.Equal(t, []string{"one", "two", "three"}, s.Words(ListHinglish),
		"failed remove must not change the list")

	require.NoError(t, s.Remove(ListHinglish, "two"))
	require.Equal(t, []string{"one", "three"}, s.Words(ListHinglish))

	reloaded := NewWordListStore(dir)
	require.Equal(t, []string{"one", "three"}, reloaded.Words(ListHinglish),
		"remove must rewrite the backing file")
}

func TestWordListStoreAddRemoveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewWordListStore(dir)

	require.NoError(t, s.Add(ListEnglish, "alpha"))
	require.NoError(t, s.Add(ListEnglish, "beta"))
	require.NoError(t, s.Add(ListEnglish, "gamma"))
	require.NoError(t, s.Remove(ListEnglish, "beta"))

	reloaded := NewWordListStore(dir)
	require.Equal(t, []string{"alpha", "gamma"}, reloaded.Words(ListEnglish))
}
