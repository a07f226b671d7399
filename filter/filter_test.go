package filter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterEvaluate(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, ListEnglish, "badword1\nbadword2\n")
	writeList(t, dir, ListHinglish, "bura\n")
	f := New(NewWordListStore(dir))

	tests := []struct {
		name         string
		text         string
		wantEnglish  []string
		wantHinglish []string
		violation    bool
	}{
		{
			name:        "english match",
			text:        "this contains badword1",
			wantEnglish: []string{"badword1"},
			violation:   true,
		},
		{
			name:         "hinglish match",
			text:         "kitna bura hai",
			wantHinglish: []string{"bura"},
			violation:    true,
		},
		{
			name:         "both lists match independently",
			text:         "badword1 aur bura dono",
			wantEnglish:  []string{"badword1"},
			wantHinglish: []string{"bura"},
			violation:    true,
		},
		{
			name:        "uppercase input",
			text:        "BADWORD1 AND BADWORD2",
			wantEnglish: []string{"badword1", "badword2"},
			violation:   true,
		},
		{
			name:      "clean message",
			text:      "hello there",
			violation: false,
		},
		{
			name:      "empty message",
			text:      "",
			violation: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.Evaluate(tt.text)
			require.Equal(t, tt.wantEnglish, res.English)
			require.Equal(t, tt.wantHinglish, res.Hinglish)
			require.Equal(t, tt.violation, res.Violation())
		})
	}
}

func TestValid(t *testing.T) {
	require.True(t, Valid(ListEnglish))
	require.True(t, Valid(ListHinglish))
	require.False(t, Valid("french"))
	require.False(t, Valid(""))
}
