package filter

import "strings"

// Result holds the matched words per list for one evaluated message.
type Result struct {
	English  []string
	Hinglish []string
}

// Violation reports whether either list produced a match.
func (r Result) Violation() bool {
	return len(r.English) > 0 || len(r.Hinglish) > 0
}

// Filter is a pure decision function over the word lists. It performs no
// side effects; deletion, warning and logging are the caller's job.
type Filter struct {
	store *WordListStore
}

func New(store *WordListStore) *Filter {
	return &Filter{store: store}
}

// Evaluate lowercases text once and checks it against both lists
// independently.
func (f *Filter) Evaluate(text string) Result {
	lowered := strings.ToLower(text)
	return Result{
		English:  f.store.matchLower(ListEnglish, lowered),
		Hinglish: f.store.matchLower(ListHinglish, lowered),
	}
}
