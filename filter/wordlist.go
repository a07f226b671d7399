package filter

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	ListEnglish  = "english"
	ListHinglish = "hinglish"
)

// ListNames is the fixed set of word lists, in display order.
var ListNames = []string{ListEnglish, ListHinglish}

var (
	ErrWordExists   = errors.New("word already in list")
	ErrWordNotFound = errors.New("word not in list")
	ErrUnknownList  = errors.New("unknown word list")
)

// WordListStore holds the prohibited-word lists, one flat file per list
// (one lowercase word per line). Adds append to the file; removes rewrite
// it from the in-memory list. Single-writer assumption, same as the server
// config.
type WordListStore struct {
	mu    sync.RWMutex
	dir   string
	lists map[string][]string
}

// NewWordListStore loads every known list from dir. A missing file is not
// an error: the list starts empty and a warning is logged.
func NewWordListStore(dir string) *WordListStore {
	_ = os.MkdirAll(dir, 0755)
	s := &WordListStore{
		dir:   dir,
		lists: make(map[string][]string, len(ListNames)),
	}
	for _, name := range ListNames {
		s.lists[name] = loadWords(s.path(name))
	}
	return s
}

func (s *WordListStore) path(list string) string {
	return filepath.Join(s.dir, "bad_words_"+list+".txt")
}

func loadWords(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[filter] Warning: %s not found", path)
		return nil
	}
	var words []string
	for _, line := range strings.Split(string(data), "\n") {
		w := strings.ToLower(strings.TrimSpace(line))
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// Valid reports whether list names a known word list.
func Valid(list string) bool {
	for _, n := range ListNames {
		if n == list {
			return true
		}
	}
	return false
}

// Contains returns every stored word that occurs as a substring of text,
// case-insensitively. This is deliberately a plain substring scan, not a
// token match: "ass" matches inside "grass". That mirrors the behaviour the
// server operators expect from the existing lists.
func (s *WordListStore) Contains(list, text string) []string {
	return s.matchLower(list, strings.ToLower(text))
}

func (s *WordListStore) matchLower(list, lowered string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []string
	for _, w := range s.lists[list] {
		if strings.Contains(lowered, w) {
			matched = append(matched, w)
		}
	}
	return matched
}

// Add lowercases word and appends it to the list and its backing file.
// Returns ErrWordExists if the word is already present; nothing is written
// in that case.
func (s *WordListStore) Add(list, word string) error {
	if !Valid(list) {
		return ErrUnknownList
	}
	word = strings.ToLower(strings.TrimSpace(word))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.lists[list] {
		if w == word {
			return ErrWordExists
		}
	}
	s.lists[list] = append(s.lists[list], word)

	f, err := os.OpenFile(s.path(list), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s list: %w", list, err)
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%s\n", word)
	return err
}

// Remove deletes word from the list and rewrites the backing file from the
// full in-memory list. Returns ErrWordNotFound if absent; nothing is
// written in that case.
func (s *WordListStore) Remove(list, word string) error {
	if !Valid(list) {
		return ErrUnknownList
	}
	word = strings.ToLower(strings.TrimSpace(word))

	s.mu.Lock()
	defer s.mu.Unlock()
	words := s.lists[list]
	idx := -1
	for i, w := range words {
		if w == word {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrWordNotFound
	}
	s.lists[list] = append(words[:idx], words[idx+1:]...)

	return s.rewrite(list)
}

func (s *WordListStore) rewrite(list string) error {
	content := strings.Join(s.lists[list], "\n")
	if content != "" {
		content += "\n"
	}
	return os.WriteFile(s.path(list), []byte(content), 0644)
}

// Words returns a copy of the list in stored order.
func (s *WordListStore) Words(list string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.lists[list]))
	copy(out, s.lists[list])
	return out
}
