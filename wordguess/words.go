package wordguess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"
	"unicode"
)

// Difficulty tags accepted from the word source.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// WordRound is one word-guessing cycle's content: the target word
// (uppercase; interior spaces act as pre-revealed separators) and exactly
// three hints ordered vague to specific.
type WordRound struct {
	Word       string   `json:"word"`
	Hints      []string `json:"hints"`
	Difficulty string   `json:"difficulty"`
}

// RoundSource produces the content for a game. Implementations must never
// fail: when the backing service is unavailable they degrade to built-in
// content instead of returning an error.
type RoundSource interface {
	FetchRounds(ctx context.Context, count int) []WordRound
}

// APISource fetches rounds from an HTTP endpoint returning a JSON array
// of WordRound objects. Any failure, on the wire or in validation, falls
// back to the fixed catalog.
type APISource struct {
	URL    string
	Client *http.Client

	logf func(format string, args ...any)
}

// NewAPISource wires a word API endpoint. An empty url means
// catalog-only. logf may be nil.
func NewAPISource(url string, logf func(format string, args ...any)) *APISource {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &APISource{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
		logf:   logf,
	}
}

// FetchRounds returns exactly count rounds, from the API when it answers
// with valid content and from the built-in catalog otherwise.
func (s *APISource) FetchRounds(ctx context.Context, count int) []WordRound {
	if s.URL == "" {
		return CatalogRounds(count)
	}

	rounds, err := s.fetch(ctx, count)
	if err != nil {
		s.logf("WORDS: API failed (%v), using built-in catalog", err)
		return CatalogRounds(count)
	}
	return rounds
}

func (s *APISource) fetch(ctx context.Context, count int) ([]WordRound, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var rounds []WordRound
	if err := json.NewDecoder(resp.Body).Decode(&rounds); err != nil {
		return nil, err
	}

	return sanitizeRounds(rounds, count)
}

// sanitizeRounds validates and normalizes API content. It insists on at
// least count usable items so a short or junk response never truncates a
// game.
func sanitizeRounds(rounds []WordRound, count int) ([]WordRound, error) {
	out := make([]WordRound, 0, count)
	seen := make(map[string]bool, count)

	for _, r := range rounds {
		word := strings.ToUpper(strings.TrimSpace(r.Word))
		if word == "" || !validWord(word) || !validHints(r.Hints) || seen[word] {
			continue
		}
		switch r.Difficulty {
		case DifficultyEasy, DifficultyMedium, DifficultyHard:
		default:
			continue
		}
		seen[word] = true
		out = append(out, WordRound{Word: word, Hints: r.Hints, Difficulty: r.Difficulty})
		if len(out) == count {
			return out, nil
		}
	}

	return nil, errTooFewRounds
}

var errTooFewRounds = errors.New("too few valid rounds")

// validHints requires exactly three hints, none of them blank.
func validHints(hints []string) bool {
	if len(hints) != 3 {
		return false
	}
	for _, h := range hints {
		if strings.TrimSpace(h) == "" {
			return false
		}
	}
	return true
}

// validWord accepts letters and interior spaces only.
func validWord(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}
	return true
}

// CatalogRounds samples count rounds from the fixed built-in catalog,
// shuffled and deduplicated within the sample. When count exceeds the
// catalog, the catalog wraps rather than coming up short.
func CatalogRounds(count int) []WordRound {
	idx := rand.Perm(len(catalog))

	out := make([]WordRound, 0, count)
	for len(out) < count {
		for _, i := range idx {
			out = append(out, catalog[i])
			if len(out) == count {
				break
			}
		}
	}
	return out
}
