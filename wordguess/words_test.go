package wordguess

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValidRounds(t *testing.T, rounds []WordRound, count int) {
	t.Helper()

	require.Len(t, rounds, count)
	seen := make(map[string]bool)
	for _, r := range rounds {
		assert.NotEmpty(t, r.Word)
		assert.True(t, validWord(r.Word), "word %q must be letters/spaces only", r.Word)
		assert.Len(t, r.Hints, 3)
		for _, h := range r.Hints {
			assert.NotEmpty(t, h)
		}
		assert.Contains(t, []string{DifficultyEasy, DifficultyMedium, DifficultyHard}, r.Difficulty)
		assert.False(t, seen[r.Word], "word %q sampled twice", r.Word)
		seen[r.Word] = true
	}
}

func TestCatalogRoundsSamplesWithoutDuplicates(t *testing.T) {
	assertValidRounds(t, CatalogRounds(5), 5)
}

func TestCatalogOnlySourceNeedsNoURL(t *testing.T) {
	src := NewAPISource("", nil)
	assertValidRounds(t, src.FetchRounds(context.Background(), 5), 5)
}

func TestAPIFailureFallsBackToCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewAPISource(srv.URL, nil)
	assertValidRounds(t, src.FetchRounds(context.Background(), 5), 5)
}

func TestUnparseableAPIResponseFallsBackToCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"`))
	}))
	defer srv.Close()

	src := NewAPISource(srv.URL, nil)
	assertValidRounds(t, src.FetchRounds(context.Background(), 5), 5)
}

func TestEmptyAPIResponseFallsBackToCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	src := NewAPISource(srv.URL, nil)
	assertValidRounds(t, src.FetchRounds(context.Background(), 5), 5)
}

func TestUnreachableAPIFallsBackToCatalog(t *testing.T) {
	src := NewAPISource("http://127.0.0.1:1/words", nil)
	assertValidRounds(t, src.FetchRounds(context.Background(), 5), 5)
}

func TestValidAPIContentIsUsedAndNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"word": "pyramid", "hints": ["a", "b", "c"], "difficulty": "easy"},
			{"word": "waterfall", "hints": ["d", "e", "f"], "difficulty": "hard"}
		]`))
	}))
	defer srv.Close()

	src := NewAPISource(srv.URL, nil)
	rounds := src.FetchRounds(context.Background(), 2)

	require.Len(t, rounds, 2)
	assert.Equal(t, "PYRAMID", rounds[0].Word, "words are uppercased")
	assert.Equal(t, "WATERFALL", rounds[1].Word)
}

func TestSanitizeRejectsJunkItems(t *testing.T) {
	rounds, err := sanitizeRounds([]WordRound{
		{Word: "ok word", Hints: []string{"a", "b", "c"}, Difficulty: DifficultyEasy},
		{Word: "", Hints: []string{"a", "b", "c"}, Difficulty: DifficultyEasy},
		{Word: "digits123", Hints: []string{"a", "b", "c"}, Difficulty: DifficultyEasy},
		{Word: "twohints", Hints: []string{"a", "b"}, Difficulty: DifficultyEasy},
		{Word: "blankhint", Hints: []string{"a", "", "c"}, Difficulty: DifficultyEasy},
		{Word: "spacehint", Hints: []string{"a", " ", "c"}, Difficulty: DifficultyEasy},
		{Word: "badtag", Hints: []string{"a", "b", "c"}, Difficulty: "impossible"},
		{Word: "OK WORD", Hints: []string{"x", "y", "z"}, Difficulty: DifficultyHard},
		{Word: "fine", Hints: []string{"a", "b", "c"}, Difficulty: DifficultyMedium},
	}, 2)

	require.NoError(t, err)
	require.Len(t, rounds, 2)
	assert.Equal(t, "OK WORD", rounds[0].Word)
	assert.Equal(t, "FINE", rounds[1].Word)
}

func TestSanitizeFailsWhenShort(t *testing.T) {
	_, err := sanitizeRounds([]WordRound{
		{Word: "solo", Hints: []string{"a", "b", "c"}, Difficulty: DifficultyEasy},
	}, 2)

	assert.Error(t, err, "a short response must trigger the fallback")
}

func TestCatalogWrapsWhenCountExceedsIt(t *testing.T) {
	rounds := CatalogRounds(len(catalog) + 3)
	assert.Len(t, rounds, len(catalog)+3)
}
