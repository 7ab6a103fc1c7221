package dedupe

import (
	"testing"

	"github.com/reelcheck/reelcheck/internal/textcheck"
)

func spelling(word, suggestion string, seconds float64) textcheck.Issue {
	return textcheck.Issue{
		Kind:       textcheck.KindSpelling,
		Seconds:    seconds,
		Word:       word,
		Suggestion: suggestion,
		Message:    "Possible misspelling: '" + word + "'",
	}
}

func grammar(message string, seconds float64) textcheck.Issue {
	return textcheck.Issue{
		Kind:    textcheck.KindGrammar,
		Seconds: seconds,
		Message: message,
	}
}

func TestMergeCollapsesConsecutiveSightings(t *testing.T) {
	issues := []textcheck.Issue{
		spelling("Wether", "weather", 0),
		spelling("Wether", "weather", 5),
		spelling("Wether", "weather", 10),
		spelling("Wether", "weather", 15),
		spelling("Wether", "weather", 20),
	}

	merged := Merge(issues, 10)

	if len(merged) != 1 {
		t.Fatalf("expected 1 merged issue, got %d", len(merged))
	}
	if merged[0].Seconds != 0 {
		t.Errorf("expected earliest timestamp 0, got %v", merged[0].Seconds)
	}
}

func TestMergeKeepsSightingsOutsideWindow(t *testing.T) {
	issues := []textcheck.Issue{
		spelling("Wether", "weather", 0),
		spelling("Wether", "weather", 120),
	}

	merged := Merge(issues, 10)

	if len(merged) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(merged))
	}
	if merged[0].Seconds != 0 || merged[1].Seconds != 120 {
		t.Errorf("unexpected timestamps: %v, %v", merged[0].Seconds, merged[1].Seconds)
	}
}

func TestMergeDistinguishesIdentities(t *testing.T) {
	issues := []textcheck.Issue{
		spelling("Wether", "weather", 0),
		spelling("Newz", "news", 0),
		grammar("Sentence fragment: 'weather.'", 0),
		spelling("Wether", "weather", 5),
	}

	merged := Merge(issues, 10)

	if len(merged) != 3 {
		t.Fatalf("expected 3 distinct issues, got %d: %+v", len(merged), merged)
	}
}

func TestMergeChainsRepeats(t *testing.T) {
	// Each sighting is within the window of the previous one even
	// though the first and last are far apart.
	issues := []textcheck.Issue{
		spelling("Wether", "weather", 0),
		spelling("Wether", "weather", 8),
		spelling("Wether", "weather", 16),
		spelling("Wether", "weather", 24),
	}

	merged := Merge(issues, 10)

	if len(merged) != 1 {
		t.Fatalf("expected chained repeats to merge into 1, got %d", len(merged))
	}
}

func TestMergeSortsByTimestamp(t *testing.T) {
	issues := []textcheck.Issue{
		spelling("Wether", "weather", 30),
		grammar("Sentence fragment: 'x.'", 5),
		spelling("Newz", "news", 12),
	}

	merged := Merge(issues, 2)

	if len(merged) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(merged))
	}
	for i := 1; i < len(merged); i++ {
		if merged[i].Seconds < merged[i-1].Seconds {
			t.Errorf("issues not sorted by timestamp: %v before %v", merged[i-1].Seconds, merged[i].Seconds)
		}
	}
}

func TestMergeEmpty(t *testing.T) {
	if got := Merge(nil, 10); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}
