// Package dedupe collapses repeated text issues that come from the same
// on-screen element persisting across sampled frames. A lower-third that
// stays up for thirty seconds appears in several samples; the report
// should list its problems once.
package dedupe

import (
	"fmt"
	"sort"

	"github.com/reelcheck/reelcheck/internal/textcheck"
)

// Merge removes duplicate issues. Two issues are duplicates when they
// have the same identity (kind plus word and suggestion for spelling,
// kind plus message for grammar) and their timestamps fall within
// windowSecs of each other. Duplicates chain: a run of sightings at a
// steady interval collapses into one as long as each sighting is within
// the window of the previous one. The earliest timestamp survives.
//
// The result is sorted by timestamp, then by identity for issues at the
// same instant, so output is deterministic regardless of input order.
func Merge(issues []textcheck.Issue, windowSecs float64) []textcheck.Issue {
	if len(issues) == 0 {
		return nil
	}

	sorted := make([]textcheck.Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Seconds != sorted[j].Seconds {
			return sorted[i].Seconds < sorted[j].Seconds
		}
		return identity(sorted[i]) < identity(sorted[j])
	})

	// lastSeen tracks the most recent sighting per identity so chains
	// of repeats extend the window instead of resetting it.
	lastSeen := make(map[string]float64)
	merged := sorted[:0]
	for _, issue := range sorted {
		key := identity(issue)
		if prev, ok := lastSeen[key]; ok && issue.Seconds-prev <= windowSecs {
			lastSeen[key] = issue.Seconds
			continue
		}
		lastSeen[key] = issue.Seconds
		merged = append(merged, issue)
	}
	return merged
}

func identity(issue textcheck.Issue) string {
	if issue.Kind == textcheck.KindSpelling {
		return fmt.Sprintf("%s|%s|%s", issue.Kind, issue.Word, issue.Suggestion)
	}
	return fmt.Sprintf("%s|%s", issue.Kind, issue.Message)
}
