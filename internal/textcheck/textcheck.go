// Package textcheck analyzes extracted on-screen text for spelling and
// grammar problems. The spelling pass compares each token against an
// embedded base dictionary plus any caller-supplied vocabulary, and the
// grammar pass applies a small set of structural heuristics suited to
// captions and lower-thirds.
package textcheck

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"
)

//go:embed words.txt
var baseWords string

// IssueKind discriminates the two classes of text problems.
type IssueKind string

const (
	KindSpelling IssueKind = "spelling"
	KindGrammar  IssueKind = "grammar"
)

// contextLimit caps how much of the source text is attached to an issue.
const contextLimit = 100

// Issue is a single text-quality finding anchored to the frame timestamp
// it was observed at.
type Issue struct {
	Kind       IssueKind
	Seconds    float64
	Word       string
	Suggestion string
	Message    string
	Context    string
}

// Vocabulary is a case-insensitive set of terms that are exempt from
// spelling checks. Callers populate it with product names, people, and
// other proper nouns expected on screen.
type Vocabulary map[string]struct{}

// NewVocabulary builds a vocabulary from a list of terms. Multi-word
// terms are split so each word is exempted individually.
func NewVocabulary(terms []string) Vocabulary {
	v := make(Vocabulary, len(terms))
	for _, term := range terms {
		for _, word := range strings.Fields(term) {
			v[strings.ToLower(word)] = struct{}{}
		}
	}
	return v
}

// Contains reports whether word is in the vocabulary, ignoring case.
func (v Vocabulary) Contains(word string) bool {
	_, ok := v[strings.ToLower(word)]
	return ok
}

// Checker evaluates text blobs against the dictionary and grammar rules.
type Checker struct {
	dict          map[string]struct{}
	vocab         Vocabulary
	maxDistance   int
	minWordLength int
}

// NewChecker builds a Checker. maxDistance bounds the edit distance used
// when searching for spelling suggestions, and minWordLength is the
// shortest token the spelling pass will consider.
func NewChecker(vocab Vocabulary, maxDistance, minWordLength int) *Checker {
	dict := make(map[string]struct{}, 1024)
	for _, line := range strings.Split(baseWords, "\n") {
		word := strings.TrimSpace(line)
		if word == "" {
			continue
		}
		dict[word] = struct{}{}
	}
	return &Checker{
		dict:          dict,
		vocab:         vocab,
		maxDistance:   maxDistance,
		minWordLength: minWordLength,
	}
}

// Check runs the spelling and grammar passes over one frame's text blob.
// seconds is the frame timestamp carried onto every resulting issue.
func (c *Checker) Check(text string, seconds float64) []Issue {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	ctx := issueContext(trimmed)
	var issues []Issue
	issues = append(issues, c.checkSpelling(trimmed, seconds, ctx)...)
	issues = append(issues, c.checkGrammar(trimmed, seconds, ctx)...)
	return issues
}

func (c *Checker) checkSpelling(text string, seconds float64, ctx string) []Issue {
	var issues []Issue
	seen := make(map[string]struct{})
	for _, token := range strings.Fields(text) {
		word := normalizeToken(token)
		if len([]rune(word)) < c.minWordLength {
			continue
		}
		if isNumeric(word) {
			continue
		}
		lower := strings.ToLower(word)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		if _, ok := c.dict[lower]; ok {
			continue
		}
		if c.vocab.Contains(word) {
			continue
		}
		issues = append(issues, Issue{
			Kind:       KindSpelling,
			Seconds:    seconds,
			Word:       word,
			Suggestion: c.suggest(lower),
			Message:    fmt.Sprintf("Possible misspelling: '%s'", word),
			Context:    ctx,
		})
	}
	return issues
}

// suggest returns the closest dictionary word within the edit distance
// bound. Short words get a tighter bound so "cat" does not suggest "the".
// When nothing is close enough the caller still gets actionable text.
func (c *Checker) suggest(word string) string {
	limit := c.maxDistance
	if len([]rune(word)) < 5 && limit > 1 {
		limit = 1
	}

	best := ""
	bestDist := limit + 1
	for candidate := range c.dict {
		if abs(len(candidate)-len(word)) > bestDist {
			continue
		}
		if c.vocab.Contains(candidate) {
			continue
		}
		d := editDistance(word, candidate)
		if d < bestDist || (d == bestDist && best != "" && candidate < best) {
			best = candidate
			bestDist = d
		}
	}
	if best == "" {
		return fmt.Sprintf("Check spelling of '%s'", word)
	}
	return best
}

func (c *Checker) checkGrammar(text string, seconds float64, ctx string) []Issue {
	var issues []Issue
	for _, sentence := range splitSentences(text) {
		words := strings.Fields(sentence)
		if len(words) == 0 {
			continue
		}

		if len(words) == 1 && len([]rune(sentence)) >= c.minWordLength && !looksLikeLabel(sentence) {
			issues = append(issues, Issue{
				Kind:    KindGrammar,
				Seconds: seconds,
				Message: fmt.Sprintf("Sentence fragment: '%s'", sentence),
				Context: ctx,
			})
			continue
		}

		first := []rune(words[0])
		if len(first) > 0 && unicode.IsLetter(first[0]) && unicode.IsLower(first[0]) {
			issues = append(issues, Issue{
				Kind:    KindGrammar,
				Seconds: seconds,
				Message: fmt.Sprintf("Sentence starts with lowercase letter: '%s'", words[0]),
				Context: ctx,
			})
		}

		if len(words) > 2 && len([]rune(sentence)) > 10 && !hasTerminalPunctuation(sentence) {
			issues = append(issues, Issue{
				Kind:    KindGrammar,
				Seconds: seconds,
				Message: fmt.Sprintf("Possibly unterminated sentence: '%s'", truncate(sentence, 40)),
				Context: ctx,
			})
		}
	}
	return issues
}

// splitSentences breaks a blob on terminal punctuation, keeping the
// punctuation attached to its sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(current.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// looksLikeLabel reports whether a lone token is plausibly a deliberate
// on-screen label rather than a broken sentence. All-caps words and
// capitalized single words are common in lower-thirds and titles.
func looksLikeLabel(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 {
		return true
	}
	if !unicode.IsLetter(runes[0]) {
		return true
	}
	return unicode.IsUpper(runes[0])
}

func hasTerminalPunctuation(s string) bool {
	trimmed := strings.TrimRight(s, "\"')]} ")
	if trimmed == "" {
		return false
	}
	last := trimmed[len(trimmed)-1]
	return last == '.' || last == '!' || last == '?' || last == ':' || last == ';' || last == ','
}

// normalizeToken strips leading and trailing punctuation from a token,
// keeping interior characters like apostrophes and hyphens.
func normalizeToken(token string) string {
	return strings.TrimFunc(token, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isNumeric(word string) bool {
	for _, r := range word {
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func issueContext(text string) string {
	return truncate(text, contextLimit)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// editDistance computes the Levenshtein distance between two strings
// using a two-row rolling table.
func editDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
