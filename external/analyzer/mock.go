package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foxseedlab/lucidia/internal/analysis"
)

const mockLatency = 20 * time.Millisecond

type criterion struct {
	name  string
	score func(words []string) int
}

// mockCriteria scores a transcript with word-level heuristics so the mock
// output follows the same five-point rubric as the model prompt.
var mockCriteria = []criterion{
	{name: "Clarity", score: func(w []string) int { return bucket(averageWordLength(w), 3, 5) }},
	{name: "Engagement", score: func(w []string) int { return bucket(float64(countAny(w, "you", "your", "we", "?")), 1, 3) }},
	{name: "Active Listening", score: func(w []string) int {
		return bucket(float64(countAny(w, "understand", "hear", "sounds", "mean", "so")), 1, 2)
	}},
	{name: "Conciseness", score: func(w []string) int { return 2 - bucket(float64(len(w)), 60, 150) }},
	{name: "Empathy", score: func(w []string) int { return bucket(float64(countAny(w, "feel", "sorry", "thank", "thanks", "appreciate")), 1, 2) }},
}

type MockAnalyzer struct{}

func NewMockAnalyzer() analysis.Analyzer {
	return &MockAnalyzer{}
}

func (m *MockAnalyzer) Analyze(ctx context.Context, transcript string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(mockLatency):
	}
	words := tokenize(transcript)
	var b strings.Builder
	total := 0
	for i, c := range mockCriteria {
		s := c.score(words)
		total += s
		fmt.Fprintf(&b, "%d. %s: %d/2\n", i+1, c.name, s)
	}
	fmt.Fprintf(&b, "Total Score: %d/10", total)
	return b.String(), nil
}

func tokenize(text string) []string {
	text = strings.ReplaceAll(strings.ToLower(text), "?", " ? ")
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == ',' || r == '.' || r == '!'
	})
}

func countAny(words []string, targets ...string) int {
	n := 0
	for _, w := range words {
		for _, t := range targets {
			if w == t {
				n++
				break
			}
		}
	}
	return n
}

func averageWordLength(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	total := 0
	for _, w := range words {
		total += len([]rune(w))
	}
	return float64(total) / float64(len(words))
}

// bucket maps v to 0, 1 or 2 using two thresholds.
func bucket(v, low, high float64) int {
	switch {
	case v >= high:
		return 2
	case v >= low:
		return 1
	default:
		return 0
	}
}
