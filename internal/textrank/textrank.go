// Package textrank produces extractive summaries by ranking sentences
// with a damped PageRank over a lexical-overlap similarity graph.
package textrank

import (
	"errors"
	"math"
	"sort"
	"strings"
)

// ErrSummaryUnavailable means the input had too few usable sentences for
// a meaningful summary. Non-fatal: callers report "no summary".
var ErrSummaryUnavailable = errors.New("summary unavailable")

// Config tunes the ranking. Zero values fall back to DefaultConfig.
type Config struct {
	TopK          int     // sentences in the summary
	MinSentences  int     // below this, ErrSummaryUnavailable
	MinTokens     int     // sentences shorter than this are noise
	Damping       float64 // PageRank damping factor
	Convergence   float64 // sum-of-absolute-deltas threshold
	MaxIterations int     // hard termination cap
}

// DefaultConfig mirrors the conventional TextRank parameters.
func DefaultConfig() Config {
	return Config{
		TopK:          6,
		MinSentences:  3,
		MinTokens:     4,
		Damping:       0.85,
		Convergence:   1e-4,
		MaxIterations: 100,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TopK <= 0 {
		c.TopK = d.TopK
	}
	if c.MinSentences <= 0 {
		c.MinSentences = d.MinSentences
	}
	if c.MinTokens <= 0 {
		c.MinTokens = d.MinTokens
	}
	if c.Damping <= 0 || c.Damping >= 1 {
		c.Damping = d.Damping
	}
	if c.Convergence <= 0 {
		c.Convergence = d.Convergence
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	return c
}

// Summarize selects the top-ranked sentences and re-joins them in their
// original order, preserving narrative flow.
func Summarize(text string, cfg Config) (string, error) {
	cfg = cfg.withDefaults()

	sentences := Split(text)

	// Noise filter: keep sentences long enough to carry content, but
	// remember original positions for the final ordering.
	type candidate struct {
		text     string
		position int
		tokens   []string
	}
	var cands []candidate
	for i, s := range sentences {
		toks := Tokens(s)
		if len(toks) < cfg.MinTokens {
			continue
		}
		cands = append(cands, candidate{text: s, position: i, tokens: toks})
	}

	if len(cands) < cfg.MinSentences {
		return "", ErrSummaryUnavailable
	}

	n := len(cands)
	weights := make([][]float64, n)
	for i := range weights {
		weights[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := Similarity(cands[i].tokens, cands[j].tokens)
			weights[i][j] = w
			weights[j][i] = w
		}
	}

	scores := Rank(weights, cfg.Damping, cfg.Convergence, cfg.MaxIterations)

	k := cfg.TopK
	if k > n {
		k = n
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if scores[order[a]] != scores[order[b]] {
			return scores[order[a]] > scores[order[b]]
		}
		return order[a] < order[b]
	})
	selected := append([]int(nil), order[:k]...)
	sort.Ints(selected)

	parts := make([]string, 0, k)
	for _, idx := range selected {
		parts = append(parts, cands[idx].text)
	}
	return strings.Join(parts, " "), nil
}

// Similarity is the TextRank lexical overlap measure: shared unique
// tokens divided by the sum of the log token counts, which keeps long
// sentences from dominating. Zero when either side is too short for the
// normalization to be defined.
func Similarity(a, b []string) float64 {
	denom := math.Log(float64(len(a))) + math.Log(float64(len(b)))
	if denom <= 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(a))
	for _, t := range a {
		seen[t] = struct{}{}
	}
	shared := 0
	counted := make(map[string]struct{}, len(b))
	for _, t := range b {
		if _, dup := counted[t]; dup {
			continue
		}
		counted[t] = struct{}{}
		if _, ok := seen[t]; ok {
			shared++
		}
	}
	return float64(shared) / denom
}

// Rank runs the damped PageRank fixed point over a symmetric weight
// matrix. Scores start at 1/N and remain a probability-like distribution:
// nodes with no outgoing weight spread their mass uniformly, so a fully
// disconnected graph converges to 1/N everywhere. Iteration stops when
// the sum of absolute deltas drops below eps, or after maxIter rounds on
// pathological graphs.
func Rank(weights [][]float64, damping, eps float64, maxIter int) []float64 {
	n := len(weights)
	if n == 0 {
		return nil
	}

	outWeight := make([]float64, n)
	for j := range weights {
		for _, w := range weights[j] {
			outWeight[j] += w
		}
	}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1 / float64(n)
	}

	next := make([]float64, n)
	for iter := 0; iter < maxIter; iter++ {
		dangling := 0.0
		for j := range scores {
			if outWeight[j] == 0 {
				dangling += scores[j]
			}
		}

		for i := 0; i < n; i++ {
			sum := dangling / float64(n)
			for j := 0; j < n; j++ {
				if weights[j][i] > 0 && outWeight[j] > 0 {
					sum += weights[j][i] / outWeight[j] * scores[j]
				}
			}
			next[i] = (1-damping)/float64(n) + damping*sum
		}

		delta := 0.0
		for i := range scores {
			delta += math.Abs(next[i] - scores[i])
		}
		copy(scores, next)
		if delta < eps {
			break
		}
	}
	return scores
}
