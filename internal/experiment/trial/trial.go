// Package trial builds the word grids shown on each encoding trial.
//
// Generation is a pure function of the word pool, the target count and the
// random stream; Cache keeps one result per trial index so redisplaying a trial
// never reshuffles it.
package trial

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
)

const (
	// GridSize is the number of words shown per trial.
	GridSize = 9
	// GridWidth is the number of words per grid row.
	GridWidth = 3
)

var (
	// ErrPoolExhausted reports that the pool cannot supply enough distinct words.
	ErrPoolExhausted = errors.New("word pool exhausted")
	// ErrInvalidTargetCount reports a target count outside (0, total).
	ErrInvalidTargetCount = errors.New("invalid target count")
	// ErrInvalidGridSize reports a grid size that is not a positive multiple of GridWidth.
	ErrInvalidGridSize = errors.New("invalid grid size")
)

// Grid holds the displayed words row by row.
type Grid [][]string

// Words returns the grid flattened in row order.
func (g Grid) Words() []string {
	out := make([]string, 0, len(g)*GridWidth)
	for _, row := range g {
		out = append(out, row...)
	}
	return out
}

// Trial is one generated trial. It is never mutated after generation.
type Trial struct {
	Index   int
	Targets []string
	Grid    Grid
}

// IsTarget reports whether word is one of the trial targets.
func (t Trial) IsTarget(word string) bool {
	return slices.Contains(t.Targets, word)
}

// Generate samples k targets and total-k fillers from pool, shuffles them and
// lays them out in rows of GridWidth.
func Generate(index int, pool []string, k, total int, rng *rand.Rand) (Trial, error) {
	if total <= 0 || total%GridWidth != 0 {
		return Trial{}, fmt.Errorf("%w: %d", ErrInvalidGridSize, total)
	}
	if k <= 0 || k >= total {
		return Trial{}, fmt.Errorf("%w: %d of %d", ErrInvalidTargetCount, k, total)
	}
	if rng == nil {
		return Trial{}, errors.New("random stream is required")
	}
	pool = distinct(pool)
	if len(pool) < total {
		return Trial{}, fmt.Errorf("%w: have %d words, need %d", ErrPoolExhausted, len(pool), total)
	}

	targets := sample(pool, k, rng)
	remaining := make([]string, 0, len(pool))
	for _, word := range pool {
		if !slices.Contains(targets, word) {
			remaining = append(remaining, word)
		}
	}
	fillerCount := total - k
	if len(remaining) < fillerCount {
		return Trial{}, fmt.Errorf("%w: %d words left after targets, need %d", ErrPoolExhausted, len(remaining), fillerCount)
	}
	fillers := sample(remaining, fillerCount, rng)

	words := make([]string, 0, total)
	words = append(words, targets...)
	words = append(words, fillers...)
	rng.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})

	grid := make(Grid, 0, total/GridWidth)
	for start := 0; start < total; start += GridWidth {
		grid = append(grid, slices.Clone(words[start:start+GridWidth]))
	}
	return Trial{Index: index, Targets: targets, Grid: grid}, nil
}

// distinct drops repeated words, keeping first occurrences in order.
func distinct(pool []string) []string {
	seen := make(map[string]struct{}, len(pool))
	out := make([]string, 0, len(pool))
	for _, word := range pool {
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	return out
}

// sample draws n items without replacement using a partial Fisher-Yates pass
// over a copy of items.
func sample(items []string, n int, rng *rand.Rand) []string {
	work := slices.Clone(items)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(work)-i)
		work[i], work[j] = work[j], work[i]
	}
	return work[:n:n]
}
