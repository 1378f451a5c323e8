package trial

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func letters(n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, string(rune('A'+i)))
	}
	return out
}

func TestGenerateProducesUniqueGridWithTargets(t *testing.T) {
	t.Parallel()

	for _, poolSize := range []int{9, 10, 30} {
		for k := 1; k <= 3; k++ {
			poolSize, k := poolSize, k
			t.Run(fmt.Sprintf("pool=%d/k=%d", poolSize, k), func(t *testing.T) {
				t.Parallel()
				for seed := uint64(0); seed < 25; seed++ {
					got, err := Generate(4, letters(poolSize), k, GridSize, rand.New(rand.NewPCG(seed, 1)))
					if err != nil {
						t.Fatalf("Generate() error = %v", err)
					}
					assertWellFormed(t, got, k)
					if got.Index != 4 {
						t.Fatalf("Index = %d, want 4", got.Index)
					}
				}
			})
		}
	}
}

func TestGenerateExamplePool(t *testing.T) {
	t.Parallel()

	pool := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
	got, err := Generate(0, pool, 2, GridSize, rand.New(rand.NewPCG(7, 7)))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(got.Targets) != 2 {
		t.Fatalf("targets = %v, want 2 entries", got.Targets)
	}
	if len(got.Grid) != 3 {
		t.Fatalf("grid rows = %d, want 3", len(got.Grid))
	}
	for i, row := range got.Grid {
		if len(row) != 3 {
			t.Fatalf("row %d has %d words, want 3", i, len(row))
		}
	}
	assertWellFormed(t, got, 2)
}

func TestGenerateIsDeterministicForSameStream(t *testing.T) {
	t.Parallel()

	pool := letters(20)
	first, err := Generate(1, pool, 3, GridSize, rand.New(rand.NewPCG(11, 1)))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	second, err := Generate(1, pool, 3, GridSize, rand.New(rand.NewPCG(11, 1)))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Generate() mismatch (-first +second):\n%s", diff)
	}
}

func TestGenerateRejectsSmallPool(t *testing.T) {
	t.Parallel()

	_, err := Generate(0, letters(8), 2, GridSize, rand.New(rand.NewPCG(1, 1)))
	if !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("Generate() error = %v, want %v", err, ErrPoolExhausted)
	}
}

func TestGenerateCountsDistinctWordsOnly(t *testing.T) {
	t.Parallel()

	pool := []string{"A", "A", "A", "B", "C", "D", "E", "F", "G"}
	_, err := Generate(0, pool, 1, GridSize, rand.New(rand.NewPCG(1, 0)))
	if !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("Generate() error = %v, want %v", err, ErrPoolExhausted)
	}
}

func TestGenerateRejectsInvalidTargetCount(t *testing.T) {
	t.Parallel()

	for _, k := range []int{0, -1, GridSize, GridSize + 1} {
		_, err := Generate(0, letters(20), k, GridSize, rand.New(rand.NewPCG(1, 1)))
		if !errors.Is(err, ErrInvalidTargetCount) {
			t.Fatalf("Generate(k=%d) error = %v, want %v", k, err, ErrInvalidTargetCount)
		}
	}
}

func TestGenerateRejectsInvalidGridSize(t *testing.T) {
	t.Parallel()

	_, err := Generate(0, letters(20), 1, 8, rand.New(rand.NewPCG(1, 1)))
	if !errors.Is(err, ErrInvalidGridSize) {
		t.Fatalf("Generate() error = %v, want %v", err, ErrInvalidGridSize)
	}
}

func TestGenerateRequiresStream(t *testing.T) {
	t.Parallel()

	if _, err := Generate(0, letters(20), 1, GridSize, nil); err == nil {
		t.Fatal("expected error for nil stream")
	}
}

func assertWellFormed(t *testing.T, got Trial, k int) {
	t.Helper()

	words := got.Grid.Words()
	if len(words) != GridSize {
		t.Fatalf("grid words = %d, want %d", len(words), GridSize)
	}
	seen := map[string]bool{}
	for _, word := range words {
		if seen[word] {
			t.Fatalf("duplicate word %q in grid %v", word, got.Grid)
		}
		seen[word] = true
	}
	if len(got.Targets) != k {
		t.Fatalf("targets = %v, want %d entries", got.Targets, k)
	}
	marked := 0
	for _, word := range words {
		if got.IsTarget(word) {
			marked++
		}
	}
	if marked != k {
		t.Fatalf("grid marks %d targets, want %d", marked, k)
	}
	for _, target := range got.Targets {
		if !seen[target] {
			t.Fatalf("target %q missing from grid %v", target, got.Grid)
		}
	}
}
