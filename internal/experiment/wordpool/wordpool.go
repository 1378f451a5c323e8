// Package wordpool loads the experiment word pool.
//
// A pool file lists words separated by newlines or by the 、 ， and , marks.
// The pool is read once at startup and kept as a sorted set so seeded sampling
// is reproducible across restarts.
package wordpool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoSource reports that a glob pattern matched no pool files.
var ErrNoSource = errors.New("no word pool files matched")

// separator is the canonical word separator all other separators fold into.
const separator = "、"

var separators = strings.NewReplacer(
	"\r\n", separator,
	"\n", separator,
	"\r", separator,
	"，", separator,
	",", separator,
)

// Pool is an immutable set of unique words.
type Pool struct {
	words []string
}

// New builds a pool from words, trimming and deduplicating them.
func New(words []string) Pool {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	sort.Strings(out)
	return Pool{words: out}
}

// Parse splits raw pool text into a pool.
func Parse(text string) Pool {
	return New(strings.Split(separators.Replace(text), separator))
}

// Len returns the number of unique words.
func (p Pool) Len() int {
	return len(p.words)
}

// Words returns a copy of the pool words in sorted order.
func (p Pool) Words() []string {
	out := make([]string, len(p.words))
	copy(out, p.words)
	return out
}

// Load reads a pool from path. When path is a glob pattern every matching
// file contributes to one merged pool.
func Load(path string) (Pool, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Pool{}, fmt.Errorf("word pool path is required")
	}
	if !hasMeta(path) {
		text, err := readText(path)
		if err != nil {
			return Pool{}, err
		}
		return Parse(text), nil
	}

	matches, err := doublestar.FilepathGlob(path, doublestar.WithFilesOnly())
	if err != nil {
		return Pool{}, fmt.Errorf("match word pool %q: %w", path, err)
	}
	if len(matches) == 0 {
		return Pool{}, fmt.Errorf("%w: %s", ErrNoSource, path)
	}
	sort.Strings(matches)
	var words []string
	for _, match := range matches {
		text, err := readText(match)
		if err != nil {
			return Pool{}, err
		}
		words = append(words, Parse(text).words...)
	}
	return New(words), nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("read word pool %s: %w", path, err)
	}
	text, err := DecodeText(data)
	if err != nil {
		return "", fmt.Errorf("decode word pool %s: %w", path, err)
	}
	return text, nil
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
