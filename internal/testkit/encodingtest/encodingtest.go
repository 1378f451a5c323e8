// Package encodingtest builds real session managers over temp-dir storage for
// web module tests.
package encodingtest

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/louisbranch/encodingtask/internal/experiment"
	"github.com/louisbranch/encodingtask/internal/experiment/audio"
	"github.com/louisbranch/encodingtask/internal/experiment/wordpool"
	platformi18n "github.com/louisbranch/encodingtask/internal/platform/i18n"
	"github.com/louisbranch/encodingtask/internal/random"
	module "github.com/louisbranch/encodingtask/internal/services/encoding/module"
	"github.com/louisbranch/encodingtask/internal/services/encoding/sessions"
	"github.com/louisbranch/encodingtask/internal/services/encoding/storage/sqlite"
	"golang.org/x/text/language"
)

// WAV is the smallest payload the audio store accepts.
var WAV = []byte("RIFF\x24\x00\x00\x00WAVEfmt data")

// Options tunes New.
type Options struct {
	PoolSize      int
	RequireAudio  bool
	Language      language.Tag
	Seed          int64
	MaxAudioBytes int64
}

// Env is a wired manager plus the collaborators tests inspect.
type Env struct {
	Manager *sessions.Manager
	Store   *sqlite.Store
	DataDir string
	Deps    module.Dependencies
}

// Words returns n distinct pool words.
func Words(n int) []string {
	words := make([]string, 0, n)
	for i := 0; i < n; i++ {
		words = append(words, fmt.Sprintf("word%02d", i))
	}
	return words
}

// New opens a sqlite store in a temp dir and wires a manager over it.
// PoolSize defaults to 30 and Language to English.
func New(t testing.TB, opts Options) *Env {
	t.Helper()
	if opts.PoolSize == 0 {
		opts.PoolSize = 30
	}
	if opts.Language == language.Und {
		opts.Language = platformi18n.English
	}
	if opts.Seed == 0 {
		opts.Seed = 2024
	}
	dir := t.TempDir()
	store, err := sqlite.Open(context.Background(), filepath.Join(dir, "encoding.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	var ids atomic.Int64
	clock := time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)
	var ticks atomic.Int64
	manager, err := sessions.NewManager(sessions.Config{
		Pool:      wordpool.New(Words(opts.PoolSize)),
		Store:     store,
		Audio:     audio.NewStore(dir),
		ExportDir: dir,
		Seed:      random.FixedOrNew(opts.Seed, nil),
		NewID: func() (string, error) {
			return fmt.Sprintf("session-%d", ids.Add(1)), nil
		},
		Now: func() time.Time {
			return clock.Add(time.Duration(ticks.Add(1)) * time.Second)
		},
		RequireAudio: opts.RequireAudio,
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return &Env{
		Manager: manager,
		Store:   store,
		DataDir: dir,
		Deps: module.Dependencies{
			Sessions:        manager,
			DefaultLanguage: opts.Language,
			MaxAudioBytes:   opts.MaxAudioBytes,
		},
	}
}

// Participant returns a valid participant in group.
func Participant(group experiment.Group) experiment.Participant {
	return experiment.Participant{
		ID:         "S01",
		Group:      group,
		Gender:     experiment.GenderFemale,
		Age:        "24",
		Handedness: experiment.HandednessRight,
	}
}

// Start begins a session for a group participant and returns its id.
func (e *Env) Start(t testing.TB, group experiment.Group) string {
	t.Helper()
	id, err := e.Manager.Start(context.Background(), Participant(group))
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return id
}

// Complete runs every trial of a session with generated cues.
func (e *Env) Complete(t testing.TB, sessionID string) {
	t.Helper()
	ctx := context.Background()
	for i := 1; i <= experiment.TrialCount; i++ {
		if _, err := e.Manager.Current(ctx, sessionID); err != nil {
			t.Fatalf("trial %d: Current() error = %v", i, err)
		}
		if _, err := e.Manager.SubmitCue(ctx, sessionID, fmt.Sprintf("cue%d", i)); err != nil {
			t.Fatalf("trial %d: SubmitCue() error = %v", i, err)
		}
	}
}

// Chinese is the default participant-facing locale.
var Chinese = platformi18n.SimplifiedChinese
