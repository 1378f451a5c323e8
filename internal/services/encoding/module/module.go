// Package module defines the feature contract used by encoding web composition.
package module

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/louisbranch/encodingtask/internal/experiment"
	"github.com/louisbranch/encodingtask/internal/services/encoding/sessions"
	"golang.org/x/text/language"
)

// Sessions is the session manager surface used by web modules.
type Sessions interface {
	PoolSize() int
	RequireAudio() bool
	Start(ctx context.Context, p experiment.Participant) (string, error)
	Current(ctx context.Context, sessionID string) (sessions.TrialView, error)
	SaveAudio(ctx context.Context, sessionID string, data []byte) (string, error)
	OpenAudio(ctx context.Context, sessionID string) (*os.File, string, error)
	SubmitCue(ctx context.Context, sessionID, cue string) (experiment.ResultRecord, error)
	Summary(ctx context.Context, sessionID string) (sessions.Summary, error)
	WriteCSV(ctx context.Context, sessionID string, w io.Writer) (string, error)
	Forget(ctx context.Context, sessionID string) error
}

var _ Sessions = (*sessions.Manager)(nil)

// Dependencies carries shared runtime collaborators into modules.
type Dependencies struct {
	Sessions        Sessions
	DefaultLanguage language.Tag
	// MaxAudioBytes caps an uploaded recording; zero uses the module default.
	MaxAudioBytes int64
}

// Mount describes the root-mux patterns a module owns.
type Mount struct {
	Patterns []string
	Handler  http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount(Dependencies) (Mount, error)
}
