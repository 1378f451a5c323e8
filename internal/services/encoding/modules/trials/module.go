// Package trials serves the trial page, audio capture and cue submission.
package trials

import (
	"errors"
	"net/http"

	module "github.com/louisbranch/encodingtask/internal/services/encoding/module"
	"github.com/louisbranch/encodingtask/internal/services/encoding/routepath"
)

// DefaultMaxAudioBytes caps an uploaded recording when the dependencies do
// not set a limit.
const DefaultMaxAudioBytes int64 = 50 << 20

// Module provides the trial routes.
type Module struct{}

// New returns a trials module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "trials" }

// Mount wires trial route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.Sessions == nil {
		return module.Mount{}, errors.New("trials: sessions are required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(deps))
	return module.Mount{
		Patterns: []string{routepath.Trial, routepath.Trial + "/"},
		Handler:  mux,
	}, nil
}
