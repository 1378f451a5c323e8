// Package intake serves the participant form, session start and restart.
package intake

import (
	"errors"
	"net/http"

	module "github.com/louisbranch/encodingtask/internal/services/encoding/module"
	"github.com/louisbranch/encodingtask/internal/services/encoding/routepath"
)

// Module provides the intake routes.
type Module struct{}

// New returns an intake module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "intake" }

// Mount wires intake route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.Sessions == nil {
		return module.Mount{}, errors.New("intake: sessions are required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(deps))
	return module.Mount{
		Patterns: []string{routepath.Root + "{$}", routepath.Restart},
		Handler:  mux,
	}, nil
}
