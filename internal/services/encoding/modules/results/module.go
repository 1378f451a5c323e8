// Package results serves the completion page and the CSV download.
package results

import (
	"errors"
	"net/http"

	module "github.com/louisbranch/encodingtask/internal/services/encoding/module"
	"github.com/louisbranch/encodingtask/internal/services/encoding/routepath"
)

// Module provides the results routes.
type Module struct{}

// New returns a results module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "results" }

// Mount wires results route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.Sessions == nil {
		return module.Mount{}, errors.New("results: sessions are required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(deps))
	return module.Mount{
		Patterns: []string{routepath.Results, routepath.ResultsCSV},
		Handler:  mux,
	}, nil
}
