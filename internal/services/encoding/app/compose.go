// Package app composes encoding web modules into one root handler.
package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	module "github.com/louisbranch/encodingtask/internal/services/encoding/module"
	"github.com/louisbranch/encodingtask/internal/services/encoding/platform/weberror"
	"github.com/louisbranch/encodingtask/internal/services/encoding/routepath"
)

// ComposeInput carries modules and their shared dependencies.
type ComposeInput struct {
	Dependencies module.Dependencies
	Modules      []module.Module
}

// Compose mounts every module pattern on one root mux. Unclaimed paths
// render the localized not-found page.
func Compose(input ComposeInput) (http.Handler, error) {
	root := http.NewServeMux()
	seen := make(map[string]string)
	for _, feature := range input.Modules {
		if feature == nil {
			return nil, errors.New("module is nil")
		}
		if err := mountModule(root, feature, input.Dependencies, seen); err != nil {
			return nil, err
		}
	}
	deps := input.Dependencies
	root.HandleFunc(routepath.Root, func(w http.ResponseWriter, r *http.Request) {
		weberror.WriteAppError(w, r, http.StatusNotFound, deps)
	})
	return root, nil
}

func mountModule(root *http.ServeMux, feature module.Module, deps module.Dependencies, seen map[string]string) error {
	mount, err := feature.Mount(deps)
	if err != nil {
		return fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if mount.Handler == nil {
		return fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	if len(mount.Patterns) == 0 {
		return fmt.Errorf("mount module %q: at least one pattern is required", feature.ID())
	}
	for _, pattern := range mount.Patterns {
		pattern = strings.TrimSpace(pattern)
		if !strings.HasPrefix(pattern, "/") {
			return fmt.Errorf("mount module %q: pattern %q must start with /", feature.ID(), pattern)
		}
		if pattern == routepath.Root || strings.HasPrefix(pattern, routepath.StaticPrefix) {
			return fmt.Errorf("mount module %q: pattern %q is reserved", feature.ID(), pattern)
		}
		if previous, ok := seen[pattern]; ok {
			return fmt.Errorf("module %q duplicates pattern %q owned by module %q", feature.ID(), pattern, previous)
		}
		seen[pattern] = feature.ID()
		root.Handle(pattern, mount.Handler)
	}
	return nil
}
