package app

import (
	module "github.com/louisbranch/encodingtask/internal/services/encoding/module"
	"github.com/louisbranch/encodingtask/internal/services/encoding/modules/intake"
	"github.com/louisbranch/encodingtask/internal/services/encoding/modules/results"
	"github.com/louisbranch/encodingtask/internal/services/encoding/modules/trials"
)

// DefaultModules returns the participant-facing modules in mount order.
func DefaultModules() []module.Module {
	return []module.Module{
		intake.New(),
		trials.New(),
		results.New(),
	}
}
