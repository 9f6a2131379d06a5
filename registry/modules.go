package registry

import (
	"fmt"
	"log/slog"
)

// Module is a build-configured capability module with a registration
// hook.
type Module struct {
	Name     string
	Register func(*ComponentRegistry) error
}

// RegisterModules invokes each module's registration hook in order.
// Individual failures are logged and collected; they never abort the
// loop, so one broken module cannot take down the remaining capability
// set. The returned slice holds one error per failed module.
func RegisterModules(log *slog.Logger, reg *ComponentRegistry, modules []Module) []error {
	var failed []error
	for _, module := range modules {
		log.Info("Registering capability module", slog.String("module", module.Name))
		if err := module.Register(reg); err != nil {
			log.Error("Couldn't register capability module",
				slog.String("module", module.Name),
				"err", err)
			failed = append(failed, fmt.Errorf("module %s: %w", module.Name, err))
		}
	}
	return failed
}
