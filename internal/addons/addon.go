// Package addons installs the cluster networking addons (MetalLB, NGINX
// Ingress Controller) and keeps them healthy across repeated runs.
package addons

import (
	"context"
	"fmt"
	"log"
	"os/exec"
)

// Addon is a cluster component that can be installed idempotently.
type Addon interface {
	// Name identifies the addon in logs and status output.
	Name() string

	// Install brings the addon to a healthy installed state. A second
	// call against a healthy installation is a no-op.
	Install(ctx context.Context) error
}

// Runner executes an external command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- fixed tool names, arguments from config
	return cmd.CombinedOutput()
}

// Manager installs a fixed sequence of addons in order.
type Manager struct {
	addons []Addon
}

// NewManager returns a Manager that installs addons in the given order.
func NewManager(addons ...Addon) *Manager {
	return &Manager{addons: addons}
}

// InstallAll installs every addon in sequence, stopping at the first
// failure or context cancellation.
func (m *Manager) InstallAll(ctx context.Context) error {
	for _, addon := range m.addons {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Printf("[addons] installing %s", addon.Name())
		if err := addon.Install(ctx); err != nil {
			return fmt.Errorf("addon %s: %w", addon.Name(), err)
		}
	}
	return nil
}
