package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/kubeship/kubeship/internal/config"
)

// TeardownOptions holds the teardown command flags.
type TeardownOptions struct {
	ConfigPath string
	Kubeconfig string
	Addons     bool
}

// addonNamespaces are removed by teardown --addons.
var addonNamespaces = []string{"metallb-system", "ingress-nginx"}

// Teardown deletes the application objects, and with Addons set also
// the addon namespaces.
func Teardown(ctx context.Context, opts TeardownOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	client, err := newClusterClient(opts.Kubeconfig, "")
	if err != nil {
		return err
	}

	if err := newReconciler(client, cfg).Teardown(ctx); err != nil {
		return err
	}

	if !opts.Addons {
		return nil
	}

	for _, ns := range addonNamespaces {
		log.Printf("[teardown] deleting namespace %s", ns)
		if err := client.DeleteNamespace(ctx, ns); err != nil {
			return fmt.Errorf("failed to delete namespace %s: %w", ns, err)
		}
		if err := client.WaitForNamespaceGone(ctx, ns, config.NamespaceDeleteTimeout); err != nil {
			return fmt.Errorf("namespace %s did not terminate: %w", ns, err)
		}
	}

	return nil
}
