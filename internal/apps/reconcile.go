package apps

import (
	"context"
	"fmt"
	"log"

	"github.com/kubeship/kubeship/internal/config"
	"github.com/kubeship/kubeship/internal/k8s"
)

// Reconciler applies the application manifests to the cluster.
type Reconciler struct {
	client k8s.Client
	cfg    *config.Config
}

// NewReconciler constructs a Reconciler for the given cluster and config.
func NewReconciler(client k8s.Client, cfg *config.Config) *Reconciler {
	return &Reconciler{client: client, cfg: cfg}
}

// Reconcile creates the target namespace if absent, deletes any
// previous application objects, re-applies the manifests, and waits for
// every Deployment to become ready. Deletion failures are logged and
// ignored; the apply result is what matters.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	manifests, err := Render(r.cfg)
	if err != nil {
		return err
	}

	// A config file or the init wizard may name a namespace that has
	// never been created; applying into it would be rejected.
	if err := r.client.EnsureNamespace(ctx, r.cfg.Namespace); err != nil {
		return err
	}

	log.Printf("[apps] removing previous application objects")
	if err := r.client.DeleteManifests(ctx, manifests); err != nil {
		log.Printf("[apps] delete of previous objects failed, continuing: %v", err)
	}
	if err := r.client.WaitForDeploymentsGone(ctx, r.cfg.Namespace, r.deploymentNames(), config.DeleteSettleTimeout); err != nil {
		log.Printf("[apps] previous deployments still terminating, continuing: %v", err)
	}

	log.Printf("[apps] applying application manifests")
	if err := r.client.ApplyManifests(ctx, manifests, k8s.FieldManager); err != nil {
		return fmt.Errorf("failed to apply application manifests: %w", err)
	}

	for _, app := range r.cfg.Apps {
		log.Printf("[apps] waiting for deployment %s", app.Name)
		if err := r.client.WaitForDeployment(ctx, r.cfg.Namespace, app.Name, config.AppReadyTimeout); err != nil {
			return fmt.Errorf("deployment %s did not become ready: %w", app.Name, err)
		}
	}

	return nil
}

// Teardown deletes the application objects and waits for the
// Deployments to disappear.
func (r *Reconciler) Teardown(ctx context.Context) error {
	manifests, err := Render(r.cfg)
	if err != nil {
		return err
	}

	log.Printf("[apps] deleting application objects")
	if err := r.client.DeleteManifests(ctx, manifests); err != nil {
		return fmt.Errorf("failed to delete application manifests: %w", err)
	}
	if err := r.client.WaitForDeploymentsGone(ctx, r.cfg.Namespace, r.deploymentNames(), config.DeleteSettleTimeout); err != nil {
		return fmt.Errorf("deployments did not terminate: %w", err)
	}

	return nil
}

func (r *Reconciler) deploymentNames() []string {
	names := make([]string, 0, len(r.cfg.Apps))
	for _, app := range r.cfg.Apps {
		names = append(names, app.Name)
	}
	return names
}
