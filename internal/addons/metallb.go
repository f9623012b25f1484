package addons

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/kubeship/kubeship/internal/config"
	"github.com/kubeship/kubeship/internal/env"
	"github.com/kubeship/kubeship/internal/helm"
	"github.com/kubeship/kubeship/internal/k8s"
)

const (
	metallbNamespace = "metallb-system"
	metallbRelease   = "metallb"

	// metallbControllerSelector matches the controller pods of the
	// official chart.
	metallbControllerSelector = "app.kubernetes.io/component=controller"
)

// MetalLB installs the MetalLB load balancer and configures its address
// pool. Skipped entirely when the cluster is minikube, which brings its
// own LoadBalancer support via the tunnel.
type MetalLB struct {
	client    k8s.Client
	installer helm.Installer
	facts     env.Facts
	cfg       config.MetalLB
}

// NewMetalLB constructs the MetalLB addon.
func NewMetalLB(client k8s.Client, installer helm.Installer, facts env.Facts, cfg config.MetalLB) *MetalLB {
	return &MetalLB{client: client, installer: installer, facts: facts, cfg: cfg}
}

func (m *MetalLB) Name() string { return "metallb" }

// Install ensures MetalLB is installed and healthy, then applies the
// address pool configuration. An existing installation whose controller
// is crash-looping is torn down and reinstalled.
func (m *MetalLB) Install(ctx context.Context) error {
	if m.facts.Minikube() {
		log.Printf("[addons] metallb: skipping, minikube provides LoadBalancer support")
		return nil
	}

	installed, err := m.client.NamespaceExists(ctx, metallbNamespace)
	if err != nil {
		return fmt.Errorf("failed to check namespace %s: %w", metallbNamespace, err)
	}

	if installed {
		crashing, err := m.controllerCrashLooping(ctx)
		if err != nil {
			return err
		}
		if crashing {
			log.Printf("[addons] metallb: controller is crash-looping, reinstalling")
			if err := m.teardown(ctx); err != nil {
				return err
			}
			installed = false
		} else {
			log.Printf("[addons] metallb: already installed")
		}
	}

	if !installed {
		spec := helm.SpecFor("metallb", m.cfg.Helm)
		rel := helm.Release{
			Name:      metallbRelease,
			Namespace: metallbNamespace,
			Spec:      spec,
			Timeout:   config.MetalLBReadyTimeout,
		}
		if err := m.installer.InstallOrUpgrade(ctx, rel); err != nil {
			return fmt.Errorf("failed to install metallb chart: %w", err)
		}
	}

	// Readiness is best effort: a slow controller should not abort the
	// deployment, the address pool apply below surfaces real breakage.
	if err := m.client.WaitForPodsReady(ctx, metallbNamespace, metallbControllerSelector, config.MetalLBReadyTimeout); err != nil {
		log.Printf("[addons] metallb: controller not ready yet, continuing: %v", err)
	}

	if err := m.applyAddressPool(ctx); err != nil {
		return err
	}

	log.Printf("[addons] metallb: configured with address range %s", m.addressRange())
	return nil
}

// applyAddressPool applies the IPAddressPool and L2Advertisement that
// tell MetalLB which addresses it may hand out.
func (m *MetalLB) applyAddressPool(ctx context.Context) error {
	manifests := m.addressPoolManifests()
	if err := m.client.ApplyManifests(ctx, manifests, k8s.FieldManager); err != nil {
		return fmt.Errorf("failed to apply metallb address pool: %w", err)
	}
	return nil
}

// addressRange returns the configured pool range, or derives one from
// the host's external IP by claiming the top of its /24.
func (m *MetalLB) addressRange() string {
	if m.cfg.AddressRange != "" {
		return m.cfg.AddressRange
	}
	prefix := m.facts.ExternalIP
	if idx := strings.LastIndex(prefix, "."); idx >= 0 {
		prefix = prefix[:idx]
	}
	return fmt.Sprintf("%s.240-%s.250", prefix, prefix)
}

func (m *MetalLB) addressPoolManifests() []byte {
	return fmt.Appendf(nil, `apiVersion: metallb.io/v1beta1
kind: IPAddressPool
metadata:
  name: default-pool
  namespace: %[1]s
spec:
  addresses:
    - %[2]s
---
apiVersion: metallb.io/v1beta1
kind: L2Advertisement
metadata:
  name: default-l2
  namespace: %[1]s
spec:
  ipAddressPools:
    - default-pool
`, metallbNamespace, m.addressRange())
}
