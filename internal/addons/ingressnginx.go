package addons

import (
	"context"
	"fmt"
	"log"

	"github.com/kubeship/kubeship/internal/config"
	"github.com/kubeship/kubeship/internal/env"
	"github.com/kubeship/kubeship/internal/helm"
	"github.com/kubeship/kubeship/internal/k8s"
)

const (
	ingressNamespace = "ingress-nginx"
	ingressRelease   = "ingress-nginx"

	ingressControllerSelector = "app.kubernetes.io/component=controller"

	// Fixed NodePorts so access URLs are predictable when no
	// LoadBalancer IP is assigned.
	IngressHTTPNodePort  = 30080
	IngressHTTPSNodePort = 30443
)

// IngressNginx installs the NGINX Ingress Controller. On minikube the
// bundled addon is enabled instead of installing the chart.
type IngressNginx struct {
	client    k8s.Client
	installer helm.Installer
	facts     env.Facts
	cfg       config.Ingress
	run       Runner
}

// NewIngressNginx constructs the ingress addon.
func NewIngressNginx(client k8s.Client, installer helm.Installer, facts env.Facts, cfg config.Ingress) *IngressNginx {
	return &IngressNginx{client: client, installer: installer, facts: facts, cfg: cfg, run: execRunner}
}

// NewIngressNginxWithRunner is NewIngressNginx with a custom command
// runner, for tests.
func NewIngressNginxWithRunner(client k8s.Client, installer helm.Installer, facts env.Facts, cfg config.Ingress, run Runner) *IngressNginx {
	return &IngressNginx{client: client, installer: installer, facts: facts, cfg: cfg, run: run}
}

func (i *IngressNginx) Name() string { return "ingress-nginx" }

// Install brings up the ingress controller and waits, best effort, for
// its pods to become ready.
func (i *IngressNginx) Install(ctx context.Context) error {
	if i.facts.Minikube() {
		if err := i.enableMinikubeAddon(ctx); err != nil {
			return err
		}
	} else {
		if err := i.installChart(ctx); err != nil {
			return err
		}
	}

	if err := i.client.WaitForPodsReady(ctx, ingressNamespace, ingressControllerSelector, config.IngressReadyTimeout); err != nil {
		log.Printf("[addons] ingress-nginx: controller not ready yet, continuing: %v", err)
	}
	return nil
}

func (i *IngressNginx) enableMinikubeAddon(ctx context.Context) error {
	log.Printf("[addons] ingress-nginx: enabling minikube ingress addon")
	out, err := i.run(ctx, "minikube", "addons", "enable", "ingress")
	if err != nil {
		return fmt.Errorf("failed to enable minikube ingress addon: %w\n%s", err, out)
	}
	return nil
}

func (i *IngressNginx) installChart(ctx context.Context) error {
	spec := helm.SpecFor("ingress-nginx", i.cfg.Helm)
	rel := helm.Release{
		Name:      ingressRelease,
		Namespace: ingressNamespace,
		Spec:      spec,
		Values:    ingressValues(),
		Timeout:   config.IngressReadyTimeout,
	}
	if err := i.installer.InstallOrUpgrade(ctx, rel); err != nil {
		return fmt.Errorf("failed to install ingress-nginx chart: %w", err)
	}
	return nil
}

// ingressValues exposes the controller as a LoadBalancer so MetalLB can
// assign it an address, with fixed NodePorts as a reachable fallback
// when no LoadBalancer IP gets assigned.
func ingressValues() helm.Values {
	return helm.Values{
		"controller": helm.Values{
			"service": helm.Values{
				"type": "LoadBalancer",
				"nodePorts": helm.Values{
					"http":  IngressHTTPNodePort,
					"https": IngressHTTPSNodePort,
				},
			},
		},
	}
}
