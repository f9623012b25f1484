// Package handlers carries out the work behind each CLI command.
//
// The commands package parses flags and delegates here. Handlers know
// nothing about cobra, and their collaborators are injected through
// package-level factory variables so tests can swap them out.
package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"k8s.io/client-go/rest"

	"github.com/kubeship/kubeship/internal/addons"
	"github.com/kubeship/kubeship/internal/apps"
	"github.com/kubeship/kubeship/internal/config"
	"github.com/kubeship/kubeship/internal/docker"
	"github.com/kubeship/kubeship/internal/env"
	"github.com/kubeship/kubeship/internal/helm"
	"github.com/kubeship/kubeship/internal/k8s"
	"github.com/kubeship/kubeship/internal/report"
	"github.com/kubeship/kubeship/internal/util/prerequisites"
)

// imageBuilder matches docker.Builder, for test injection.
type imageBuilder interface {
	BuildAll(ctx context.Context, appList []config.App) error
	LoadIntoMinikube(ctx context.Context, appList []config.App) error
}

// reconciler matches apps.Reconciler, for test injection.
type reconciler interface {
	Reconcile(ctx context.Context) error
	Teardown(ctx context.Context) error
}

// addonInstaller matches addons.Manager, for test injection.
type addonInstaller interface {
	InstallAll(ctx context.Context) error
}

// accessCollector matches report.Collector, for test injection.
type accessCollector interface {
	CollectAccess(ctx context.Context) (*report.Access, error)
	CollectStatus(ctx context.Context) (*report.Status, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig loads the configuration file.
	loadConfig = config.Load

	// detectEnv detects the host environment facts.
	detectEnv = env.Detect

	// checkPrerequisites verifies required CLI tools are installed.
	checkPrerequisites = prerequisites.CheckFor

	// newImageBuilder creates the container image builder.
	newImageBuilder = func() imageBuilder { return docker.NewBuilder() }

	// newClusterClient creates the cluster API client.
	newClusterClient = k8s.NewForContext

	// newHelmInstaller creates the chart installer.
	newHelmInstaller = func(restConfig *rest.Config) helm.Installer { return helm.NewClient(restConfig) }

	// newAddonManager creates the addon install sequence.
	newAddonManager = func(client k8s.Client, installer helm.Installer, facts env.Facts, cfg *config.Config) addonInstaller {
		return addons.NewManager(
			addons.NewMetalLB(client, installer, facts, cfg.MetalLB),
			addons.NewIngressNginx(client, installer, facts, cfg.Ingress),
		)
	}

	// newReconciler creates the application reconciler.
	newReconciler = func(client k8s.Client, cfg *config.Config) reconciler {
		return apps.NewReconciler(client, cfg)
	}

	// newCollector creates the report collector.
	newCollector = func(restConfig *rest.Config, facts env.Facts, cfg *config.Config) (accessCollector, error) {
		return report.NewCollectorForConfig(restConfig, facts, cfg)
	}

	// newRenderer creates the report renderer.
	newRenderer = report.NewRenderer

	// stdout is where reports are written.
	stdout io.Writer = os.Stdout
)

// DeployOptions holds the deploy command flags.
type DeployOptions struct {
	ConfigPath string
	Kubeconfig string
	SkipBuild  bool
	SkipAddons bool
	Timeout    time.Duration
}

// Deploy runs the full provisioning flow:
//  1. Loads the configuration and detects the host environment
//  2. Verifies required CLI tools are installed
//  3. Builds the application container images (loaded into minikube's
//     image store when applicable)
//  4. Ensures MetalLB (non-minikube only) and the ingress controller
//     are installed and healthy
//  5. Re-applies the application manifests and waits for readiness
//  6. Prints the access endpoints and a status snapshot
//
// Image build, addon install, and manifest reconciliation abort the run
// on failure. The final reports are best effort: by that point the
// deployment itself has succeeded.
func Deploy(ctx context.Context, opts DeployOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	facts, err := detectEnv(opts.Kubeconfig)
	if err != nil {
		return err
	}
	log.Printf("[deploy] os=%s context=%s external-ip=%s", facts.OS, facts.KubeContext, facts.ExternalIP)

	if err := checkPrerequisites(facts.Minikube()).Err(); err != nil {
		return err
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = config.DeployTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if opts.SkipBuild {
		log.Printf("[deploy] skipping image build")
	} else {
		builder := newImageBuilder()
		if err := builder.BuildAll(ctx, cfg.Apps); err != nil {
			return err
		}
		if facts.Minikube() {
			if err := builder.LoadIntoMinikube(ctx, cfg.Apps); err != nil {
				return err
			}
		}
	}

	client, err := newClusterClient(opts.Kubeconfig, "")
	if err != nil {
		return err
	}

	if opts.SkipAddons {
		log.Printf("[deploy] skipping addon install")
	} else {
		installer := newHelmInstaller(client.RESTConfig())
		if err := newAddonManager(client, installer, facts, cfg).InstallAll(ctx); err != nil {
			return err
		}
	}

	if err := newReconciler(client, cfg).Reconcile(ctx); err != nil {
		return err
	}

	printReport(ctx, client.RESTConfig(), facts, cfg)
	return nil
}

// printReport prints the access endpoints and a status snapshot, best
// effort.
func printReport(ctx context.Context, restConfig *rest.Config, facts env.Facts, cfg *config.Config) {
	collector, err := newCollector(restConfig, facts, cfg)
	if err != nil {
		log.Printf("[deploy] cannot collect reports: %v", err)
		return
	}

	renderer := newRenderer()
	if access, err := collector.CollectAccess(ctx); err != nil {
		log.Printf("[deploy] cannot report access endpoints: %v", err)
	} else {
		fmt.Fprint(stdout, renderer.RenderAccess(access))
	}

	if status, err := collector.CollectStatus(ctx); err != nil {
		log.Printf("[deploy] cannot report cluster status: %v", err)
	} else {
		fmt.Fprint(stdout, renderer.RenderStatus(status))
	}
}
