package helm

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/cli"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/kubeship/kubeship/internal/util/retry"
)

// Release describes a chart installation.
type Release struct {
	// Name is the Helm release name.
	Name string

	// Namespace is the target namespace, created if absent.
	Namespace string

	// Spec identifies the chart to install.
	Spec ChartSpec

	// Values are the chart values.
	Values Values

	// Timeout bounds the install or upgrade, including the wait for
	// resources to become ready.
	Timeout time.Duration
}

// Installer installs or upgrades Helm releases. Extracted as an
// interface so addon logic can be tested without a cluster.
type Installer interface {
	InstallOrUpgrade(ctx context.Context, rel Release) error
}

// Client implements Installer against a live cluster.
type Client struct {
	settings   *cli.EnvSettings
	restConfig *rest.Config
}

// NewClient returns a Client that talks to the cluster described by
// restConfig.
func NewClient(restConfig *rest.Config) *Client {
	return &Client{
		settings:   cli.New(),
		restConfig: restConfig,
	}
}

// InstallOrUpgrade installs the release, or upgrades it when a release
// with the same name already exists.
func (c *Client) InstallOrUpgrade(ctx context.Context, rel Release) error {
	actionConfig := new(action.Configuration)
	getter := &restClientGetter{config: c.restConfig}

	if err := actionConfig.Init(getter, rel.Namespace, os.Getenv("HELM_DRIVER"), log.Printf); err != nil {
		return fmt.Errorf("failed to init helm action config: %w", err)
	}

	cp := &action.ChartPathOptions{
		RepoURL: rel.Spec.Repository,
		Version: rel.Spec.Version,
	}

	// Chart downloads go over the network; transient repo failures are
	// retried before giving up.
	var chartPath string
	err := retry.Do(ctx, func() error {
		var locateErr error
		chartPath, locateErr = cp.LocateChart(rel.Spec.Name, c.settings)
		return locateErr
	}, retry.WithAttempts(3), retry.WithBaseDelay(2*time.Second))
	if err != nil {
		return fmt.Errorf("failed to locate chart %s: %w", rel.Spec.Name, err)
	}

	chart, err := loader.Load(chartPath)
	if err != nil {
		return fmt.Errorf("failed to load chart %s: %w", rel.Spec.Name, err)
	}

	timeout := rel.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	// An existing release means upgrade, not install.
	histClient := action.NewHistory(actionConfig)
	histClient.Max = 1
	if _, err := histClient.Run(rel.Name); err == nil {
		upgrade := action.NewUpgrade(actionConfig)
		upgrade.Namespace = rel.Namespace
		upgrade.Wait = true
		upgrade.Timeout = timeout
		if _, err := upgrade.RunWithContext(ctx, rel.Name, chart, rel.Values); err != nil {
			return fmt.Errorf("helm upgrade of %s failed: %w", rel.Name, err)
		}
		return nil
	}

	install := action.NewInstall(actionConfig)
	install.Namespace = rel.Namespace
	install.ReleaseName = rel.Name
	install.CreateNamespace = true
	install.Wait = true
	install.Timeout = timeout
	if _, err := install.RunWithContext(ctx, chart, rel.Values); err != nil {
		return fmt.Errorf("helm install of %s failed: %w", rel.Name, err)
	}

	return nil
}

// restClientGetter adapts a rest.Config for the Helm action API.
type restClientGetter struct {
	config *rest.Config
}

func (g *restClientGetter) ToRESTConfig() (*rest.Config, error) {
	return g.config, nil
}

func (g *restClientGetter) ToDiscoveryClient() (discovery.CachedDiscoveryInterface, error) {
	discoveryClient, err := discovery.NewDiscoveryClientForConfig(g.config)
	if err != nil {
		return nil, err
	}
	return memory.NewMemCacheClient(discoveryClient), nil
}

func (g *restClientGetter) ToRESTMapper() (meta.RESTMapper, error) {
	discoveryClient, err := g.ToDiscoveryClient()
	if err != nil {
		return nil, err
	}
	return restmapper.NewDeferredDiscoveryRESTMapper(discoveryClient), nil
}

func (g *restClientGetter) ToRawKubeConfigLoader() clientcmd.ClientConfig {
	return clientcmd.NewDefaultClientConfig(*clientcmdapi.NewConfig(), &clientcmd.ConfigOverrides{})
}
