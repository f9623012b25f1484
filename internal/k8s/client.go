// Package k8s wraps the Kubernetes API operations kubeship needs: applying
// and deleting manifests, readiness waits, and point-in-time status queries.
package k8s

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"
)

// Client defines the cluster operations used by the deployment flow.
// The interface exists so addons, reconciliation, and reporting can be
// tested against fake clientsets.
type Client interface {
	// ApplyManifests applies multi-document YAML using Server-Side Apply.
	ApplyManifests(ctx context.Context, manifests []byte, fieldManager string) error

	// DeleteManifests deletes every object in multi-document YAML.
	// Objects that do not exist are skipped.
	DeleteManifests(ctx context.Context, manifests []byte) error

	// NamespaceExists reports whether the named namespace exists.
	NamespaceExists(ctx context.Context, name string) (bool, error)

	// EnsureNamespace creates a namespace if it does not already exist.
	EnsureNamespace(ctx context.Context, name string) error

	// DeleteNamespace deletes a namespace, returning nil if not found.
	DeleteNamespace(ctx context.Context, name string) error

	// WaitForNamespaceGone waits until the namespace no longer exists.
	WaitForNamespaceGone(ctx context.Context, name string, timeout time.Duration) error

	// WaitForDeployment waits for a deployment to become ready.
	WaitForDeployment(ctx context.Context, namespace, name string, timeout time.Duration) error

	// WaitForDeploymentsGone waits until none of the named deployments exist.
	WaitForDeploymentsGone(ctx context.Context, namespace string, names []string, timeout time.Duration) error

	// WaitForPodsReady waits for all pods matching a label selector to be
	// ready. At least one matching pod must exist.
	WaitForPodsReady(ctx context.Context, namespace, labelSelector string, timeout time.Duration) error

	// ListPods returns pods matching a label selector in a namespace.
	ListPods(ctx context.Context, namespace, labelSelector string) ([]corev1.Pod, error)

	// ListDeployments returns all deployments in a namespace.
	ListDeployments(ctx context.Context, namespace string) ([]appsv1.Deployment, error)

	// ListServices returns all services in a namespace.
	ListServices(ctx context.Context, namespace string) ([]corev1.Service, error)

	// GetService returns a single service.
	GetService(ctx context.Context, namespace, name string) (*corev1.Service, error)

	// GetNodeInternalIP returns the internal IP of the first cluster node.
	GetNodeInternalIP(ctx context.Context) (string, error)

	// RESTConfig returns the rest config the client was built from, for
	// handing to Helm and other API consumers. Nil for fake clients.
	RESTConfig() *rest.Config
}

// client implements Client using k8s.io/client-go.
type client struct {
	clientset     kubernetes.Interface
	dynamicClient dynamic.Interface
	mapper        meta.RESTMapper
	restConfig    *rest.Config
}

// NewForContext creates a Client for the given kubeconfig path and context
// name. Empty values fall back to the default loading rules and the
// current context.
func NewForContext(kubeconfigPath, contextName string) (Client, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfigPath != "" {
		rules.ExplicitPath = kubeconfigPath
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: contextName}

	restConfig, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build REST config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}

	groupResources, err := restmapper.GetAPIGroupResources(discoveryClient)
	if err != nil {
		return nil, fmt.Errorf("failed to get API group resources: %w", err)
	}

	return &client{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		mapper:        restmapper.NewDiscoveryRESTMapper(groupResources),
		restConfig:    restConfig,
	}, nil
}

// NewFromClients creates a Client from pre-built clients, for tests.
func NewFromClients(clientset kubernetes.Interface, dynamicClient dynamic.Interface, mapper meta.RESTMapper) Client {
	return &client{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		mapper:        mapper,
	}
}

func (c *client) RESTConfig() *rest.Config {
	return c.restConfig
}
