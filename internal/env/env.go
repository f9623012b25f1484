// Package env detects host environment facts that steer the deployment:
// OS family, the host's primary external IP, and the active kubectl context.
// Each fact is read once and never mutated.
package env

import (
	"fmt"
	"runtime"

	"k8s.io/client-go/tools/clientcmd"
)

// MinikubeContext is the context name that selects the minikube code paths.
const MinikubeContext = "minikube"

// Facts holds the detected host environment.
type Facts struct {
	// OS is the host OS family (GOOS value: "darwin", "linux", ...).
	OS string

	// ExternalIP is the primary non-loopback IPv4 of the host, or
	// 127.0.0.1 when detection found nothing. Never empty.
	ExternalIP string

	// KubeContext is the active kubectl context name. Empty when no
	// kubeconfig is present.
	KubeContext string
}

// Minikube reports whether the active context is minikube.
func (f Facts) Minikube() bool {
	return f.KubeContext == MinikubeContext
}

// currentContext is a factory variable replaced in tests.
var currentContext = loadCurrentContext

// Detect gathers the host environment facts. IP detection never fails;
// a missing kubeconfig leaves KubeContext empty rather than erroring so
// the caller can decide what that means.
func Detect(kubeconfigPath string) (Facts, error) {
	facts := Facts{
		OS:         runtime.GOOS,
		ExternalIP: ExternalIP(),
	}

	kubeContext, err := currentContext(kubeconfigPath)
	if err != nil {
		return facts, fmt.Errorf("failed to read kubeconfig: %w", err)
	}
	facts.KubeContext = kubeContext

	return facts, nil
}

// loadCurrentContext reads the current context from the kubeconfig,
// honoring KUBECONFIG and the default ~/.kube/config location.
func loadCurrentContext(kubeconfigPath string) (string, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfigPath != "" {
		rules.ExplicitPath = kubeconfigPath
	}

	cfg, err := rules.Load()
	if err != nil {
		return "", err
	}
	return cfg.CurrentContext, nil
}
