package config

import "time"

// Timeouts for cluster operations. Readiness waits are bounded and
// best-effort: expiry is logged but does not abort the deployment.
const (
	// MetalLBReadyTimeout bounds the wait for the MetalLB controller and
	// speakers after install.
	MetalLBReadyTimeout = 90 * time.Second

	// IngressReadyTimeout bounds the wait for the ingress controller pods.
	IngressReadyTimeout = 120 * time.Second

	// AppReadyTimeout bounds the wait for an application Deployment.
	AppReadyTimeout = 120 * time.Second

	// DeleteSettleTimeout bounds the wait for deleted Deployments to
	// disappear before they are recreated.
	DeleteSettleTimeout = 60 * time.Second

	// NamespaceDeleteTimeout bounds the wait for a namespace to be gone
	// during self-healing.
	NamespaceDeleteTimeout = 2 * time.Minute

	// ImageBuildTimeout bounds a single docker build invocation.
	ImageBuildTimeout = 10 * time.Minute

	// DeployTimeout bounds the whole deploy sequence.
	DeployTimeout = 20 * time.Minute
)
