// Package report collects and renders deployment results: how to reach
// the applications and what state the cluster objects are in.
package report

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/kubeship/kubeship/internal/config"
	"github.com/kubeship/kubeship/internal/env"
)

const (
	ingressNamespace         = "ingress-nginx"
	ingressControllerService = "ingress-nginx-controller"
)

// Endpoint is one application's access URL.
type Endpoint struct {
	App string
	URL string
}

// Access describes how the deployed applications can be reached.
type Access struct {
	// Context is the kubectl context the report was collected from.
	Context string

	// LoadBalancerIP is the address MetalLB assigned to the ingress
	// controller service. Empty when none is assigned.
	LoadBalancerIP string

	// Host is the address used in the endpoint URLs. Never empty.
	Host string

	// Port is the HTTP port used in the endpoint URLs, zero when the
	// URLs use the default port.
	Port int32

	// TunnelHint is set on minikube, where LoadBalancer services need
	// `minikube tunnel` to become routable.
	TunnelHint bool

	Endpoints []Endpoint
}

// Collector reads cluster state to build reports.
type Collector struct {
	reader ctrlclient.Reader
	facts  env.Facts
	cfg    *config.Config
}

// NewCollector builds a Collector on an existing reader, typically a
// fake client in tests.
func NewCollector(reader ctrlclient.Reader, facts env.Facts, cfg *config.Config) *Collector {
	return &Collector{reader: reader, facts: facts, cfg: cfg}
}

// NewCollectorForConfig builds a Collector talking to a live cluster.
func NewCollectorForConfig(restConfig *rest.Config, facts env.Facts, cfg *config.Config) (*Collector, error) {
	reader, err := ctrlclient.New(restConfig, ctrlclient.Options{Scheme: scheme.Scheme})
	if err != nil {
		return nil, fmt.Errorf("failed to create cluster reader: %w", err)
	}
	return NewCollector(reader, facts, cfg), nil
}

// CollectAccess determines the address applications are reachable at.
// On minikube the node IP plus the ingress NodePort is reported along
// with a tunnel hint. Elsewhere the ingress controller's LoadBalancer
// IP is used when present, otherwise the detected external IP with the
// NodePort; the unset LoadBalancer field is never reported as an
// address.
func (c *Collector) CollectAccess(ctx context.Context) (*Access, error) {
	access := &Access{Context: c.facts.KubeContext}

	var svc corev1.Service
	key := ctrlclient.ObjectKey{Namespace: ingressNamespace, Name: ingressControllerService}
	if err := c.reader.Get(ctx, key, &svc); err != nil {
		return nil, fmt.Errorf("failed to read ingress controller service: %w", err)
	}
	nodePort := httpNodePort(&svc)

	if c.facts.Minikube() {
		access.TunnelHint = true
		nodeIP, err := c.nodeInternalIP(ctx)
		if err != nil {
			return nil, err
		}
		access.Host = nodeIP
		access.Port = nodePort
	} else if lbIP := loadBalancerIP(&svc); lbIP != "" {
		access.LoadBalancerIP = lbIP
		access.Host = lbIP
	} else {
		access.Host = c.facts.ExternalIP
		access.Port = nodePort
	}

	base := "http://" + access.Host
	if access.Port != 0 {
		base = fmt.Sprintf("%s:%d", base, access.Port)
	}
	for _, app := range c.cfg.Apps {
		access.Endpoints = append(access.Endpoints, Endpoint{App: app.Name, URL: base + app.Path})
	}

	return access, nil
}

func (c *Collector) nodeInternalIP(ctx context.Context) (string, error) {
	var nodes corev1.NodeList
	if err := c.reader.List(ctx, &nodes); err != nil {
		return "", fmt.Errorf("failed to list nodes: %w", err)
	}
	if len(nodes.Items) == 0 {
		return "", fmt.Errorf("cluster has no nodes")
	}
	for _, addr := range nodes.Items[0].Status.Addresses {
		if addr.Type == corev1.NodeInternalIP {
			return addr.Address, nil
		}
	}
	return "", fmt.Errorf("node %s has no internal IP", nodes.Items[0].Name)
}

func loadBalancerIP(svc *corev1.Service) string {
	for _, ingress := range svc.Status.LoadBalancer.Ingress {
		if ingress.IP != "" {
			return ingress.IP
		}
	}
	return ""
}

func httpNodePort(svc *corev1.Service) int32 {
	for _, port := range svc.Spec.Ports {
		if port.Port == 80 || port.Name == "http" {
			return port.NodePort
		}
	}
	return 0
}
