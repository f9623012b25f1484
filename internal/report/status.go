package report

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"
)

// DeploymentStatus summarises one Deployment.
type DeploymentStatus struct {
	Name    string
	Ready   int32
	Desired int32
}

// ServiceStatus summarises one Service.
type ServiceStatus struct {
	Name       string
	Type       string
	ClusterIP  string
	ExternalIP string
}

// PodStatus summarises one Pod.
type PodStatus struct {
	Name     string
	Phase    string
	Restarts int32
}

// NamespaceStatus holds the object summaries for one namespace.
type NamespaceStatus struct {
	Name        string
	Missing     bool
	Deployments []DeploymentStatus
	Services    []ServiceStatus
	Pods        []PodStatus
}

// Status is a point-in-time snapshot of the namespaces kubeship manages.
type Status struct {
	Namespaces []NamespaceStatus
}

// CollectStatus snapshots the application namespace plus the addon
// namespaces. Namespaces that do not exist are reported as missing
// rather than failing the whole snapshot.
func (c *Collector) CollectStatus(ctx context.Context) (*Status, error) {
	namespaces := []string{c.cfg.Namespace, "metallb-system", ingressNamespace}

	status := &Status{}
	for _, ns := range namespaces {
		nsStatus, err := c.namespaceStatus(ctx, ns)
		if err != nil {
			return nil, err
		}
		status.Namespaces = append(status.Namespaces, nsStatus)
	}
	return status, nil
}

func (c *Collector) namespaceStatus(ctx context.Context, name string) (NamespaceStatus, error) {
	status := NamespaceStatus{Name: name}

	var namespace corev1.Namespace
	if err := c.reader.Get(ctx, ctrlclient.ObjectKey{Name: name}, &namespace); err != nil {
		if apierrors.IsNotFound(err) {
			status.Missing = true
			return status, nil
		}
		return status, fmt.Errorf("failed to read namespace %s: %w", name, err)
	}

	inNamespace := ctrlclient.InNamespace(name)

	var deployments appsv1.DeploymentList
	if err := c.reader.List(ctx, &deployments, inNamespace); err != nil {
		return status, fmt.Errorf("failed to list deployments in %s: %w", name, err)
	}
	for _, d := range deployments.Items {
		desired := int32(1)
		if d.Spec.Replicas != nil {
			desired = *d.Spec.Replicas
		}
		status.Deployments = append(status.Deployments, DeploymentStatus{
			Name:    d.Name,
			Ready:   d.Status.ReadyReplicas,
			Desired: desired,
		})
	}

	var services corev1.ServiceList
	if err := c.reader.List(ctx, &services, inNamespace); err != nil {
		return status, fmt.Errorf("failed to list services in %s: %w", name, err)
	}
	for _, s := range services.Items {
		status.Services = append(status.Services, ServiceStatus{
			Name:       s.Name,
			Type:       string(s.Spec.Type),
			ClusterIP:  s.Spec.ClusterIP,
			ExternalIP: loadBalancerIP(&s),
		})
	}

	var pods corev1.PodList
	if err := c.reader.List(ctx, &pods, inNamespace); err != nil {
		return status, fmt.Errorf("failed to list pods in %s: %w", name, err)
	}
	for _, p := range pods.Items {
		var restarts int32
		for _, cs := range p.Status.ContainerStatuses {
			restarts += cs.RestartCount
		}
		status.Pods = append(status.Pods, PodStatus{
			Name:     p.Name,
			Phase:    string(p.Status.Phase),
			Restarts: restarts,
		})
	}

	return status, nil
}
