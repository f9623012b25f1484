package addons

import (
	"context"
	"fmt"

	"github.com/kubeship/kubeship/internal/config"
)

// controllerCrashLooping reports whether any MetalLB controller pod has
// a container waiting in CrashLoopBackOff.
func (m *MetalLB) controllerCrashLooping(ctx context.Context) (bool, error) {
	pods, err := m.client.ListPods(ctx, metallbNamespace, metallbControllerSelector)
	if err != nil {
		return false, fmt.Errorf("failed to list metallb controller pods: %w", err)
	}
	for _, pod := range pods {
		for _, status := range pod.Status.ContainerStatuses {
			if status.State.Waiting != nil && status.State.Waiting.Reason == "CrashLoopBackOff" {
				return true, nil
			}
		}
	}
	return false, nil
}

// teardown removes the MetalLB namespace and waits until it is actually
// gone, so the subsequent install starts from a clean slate.
func (m *MetalLB) teardown(ctx context.Context) error {
	if err := m.client.DeleteNamespace(ctx, metallbNamespace); err != nil {
		return fmt.Errorf("failed to delete namespace %s: %w", metallbNamespace, err)
	}
	if err := m.client.WaitForNamespaceGone(ctx, metallbNamespace, config.NamespaceDeleteTimeout); err != nil {
		return fmt.Errorf("namespace %s did not terminate: %w", metallbNamespace, err)
	}
	return nil
}
