package apps

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/kubeship/kubeship/internal/config"
	"github.com/kubeship/kubeship/internal/k8s"
)

func splitDocs(t *testing.T, manifests []byte) []string {
	t.Helper()
	var docs []string
	for _, doc := range strings.Split(string(manifests), "\n---\n") {
		if strings.TrimSpace(doc) != "" {
			docs = append(docs, doc)
		}
	}
	return docs
}

func TestRender_Defaults(t *testing.T) {
	manifests, err := Render(config.Default())
	require.NoError(t, err)

	docs := splitDocs(t, manifests)
	// Deployment and Service per app, plus one shared Ingress.
	require.Len(t, docs, 5)

	var deployment appsv1.Deployment
	require.NoError(t, sigsyaml.UnmarshalStrict([]byte(docs[0]), &deployment))
	assert.Equal(t, "app1", deployment.Name)
	assert.Equal(t, "default", deployment.Namespace)
	require.NotNil(t, deployment.Spec.Replicas)
	assert.Equal(t, int32(2), *deployment.Spec.Replicas)
	assert.Equal(t, map[string]string{"app": "app1"}, deployment.Spec.Selector.MatchLabels)
	require.Len(t, deployment.Spec.Template.Spec.Containers, 1)
	assert.Equal(t, "app1:latest", deployment.Spec.Template.Spec.Containers[0].Image)

	var service corev1.Service
	require.NoError(t, sigsyaml.UnmarshalStrict([]byte(docs[1]), &service))
	assert.Equal(t, "app1-service", service.Name)
	assert.Equal(t, map[string]string{"app": "app1"}, service.Spec.Selector)
	require.Len(t, service.Spec.Ports, 1)
	assert.Equal(t, int32(80), service.Spec.Ports[0].Port)

	var ingress networkingv1.Ingress
	require.NoError(t, sigsyaml.UnmarshalStrict([]byte(docs[4]), &ingress))
	require.NotNil(t, ingress.Spec.IngressClassName)
	assert.Equal(t, "nginx", *ingress.Spec.IngressClassName)
	require.Len(t, ingress.Spec.Rules, 1)
	assert.Empty(t, ingress.Spec.Rules[0].Host)
	paths := ingress.Spec.Rules[0].HTTP.Paths
	require.Len(t, paths, 2)
	assert.Equal(t, "/app1", paths[0].Path)
	assert.Equal(t, "app1-service", paths[0].Backend.Service.Name)
	assert.Equal(t, "/app2", paths[1].Path)
}

func TestRender_HostRule(t *testing.T) {
	cfg := config.Default()
	cfg.Ingress.Host = "apps.local"

	manifests, err := Render(cfg)
	require.NoError(t, err)

	docs := splitDocs(t, manifests)
	var ingress networkingv1.Ingress
	require.NoError(t, sigsyaml.UnmarshalStrict([]byte(docs[len(docs)-1]), &ingress))
	require.Len(t, ingress.Spec.Rules, 1)
	assert.Equal(t, "apps.local", ingress.Spec.Rules[0].Host)
}

// fakeClient records the reconciliation calls in order.
type fakeClient struct {
	k8s.Client

	calls    []string
	applyErr error
	waitErr  error
}

func (f *fakeClient) EnsureNamespace(_ context.Context, name string) error {
	f.calls = append(f.calls, "ensure-ns "+name)
	return nil
}

func (f *fakeClient) DeleteManifests(context.Context, []byte) error {
	f.calls = append(f.calls, "delete")
	return nil
}

func (f *fakeClient) WaitForDeploymentsGone(_ context.Context, _ string, names []string, _ time.Duration) error {
	f.calls = append(f.calls, "wait-gone "+strings.Join(names, ","))
	return nil
}

func (f *fakeClient) ApplyManifests(context.Context, []byte, string) error {
	f.calls = append(f.calls, "apply")
	return f.applyErr
}

func (f *fakeClient) WaitForDeployment(_ context.Context, _ string, name string, _ time.Duration) error {
	f.calls = append(f.calls, "wait "+name)
	return f.waitErr
}

func TestReconcile_Order(t *testing.T) {
	client := &fakeClient{}
	r := NewReconciler(client, config.Default())

	require.NoError(t, r.Reconcile(context.Background()))
	assert.Equal(t, []string{
		"ensure-ns default",
		"delete",
		"wait-gone app1,app2",
		"apply",
		"wait app1",
		"wait app2",
	}, client.calls)
}

func TestReconcile_CreatesCustomNamespace(t *testing.T) {
	cfg := config.Default()
	cfg.Namespace = "dev"
	client := &fakeClient{}
	r := NewReconciler(client, cfg)

	require.NoError(t, r.Reconcile(context.Background()))
	require.NotEmpty(t, client.calls)
	// The namespace must exist before anything is applied into it.
	assert.Equal(t, "ensure-ns dev", client.calls[0])
	assert.Contains(t, client.calls, "apply")
}

func TestReconcile_ApplyFailureAborts(t *testing.T) {
	client := &fakeClient{applyErr: errors.New("server rejected")}
	r := NewReconciler(client, config.Default())

	err := r.Reconcile(context.Background())
	require.Error(t, err)
	assert.NotContains(t, client.calls, "wait app1")
}

func TestReconcile_NotReadyFails(t *testing.T) {
	client := &fakeClient{waitErr: errors.New("timed out")}
	r := NewReconciler(client, config.Default())

	err := r.Reconcile(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app1")
}

func TestTeardown(t *testing.T) {
	client := &fakeClient{}
	r := NewReconciler(client, config.Default())

	require.NoError(t, r.Teardown(context.Background()))
	assert.Equal(t, []string{"delete", "wait-gone app1,app2"}, client.calls)
}
