package handlers

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/rest"

	"github.com/kubeship/kubeship/internal/config"
	"github.com/kubeship/kubeship/internal/env"
	"github.com/kubeship/kubeship/internal/helm"
	"github.com/kubeship/kubeship/internal/k8s"
	"github.com/kubeship/kubeship/internal/report"
	"github.com/kubeship/kubeship/internal/util/prerequisites"
)

// fakeBuilder records image build calls.
type fakeBuilder struct {
	built  bool
	loaded bool
	err    error
}

func (f *fakeBuilder) BuildAll(context.Context, []config.App) error {
	f.built = true
	return f.err
}

func (f *fakeBuilder) LoadIntoMinikube(context.Context, []config.App) error {
	f.loaded = true
	return nil
}

// fakeReconciler records reconcile and teardown calls.
type fakeReconciler struct {
	reconciled bool
	torndown   bool
	err        error
}

func (f *fakeReconciler) Reconcile(context.Context) error {
	f.reconciled = true
	return f.err
}

func (f *fakeReconciler) Teardown(context.Context) error {
	f.torndown = true
	return f.err
}

// fakeCollector returns canned reports.
type fakeCollector struct {
	access    *report.Access
	accessErr error
	status    *report.Status
	statusErr error
}

func (f *fakeCollector) CollectAccess(context.Context) (*report.Access, error) {
	return f.access, f.accessErr
}

func (f *fakeCollector) CollectStatus(context.Context) (*report.Status, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if f.status == nil {
		return &report.Status{}, nil
	}
	return f.status, nil
}

// fakeInstaller satisfies helm.Installer without installing anything.
type fakeInstaller struct{}

func (fakeInstaller) InstallOrUpgrade(context.Context, helm.Release) error { return nil }

// fakeAddonManager records whether the addon sequence ran.
type fakeAddonManager struct {
	installed bool
	err       error
}

func (f *fakeAddonManager) InstallAll(context.Context) error {
	f.installed = true
	return f.err
}

// clusterClient is the minimal fake used where the handler only hands
// the client on to injected collaborators.
type clusterClient struct {
	k8s.Client

	deletedNamespaces []string
}

func (c *clusterClient) RESTConfig() *rest.Config { return nil }

func (c *clusterClient) DeleteNamespace(_ context.Context, name string) error {
	c.deletedNamespaces = append(c.deletedNamespaces, name)
	return nil
}

func (c *clusterClient) WaitForNamespaceGone(context.Context, string, time.Duration) error {
	return nil
}

// stubDeployEnv swaps every factory variable for fakes and restores
// them when the test finishes.
func stubDeployEnv(t *testing.T, builder *fakeBuilder, rec *fakeReconciler, collector *fakeCollector, facts env.Facts) (*clusterClient, *fakeAddonManager) {
	t.Helper()

	client := &clusterClient{}
	addonMgr := &fakeAddonManager{}

	origLoadConfig := loadConfig
	origDetectEnv := detectEnv
	origCheck := checkPrerequisites
	origBuilder := newImageBuilder
	origClient := newClusterClient
	origInstaller := newHelmInstaller
	origAddonMgr := newAddonManager
	origReconciler := newReconciler
	origCollector := newCollector
	origRenderer := newRenderer
	origStdout := stdout
	t.Cleanup(func() {
		loadConfig = origLoadConfig
		detectEnv = origDetectEnv
		checkPrerequisites = origCheck
		newImageBuilder = origBuilder
		newClusterClient = origClient
		newHelmInstaller = origInstaller
		newAddonManager = origAddonMgr
		newReconciler = origReconciler
		newCollector = origCollector
		newRenderer = origRenderer
		stdout = origStdout
	})

	loadConfig = func(string) (*config.Config, error) { return config.Default(), nil }
	detectEnv = func(string) (env.Facts, error) { return facts, nil }
	checkPrerequisites = func(bool) *prerequisites.Results { return &prerequisites.Results{} }
	newImageBuilder = func() imageBuilder { return builder }
	newClusterClient = func(string, string) (k8s.Client, error) { return client, nil }
	newHelmInstaller = func(*rest.Config) helm.Installer { return fakeInstaller{} }
	newAddonManager = func(k8s.Client, helm.Installer, env.Facts, *config.Config) addonInstaller {
		return addonMgr
	}
	newReconciler = func(k8s.Client, *config.Config) reconciler { return rec }
	newCollector = func(*rest.Config, env.Facts, *config.Config) (accessCollector, error) {
		return collector, nil
	}
	newRenderer = report.NewPlainRenderer
	stdout = &bytes.Buffer{}

	return client, addonMgr
}

func defaultAccess() *report.Access {
	return &report.Access{
		Context: "kind-local",
		Host:    "192.168.1.10",
		Port:    30080,
		Endpoints: []report.Endpoint{
			{App: "app1", URL: "http://192.168.1.10:30080/app1"},
		},
	}
}

func TestDeploy_FullFlow(t *testing.T) {
	builder := &fakeBuilder{}
	rec := &fakeReconciler{}
	collector := &fakeCollector{
		access: defaultAccess(),
		status: &report.Status{Namespaces: []report.NamespaceStatus{
			{Name: "default", Deployments: []report.DeploymentStatus{{Name: "app1", Ready: 2, Desired: 2}}},
		}},
	}
	_, addonMgr := stubDeployEnv(t, builder, rec, collector, env.Facts{OS: "linux", KubeContext: "kind-local", ExternalIP: "192.168.1.10"})

	require.NoError(t, Deploy(context.Background(), DeployOptions{}))

	assert.True(t, builder.built)
	assert.False(t, builder.loaded)
	assert.True(t, addonMgr.installed)
	assert.True(t, rec.reconciled)

	// The run ends with the access endpoints and the status snapshot.
	out := stdout.(*bytes.Buffer).String()
	assert.Contains(t, out, "http://192.168.1.10:30080/app1")
	assert.Contains(t, out, "Namespace default")
	assert.Contains(t, out, "2/2")
}

func TestDeploy_MinikubeLoadsImages(t *testing.T) {
	builder := &fakeBuilder{}
	rec := &fakeReconciler{}
	collector := &fakeCollector{access: defaultAccess()}
	stubDeployEnv(t, builder, rec, collector, env.Facts{OS: "linux", KubeContext: env.MinikubeContext, ExternalIP: "10.0.0.5"})

	require.NoError(t, Deploy(context.Background(), DeployOptions{}))
	assert.True(t, builder.loaded)
}

func TestDeploy_SkipBuild(t *testing.T) {
	builder := &fakeBuilder{err: errors.New("must not be called")}
	rec := &fakeReconciler{}
	collector := &fakeCollector{access: defaultAccess()}
	stubDeployEnv(t, builder, rec, collector, env.Facts{KubeContext: "kind-local"})

	require.NoError(t, Deploy(context.Background(), DeployOptions{SkipBuild: true}))
	assert.False(t, builder.built)
	assert.True(t, rec.reconciled)
}

func TestDeploy_BuildFailureAborts(t *testing.T) {
	builder := &fakeBuilder{err: errors.New("docker build failed")}
	rec := &fakeReconciler{}
	collector := &fakeCollector{access: defaultAccess()}
	stubDeployEnv(t, builder, rec, collector, env.Facts{KubeContext: "kind-local"})

	err := Deploy(context.Background(), DeployOptions{})
	require.Error(t, err)
	assert.False(t, rec.reconciled)
}

func TestDeploy_SkipAddons(t *testing.T) {
	builder := &fakeBuilder{}
	rec := &fakeReconciler{}
	collector := &fakeCollector{access: defaultAccess()}
	_, addonMgr := stubDeployEnv(t, builder, rec, collector, env.Facts{KubeContext: "kind-local"})

	require.NoError(t, Deploy(context.Background(), DeployOptions{SkipAddons: true}))
	assert.False(t, addonMgr.installed)
	assert.True(t, rec.reconciled)
}

func TestDeploy_AddonFailureAborts(t *testing.T) {
	builder := &fakeBuilder{}
	rec := &fakeReconciler{}
	collector := &fakeCollector{access: defaultAccess()}
	_, addonMgr := stubDeployEnv(t, builder, rec, collector, env.Facts{KubeContext: "kind-local"})
	addonMgr.err = errors.New("chart install failed")

	err := Deploy(context.Background(), DeployOptions{})
	require.Error(t, err)
	assert.False(t, rec.reconciled)
}

func TestDeploy_ReconcileFailureAborts(t *testing.T) {
	builder := &fakeBuilder{}
	rec := &fakeReconciler{err: errors.New("apply rejected")}
	collector := &fakeCollector{access: defaultAccess()}
	stubDeployEnv(t, builder, rec, collector, env.Facts{KubeContext: "kind-local"})

	err := Deploy(context.Background(), DeployOptions{})
	require.Error(t, err)
}

func TestDeploy_ReportsAreBestEffort(t *testing.T) {
	builder := &fakeBuilder{}
	rec := &fakeReconciler{}
	collector := &fakeCollector{
		accessErr: errors.New("service not found"),
		statusErr: errors.New("cluster unreachable"),
	}
	stubDeployEnv(t, builder, rec, collector, env.Facts{KubeContext: "kind-local"})

	require.NoError(t, Deploy(context.Background(), DeployOptions{}))
	assert.Empty(t, stdout.(*bytes.Buffer).String())
}

func TestStatus(t *testing.T) {
	collector := &fakeCollector{
		access: defaultAccess(),
		status: &report.Status{Namespaces: []report.NamespaceStatus{
			{Name: "default", Deployments: []report.DeploymentStatus{{Name: "app1", Ready: 2, Desired: 2}}},
		}},
	}
	stubDeployEnv(t, &fakeBuilder{}, &fakeReconciler{}, collector, env.Facts{KubeContext: "kind-local"})

	require.NoError(t, Status(context.Background(), StatusOptions{}))

	out := stdout.(*bytes.Buffer).String()
	assert.Contains(t, out, "Namespace default")
	assert.Contains(t, out, "http://192.168.1.10:30080/app1")
}

func TestStatus_AccessUnavailable(t *testing.T) {
	collector := &fakeCollector{
		status:    &report.Status{},
		accessErr: errors.New("no ingress controller"),
	}
	stubDeployEnv(t, &fakeBuilder{}, &fakeReconciler{}, collector, env.Facts{KubeContext: "kind-local"})

	require.NoError(t, Status(context.Background(), StatusOptions{}))
}

func TestTeardown(t *testing.T) {
	rec := &fakeReconciler{}
	client, _ := stubDeployEnv(t, &fakeBuilder{}, rec, &fakeCollector{}, env.Facts{KubeContext: "kind-local"})

	require.NoError(t, Teardown(context.Background(), TeardownOptions{}))
	assert.True(t, rec.torndown)
	assert.Empty(t, client.deletedNamespaces)
}

func TestTeardown_Addons(t *testing.T) {
	rec := &fakeReconciler{}
	client, _ := stubDeployEnv(t, &fakeBuilder{}, rec, &fakeCollector{}, env.Facts{KubeContext: "kind-local"})

	require.NoError(t, Teardown(context.Background(), TeardownOptions{Addons: true}))
	assert.Equal(t, []string{"metallb-system", "ingress-nginx"}, client.deletedNamespaces)
}

func TestInit(t *testing.T) {
	origRun := runWizard
	origWrite := writeConfigFile
	t.Cleanup(func() {
		runWizard = origRun
		writeConfigFile = origWrite
	})

	var wrotePath string
	var wroteForce bool
	runWizard = func(context.Context) (*config.Config, error) { return config.Default(), nil }
	writeConfigFile = func(path string, _ *config.Config, force bool) error {
		wrotePath = path
		wroteForce = force
		return nil
	}

	require.NoError(t, Init(context.Background(), true))
	assert.Equal(t, config.DefaultConfigFile, wrotePath)
	assert.True(t, wroteForce)
}

func TestInit_WizardAborted(t *testing.T) {
	origRun := runWizard
	t.Cleanup(func() { runWizard = origRun })

	runWizard = func(context.Context) (*config.Config, error) { return nil, errors.New("user aborted") }
	require.Error(t, Init(context.Background(), false))
}
