// Package config defines the kubeship configuration file format and defaults.
//
// Configuration is optional: running without a kubeship.yaml uses built-in
// defaults that deploy the two placeholder applications (app1, app2) behind
// an NGINX ingress, matching the zero-argument workflow.
package config

// Config is the top-level kubeship configuration.
type Config struct {
	// Namespace is the namespace the applications are deployed into.
	Namespace string `yaml:"namespace"`

	// Apps lists the applications to build and deploy.
	Apps []App `yaml:"apps"`

	// Ingress configures the ingress routing for the applications.
	Ingress Ingress `yaml:"ingress"`

	// MetalLB configures the bare-metal load balancer addon.
	// Ignored when the active context is minikube.
	MetalLB MetalLB `yaml:"metallb"`
}

// App describes a single application to build and deploy.
type App struct {
	// Name is the application name, used for the Deployment, the
	// `<name>-service` Service, and the `app: <name>` selector.
	Name string `yaml:"name"`

	// Image is the container image name to build and deploy.
	Image string `yaml:"image"`

	// Tag is the image tag. Defaults to "latest".
	Tag string `yaml:"tag"`

	// BuildContext is the docker build context directory.
	// Defaults to "./<name>".
	BuildContext string `yaml:"buildContext"`

	// Dockerfile is the path to the Dockerfile relative to the build
	// context. Empty uses the builder's default.
	Dockerfile string `yaml:"dockerfile"`

	// Port is the container port exposed by the Service.
	Port int `yaml:"port"`

	// Replicas is the number of pod replicas.
	Replicas int `yaml:"replicas"`

	// Path is the ingress HTTP path routed to this application.
	// Defaults to "/<name>".
	Path string `yaml:"path"`
}

// Ingress configures ingress routing and the ingress controller install.
type Ingress struct {
	// Host restricts the ingress rule to a hostname. Empty matches all.
	Host string `yaml:"host"`

	// Helm overrides the ingress-nginx chart source.
	Helm HelmChart `yaml:"helm"`
}

// MetalLB configures the MetalLB addon for non-minikube clusters.
type MetalLB struct {
	// AddressRange is the IP range handed to the L2 address pool, in
	// "first-last" form. Empty derives a range at the top of the /24
	// of the detected external IP.
	AddressRange string `yaml:"addressRange"`

	// Helm overrides the metallb chart source.
	Helm HelmChart `yaml:"helm"`
}

// HelmChart overrides the source of an addon's Helm chart.
// Empty fields fall back to the pinned defaults in the helm package.
type HelmChart struct {
	Repository string `yaml:"repository"`
	Chart      string `yaml:"chart"`
	Version    string `yaml:"version"`
}

// FullImage returns the image reference including the tag.
func (a App) FullImage() string {
	tag := a.Tag
	if tag == "" {
		tag = "latest"
	}
	return a.Image + ":" + tag
}

// ServiceName returns the name of the Service fronting the app.
func (a App) ServiceName() string {
	return a.Name + "-service"
}

// Default returns the built-in configuration used when no config file is
// present: two placeholder web applications routed at /app1 and /app2.
func Default() *Config {
	return &Config{
		Namespace: "default",
		Apps: []App{
			{Name: "app1", Image: "app1", Tag: "latest", BuildContext: "./app1", Port: 80, Replicas: 2, Path: "/app1"},
			{Name: "app2", Image: "app2", Tag: "latest", BuildContext: "./app2", Port: 80, Replicas: 2, Path: "/app2"},
		},
	}
}
