// Package helm installs the networking addon charts (MetalLB, NGINX
// Ingress Controller) through the Helm v3 action API.
package helm

import "github.com/kubeship/kubeship/internal/config"

// ChartSpec identifies a chart by repository, name, and pinned version.
type ChartSpec struct {
	Repository string
	Name       string
	Version    string
}

// DefaultChartSpecs pins the official chart sources for each addon.
// Fields can be overridden per addon via the config file.
var DefaultChartSpecs = map[string]ChartSpec{
	"metallb": {
		Repository: "https://metallb.github.io/metallb",
		Name:       "metallb",
		Version:    "0.14.9",
	},
	"ingress-nginx": {
		Repository: "https://kubernetes.github.io/ingress-nginx",
		Name:       "ingress-nginx",
		Version:    "4.11.3",
	},
}

// SpecFor returns the chart spec for the named addon with config
// overrides applied. Unknown addons yield a zero spec.
func SpecFor(addon string, override config.HelmChart) ChartSpec {
	spec := DefaultChartSpecs[addon]

	if override.Repository != "" {
		spec.Repository = override.Repository
	}
	if override.Chart != "" {
		spec.Name = override.Chart
	}
	if override.Version != "" {
		spec.Version = override.Version
	}

	return spec
}
