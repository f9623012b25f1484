// Package wizard interactively builds a kubeship configuration file.
package wizard

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/kubeship/kubeship/internal/config"
)

// Answers holds the raw wizard input before it is turned into a Config.
type Answers struct {
	Namespace    string
	AppsInput    string
	Host         string
	AddressRange string
}

// Run prompts for the configuration values and returns the resulting
// Config.
func Run(ctx context.Context) (*config.Config, error) {
	answers := Answers{
		Namespace: "default",
		AppsInput: "app1, app2",
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Namespace").
				Description("Namespace the applications are deployed into").
				Value(&answers.Namespace),
			huh.NewInput().
				Title("Applications").
				Description("Comma-separated application names; each gets a ./<name> build context and a /<name> route").
				Placeholder("app1, app2").
				Value(&answers.AppsInput),
		).Title("Applications"),
		huh.NewGroup(
			huh.NewInput().
				Title("Ingress Host (Optional)").
				Description("Restrict ingress routing to a hostname. Leave empty to match all hosts.").
				Placeholder("apps.local (or leave empty)").
				Value(&answers.Host),
			huh.NewInput().
				Title("MetalLB Address Range (Optional)").
				Description("first-last IP range for LoadBalancer addresses. Leave empty to derive from the host IP. Ignored on minikube.").
				Placeholder("192.168.1.240-192.168.1.250 (or leave empty)").
				Value(&answers.AddressRange),
		).Title("Networking"),
	).RunWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("wizard aborted: %w", err)
	}

	return BuildConfig(answers)
}

// BuildConfig turns wizard answers into a validated Config.
func BuildConfig(answers Answers) (*config.Config, error) {
	cfg := &config.Config{
		Namespace: answers.Namespace,
		Ingress:   config.Ingress{Host: answers.Host},
		MetalLB:   config.MetalLB{AddressRange: answers.AddressRange},
	}

	for _, name := range strings.Split(answers.AppsInput, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cfg.Apps = append(cfg.Apps, config.App{
			Name:         name,
			Image:        name,
			Tag:          "latest",
			BuildContext: "./" + name,
			Port:         80,
			Replicas:     2,
			Path:         "/" + name,
		})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteFile writes the config as YAML. An existing file is only
// overwritten when force is set.
func WriteFile(path string, cfg *config.Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
