package handlers

import (
	"context"
	"fmt"
	"log"
)

// StatusOptions holds the status command flags.
type StatusOptions struct {
	ConfigPath string
	Kubeconfig string
}

// Status prints a snapshot of the managed namespaces and, when the
// ingress controller is present, the application access endpoints.
func Status(ctx context.Context, opts StatusOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	facts, err := detectEnv(opts.Kubeconfig)
	if err != nil {
		return err
	}

	client, err := newClusterClient(opts.Kubeconfig, "")
	if err != nil {
		return err
	}

	collector, err := newCollector(client.RESTConfig(), facts, cfg)
	if err != nil {
		return err
	}

	status, err := collector.CollectStatus(ctx)
	if err != nil {
		return err
	}

	renderer := newRenderer()
	fmt.Fprint(stdout, renderer.RenderStatus(status))

	// Access needs the ingress controller; without it the status
	// snapshot above is the whole story.
	access, err := collector.CollectAccess(ctx)
	if err != nil {
		log.Printf("[status] access endpoints unavailable: %v", err)
		return nil
	}
	fmt.Fprint(stdout, renderer.RenderAccess(access))
	return nil
}
