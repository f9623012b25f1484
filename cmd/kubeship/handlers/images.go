package handlers

import (
	"context"
	"log"
)

// Images builds the application container images without touching the
// cluster. On minikube the images are also loaded into the cluster's
// image store.
func Images(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	facts, err := detectEnv("")
	if err != nil {
		return err
	}

	if err := checkPrerequisites(facts.Minikube()).Err(); err != nil {
		return err
	}

	builder := newImageBuilder()
	if err := builder.BuildAll(ctx, cfg.Apps); err != nil {
		return err
	}

	if facts.Minikube() {
		if err := builder.LoadIntoMinikube(ctx, cfg.Apps); err != nil {
			return err
		}
	}

	log.Printf("[images] built %d image(s)", len(cfg.Apps))
	return nil
}
