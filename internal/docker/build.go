// Package docker builds the application container images by invoking the
// local docker CLI, and loads them into minikube when that is the target.
package docker

import (
	"context"
	"fmt"
	"log"
	"os/exec"

	"github.com/kubeship/kubeship/internal/config"
)

// Runner executes an external command and returns its combined output.
// Extracted so tests can run without docker installed.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	// #nosec G204 -- name and args come from internal config, not user-controlled strings
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Builder builds and distributes application images.
type Builder struct {
	run Runner
}

// NewBuilder returns a Builder using the local docker CLI.
func NewBuilder() *Builder {
	return &Builder{run: execRunner}
}

// NewBuilderWithRunner returns a Builder with a custom command runner.
func NewBuilderWithRunner(run Runner) *Builder {
	return &Builder{run: run}
}

// BuildAll builds every configured app image, sequentially and in order.
// A build failure aborts: without images there is nothing to deploy.
func (b *Builder) BuildAll(ctx context.Context, apps []config.App) error {
	for _, app := range apps {
		if err := b.Build(ctx, app); err != nil {
			return err
		}
	}
	return nil
}

// Build runs docker build for a single app.
func (b *Builder) Build(ctx context.Context, app config.App) error {
	ctx, cancel := context.WithTimeout(ctx, config.ImageBuildTimeout)
	defer cancel()

	image := app.FullImage()
	log.Printf("[images] Building %s from %s...", image, app.BuildContext)

	args := []string{"build", "-t", image}
	if app.Dockerfile != "" {
		args = append(args, "-f", app.Dockerfile)
	}
	args = append(args, app.BuildContext)

	output, err := b.run(ctx, "docker", args...)
	if err != nil {
		return fmt.Errorf("docker build failed for %s: %w\nOutput: %s", image, err, output)
	}

	log.Printf("[images] Built %s", image)
	return nil
}

// LoadIntoMinikube copies locally built images into the minikube node so
// the cluster can run them without a registry.
func (b *Builder) LoadIntoMinikube(ctx context.Context, apps []config.App) error {
	for _, app := range apps {
		image := app.FullImage()
		log.Printf("[images] Loading %s into minikube...", image)

		output, err := b.run(ctx, "minikube", "image", "load", image)
		if err != nil {
			return fmt.Errorf("minikube image load failed for %s: %w\nOutput: %s", image, err, output)
		}
	}
	return nil
}
