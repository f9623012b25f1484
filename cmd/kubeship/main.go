// Package main is the entry point for the kubeship CLI.
//
// kubeship provisions a local Kubernetes cluster for development: it
// builds the application container images, installs the networking
// addons (MetalLB, NGINX Ingress Controller), deploys the application
// manifests, and reports the access endpoints.
//
// Commands: init, deploy, images, status, teardown.
//
// For detailed usage information, run:
//
//	kubeship --help
package main

import (
	"fmt"
	"os"

	"github.com/kubeship/kubeship/cmd/kubeship/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
