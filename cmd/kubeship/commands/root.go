// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"
)

// Root returns the root command for the kubeship CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kubeship",
		Short: "Provision a local Kubernetes cluster with apps and networking addons",
		PersistentPreRun: func(*cobra.Command, []string) {
			// The cluster reader library logs through its own logger;
			// progress reporting happens in the handlers instead.
			ctrllog.SetLogger(logr.Discard())
		},
	}

	cmd.AddCommand(Init())
	cmd.AddCommand(Deploy())
	cmd.AddCommand(Images())
	cmd.AddCommand(Status())
	cmd.AddCommand(Teardown())
	cmd.AddCommand(Version())

	return cmd
}
