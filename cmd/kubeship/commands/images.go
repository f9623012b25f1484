package commands

import (
	"github.com/spf13/cobra"

	"github.com/kubeship/kubeship/cmd/kubeship/handlers"
)

// Images returns the command that builds the application images only.
func Images() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "images",
		Short: "Build the application container images",
		Long: `Build the application container images without touching the cluster.

On minikube the built images are also loaded into the cluster's image
store so Deployments can use them without a registry.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Images(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: kubeship.yaml)")

	return cmd
}
