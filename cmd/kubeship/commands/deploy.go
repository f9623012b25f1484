package commands

import (
	"github.com/spf13/cobra"

	"github.com/kubeship/kubeship/cmd/kubeship/handlers"
	"github.com/kubeship/kubeship/internal/config"
)

// Deploy returns the command that runs the full provisioning flow.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: kubeship.yaml)
//	--kubeconfig: Path to the kubeconfig file (default: standard loading rules)
//	--skip-build: Skip building container images
//	--skip-addons: Skip installing MetalLB and the ingress controller
//	--timeout: Overall deadline for the deployment
func Deploy() *cobra.Command {
	var opts handlers.DeployOptions

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Build images, install addons, and deploy the applications",
		Long: `Build images, install addons, and deploy the applications.

The full flow: detect the host environment, build the application
container images, ensure MetalLB (skipped on minikube) and the NGINX
Ingress Controller are installed and healthy, re-apply the application
manifests, and print the access endpoints.

If no config file is specified, kubeship.yaml in the current directory
is used when present, otherwise built-in defaults deploy the two
placeholder applications.

Examples:
  # Deploy using kubeship.yaml or defaults
  kubeship deploy

  # Deploy a specific configuration
  kubeship deploy -c staging.yaml

  # Re-deploy without rebuilding images
  kubeship deploy --skip-build`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: kubeship.yaml)")
	cmd.Flags().StringVar(&opts.Kubeconfig, "kubeconfig", "", "Path to the kubeconfig file")
	cmd.Flags().BoolVar(&opts.SkipBuild, "skip-build", false, "Skip building container images")
	cmd.Flags().BoolVar(&opts.SkipAddons, "skip-addons", false, "Skip installing networking addons")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", config.DeployTimeout, "Overall deployment deadline")

	return cmd
}
