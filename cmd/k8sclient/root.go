package main

import (
	goflag "flag"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"go.datum.net/k8sclient/internal/cliutil"
)

var (
	kubeconfigPath string
	outputFormat   string
)

func rootCmd() *cobra.Command {
	var klogFlags goflag.FlagSet
	klog.InitFlags(&klogFlags)

	cmd := &cobra.Command{
		Use:           "k8sclient",
		Short:         "Talk to a Kubernetes API server's HTTP interface directly",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&kubeconfigPath, "kubeconfig", cliutil.DefaultKubeconfigPath(), "path to a kubeconfig file; defaults to $KUBECONFIG or ~/.kube/config")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, or yaml")
	cmd.PersistentFlags().AddGoFlagSet(&klogFlags)

	cmd.AddCommand(podsCmd())
	cmd.AddCommand(servicesCmd())
	cmd.AddCommand(configMapsCmd())
	cmd.AddCommand(secretsCmd())
	cmd.AddCommand(namespacesCmd())
	cmd.AddCommand(deploymentsCmd())
	cmd.AddCommand(applyCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}
