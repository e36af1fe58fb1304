package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.datum.net/k8sclient/internal/cliutil"
	"go.datum.net/k8sclient/pkg/resource"
)

// resourceCommand builds a get/list/watch/delete command group for a single
// resource kind, dispatching through internal/cliutil and rendering
// rows with the caller's column mapping. Every concrete kind's command
// (pods, services, ...) is this same shape with S/St/H and row()
// instantiated differently, so it lives here once instead of being
// hand-duplicated six times.
func resourceCommand[S, St, H any](use, short string, kind resource.Kind[S, St, H], headers []any, row func(resource.Object[S, St, H]) []any) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	var getNamespace string
	get := &cobra.Command{
		Use:   "get <name>",
		Short: fmt.Sprintf("Get a single %s by name", short),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := bootstrap()
			if err != nil {
				return err
			}
			ns := resolveNamespace(getNamespace, session, kind)
			obj, err := cliutil.Get(cmd.Context(), session, kind, ns, args[0])
			if err != nil {
				return err
			}
			if obj == nil {
				return fmt.Errorf("%s %q not found", short, args[0])
			}
			return cliutil.CLIPrint(os.Stdout, outputFormat, obj, headers, [][]any{row(*obj)})
		},
	}
	get.Flags().StringVarP(&getNamespace, "namespace", "n", "", "namespace (defaults to the kubeconfig context's namespace)")

	var listNamespace string
	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", short),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := bootstrap()
			if err != nil {
				return err
			}
			ns := resolveNamespace(listNamespace, session, kind)
			items, err := cliutil.List(cmd.Context(), session, kind, ns)
			if err != nil {
				return err
			}
			rows := make([][]any, len(items))
			for i, item := range items {
				rows[i] = row(item)
			}
			return cliutil.CLIPrint(os.Stdout, outputFormat, items, headers, rows)
		},
	}
	list.Flags().StringVarP(&listNamespace, "namespace", "n", "", "namespace (defaults to the kubeconfig context's namespace; ignored for cluster-scoped kinds)")

	var watchNamespace string
	watch := &cobra.Command{
		Use:   "watch",
		Short: fmt.Sprintf("Watch %s for changes, starting with the current collection", short),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := bootstrap()
			if err != nil {
				return err
			}
			ns := resolveNamespace(watchNamespace, session, kind)
			return cliutil.Watch(cmd.Context(), session, kind, ns, func(ev resource.WatchEvent[S, St, H]) {
				fmt.Fprintf(os.Stdout, "%-10s %s/%s\n", ev.Type, ev.Object.Metadata.Namespace, ev.Object.Metadata.Name)
			})
		},
	}
	watch.Flags().StringVarP(&watchNamespace, "namespace", "n", "", "namespace (defaults to the kubeconfig context's namespace)")

	var deleteNamespace, propagationPolicy string
	var gracePeriodSeconds int64
	del := &cobra.Command{
		Use:   "delete <name>",
		Short: fmt.Sprintf("Delete a single %s by name", short),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := bootstrap()
			if err != nil {
				return err
			}
			ns := resolveNamespace(deleteNamespace, session, kind)

			var opts *resource.DeleteOptions
			if propagationPolicy != "" || gracePeriodSeconds != 0 {
				opts = &resource.DeleteOptions{}
				if propagationPolicy != "" {
					policy := resource.PropagationPolicy(propagationPolicy)
					opts.PropagationPolicy = &policy
				}
				if gracePeriodSeconds != 0 {
					opts.GracePeriodSeconds = &gracePeriodSeconds
				}
			}

			result, err := cliutil.Delete(cmd.Context(), session, kind, ns, args[0], opts)
			if err != nil {
				return err
			}
			if result.IsForeground() {
				fmt.Fprintf(os.Stdout, "%s %q deletion in progress (foreground)\n", short, args[0])
				return nil
			}
			fmt.Fprintf(os.Stdout, "%s %q deleted\n", short, args[0])
			return nil
		},
	}
	del.Flags().StringVarP(&deleteNamespace, "namespace", "n", "", "namespace (defaults to the kubeconfig context's namespace)")
	del.Flags().StringVar(&propagationPolicy, "propagation-policy", "", "Orphan, Background, or Foreground (default: server default)")
	del.Flags().Int64Var(&gracePeriodSeconds, "grace-period-seconds", 0, "override the object's termination grace period")

	cmd.AddCommand(get, list, watch, del)
	return cmd
}
