package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	corev1 "k8s.io/api/core/v1"

	"go.datum.net/k8sclient/internal/cliutil"
	"go.datum.net/k8sclient/pkg/client"
	"go.datum.net/k8sclient/pkg/kinds"
	"go.datum.net/k8sclient/pkg/resource"
)

func podsCmd() *cobra.Command {
	cmd := resourceCommand("pods", "pod", kinds.Pod,
		[]any{"NAMESPACE", "NAME", "PHASE", "NODE"},
		func(obj resource.Object[corev1.PodSpec, corev1.PodStatus, kinds.EmptyHeader]) []any {
			return []any{obj.Metadata.Namespace, obj.Metadata.Name, obj.Status.Phase, obj.Spec.NodeName}
		},
	)
	cmd.AddCommand(logsCmd())
	return cmd
}

// logsCmd streams a single container's log, the one RetrieveLog
// subcommand that doesn't fit the get/list/watch/delete shape every
// other kind uses since it addresses a subresource, not the object.
func logsCmd() *cobra.Command {
	var namespace, container string
	var follow, previous, timestamps bool
	var sinceSeconds, tailLines int64

	cmd := &cobra.Command{
		Use:   "logs <pod-name>",
		Short: "Stream a pod container's log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := bootstrap()
			if err != nil {
				return err
			}
			ns := resolveNamespace(namespace, session, kinds.Pod)

			opts := client.LogOptions{
				Container:  container,
				Follow:     follow,
				Previous:   previous,
				Timestamps: timestamps,
			}
			if sinceSeconds != 0 {
				opts.SinceSeconds = &sinceSeconds
			}
			if tailLines != 0 {
				opts.TailLines = &tailLines
			}

			stream, err := cliutil.RetrieveLog(cmd.Context(), session, ns, args[0], opts)
			if err != nil {
				return fmt.Errorf("retrieve log for pod %s/%s: %w", ns, args[0], err)
			}
			defer stream.Close()

			for {
				line, ok := stream.Next()
				if !ok {
					break
				}
				fmt.Fprintln(os.Stdout, string(line))
			}
			return stream.Err()
		},
	}
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "namespace (defaults to the kubeconfig context's namespace)")
	cmd.Flags().StringVarP(&container, "container", "c", "", "container name (required for multi-container pods)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "stream new log lines as they're written")
	cmd.Flags().BoolVarP(&previous, "previous", "p", false, "show the log of the previous terminated container instance")
	cmd.Flags().BoolVar(&timestamps, "timestamps", false, "prefix each line with its RFC3339 timestamp")
	cmd.Flags().Int64Var(&sinceSeconds, "since-seconds", 0, "only return lines newer than this many seconds")
	cmd.Flags().Int64Var(&tailLines, "tail-lines", 0, "only return this many lines from the end of the log")
	return cmd
}
