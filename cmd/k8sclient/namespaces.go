package main

import (
	"github.com/spf13/cobra"
	corev1 "k8s.io/api/core/v1"

	"go.datum.net/k8sclient/pkg/kinds"
	"go.datum.net/k8sclient/pkg/resource"
)

func namespacesCmd() *cobra.Command {
	return resourceCommand("namespaces", "namespace", kinds.Namespace,
		[]any{"NAME", "PHASE"},
		func(obj resource.Object[corev1.NamespaceSpec, corev1.NamespaceStatus, kinds.EmptyHeader]) []any {
			return []any{obj.Metadata.Name, obj.Status.Phase}
		},
	)
}
