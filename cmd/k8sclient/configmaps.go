package main

import (
	"github.com/spf13/cobra"

	"go.datum.net/k8sclient/pkg/kinds"
	"go.datum.net/k8sclient/pkg/resource"
)

func configMapsCmd() *cobra.Command {
	return resourceCommand("configmaps", "configmap", kinds.ConfigMap,
		[]any{"NAMESPACE", "NAME", "DATA"},
		func(obj resource.Object[kinds.EmptySpec, kinds.EmptyStatus, kinds.ConfigMapHeader]) []any {
			return []any{obj.Metadata.Namespace, obj.Metadata.Name, len(obj.Header.Data)}
		},
	)
}
