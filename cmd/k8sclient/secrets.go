package main

import (
	"github.com/spf13/cobra"

	"go.datum.net/k8sclient/pkg/kinds"
	"go.datum.net/k8sclient/pkg/resource"
)

func secretsCmd() *cobra.Command {
	return resourceCommand("secrets", "secret", kinds.Secret,
		[]any{"NAMESPACE", "NAME", "TYPE", "DATA"},
		func(obj resource.Object[kinds.EmptySpec, kinds.EmptyStatus, kinds.SecretHeader]) []any {
			return []any{obj.Metadata.Namespace, obj.Metadata.Name, obj.Header.Type, len(obj.Header.Data)}
		},
	)
}
