package main

import (
	"fmt"

	"github.com/spf13/cobra"
	appsv1 "k8s.io/api/apps/v1"

	"go.datum.net/k8sclient/pkg/kinds"
	"go.datum.net/k8sclient/pkg/resource"
)

func deploymentsCmd() *cobra.Command {
	return resourceCommand("deployments", "deployment", kinds.Deployment,
		[]any{"NAMESPACE", "NAME", "READY", "AVAILABLE"},
		func(obj resource.Object[appsv1.DeploymentSpec, appsv1.DeploymentStatus, kinds.EmptyHeader]) []any {
			desired := int32(1)
			if obj.Spec.Replicas != nil {
				desired = *obj.Spec.Replicas
			}
			ready := fmt.Sprintf("%d/%d", obj.Status.ReadyReplicas, desired)
			return []any{obj.Metadata.Namespace, obj.Metadata.Name, ready, obj.Status.AvailableReplicas}
		},
	)
}
