package kinds

import (
	appsv1 "k8s.io/api/apps/v1"

	"go.datum.net/k8sclient/pkg/resource"
)

// Deployment describes apps/v1 Deployments, the one non-core kind in
// this catalogue, showing how a Kind value picks the "apis/{group}"
// URL prefix over core's bare "api" by naming a real group.
var Deployment = resource.Kind[appsv1.DeploymentSpec, appsv1.DeploymentStatus, EmptyHeader]{
	Descriptor: resource.Descriptor{
		Group:      "apps",
		Version:    "v1",
		Kind:       "Deployment",
		Plural:     "deployments",
		Singular:   "deployment",
		Namespaced: true,
	},
}
