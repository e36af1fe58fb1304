package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	corev1 "k8s.io/api/core/v1"

	"go.datum.net/k8sclient/pkg/kinds"
	"go.datum.net/k8sclient/pkg/resource"
)

func servicesCmd() *cobra.Command {
	return resourceCommand("services", "service", kinds.Service,
		[]any{"NAMESPACE", "NAME", "TYPE", "CLUSTER-IP", "PORTS"},
		func(obj resource.Object[corev1.ServiceSpec, corev1.ServiceStatus, kinds.ServiceHeader]) []any {
			ports := make([]string, len(obj.Spec.Ports))
			for i, p := range obj.Spec.Ports {
				ports[i] = portString(p)
			}
			return []any{obj.Metadata.Namespace, obj.Metadata.Name, obj.Spec.Type, obj.Spec.ClusterIP, strings.Join(ports, ",")}
		},
	)
}

func portString(p corev1.ServicePort) string {
	if p.Name != "" {
		return p.Name + ":" + strconv.Itoa(int(p.Port))
	}
	return strconv.Itoa(int(p.Port))
}
