// Package kinds is a small demonstration catalogue of Kind[S,St,H]
// values for the built-in core/v1 and apps/v1 resources, wiring
// k8s.io/api's own Spec/Status structs as the generic parameters
// rather than redeclaring them. It exists to prove the generic client
// against real resource shapes; callers of this module are free to
// describe their own kinds the same way for CRDs.
package kinds

import (
	corev1 "k8s.io/api/core/v1"

	"go.datum.net/k8sclient/pkg/resource"
)

// EmptyHeader is used by kinds whose wire document carries nothing
// beyond apiVersion/kind/metadata/spec/status.
type EmptyHeader struct{}

// Pod describes core/v1 Pods.
var Pod = resource.Kind[corev1.PodSpec, corev1.PodStatus, EmptyHeader]{
	Descriptor: resource.Descriptor{
		Group:      resource.CoreGroup,
		Version:    "v1",
		Kind:       "Pod",
		Plural:     "pods",
		Singular:   "pod",
		Namespaced: true,
	},
}

// ServiceHeader carries nothing extra; declared for symmetry with the
// other kinds in this file and so callers reading the catalogue don't
// need to special-case Service's header type.
type ServiceHeader = EmptyHeader

// Service describes core/v1 Services. Normalize erases the server's
// allocated clusterIP from a candidate spec before apply-by-diff
// compares it, per spec.md 4.9's note that ServiceSpec.ClusterIP is a
// server-assigned field a caller's intent never specifies directly:
// without erasing it, every apply against an existing Service would
// see a spurious spec.clusterIP diff and emit a no-op patch forever.
var Service = resource.Kind[corev1.ServiceSpec, corev1.ServiceStatus, ServiceHeader]{
	Descriptor: resource.Descriptor{
		Group:      resource.CoreGroup,
		Version:    "v1",
		Kind:       "Service",
		Plural:     "services",
		Singular:   "service",
		Namespaced: true,
	},
	Normalize: func(spec *corev1.ServiceSpec) {
		spec.ClusterIP = ""
		spec.ClusterIPs = nil
	},
}

// Namespace describes core/v1 Namespaces, a cluster-scoped kind.
var Namespace = resource.Kind[corev1.NamespaceSpec, corev1.NamespaceStatus, EmptyHeader]{
	Descriptor: resource.Descriptor{
		Group:      resource.CoreGroup,
		Version:    "v1",
		Kind:       "Namespace",
		Plural:     "namespaces",
		Singular:   "namespace",
		Namespaced: false,
	},
}

// EmptySpec and EmptyStatus back kinds whose entire document lives in
// the header (ConfigMap, Secret) rather than under spec/status --
// ConfigMap and Secret have no spec or status in the Kubernetes API at
// all, so the two generic parameters are instantiated with these types.
// Exported (unlike EmptyHeader's symmetry would otherwise need) so
// callers outside this package can name a ConfigMap/Secret's Object
// type explicitly, e.g. resource.Object[kinds.EmptySpec, kinds.EmptyStatus, kinds.ConfigMapHeader].
type EmptySpec struct{}
type EmptyStatus struct{}

// ConfigMapHeader holds the top-level fields a ConfigMap's document
// carries beside its metadata.
type ConfigMapHeader struct {
	Data       map[string]string `json:"data,omitempty"`
	BinaryData map[string][]byte `json:"binaryData,omitempty"`
}

// ConfigMap describes core/v1 ConfigMaps.
var ConfigMap = resource.Kind[EmptySpec, EmptyStatus, ConfigMapHeader]{
	Descriptor: resource.Descriptor{
		Group:      resource.CoreGroup,
		Version:    "v1",
		Kind:       "ConfigMap",
		Plural:     "configmaps",
		Singular:   "configmap",
		Namespaced: true,
	},
}

// SecretHeader holds the top-level fields a Secret's document carries
// beside its metadata.
type SecretHeader struct {
	Data       map[string][]byte `json:"data,omitempty"`
	StringData map[string]string `json:"stringData,omitempty"`
	Type       string            `json:"type,omitempty"`
}

// Secret describes core/v1 Secrets.
var Secret = resource.Kind[EmptySpec, EmptyStatus, SecretHeader]{
	Descriptor: resource.Descriptor{
		Group:      resource.CoreGroup,
		Version:    "v1",
		Kind:       "Secret",
		Plural:     "secrets",
		Singular:   "secret",
		Namespaced: true,
	},
}
