// Package resource describes the static, process-lifetime metadata that
// identifies a Kubernetes resource kind, and the contract a kind must
// satisfy to be usable with the generic client in pkg/client.
package resource

import "fmt"

// CoreGroup is the sentinel group name that selects the legacy /api
// prefix instead of /apis/{group}.
const CoreGroup = "core"

// Descriptor is immutable, process-lifetime metadata for a single
// resource kind. Two descriptors are equal iff (Group, Version, Kind)
// match; Plural/Singular/Namespaced are derived facts about that kind,
// not part of its identity.
type Descriptor struct {
	Group      string
	Version    string
	Kind       string
	Plural     string
	Singular   string
	Namespaced bool
}

// Equal reports whether two descriptors identify the same kind.
func (d Descriptor) Equal(other Descriptor) bool {
	return d.Group == other.Group && d.Version == other.Version && d.Kind == other.Kind
}

// APIVersion returns the "group/version" (or bare "version" for the
// core group) string used as an object's apiVersion field.
func (d Descriptor) APIVersion() string {
	if d.Group == CoreGroup || d.Group == "" {
		return d.Version
	}
	return fmt.Sprintf("%s/%s", d.Group, d.Version)
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s.%s/%s", d.Plural, d.Group, d.Version)
}
