package resource

import (
	"encoding/json"
	"time"
)

// OwnerReference is a reference from an object to the resource that
// owns it; deleting the owner cascades per the reference's controller
// semantics.
type OwnerReference struct {
	APIVersion         string `json:"apiVersion"`
	Kind               string `json:"kind"`
	Name               string `json:"name"`
	UID                string `json:"uid"`
	Controller         *bool  `json:"controller,omitempty"`
	BlockOwnerDeletion *bool  `json:"blockOwnerDeletion,omitempty"`
}

// ObjectMeta is the metadata every object envelope carries, regardless
// of kind. On objects returned by the server, Name and ResourceVersion
// are populated; on objects supplied by the caller for creation,
// ResourceVersion is absent.
type ObjectMeta struct {
	Name              string            `json:"name,omitempty"`
	GenerateName      string            `json:"generateName,omitempty"`
	Namespace         string            `json:"namespace,omitempty"`
	UID               string            `json:"uid,omitempty"`
	ResourceVersion   string            `json:"resourceVersion,omitempty"`
	Generation        int64             `json:"generation,omitempty"`
	CreationTimestamp *time.Time        `json:"creationTimestamp,omitempty"`
	DeletionTimestamp *time.Time        `json:"deletionTimestamp,omitempty"`
	Labels            map[string]string `json:"labels,omitempty"`
	Annotations       map[string]string `json:"annotations,omitempty"`
	OwnerReferences   []OwnerReference  `json:"ownerReferences,omitempty"`
	Finalizers        []string          `json:"finalizers,omitempty"`
}

// Object is the generic envelope every resource kind is wrapped in:
// apiVersion/kind identify the schema, metadata is the common
// bookkeeping above, and Spec/Header/Status are supplied per kind by
// the Kind[T] contract in kind.go. Go does not allow a type parameter to be
// embedded anonymously, so Header carries its own custom (Un)MarshalJSON
// below that flattens its fields into the top level of the encoded
// document (e.g. ConfigMap's `data` sits beside `metadata`, not nested
// under it), matching the server's own wire shape.
type Object[S, St, H any] struct {
	APIVersion string     `json:"apiVersion"`
	Kind       string     `json:"kind"`
	Metadata   ObjectMeta `json:"metadata"`
	Spec       S          `json:"spec,omitempty"`
	Header     H          `json:"-"`
	Status     St         `json:"status,omitempty"`
}

// objectFields is Object's shape minus Header, used as the base
// document MarshalJSON/UnmarshalJSON merge the header's fields into
// or split back out of.
type objectFields[S, St any] struct {
	APIVersion string     `json:"apiVersion"`
	Kind       string     `json:"kind"`
	Metadata   ObjectMeta `json:"metadata"`
	Spec       S          `json:"spec,omitempty"`
	Status     St         `json:"status,omitempty"`
}

// MarshalJSON encodes the object and header as one flat JSON document.
func (o Object[S, St, H]) MarshalJSON() ([]byte, error) {
	return mergeHeaderJSON(objectFields[S, St]{o.APIVersion, o.Kind, o.Metadata, o.Spec, o.Status}, o.Header)
}

// UnmarshalJSON decodes both the envelope fields and the header from
// the same flat document -- unknown fields in each half's target type
// are simply ignored by encoding/json, so no merge step is needed here.
func (o *Object[S, St, H]) UnmarshalJSON(data []byte) error {
	var fields objectFields[S, St]
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var header H
	if err := json.Unmarshal(data, &header); err != nil {
		return err
	}
	o.APIVersion, o.Kind, o.Metadata, o.Spec, o.Status = fields.APIVersion, fields.Kind, fields.Metadata, fields.Spec, fields.Status
	o.Header = header
	return nil
}

// ComparisonValue is the subset of an object that apply-by-diff
// compares: metadata, spec, and header, but never status (status is
// server-managed and never part of a caller's intent).
type ComparisonValue[S, H any] struct {
	Metadata ObjectMeta `json:"metadata"`
	Spec     S          `json:"spec,omitempty"`
	Header   H          `json:"-"`
}

type comparisonFields[S any] struct {
	Metadata ObjectMeta `json:"metadata"`
	Spec     S          `json:"spec,omitempty"`
}

// MarshalJSON flattens Header's fields alongside metadata/spec, the
// same way Object does, so the diff engine sees the same document
// shape apply() would send over the wire.
func (c ComparisonValue[S, H]) MarshalJSON() ([]byte, error) {
	return mergeHeaderJSON(comparisonFields[S]{c.Metadata, c.Spec}, c.Header)
}

// mergeHeaderJSON marshals base and header independently, then merges
// header's top-level fields into base's, so a generic type parameter
// that can't be embedded still flattens into the wire document the
// way an anonymous struct field would.
func mergeHeaderJSON(base, header any) ([]byte, error) {
	baseBytes, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	headerBytes, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(baseBytes, &merged); err != nil {
		return nil, err
	}
	var headerFields map[string]json.RawMessage
	if err := json.Unmarshal(headerBytes, &headerFields); err != nil {
		return nil, err
	}
	for k, v := range headerFields {
		merged[k] = v
	}
	return json.Marshal(merged)
}
