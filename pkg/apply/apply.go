// Package apply implements get-or-create-or-patch semantics on top of
// a Client: if the target object doesn't exist it is created; if it
// does, the kind's normalizer reconciles server-managed fields, a JSON
// diff of the comparison values decides whether anything changed, and
// a patch is issued only when it did. Mirrors the original client's
// apply() in k8-metadata-client, with gomodules.xyz/jsonpatch/v2 and
// k8s.io/apimachinery/pkg/util/strategicpatch standing in for the Rust
// k8_diff crate it used.
package apply

import (
	"context"
	"encoding/json"
	"fmt"

	jsonpatch "gomodules.xyz/jsonpatch/v2"
	"k8s.io/apimachinery/pkg/util/strategicpatch"
	"k8s.io/klog/v2"

	"go.datum.net/k8sclient/pkg/client"
	"go.datum.net/k8sclient/pkg/resource"
)

// Outcome tags which of the three possible results an Apply call
// produced.
type Outcome int

const (
	// Created means the object did not exist and was created as given.
	Created Outcome = iota
	// Unchanged means the object existed and the diff against it was
	// empty; no request was issued beyond the initial get.
	Unchanged
	// Patched means the object existed, a non-empty diff was computed,
	// and a patch request was issued.
	Patched
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "Created"
	case Unchanged:
		return "Unchanged"
	case Patched:
		return "Patched"
	default:
		return "Unknown"
	}
}

// Result is the outcome of an Apply call, carrying the resulting
// object for every outcome except Unchanged (where the caller's
// comparison input already reflects server state).
type Result[S, St, H any] struct {
	Outcome Outcome
	Object  *resource.Object[S, St, H]
}

// Apply performs the get-or-create-or-patch algorithm against c for
// input: absent objects are created as given; existing objects are
// normalized, diffed, and patched with the content type kind's
// DefaultMergeKind selects, per spec.md 4.9 step 5's
// patch(metadata, diff, defaultMergeFor(kind)).
func Apply[S, St, H any](ctx context.Context, c *client.Client[S, St, H], input *resource.Object[S, St, H], kind resource.Kind[S, St, H]) (*Result[S, St, H], error) {
	meta := client.Meta{Name: input.Metadata.Name, Namespace: input.Metadata.Namespace}

	existing, err := c.Get(ctx, meta)
	if err != nil {
		return nil, fmt.Errorf("get existing object before apply: %w", err)
	}

	if existing == nil {
		klog.V(2).InfoS("object absent, creating", "name", meta.Name, "namespace", meta.Namespace)
		created, err := c.Create(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("create object during apply: %w", err)
		}
		return &Result[S, St, H]{Outcome: Created, Object: created}, nil
	}

	oldSpec := existing.Spec
	if kind.Normalize != nil {
		kind.Normalize(&oldSpec)
	}

	// Server-populated metadata is never part of a caller's input, so it
	// is cleared from the live side before the two values are diffed.
	oldMeta := existing.Metadata
	oldMeta.UID = ""
	oldMeta.ResourceVersion = ""
	oldMeta.Generation = 0
	oldMeta.CreationTimestamp = nil
	oldMeta.DeletionTimestamp = nil

	oldValue := resource.ComparisonValue[S, H]{Metadata: oldMeta, Spec: oldSpec, Header: existing.Header}
	newValue := resource.ComparisonValue[S, H]{Metadata: input.Metadata, Spec: input.Spec, Header: input.Header}

	oldJSON, err := json.Marshal(oldValue)
	if err != nil {
		return nil, fmt.Errorf("encode existing comparison value: %w", err)
	}
	newJSON, err := json.Marshal(newValue)
	if err != nil {
		return nil, fmt.Errorf("encode new comparison value: %w", err)
	}

	mergeKind := kind.DefaultMergeKind()
	patchBody, changed, err := buildPatch[S, H](oldJSON, newJSON, mergeKind)
	if err != nil {
		return nil, fmt.Errorf("patch-not-representable: diff old against new: %w", err)
	}
	if !changed {
		klog.V(2).InfoS("no diff detected, leaving object unchanged", "name", meta.Name, "namespace", meta.Namespace)
		return &Result[S, St, H]{Outcome: Unchanged}, nil
	}

	patched, err := c.Patch(ctx, meta, patchBody, mergeKind)
	if err != nil {
		return nil, fmt.Errorf("patch object during apply: %w", err)
	}
	return &Result[S, St, H]{Outcome: Patched, Object: patched}, nil
}

// buildPatch computes the diff between oldJSON and newJSON in the wire
// shape mergeKind's content type requires, reporting whether there was
// any diff at all. JSONPatch yields RFC 6902 ops via
// gomodules.xyz/jsonpatch/v2 (the external diff engine spec.md 1
// names); JSONMerge and StrategicMerge both go through
// k8s.io/apimachinery/pkg/util/strategicpatch.CreateTwoWayMergePatch
// against a *resource.ComparisonValue[S, H] schema, so fields the spec
// type tags patchStrategy:"merge"/patchMergeKey (e.g. corev1.ServiceSpec's
// Ports) get real key-based array merging, while everything else
// degrades to a plain RFC 7396 replace-by-key merge patch -- exactly
// the StrategicMerge/JSONMerge split spec.md 4.5 draws by group.
func buildPatch[S, H any](oldJSON, newJSON []byte, mergeKind resource.MergeKind) ([]byte, bool, error) {
	switch mergeKind {
	case resource.StrategicMerge, resource.JSONMerge:
		patch, err := strategicpatch.CreateTwoWayMergePatch(oldJSON, newJSON, &resource.ComparisonValue[S, H]{})
		if err != nil {
			return nil, false, err
		}
		return patch, string(patch) != "{}", nil
	default:
		ops, err := jsonpatch.CreatePatch(oldJSON, newJSON)
		if err != nil {
			return nil, false, err
		}
		if len(ops) == 0 {
			return nil, false, nil
		}
		body, err := json.Marshal(ops)
		if err != nil {
			return nil, false, err
		}
		return body, true, nil
	}
}
