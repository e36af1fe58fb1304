package resource

// Kind is the closed-polymorphism contract every resource kind
// implements to be usable with the generic client, dispatcher, and
// apply engine. Go has no trait-bound generics the way the original
// Rust implementation does, so the contract is carried as a value
// (descriptor + normalizer function pointer) threaded through each
// operation rather than a type-level bound, per the pattern discussed
// in spec.md's design notes.
type Kind[S, St, H any] struct {
	Descriptor Descriptor

	// Normalize resets server-populated fields on a candidate spec so
	// structural equality matches caller intent during apply-by-diff
	// (e.g. Service erases a server-allocated clusterIP). Nil means no
	// normalization is needed for this kind.
	Normalize func(spec *S)
}

// DefaultMergeKind returns the merge kind apply should use for a patch
// against this kind's group, per spec.md 4.5: StrategicMerge for the
// "core" and "apps" groups, JsonMerge otherwise.
func (k Kind[S, St, H]) DefaultMergeKind() MergeKind {
	switch k.Descriptor.Group {
	case CoreGroup, "apps":
		return StrategicMerge
	default:
		return JSONMerge
	}
}

// MergeKind identifies a patch content type.
type MergeKind int

const (
	JSONPatch MergeKind = iota
	JSONMerge
	StrategicMerge
	Apply
)

// ContentType returns the HTTP Content-Type for a patch of this kind.
func (m MergeKind) ContentType() string {
	switch m {
	case JSONPatch:
		return "application/json-patch+json"
	case JSONMerge:
		return "application/merge-patch+json"
	case StrategicMerge:
		return "application/strategic-merge-patch+json"
	case Apply:
		return "application/apply-patch+yaml"
	default:
		return "application/merge-patch+json"
	}
}
