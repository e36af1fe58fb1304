package resource

// ListMetadata is the metadata block returned alongside a list's items.
type ListMetadata struct {
	ResourceVersion string `json:"resourceVersion,omitempty"`
	Continue        string `json:"continue,omitempty"`
}

// ListResult is the server's response to a list operation.
type ListResult[S, St, H any] struct {
	Items    []Object[S, St, H] `json:"items"`
	Metadata ListMetadata       `json:"metadata"`
}

// WatchEventType tags a watch event. ADDED/MODIFIED/DELETED are the
// three types spec.md names explicitly; Bookmark and Error extend the
// set per the Open Question in spec.md 4.7 rather than silently
// dropping server-emitted types this core doesn't otherwise model.
type WatchEventType string

const (
	Added      WatchEventType = "ADDED"
	Modified   WatchEventType = "MODIFIED"
	Deleted    WatchEventType = "DELETED"
	Bookmark   WatchEventType = "BOOKMARK"
	EventError WatchEventType = "ERROR"
)

// WatchEvent is one decoded line of a watch stream.
type WatchEvent[S, St, H any] struct {
	Type   WatchEventType
	Object Object[S, St, H]
	// Status is populated instead of Object when Type is EventError and
	// the server's "object" field is itself a Status envelope.
	Status *ServerStatus
}

// StatusDetails carries the optional machine-readable detail block of
// a ServerStatus.
type StatusDetails struct {
	Name              string        `json:"name,omitempty"`
	Group             string        `json:"group,omitempty"`
	Kind              string        `json:"kind,omitempty"`
	UID               string        `json:"uid,omitempty"`
	Causes            []StatusCause `json:"causes,omitempty"`
	RetryAfterSeconds int32         `json:"retryAfterSeconds,omitempty"`
}

// StatusCause is a single machine-readable cause within StatusDetails.
type StatusCause struct {
	Type    string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

// ServerStatus is the API server's generic status/error envelope,
// returned for non-2xx responses and for delete operations that don't
// use foreground propagation.
type ServerStatus struct {
	APIVersion string         `json:"apiVersion"`
	Kind       string         `json:"kind"`
	Status     string         `json:"status"`
	Code       int32          `json:"code,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	Message    string         `json:"message,omitempty"`
	Details    *StatusDetails `json:"details,omitempty"`
}

func (s *ServerStatus) Error() string {
	if s == nil {
		return "<nil server status>"
	}
	if s.Message != "" {
		return s.Message
	}
	return s.Reason
}

// Success reports whether the status represents a successful outcome.
func (s *ServerStatus) Success() bool {
	return s != nil && s.Status == "Success"
}

// NotFound reports whether the status is the API server's 404.
func (s *ServerStatus) NotFound() bool {
	return s != nil && s.Code == 404
}

// PropagationPolicy selects how a delete cascades to dependents, per
// the three values the deleteOptions.propagationPolicy field accepts.
type PropagationPolicy string

const (
	// PropagationOrphan leaves dependents in place, detached from the
	// deleted owner.
	PropagationOrphan PropagationPolicy = "Orphan"
	// PropagationBackground deletes the object immediately and garbage
	// collects dependents asynchronously.
	PropagationBackground PropagationPolicy = "Background"
	// PropagationForeground blocks the delete (the object's
	// deletionTimestamp is set but it isn't removed) until every
	// dependent has been deleted first.
	PropagationForeground PropagationPolicy = "Foreground"
)

// Preconditions constrains a delete to only succeed if the object
// still matches, guarding against a concurrent update racing the
// delete.
type Preconditions struct {
	ResourceVersion string `json:"resourceVersion,omitempty"`
}

// DeleteOptions is the request body a delete call may carry, mirroring
// the API server's deleteOptions document.
type DeleteOptions struct {
	PropagationPolicy  *PropagationPolicy `json:"propagationPolicy,omitempty"`
	GracePeriodSeconds *int64             `json:"gracePeriodSeconds,omitempty"`
	Preconditions      *Preconditions     `json:"preconditions,omitempty"`
}

// DeleteResult is the outcome of a delete operation: either a Status
// envelope (the normal case) or, when foreground propagation was
// requested, the object itself with its deletionTimestamp set.
type DeleteResult[S, St, H any] struct {
	Status           *ServerStatus
	ForegroundDelete *Object[S, St, H]
}

// IsForeground reports whether the server responded with the object
// itself (foreground propagation) rather than a Status envelope.
func (d DeleteResult[S, St, H]) IsForeground() bool {
	return d.ForegroundDelete != nil
}
