// Package uri builds the absolute URLs the dispatcher issues requests
// against, following the collection/item path shapes and query
// serialization rules in spec.md 4.1.
package uri

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.datum.net/k8sclient/pkg/resource"
)

// Namespace selects the scope a collection or item URL is built for.
// A named namespace narrows a namespaced kind's collection to that
// namespace; AllNamespaces lists across every namespace the caller can
// see. Cluster-scoped kinds ignore the selector entirely.
type Namespace struct {
	name string
	all  bool
}

// Named returns a namespace selector for a specific namespace.
func Named(name string) Namespace { return Namespace{name: name} }

// AllNamespaces selects every namespace (or is a no-op for
// cluster-scoped kinds).
func AllNamespaces() Namespace { return Namespace{all: true} }

func (n Namespace) isAll() bool { return n.all || n.name == "" }

// ListOptions is the structured form of the query parameters a list
// or watch request may carry. Fields left at their zero value are
// omitted entirely from the serialized query string, never emitted as
// `key=`.
type ListOptions struct {
	Pretty          bool
	Continue        string
	FieldSelector   string
	LabelSelector   string
	Limit           int64
	ResourceVersion string
	TimeoutSeconds  *int64
	Watch           bool
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Pretty {
		v.Set("pretty", "true")
	}
	if o.Continue != "" {
		v.Set("continue", o.Continue)
	}
	if o.FieldSelector != "" {
		v.Set("fieldSelector", o.FieldSelector)
	}
	if o.LabelSelector != "" {
		v.Set("labelSelector", o.LabelSelector)
	}
	if o.Limit != 0 {
		v.Set("limit", strconv.FormatInt(o.Limit, 10))
	}
	if o.ResourceVersion != "" {
		v.Set("resourceVersion", o.ResourceVersion)
	}
	if o.TimeoutSeconds != nil {
		v.Set("timeoutSeconds", strconv.FormatInt(*o.TimeoutSeconds, 10))
	}
	if o.Watch {
		v.Set("watch", "true")
	}
	return v
}

// PatchOptions is the query-string form of the parameters a
// server-side apply patch may carry.
type PatchOptions struct {
	Force        bool
	FieldManager string
}

func (o PatchOptions) values() url.Values {
	v := url.Values{}
	if o.Force {
		v.Set("force", "true")
	}
	if o.FieldManager != "" {
		v.Set("fieldManager", o.FieldManager)
	}
	return v
}

// queryValues is satisfied by the structured option records above. A
// bare url.Values does not satisfy it; callers with ad-hoc parameters
// (such as the log subresource) encode them into the subresource
// string themselves.
type queryValues interface {
	values() url.Values
}

// CollectionURL builds the URL addressing the collection of objects
// of the given kind, optionally scoped to a namespace and filtered by
// list options.
func CollectionURL(host string, d resource.Descriptor, ns Namespace, opts *ListOptions) (string, error) {
	return build(host, d, ns, "", "", optsQuery(opts))
}

// ItemURL builds the URL addressing a single named object, optionally
// suffixed with a subresource segment (e.g. "/status") and a query
// string. Per spec.md's resolved Open Question, concatenation order is
// always /{name}{subresource}?{query}.
func ItemURL(host string, d resource.Descriptor, ns Namespace, name string, subresource string, opts queryValues) (string, error) {
	return build(host, d, ns, name, subresource, optsQueryFrom(opts))
}

func optsQuery(o *ListOptions) url.Values {
	if o == nil {
		return nil
	}
	return o.values()
}

func optsQueryFrom(o queryValues) url.Values {
	if o == nil {
		return nil
	}
	return o.values()
}

func build(host string, d resource.Descriptor, ns Namespace, name, subresource string, query url.Values) (string, error) {
	apiPrefix := "apis/" + d.Group
	if d.Group == resource.CoreGroup {
		apiPrefix = "api"
	}

	var segment string
	if d.Namespaced && !ns.isAll() {
		segment = fmt.Sprintf("namespaces/%s/%s", ns.name, d.Plural)
	} else {
		segment = d.Plural
	}

	path := fmt.Sprintf("%s/%s/%s/%s", strings.TrimSuffix(host, "/"), apiPrefix, d.Version, segment)
	if name != "" {
		path = path + "/" + name
	}
	if subresource != "" {
		path = path + subresource
	}
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}

	if _, err := url.Parse(path); err != nil {
		return "", fmt.Errorf("build url for %s: %w", d, err)
	}
	return path, nil
}
