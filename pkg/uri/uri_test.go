package uri

import (
	"testing"

	"go.datum.net/k8sclient/pkg/resource"
)

var pod = resource.Descriptor{
	Group:      resource.CoreGroup,
	Version:    "v1",
	Kind:       "Pod",
	Plural:     "pods",
	Namespaced: true,
}

var deployment = resource.Descriptor{
	Group:      "apps",
	Version:    "v1",
	Kind:       "Deployment",
	Plural:     "deployments",
	Namespaced: true,
}

var namespace = resource.Descriptor{
	Group:      resource.CoreGroup,
	Version:    "v1",
	Kind:       "Namespace",
	Plural:     "namespaces",
	Namespaced: false,
}

func TestCollectionURL(t *testing.T) {
	cases := []struct {
		name string
		d    resource.Descriptor
		ns   Namespace
		opts *ListOptions
		want string
	}{
		{
			name: "core namespaced",
			d:    pod,
			ns:   Named("kube-system"),
			want: "https://host/api/v1/namespaces/kube-system/pods",
		},
		{
			name: "apis group namespaced",
			d:    deployment,
			ns:   Named("default"),
			want: "https://host/apis/apps/v1/namespaces/default/deployments",
		},
		{
			name: "cluster-scoped ignores namespace",
			d:    namespace,
			ns:   Named("anything"),
			want: "https://host/api/v1/namespaces",
		},
		{
			name: "all namespaces",
			d:    pod,
			ns:   AllNamespaces(),
			want: "https://host/api/v1/pods",
		},
		{
			name: "with list options",
			d:    pod,
			ns:   Named("default"),
			opts: &ListOptions{Limit: 50, Continue: "abc"},
			want: "https://host/api/v1/namespaces/default/pods?continue=abc&limit=50",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CollectionURL("https://host", tc.d, tc.ns, tc.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestItemURL(t *testing.T) {
	cases := []struct {
		name        string
		subresource string
		opts        queryValues
		want        string
	}{
		{
			name: "plain item",
			want: "https://host/api/v1/namespaces/default/pods/web-0",
		},
		{
			name:        "subresource before query",
			subresource: "/status",
			opts:        PatchOptions{Force: true, FieldManager: "controller"},
			want:        "https://host/api/v1/namespaces/default/pods/web-0/status?fieldManager=controller&force=true",
		},
		{
			name:        "log subresource, no query",
			subresource: "/log",
			want:        "https://host/api/v1/namespaces/default/pods/web-0/log",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ItemURL("https://host", pod, Named("default"), "web-0", tc.subresource, tc.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestListOptionsOmitsZeroValues(t *testing.T) {
	v := (ListOptions{}).values()
	if len(v) != 0 {
		t.Errorf("expected empty values for zero ListOptions, got %v", v)
	}
}
