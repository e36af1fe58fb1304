package cliutil

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/klog/v2"

	"go.datum.net/k8sclient/pkg/client"
	"go.datum.net/k8sclient/pkg/credentials"
	"go.datum.net/k8sclient/pkg/kinds"
	"go.datum.net/k8sclient/pkg/kubeconfig"
	"go.datum.net/k8sclient/pkg/resource"
	"go.datum.net/k8sclient/pkg/transport"
	"go.datum.net/k8sclient/pkg/watch"
)

// Session is the bootstrapped connection a subcommand builds a
// resource-typed Client on top of: the dialed host, an authenticated
// HTTP client, a token source threaded into every dispatcher, and the
// kubeconfig's default namespace.
type Session struct {
	Host       string
	HTTPClient *http.Client
	Token      transport.TokenSource
	Namespace  string
}

// Bootstrap loads credentials from the well-known sources -- an
// in-cluster service account first, then the kubeconfig named by path
// (or the usual KUBECONFIG/~/.kube/config fallbacks) -- and builds the
// TLS-backed HTTP client every resource command dispatches through.
func Bootstrap(kubeconfigPath string) (*Session, error) {
	kc, pod, err := kubeconfig.Load(kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("load kubeconfig: %w", err)
	}

	builder := transport.NewTLSBuilder()

	var host, namespace string
	var resolved *credentials.Resolved
	if pod != nil {
		resolved, err = credentials.ResolvePod(pod, builder)
		host, namespace = pod.Host, pod.Namespace
	} else {
		if kc.Cluster.InsecureSkipTLSVerify {
			builder.InsecureSkipVerify()
		}
		resolved, err = credentials.Resolve(kc, builder)
		host, namespace = kc.Cluster.Server, kc.Namespace
	}
	if err != nil {
		return nil, fmt.Errorf("resolve credentials: %w", err)
	}

	return &Session{
		Host:       host,
		HTTPClient: builder.Build(),
		Token:      tokenSource(resolved),
		Namespace:  namespace,
	}, nil
}

// tokenSource hands out the resolved token for every normal request in
// the session, and only calls the credential source's refresh function
// when the dispatcher forces a refresh after a 401 -- one session's
// token is stable across every Get/List/Watch it issues, the way
// spec.md 5's "treated as immutable for the client's lifetime" invariant
// requires, except for that single retried request.
func tokenSource(resolved *credentials.Resolved) transport.TokenSource {
	current := resolved.Token
	return func(forceRefresh bool) (string, error) {
		if forceRefresh && resolved.TokenRefresh != nil {
			fresh, err := resolved.TokenRefresh()
			if err != nil {
				return "", err
			}
			return fresh, nil
		}
		return current, nil
	}
}

// DefaultKubeconfigPath returns the --kubeconfig flag's default value:
// empty, so kubeconfig.Load applies its own KUBECONFIG/home fallback.
func DefaultKubeconfigPath() string { return "" }

// Get retrieves a single object of the given kind.
func Get[S, St, H any](ctx context.Context, s *Session, kind resource.Kind[S, St, H], namespace, name string) (*resource.Object[S, St, H], error) {
	c := client.New(s.Host, &transport.Dispatcher[S, St, H]{HTTPClient: s.HTTPClient, Host: s.Host, Token: s.Token, Kind: kind}, kind)
	return c.Get(ctx, client.Meta{Name: name, Namespace: namespace})
}

// List retrieves every page of a collection.
func List[S, St, H any](ctx context.Context, s *Session, kind resource.Kind[S, St, H], namespace string) ([]resource.Object[S, St, H], error) {
	c := client.New(s.Host, &transport.Dispatcher[S, St, H]{HTTPClient: s.HTTPClient, Host: s.Host, Token: s.Token, Kind: kind}, kind)
	page, err := c.List(ctx, namespace, nil)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Watch lists the collection and opens a live watch from that point,
// passing each synthetic ADDED event and then each decoded live event
// to onEvent until the stream ends or ctx is canceled.
func Watch[S, St, H any](ctx context.Context, s *Session, kind resource.Kind[S, St, H], namespace string, onEvent func(resource.WatchEvent[S, St, H])) error {
	c := client.New(s.Host, &transport.Dispatcher[S, St, H]{HTTPClient: s.HTTPClient, Host: s.Host, Token: s.Token, Kind: kind}, kind)
	synthetic, stream, err := c.WatchFromNow(ctx, namespace)
	if err != nil {
		return fmt.Errorf("start watch: %w", err)
	}
	defer stream.Close()

	for _, ev := range synthetic {
		onEvent(ev)
	}

	for {
		ev, ok := stream.Next()
		if !ok {
			break
		}
		onEvent(*ev)
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("watch stream ended: %w", err)
	}
	klog.V(2).Info("watch stream closed by server")
	return nil
}

// Delete removes a single object of the given kind.
func Delete[S, St, H any](ctx context.Context, s *Session, kind resource.Kind[S, St, H], namespace, name string, opts *resource.DeleteOptions) (*resource.DeleteResult[S, St, H], error) {
	c := client.New(s.Host, &transport.Dispatcher[S, St, H]{HTTPClient: s.HTTPClient, Host: s.Host, Token: s.Token, Kind: kind}, kind)
	return c.Delete(ctx, client.Meta{Name: name, Namespace: namespace}, opts)
}

// RetrieveLog streams a pod's container log.
func RetrieveLog(ctx context.Context, s *Session, namespace, podName string, opts client.LogOptions) (*watch.ChunkStream, error) {
	c := client.New(s.Host, &transport.Dispatcher[corev1.PodSpec, corev1.PodStatus, kinds.EmptyHeader]{HTTPClient: s.HTTPClient, Host: s.Host, Token: s.Token, Kind: kinds.Pod}, kinds.Pod)
	return c.RetrieveLog(ctx, namespace, podName, opts)
}

// ReadFile resolves a --filename argument, supporting "-" for stdin as
// the teacher's own resource-loading commands do.
func ReadFile(path string) ([]byte, error) {
	if path == "-" {
		return os.ReadFile("/dev/stdin")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}
