package main

import (
	"go.datum.net/k8sclient/internal/cliutil"
	"go.datum.net/k8sclient/pkg/resource"
)

// bootstrap builds a Session from the --kubeconfig flag every
// subcommand's RunE calls first.
func bootstrap() (*cliutil.Session, error) {
	return cliutil.Bootstrap(kubeconfigPath)
}

// resolveNamespace applies the --namespace flag over the session's
// kubeconfig-context default, and drops the namespace entirely for
// cluster-scoped kinds regardless of what was asked for.
func resolveNamespace[S, St, H any](flagValue string, session *cliutil.Session, kind resource.Kind[S, St, H]) string {
	if !kind.Descriptor.Namespaced {
		return ""
	}
	if flagValue != "" {
		return flagValue
	}
	return session.Namespace
}
