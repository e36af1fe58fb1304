// Command k8sclient is a thin demonstration CLI over the generic
// Kubernetes HTTP client in pkg/client: enough of a get/list/watch/apply
// surface to exercise every layer of the module end to end.
package main

import (
	"fmt"
	"os"

	"k8s.io/klog/v2"

	customerrors "go.datum.net/k8sclient/internal/errors"
)

func main() {
	defer klog.Flush()
	if err := rootCmd().Execute(); err != nil {
		if userErr, ok := customerrors.IsUserError(err); ok {
			fmt.Fprintf(os.Stderr, "error: %s\n", userErr.Error())
			if klog.V(4).Enabled() && userErr.Err != nil {
				fmt.Fprintf(os.Stderr, "\nDetails:\n%v\n", userErr.Err)
			}
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
