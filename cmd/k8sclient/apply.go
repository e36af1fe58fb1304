package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"go.datum.net/k8sclient/internal/cliutil"
	"go.datum.net/k8sclient/pkg/apply"
	"go.datum.net/k8sclient/pkg/client"
	"go.datum.net/k8sclient/pkg/kinds"
	"go.datum.net/k8sclient/pkg/resource"
	"go.datum.net/k8sclient/pkg/transport"
)

// applyCmd reconciles a YAML or JSON object document against the live cluster:
// create it if absent, diff-and-patch it if present and changed, or
// report Unchanged. --kind selects which of this module's built-in
// kinds the document decodes as, since the generic Apply operation
// needs its Spec/Status/Header types fixed at compile time.
func applyCmd() *cobra.Command {
	var filename, kind string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or patch an object from a YAML or JSON document, diffing against the live object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := bootstrap()
			if err != nil {
				return err
			}
			data, err := cliutil.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read %s: %w", filename, err)
			}

			ctx := cmd.Context()
			switch kind {
			case "pod":
				return applyTyped(ctx, session, kinds.Pod, data, dryRun)
			case "service":
				return applyTyped(ctx, session, kinds.Service, data, dryRun)
			case "configmap":
				return applyTyped(ctx, session, kinds.ConfigMap, data, dryRun)
			case "secret":
				return applyTyped(ctx, session, kinds.Secret, data, dryRun)
			case "namespace":
				return applyTyped(ctx, session, kinds.Namespace, data, dryRun)
			case "deployment":
				return applyTyped(ctx, session, kinds.Deployment, data, dryRun)
			default:
				return fmt.Errorf("unsupported --kind %q (want one of pod, service, configmap, secret, namespace, deployment)", kind)
			}
		},
	}

	cmd.Flags().StringVarP(&filename, "filename", "f", "", "path to a YAML or JSON object document, or - for stdin")
	cmd.Flags().StringVar(&kind, "kind", "", "resource kind: pod, service, configmap, secret, namespace, deployment")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the unified diff against the live object instead of patching")
	_ = cmd.MarkFlagRequired("filename")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

// applyTyped decodes data (YAML or JSON, via sigs.k8s.io/yaml so either
// form works the way kubectl manifests do) as an Object[S,St,H] and
// runs the apply engine against it, instantiated for one of this
// module's built-in kinds. With dryRun set, it prints a unified diff
// of the comparison value against the live object and returns without
// issuing a patch.
func applyTyped[S, St, H any](ctx context.Context, session *cliutil.Session, kind resource.Kind[S, St, H], data []byte, dryRun bool) error {
	var obj resource.Object[S, St, H]
	if err := yaml.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decode input object: %w", err)
	}
	if obj.Metadata.Namespace == "" {
		obj.Metadata.Namespace = session.Namespace
	}

	c := client.New(session.Host, &transport.Dispatcher[S, St, H]{
		HTTPClient: session.HTTPClient,
		Host:       session.Host,
		Token:      session.Token,
		Kind:       kind,
	}, kind)

	if dryRun {
		return printDryRunDiff(ctx, c, kind, &obj)
	}

	result, err := apply.Apply(ctx, c, &obj, kind)
	if err != nil {
		return fmt.Errorf("apply %s %s/%s: %w", kind.Descriptor.Kind, obj.Metadata.Namespace, obj.Metadata.Name, err)
	}
	fmt.Printf("%s: %s %s/%s\n", result.Outcome, kind.Descriptor.Kind, obj.Metadata.Namespace, obj.Metadata.Name)
	return nil
}

// printDryRunDiff renders a unified diff between the live object's
// comparison value and the input's, the way the original client's
// --dry-run preview does, without patching anything.
func printDryRunDiff[S, St, H any](ctx context.Context, c *client.Client[S, St, H], kind resource.Kind[S, St, H], input *resource.Object[S, St, H]) error {
	meta := client.Meta{Name: input.Metadata.Name, Namespace: input.Metadata.Namespace}
	existing, err := c.Get(ctx, meta)
	if err != nil {
		return fmt.Errorf("get existing object for dry-run: %w", err)
	}

	newValue := resource.ComparisonValue[S, H]{Metadata: input.Metadata, Spec: input.Spec, Header: input.Header}
	newJSON, err := json.MarshalIndent(newValue, "", "  ")
	if err != nil {
		return fmt.Errorf("encode input comparison value: %w", err)
	}

	var oldJSON []byte
	if existing != nil {
		oldSpec := existing.Spec
		if kind.Normalize != nil {
			kind.Normalize(&oldSpec)
		}
		oldValue := resource.ComparisonValue[S, H]{Metadata: existing.Metadata, Spec: oldSpec, Header: existing.Header}
		oldJSON, err = json.MarshalIndent(oldValue, "", "  ")
		if err != nil {
			return fmt.Errorf("encode existing comparison value: %w", err)
		}
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(oldJSON)),
		B:        difflib.SplitLines(string(newJSON)),
		FromFile: "live",
		ToFile:   "local",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Errorf("render diff: %w", err)
	}
	if text == "" {
		fmt.Printf("Unchanged: %s %s/%s\n", kind.Descriptor.Kind, meta.Namespace, meta.Name)
		return nil
	}
	fmt.Print(text)
	return nil
}
