package main

import (
	"os"

	"github.com/spf13/cobra"

	"go.datum.net/k8sclient/internal/cliutil"
	"go.datum.net/k8sclient/pkg/transport"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the API server's reported version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := bootstrap()
			if err != nil {
				return err
			}
			v, err := transport.ServerVersionOf(cmd.Context(), session.HTTPClient, session.Host, session.Token)
			if err != nil {
				return err
			}
			return cliutil.CLIPrint(os.Stdout, outputFormat, v,
				[]any{"MAJOR", "MINOR", "GITVERSION", "PLATFORM"},
				[][]any{{v.Major, v.Minor, v.GitVersion, v.Platform}},
			)
		},
	}
}
