package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/gcli/internal/githelper"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(newAuthGitHelperCmd(a))
	cmd.AddCommand(newAuthPrintAccessTokenCmd(a))

	return cmd
}

func newAuthGitHelperCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:    "git-helper METHOD",
		Short:  "A git credential helper for Google-hosted repositories",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := &githelper.Helper{
				Account:      a.cfg.Account,
				ExtraDomains: a.cfg.CredentialedDomains,
				Tokens:       a.newTokens(a.cfg),
				Stdout:       cmd.OutOrStdout(),
				Stderr:       cmd.ErrOrStderr(),
				Log:          a.log,
			}
			return h.Run(cmd.Context(), args[0], cmd.InOrStdin())
		},
	}
}

func newAuthPrintAccessTokenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "print-access-token",
		Short: "Print an access token for the active credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.newTokens(a.cfg).AccessToken(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
