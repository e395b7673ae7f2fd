package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canister/pkg/integrations/canister"
)

// packageCommand creates the "package" command.
func (c *CLI) packageCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "package <identifier>",
		Aliases: []string{"pkg", "info"},
		Short:   "Show one package",
		Example: `  canister package com.officialscheme.newterm`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeClient, err := c.newClient(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer closeClient()

			p, err := fetch(c, cmd, !jsonOut, fmt.Sprintf("Fetching %s...", args[0]),
				func(ctx context.Context) (canister.Package, error) {
					return client.GetPackage(ctx, args[0])
				})
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), p)
			}
			printPackage(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the package as JSON")

	return cmd
}

// repoCommand creates the "repo" command.
func (c *CLI) repoCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "repo <slug>",
		Aliases: []string{"repository"},
		Short:   "Show one repository",
		Example: `  canister repo chariz`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeClient, err := c.newClient(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer closeClient()

			r, err := fetch(c, cmd, !jsonOut, fmt.Sprintf("Fetching %s...", args[0]),
				func(ctx context.Context) (canister.Repository, error) {
					return client.GetRepository(ctx, args[0])
				})
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), r)
			}
			printRepository(cmd.OutOrStdout(), r)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the repository as JSON")

	return cmd
}

// checkCommand creates the "check" command. The safety check only exists in
// the legacy API, so the command always targets v1.
func (c *CLI) checkCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "check <repository-url>",
		Short:   "Check whether a repository is known to be safe",
		Example: `  canister check https://repo.chariz.com/`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeClient, err := c.newClient(cmd.Context(), canister.V1)
			if err != nil {
				return err
			}
			defer closeClient()

			s, err := fetch(c, cmd, !jsonOut, fmt.Sprintf("Checking %s...", args[0]),
				func(ctx context.Context) (canister.RepositoryStatus, error) {
					return client.CheckRepository(ctx, args[0])
				})
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), s)
			}
			printStatus(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the verdict as JSON")

	return cmd
}
