package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canister/pkg/integrations/canister"
)

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	var (
		limit          int
		page           int
		searchFields   []string
		responseFields []string
		jsonOut        bool
		pick           bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search packages",
		Example: `  canister search ssh
  canister search newterm --limit 10 --json
  canister search --api v1 filza --pick`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]
			client, closeClient, err := c.newClient(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer closeClient()

			opts := []canister.SearchOption{canister.WithLimit(limit), canister.WithPage(page)}
			if len(searchFields) > 0 {
				opts = append(opts, canister.WithSearchFields(searchFields...))
			}
			if len(responseFields) > 0 {
				opts = append(opts, canister.WithResponseFields(responseFields...))
			}

			prog := newProgress(c.Logger)
			pkgs, err := fetch(c, cmd, !jsonOut, fmt.Sprintf("Searching for %q...", query),
				func(ctx context.Context) ([]canister.Package, error) {
					return client.SearchPackages(ctx, query, opts...)
				})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Found %d packages", len(pkgs)))

			out := cmd.OutOrStdout()
			if pick {
				return c.pickPackage(cmd, query, pkgs, jsonOut)
			}
			if jsonOut {
				return printJSON(out, pkgs)
			}
			if len(pkgs) == 0 {
				printInfo(out, "No packages found for %q", query)
				return nil
			}
			fmt.Fprintln(out, packageTable(pkgs, -1))
			printDetail(out, "%d packages · page %d", len(pkgs), page)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&limit, "limit", "n", canister.DefaultLimit, "maximum number of results")
	flags.IntVar(&page, "page", canister.DefaultPage, "result page")
	flags.StringSliceVar(&searchFields, "search-fields", nil, "fields to match the query against")
	flags.StringSliceVar(&responseFields, "response-fields", nil, "fields to include in the response")
	flags.BoolVar(&jsonOut, "json", false, "print results as JSON")
	flags.BoolVar(&pick, "pick", false, "pick a result interactively and show its details")

	return cmd
}

// pickPackage runs the interactive picker and prints the chosen package.
func (c *CLI) pickPackage(cmd *cobra.Command, query string, pkgs []canister.Package, jsonOut bool) error {
	out := cmd.OutOrStdout()
	if len(pkgs) == 0 {
		printInfo(out, "No packages found for %q", query)
		return nil
	}

	p := tea.NewProgram(NewPackagePickerModel(query, pkgs),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.ErrOrStderr()),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("picker: %w", err)
	}
	m, ok := final.(PackagePickerModel)
	if !ok || m.Selected == nil {
		return nil
	}

	if jsonOut {
		return printJSON(out, m.Selected)
	}
	printPackage(out, *m.Selected)
	return nil
}

// fetch runs fn with the request context. Interactive calls show a spinner
// when stderr is a terminal.
func fetch[T any](c *CLI, cmd *cobra.Command, interactive bool, msg string, fn func(context.Context) (T, error)) (T, error) {
	ctx := c.requestContext(cmd.Context())
	if interactive && isTerminal(cmd.ErrOrStderr()) {
		s := newSpinner(ctx, cmd.ErrOrStderr(), msg)
		s.Start()
		defer s.Stop()
	}
	return fn(ctx)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
