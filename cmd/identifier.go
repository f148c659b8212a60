package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/entrypoints/internal/domain/entrypoint"
	"github.com/zjrosen/entrypoints/internal/presentation"
)

var identifierFormat string

var formatCmd = &cobra.Command{
	Use:   "format <group> <name>",
	Short: "Build an identifier from a group and a name",
	Long: `Build the identifier string for a group and a name.

Examples:
  entrypoints format ns.schedulers slurm                    # ns.schedulers:slurm
  entrypoints format ns.schedulers slurm --format partial   # schedulers:slurm
  entrypoints format ns.schedulers slurm --format minimal   # slurm`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := entrypoint.ParseFormat(identifierFormat)
		if err != nil {
			return err
		}
		id, err := entrypoint.Format(args[0], args[1], f)
		if err != nil {
			return err
		}
		return formatter(cmd.OutOrStdout()).FormatIdentifier(presentation.IdentifierDTO{
			Identifier: id,
			Format:     f.String(),
			Valid:      entrypoint.IsValid(id, cfg.GroupCatalog()),
		})
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect <identifier>",
	Short: "Detect the format of an identifier",
	Long: `Detect the format of an identifier and check it against the catalog.

An identifier is valid when it has a group part naming a catalog group. Whether
the name is registered is not checked, so minimal identifiers are never valid.

Examples:
  entrypoints detect ns.calculations:job
  entrypoints detect calculations:job -o table`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return formatter(cmd.OutOrStdout()).FormatIdentifier(presentation.IdentifierDTO{
			Identifier: args[0],
			Format:     entrypoint.DetectFormat(args[0]).String(),
			Valid:      entrypoint.IsValid(args[0], cfg.GroupCatalog()),
		})
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <module> <symbol>",
	Short: "Find the identifier registered for a module symbol",
	Long: `Find the full identifier of the first entry point that exposes symbol
from module. Wrapper symbols named JobProcess_<module>.<symbol> are looked up
as the symbol they wrap.

Exits with status 1 when no entry point matches.

Examples:
  entrypoints lookup github.com/zjrosen/entrypoints/internal/plugins/schedulers SlurmScheduler`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			id, found := rt.service.FindIdentifierFor(cmd.Context(), args[0], args[1])
			if !found {
				return fmt.Errorf("no entry point exposes %s from %s", args[1], args[0])
			}
			return formatter(cmd.OutOrStdout()).FormatIdentifier(presentation.IdentifierDTO{
				Identifier: id,
				Format:     entrypoint.FormatFull.String(),
				Valid:      entrypoint.IsValid(id, rt.catalog),
			})
		})
	},
}

func init() {
	formatCmd.Flags().StringVarP(&identifierFormat, "format", "f", entrypoint.FormatFull.String(),
		"identifier format: full, partial or minimal")
	rootCmd.AddCommand(formatCmd, detectCmd, lookupCmd)
}
