package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/entrypoints/internal/presentation"
)

var namesUnsorted bool

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List the catalog groups",
	Long: `List the catalog groups with their module namespace and entry count.

The catalog is static: every built-in group is listed even when no entry point
is registered under it. Groups added under "catalog" in the config file are
listed too.

Examples:
  entrypoints groups
  entrypoints groups -o table
  entrypoints groups | jq '.[].group'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRuntime(func(rt *runtime) error {
			dtos := presentation.FromCatalog(rt.catalog, rt.service.Resolver().Provider())
			return formatter(cmd.OutOrStdout()).FormatGroups(dtos)
		})
	},
}

var namesCmd = &cobra.Command{
	Use:   "names <group>",
	Short: "List entry point names in a group",
	Long: `List the entry point names registered in a group.

Names are sorted unless --unsorted is given, in which case they are listed in
discovery order. A name registered twice is listed twice.

Examples:
  entrypoints names ns.schedulers
  entrypoints names ns.schedulers --unsorted -o table`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			names := rt.service.Resolver().ListNames(args[0], !namesUnsorted)
			return formatter(cmd.OutOrStdout()).FormatNames(names)
		})
	},
}

var entriesCmd = &cobra.Command{
	Use:   "entries <group>",
	Short: "List entry points in a group",
	Long: `List every entry point registered in a group, in discovery order.

Examples:
  entrypoints entries ns.data
  entrypoints entries ns.data -o table`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			entries := rt.service.Resolver().ListEntries(args[0])
			return formatter(cmd.OutOrStdout()).FormatEntries(presentation.FromEntries(args[0], entries))
		})
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <identifier>",
	Short: "Resolve an identifier to its entry point",
	Long: `Resolve an identifier to exactly one entry point.

Full identifiers resolve as given. Partial identifiers get the "ns." group
prefix restored. Minimal identifiers (a bare name) are searched across every
catalog group and must match in exactly one.

Examples:
  entrypoints resolve ns.schedulers:slurm
  entrypoints resolve schedulers:slurm
  entrypoints resolve slurm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			group, entry, err := rt.service.Resolve(cmd.Context(), args[0])
			if err != nil {
				return resolveError(args[0], err)
			}
			return formatter(cmd.OutOrStdout()).FormatEntry(presentation.FromEntry(group, entry))
		})
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <identifier>",
	Short: "Resolve an identifier and load its implementation",
	Long: `Resolve an identifier and load the implementation it refers to.

Prints the entry point and the Go type of the loaded value.

Examples:
  entrypoints load ns.calculations:job
  entrypoints load arithmetic -o table`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			group, entry, err := rt.service.Resolve(cmd.Context(), args[0])
			if err != nil {
				return resolveError(args[0], err)
			}
			impl, err := rt.service.LoadEntry(cmd.Context(), group, entry)
			if err != nil {
				return resolveError(args[0], err)
			}
			return formatter(cmd.OutOrStdout()).FormatLoad(presentation.LoadDTO{
				Entry: presentation.FromEntry(group, entry),
				Type:  fmt.Sprintf("%T", impl),
			})
		})
	},
}

func init() {
	namesCmd.Flags().BoolVar(&namesUnsorted, "unsorted", false, "list names in discovery order")
	rootCmd.AddCommand(groupsCmd, namesCmd, entriesCmd, resolveCmd, loadCmd)
}
