package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/entrypoints/internal/config"
	"github.com/zjrosen/entrypoints/internal/log"
	"github.com/zjrosen/entrypoints/internal/paths"
)

var catalogSetCmd = &cobra.Command{
	Use:   "catalog:set <group> <module>",
	Short: "Add or update a catalog group in the config file",
	Long: `Add a catalog group, or change the module namespace of an existing one, in
the config file. Built-in groups can be overridden this way.

Examples:
  entrypoints catalog:set ns.transports example.com/acme/transports
  entrypoints catalog:set ns.exporters example.com/acme/exporters -c ./config.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFilePath()
		group := config.GroupConfig{Group: args[0], Module: args[1]}
		if err := config.SetCatalogGroup(path, cfg.Catalog, group); err != nil {
			return fmt.Errorf("updating catalog: %w", err)
		}
		log.Info(log.CatConfig, "catalog group saved", "group", group.Group, "module", group.Module, "path", path)
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", group.Group, group.Module, path)
		return err
	},
}

var pluginDirsAddCmd = &cobra.Command{
	Use:   "plugin-dirs:add <dir>",
	Short: "Add a user plugin directory to the config file",
	Long: `Add a directory to plugin_dirs in the config file. Manifests are read from
<dir>/plugins/<package>/entry_points.yaml. Naming the plugins directory or a
package directory adds its plugin root instead.

Examples:
  entrypoints plugin-dirs:add ~/work/acme-plugins`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := paths.ResolvePluginRoot(config.ExpandHome(args[0]))
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		path := configFilePath()
		if err := config.AddPluginDir(path, cfg.PluginDirs, dir); err != nil {
			return fmt.Errorf("updating plugin_dirs: %w", err)
		}
		log.Info(log.CatConfig, "plugin directory saved", "dir", dir, "path", path)
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", dir, path)
		return err
	},
}

func init() {
	rootCmd.AddCommand(catalogSetCmd, pluginDirsAddCmd)
}
