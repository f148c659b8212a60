package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/zjrosen/entrypoints/internal/log"
	"github.com/zjrosen/entrypoints/internal/manifestcheck"
)

var (
	checkManifest     string
	checkRequirements string
	checkPackage      string
)

type checkResultDTO struct {
	Requirement string   `json:"requirement"`
	Requires    []string `json:"requires"`
}

var manifestCheckCmd = &cobra.Command{
	Use:   "manifest:check",
	Short: "Check that a pinned requirement is mirrored in a build manifest",
	Long: `Check that the requirement line for a package in a requirements file is
listed verbatim in the build-system.requires list of a TOML build manifest.

On a mismatch the closest listed requirement and a character diff are reported
and the command exits with status 1.

Examples:
  entrypoints manifest:check
  entrypoints manifest:check --manifest pyproject.toml --requirements requirements.txt --package reentry`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := manifestcheck.Check(checkManifest, checkRequirements, checkPackage)
		if err != nil {
			var mismatch *manifestcheck.MismatchError
			if errors.As(err, &mismatch) {
				log.Warn(log.CatCLI, "requirement mismatch", "requirement", mismatch.Requirement, "closest", mismatch.Closest)
			}
			return err
		}
		return formatter(cmd.OutOrStdout()).FormatResult(checkResultDTO{
			Requirement: res.Requirement,
			Requires:    res.Requires,
		})
	},
}

func init() {
	manifestCheckCmd.Flags().StringVar(&checkManifest, "manifest", "pyproject.toml", "TOML build manifest")
	manifestCheckCmd.Flags().StringVar(&checkRequirements, "requirements", "requirements.txt", "requirements file")
	manifestCheckCmd.Flags().StringVar(&checkPackage, "package", "reentry", "package whose requirement is checked")
	rootCmd.AddCommand(manifestCheckCmd)
}
