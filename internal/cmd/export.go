package cmd

import (
	"fmt"

	"github.com/cheerioskun/explainer/internal/export"
	"github.com/cheerioskun/explainer/internal/render"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	exportDest      string
	exportOverwrite bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Copy the retained files of a folder to a local directory",
	Long: `Scan and filter a folder, then copy every retained file to a destination
directory, keeping the folder structure.

Examples:
  explainer export ./my-project
  explainer export ./my-project --dest /tmp/review --overwrite`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportDest, "dest", "d", "", "destination directory (default ./<folder>_filtered)")
	exportCmd.Flags().BoolVar(&exportOverwrite, "overwrite", false, "overwrite files that already exist at the destination")
}

func runExport(cmd *cobra.Command, args []string) error {
	fs := afero.NewOsFs()
	absPath, err := resolveRoot(fs, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	sel, result, err := runPass(cmd.Context(), fs, absPath)
	if err != nil {
		return err
	}
	if len(result.Retained) == 0 {
		fmt.Fprintln(out, render.EmptyState(result))
		return nil
	}

	dest := exportDest
	if dest == "" {
		if dest, err = export.GetDefaultExportPath(sel.Path); err != nil {
			return err
		}
	}
	if err := export.ValidateExportPath(fs, dest); err != nil {
		return err
	}

	summary, err := export.NewService(fs).Export(sel, result, export.ExportOptions{
		DestinationPath: dest,
		Overwrite:       exportOverwrite,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Exported %d files (%s) to %s\n",
		summary.FileCount, formatBytes(summary.TotalSize), summary.DestinationPath)
	return nil
}
