package cmd

import (
	"fmt"
	"io"

	"github.com/cheerioskun/explainer/internal/ignore"
	"github.com/cheerioskun/explainer/internal/models"
	"github.com/cheerioskun/explainer/internal/render"
	"github.com/cheerioskun/explainer/internal/scanner"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	quickScan   bool
	showTree    bool
	explainScan bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a folder and list the files its .gitignore patterns keep",
	Long: `Scan a folder, load every .gitignore inside it and display what remains.

The output is the summary line followed by the top-level entries of the
retained files:
- 📄 name for files directly under the folder
- 📁 name/ for directories

Examples:
  explainer scan ./my-project
  explainer scan ./my-project --tree
  explainer scan ./my-project --explain
  explainer scan ./my-project --quick`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&quickScan, "quick", false, "perform quick scan (top-level only, no filtering)")
	scanCmd.Flags().BoolVar(&showTree, "tree", false, "print the full structure of the retained files")
	scanCmd.Flags().BoolVar(&explainScan, "explain", false, "list excluded files with the pattern and rule that excluded them")
}

func runScan(cmd *cobra.Command, args []string) error {
	fs := afero.NewOsFs()
	absPath, err := resolveRoot(fs, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if viper.GetBool("verbose") {
		fmt.Fprintf(cmd.ErrOrStderr(), "Scanning: %s (max depth %d)\n", absPath, viper.GetInt("scan.max_depth"))
	}

	if quickScan {
		metadata, err := scanner.NewSelectionScanner(fs).QuickScan(absPath)
		if err != nil {
			return fmt.Errorf("quick scan failed: %w", err)
		}
		fmt.Fprintln(out, "Quick Scan Results:")
		fmt.Fprintf(out, "  Total files: %d\n", metadata.TotalFileCount)
		fmt.Fprintf(out, "  Pattern files: %d\n", metadata.PatternFileCount)
		fmt.Fprintf(out, "  Scan depth: %d\n", metadata.ScanDepth)
		return nil
	}

	sel, result, err := runPass(cmd.Context(), fs, absPath)
	if err != nil {
		return err
	}

	printResult(out, sel, result)

	if showTree && len(result.Retained) > 0 {
		fmt.Fprintln(out)
		fmt.Fprint(out, render.StructureText(render.BuildTree(result.Retained)))
	}

	if explainScan {
		fmt.Fprintln(out)
		printExclusions(out, sel, result)
	}

	return nil
}

// printResult writes the listing and, in verbose mode, scan metadata
func printResult(out io.Writer, sel *models.Selection, result *models.FilterResult) {
	fmt.Fprint(out, render.Listing(result))

	if viper.GetBool("verbose") {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Folder: %s\n", sel.Path)
		fmt.Fprintf(out, "  Pattern files: %d\n", sel.Metadata.PatternFileCount)
		fmt.Fprintf(out, "  Patterns: %d\n", len(result.Patterns))
		fmt.Fprintf(out, "  Skipped: %d\n", sel.Metadata.SkippedCount)
		fmt.Fprintf(out, "  Retained size: %s\n", formatBytes(sel.SizeOf(result.Retained)))
		fmt.Fprintf(out, "  Scan time: %s\n", sel.ScanTime.Format("2006-01-02 15:04:05"))
	}
}

// printExclusions lists every excluded path with the pattern responsible
func printExclusions(out io.Writer, sel *models.Selection, result *models.FilterResult) {
	if result.Excluded == 0 {
		fmt.Fprintln(out, "No files excluded")
		return
	}

	matcher := ignore.Compile(ignore.PatternSet(result.Patterns), filterOptions())
	fmt.Fprintln(out, "Excluded files:")
	for _, p := range sel.Paths() {
		if match, ok := matcher.Explain(p); ok {
			fmt.Fprintf(out, "  %s  (%s: %s)\n", p, match.Rule, match.Pattern)
		}
	}
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
