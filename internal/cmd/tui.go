package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cheerioskun/explainer/internal/job"
	"github.com/cheerioskun/explainer/internal/messages"
	"github.com/cheerioskun/explainer/internal/upload"
	"github.com/cheerioskun/explainer/internal/utils"
	"github.com/cheerioskun/explainer/internal/watch"
	"github.com/cheerioskun/explainer/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var watchInTUI bool

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui [path]",
	Short: "Start the interactive TUI interface",
	Long: `Start the interactive Terminal User Interface for a project folder.

The TUI provides:
- Grouped listing of the retained files with the selection summary
- Collapsible folder tree
- Submission and explanation generation
- Export of the retained files

Examples:
  explainer tui ./my-project
  explainer tui ./my-project --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().BoolVarP(&watchInTUI, "watch", "w", false, "refresh the listing when the folder changes")
}

func runTUI(cmd *cobra.Command, args []string) error {
	fs := afero.NewOsFs()
	absPath, err := resolveRoot(fs, args[0])
	if err != nil {
		return err
	}

	serverURL := viper.GetString("server.url")
	hc := newHTTPClient()
	client, err := upload.NewClient(serverURL, hc)
	if err != nil {
		return err
	}
	trigger, err := job.NewTrigger(serverURL, hc)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	model := ui.NewAppModel(ui.Options{
		Context:   ctx,
		Root:      absPath,
		Language:  viper.GetString("language"),
		Pass:      passFunc(fs, absPath),
		Submitter: client,
		Generator: trigger,
		ExportFs:  fs,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if watchInTUI {
		watcher, err := watch.NewFSWatcher(viper.GetDuration("watch.debounce"), func(ev watch.ChangeEvent) {
			program.Send(messages.RefreshComponentsMsg{Reason: ev.ChangeType})
		})
		if err != nil {
			return err
		}
		if err := watcher.WatchRecursive(absPath); err != nil {
			return err
		}
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				utils.Error("Watcher stopped: %v", err)
			}
		}()
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting TUI for %s...\n", absPath)
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
