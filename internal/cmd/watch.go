package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"

	"github.com/cheerioskun/explainer/internal/models"
	"github.com/cheerioskun/explainer/internal/utils"
	"github.com/cheerioskun/explainer/internal/watch"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-run the filter whenever the folder or its .gitignore files change",
	Long: `Watch a folder and print a fresh listing after every change.

Changes are debounced (watch.debounce, default 300ms). A pass that finishes
after a newer one has been printed is dropped.

Examples:
  explainer watch ./my-project`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	fs := afero.NewOsFs()
	absPath, err := resolveRoot(fs, args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printer := newPassPrinter(cmd.OutOrStdout(), models.NewSession(), passFunc(fs, absPath))
	printer.run(ctx, "initial scan")

	watcher, err := watch.NewFSWatcher(viper.GetDuration("watch.debounce"), func(ev watch.ChangeEvent) {
		reason := fmt.Sprintf("%s %s", ev.ChangeType, ev.Path)
		if ev.IsPatternFile {
			reason = "pattern file " + reason
		}
		go printer.run(ctx, reason)
	})
	if err != nil {
		return err
	}
	if err := watcher.WatchRecursive(absPath); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", absPath)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// passPrinter runs passes and prints the ones that are still current.
// Commit and print happen under one lock so listings never interleave.
type passPrinter struct {
	mu      sync.Mutex
	out     io.Writer
	session *models.Session
	pass    func(context.Context) (*models.Selection, *models.FilterResult, error)
}

func newPassPrinter(out io.Writer, session *models.Session,
	pass func(context.Context) (*models.Selection, *models.FilterResult, error)) *passPrinter {
	return &passPrinter{out: out, session: session, pass: pass}
}

// run executes one pass and prints it unless a newer pass got there first
func (p *passPrinter) run(ctx context.Context, reason string) {
	gen := p.session.Begin()
	sel, result, err := p.pass(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, _, applied := p.session.Current(); gen <= applied {
		utils.Debug("Dropping stale pass %d (%s)", gen, reason)
		return
	}
	if err != nil {
		utils.Error("Pass %d (%s) failed: %v", gen, reason, err)
		return
	}
	if !p.session.Commit(gen, sel, result) {
		utils.Debug("Dropping stale pass %d (%s)", gen, reason)
		return
	}

	fmt.Fprintf(p.out, "\n[%s] %s\n", p.session.LastUpdated().Format("15:04:05"), reason)
	printResult(p.out, sel, result)
}
