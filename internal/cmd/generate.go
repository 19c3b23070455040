package cmd

import (
	"context"
	"fmt"

	"github.com/cheerioskun/explainer/internal/job"
	"github.com/cheerioskun/explainer/internal/upload"
	"github.com/cheerioskun/explainer/internal/utils"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var saveOverview string

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Ask the server to generate explanations for the last submission",
	Long: `Trigger explanation generation on the server and print where the
project overview was written.

The server keeps the uploaded folder in its session. 'submit' saves that
session (server.session_file) so a later 'generate' against the same server
picks it up; 'submit --generate' does both in one go.

Examples:
  explainer generate
  explainer generate --save overview.md`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverURL := viper.GetString("server.url")
		hc := newHTTPClient()

		found, err := upload.LoadSession(afero.NewOsFs(), viper.GetString("server.session_file"), hc, serverURL)
		if err != nil {
			utils.Warning("Could not restore server session: %v", err)
		}
		if !found {
			fmt.Fprintln(cmd.ErrOrStderr(), "No saved session for this server; run 'submit' first")
		}

		trigger, err := job.NewTrigger(serverURL, hc)
		if err != nil {
			return err
		}
		return runGeneration(cmd, trigger)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&saveOverview, "save", "", "download the generated overview to this file")
}

// runGeneration triggers the job and optionally downloads the overview
func runGeneration(cmd *cobra.Command, trigger *job.Trigger) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Generating explanations...")

	result, err := trigger.Generate(cmd.Context())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), job.FailureNotice)
		return err
	}

	if result.Message != "" {
		fmt.Fprintln(out, result.Message)
	}
	fmt.Fprintf(out, "Overview: %s\n", trigger.ArtifactURL(result.OverviewPath))

	if saveOverview == "" {
		return nil
	}

	n, err := saveArtifact(cmd.Context(), afero.NewOsFs(), trigger, result.OverviewPath, saveOverview)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %s to %s\n", formatBytes(n), saveOverview)
	return nil
}

// saveArtifact downloads an artifact to dest, removing dest if the download fails
func saveArtifact(ctx context.Context, fs afero.Fs, trigger *job.Trigger, artifact, dest string) (int64, error) {
	f, err := fs.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dest, err)
	}

	n, err := trigger.Fetch(ctx, artifact, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := fs.Remove(dest); rerr != nil {
			utils.Warning("Could not remove partial download %s: %v", dest, rerr)
		}
		return 0, fmt.Errorf("failed to download overview: %w", err)
	}
	return n, nil
}
