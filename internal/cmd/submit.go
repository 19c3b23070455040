package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cheerioskun/explainer/internal/job"
	"github.com/cheerioskun/explainer/internal/render"
	"github.com/cheerioskun/explainer/internal/upload"
	"github.com/cheerioskun/explainer/internal/utils"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var generateAfterSubmit bool

// submitCmd represents the submit command
var submitCmd = &cobra.Command{
	Use:   "submit [path]",
	Short: "Upload the retained files of a folder to the explanation server",
	Long: `Scan and filter a folder exactly like 'scan', then upload every retained
file to the server together with the selected language.

A server-reported error is printed as is. Nothing is changed locally, so a
failed submission can simply be run again.

Examples:
  explainer submit ./my-project
  explainer submit ./my-project --language fr
  explainer submit ./my-project --generate --server http://localhost:5000`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().BoolVar(&generateAfterSubmit, "generate", false, "trigger explanation generation after a successful upload")
}

// newHTTPClient returns the client shared by upload and generation requests
func newHTTPClient() *http.Client {
	return upload.NewHTTPClient(viper.GetDuration("server.timeout"))
}

func runSubmit(cmd *cobra.Command, args []string) error {
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
	printResult(out, sel, result)

	if len(result.Retained) == 0 {
		return fmt.Errorf("nothing to submit: %s", render.EmptyState(result))
	}

	hc := newHTTPClient()
	client, err := upload.NewClient(viper.GetString("server.url"), hc)
	if err != nil {
		return err
	}

	outcome, err := client.Submit(cmd.Context(), sel, result.Retained, viper.GetString("language"))
	if err != nil {
		var serverErr *upload.ServerError
		if errors.As(err, &serverErr) {
			fmt.Fprintln(cmd.ErrOrStderr(), serverErr.Message)
			return serverErr
		}
		return fmt.Errorf("error uploading folder: %w", err)
	}

	fmt.Fprintf(out, "\nSubmitted %d files (%s)\n", outcome.FileCount, formatBytes(outcome.Bytes))
	fmt.Fprintf(out, "Next: %s\n", outcome.Location)

	if err := upload.SaveSession(fs, viper.GetString("server.session_file"), hc, viper.GetString("server.url")); err != nil {
		utils.Warning("Could not save server session: %v", err)
	}

	if !generateAfterSubmit {
		return nil
	}

	trigger, err := job.NewTrigger(viper.GetString("server.url"), hc)
	if err != nil {
		return err
	}
	return runGeneration(cmd, trigger)
}
