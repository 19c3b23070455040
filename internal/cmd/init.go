package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	initOutput string
	initForce  bool
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the current settings",
	Long: `Write the effective configuration (defaults, config file, environment and
flags) to a YAML file so it can be edited and reused.

Examples:
  explainer init
  explainer init --server http://10.0.0.5:5000 --language de
  explainer init --output ~/.explainer.yaml --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initOutput, "output", "o", ConfigName+".yaml", "configuration file to write")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing configuration file")
}

func runInit(cmd *cobra.Command, args []string) error {
	absPath, err := filepath.Abs(initOutput)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	exists, err := afero.Exists(afero.NewOsFs(), absPath)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", absPath, err)
	}
	if exists && !initForce {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", absPath)
	}

	if err := writeConfig(absPath); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to: %s\n", absPath)
	return nil
}

// writeConfig stores the keys this tool reads, with their effective values
func writeConfig(path string) error {
	v := viper.New()
	for _, key := range []string{
		"server.url", "server.session_file", "language", "scan.max_depth",
		"filter.mode", "filter.escape_meta", "log.file",
	} {
		v.Set(key, viper.Get(key))
	}
	for _, key := range []string{"server.timeout", "watch.debounce"} {
		v.Set(key, viper.GetDuration(key).String())
	}

	// viper only accepts extensions it knows
	if filepath.Ext(path) == "" {
		v.SetConfigType("yaml")
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
