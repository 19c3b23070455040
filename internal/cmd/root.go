package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cheerioskun/explainer/internal/ignore"
	"github.com/cheerioskun/explainer/internal/upload"
	"github.com/cheerioskun/explainer/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ConfigName is the base name of the configuration file
const ConfigName = ".explainer"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "explainer",
	Short: "Select a project folder, filter it through .gitignore and submit it for explanation",
	Long: `Explainer picks a project folder, drops the files its .gitignore patterns
exclude, and submits the rest to an explanation server.

Examples:
  explainer scan ./my-project
  explainer submit ./my-project --language fr --generate
  explainer tui ./my-project`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.Init(viper.GetString("log.file"), viper.GetBool("verbose"))
	},
}

// Execute runs the root command
func Execute() error {
	defer utils.GetLogger().Close()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./.explainer.yaml or $HOME/.explainer.yaml)")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.String("server", viper.GetString("server.url"), "explanation server URL")
	flags.String("language", viper.GetString("language"), "language for the generated explanations")
	flags.Int("max-depth", viper.GetInt("scan.max_depth"), "maximum directory depth to scan")
	flags.String("mode", viper.GetString("filter.mode"), "pattern engine: simplified or gitignore")
	flags.Bool("escape-meta", false, "treat regex metacharacters in glob patterns literally")

	viper.BindPFlag("verbose", flags.Lookup("verbose"))
	viper.BindPFlag("server.url", flags.Lookup("server"))
	viper.BindPFlag("language", flags.Lookup("language"))
	viper.BindPFlag("scan.max_depth", flags.Lookup("max-depth"))
	viper.BindPFlag("filter.mode", flags.Lookup("mode"))
	viper.BindPFlag("filter.escape_meta", flags.Lookup("escape-meta"))
}

func setDefaults() {
	viper.SetDefault("server.url", "http://127.0.0.1:5000")
	viper.SetDefault("server.timeout", 30*time.Second)
	viper.SetDefault("server.session_file", upload.DefaultSessionPath())
	viper.SetDefault("language", "en")
	viper.SetDefault("scan.max_depth", 10)
	viper.SetDefault("filter.escape_meta", false)
	viper.SetDefault("filter.mode", string(ignore.ModeSimplified))
	viper.SetDefault("watch.debounce", 300*time.Millisecond)
	viper.SetDefault("log.file", utils.DefaultLogPath)
	viper.SetDefault("verbose", false)
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(ConfigName)
	}

	viper.SetEnvPrefix("EXPLAINER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
