package cmd

import (
	"os"

	"github.com/mj1618/desktop-invoke/internal/config"
	"github.com/mj1618/desktop-invoke/internal/logger"
	"github.com/mj1618/desktop-invoke/internal/output"
	"github.com/mj1618/desktop-invoke/internal/platform"
	"github.com/mj1618/desktop-invoke/internal/version"
	"github.com/spf13/cobra"
)

var (
	v   = config.New()
	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "desktop-invoke",
	Short: "Perform UI actions on desktop application elements",
	Long: `Decode UI interaction commands (tap, type, scroll, swipe, ...) and perform
them on desktop application elements through the accessibility layer.

Commands are records with an "action" kind, positional "params", targeting
keys (app, window, text, id, ...) and, for scroll, a "while" condition.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version.String()
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./config.yaml or $HOME/.desktop-invoke/config.yaml)")
	rootCmd.PersistentFlags().String("format", "", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	v.BindPFlag(config.OutputFormat, rootCmd.PersistentFlags().Lookup("format"))
	v.BindPFlag(config.LogLevel, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if platform.RequestPermissionsFunc != nil {
			platform.RequestPermissionsFunc()
		}
		file, _ := rootCmd.PersistentFlags().GetString("config")
		loaded, err := config.Load(v, file)
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := logger.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		log = l

		output.OutputFormat = output.Format(cfg.OutputFormat)
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}
