// chatbrain is a rule-driven conversational engine: a fuzzy lexical
// dictionary feeding a combinatorial intent resolver, driven by a
// cooperative operation scheduler. This binary hosts it behind a small CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"chatbrain/internal/config"
	"chatbrain/internal/logging"
)

var (
	configPath string
	verbose    bool
	botName    string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "chatbrain",
	Short: "chatbrain - rule-driven conversational engine",
	Long: `chatbrain is a deterministic conversational engine. Input is tokenized
into a self-growing dictionary, fuzzy-matched against registered trigger
words, and resolved to an intent by exploring candidate combinations in
best-first order. No statistical models are involved.

Run without arguments to start the interactive REPL.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if err := logging.Initialize("."); err != nil {
			return err
		}
		if err := logging.InitTranscript(); err != nil {
			logger.Warn("transcript disabled", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseTranscript()
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL()
	},
}

// loadConfig reads the config file (or defaults) and applies CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if botName != "" {
		cfg.Name = botName
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&botName, "name", "", "override the bot name")

	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
