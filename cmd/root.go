package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vedsharma/resterx/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "resterx",
	Short: "A CLI REST client with environments, collections and history",
	Long: `resterx is a command-line REST client, similar to Postman.

Send HTTP requests with {{variables}} from the active environment, keep a
history of attempts, organize requests into collections, exchange them as
Postman v2.1 files, run bulk tests and compare responses.

Examples:
  resterx get https://api.example.com/users
  resterx post '{{base}}/users' -d '{"name": "John"}'
  resterx env use staging
  resterx history
  resterx collection export my-api > my-api.postman.json`,
	SilenceUsage: true,
}

var (
	v       = viper.New()
	cfgFile string
	debug   bool
	cfg     config.Config
	cfgErr  error
	logger  = slog.New(slog.DiscardHandler)
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.resterx.yaml)")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
	flags.BoolP("verbose", "v", false, "Show request and response headers")
	flags.String("data-dir", "", "Directory for local data (default is $HOME/.resterx)")
	flags.String("storage", "", "Storage backend: sqlite, json or memory")
	flags.Duration("timeout", 0, "Per-attempt request timeout, 0 disables (default 30s)")
	flags.Int("retries", 0, "Retries after a transport failure")
	flags.Duration("retry-delay", 0, "Delay between retries (default 1s)")

	bindFlag(config.KeyDataDir, "data-dir")
	bindFlag(config.KeyStorage, "storage")
	bindFlag(config.KeyTimeout, "timeout")
	bindFlag(config.KeyRetries, "retries")
	bindFlag(config.KeyRetryDelay, "retry-delay")
}

func bindFlag(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() {
	cfg, cfgErr = config.Load(v, cfgFile)

	level := slog.LevelInfo
	if cfgErr == nil {
		level = parseLevel(cfg.LogLevel)
	}
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
