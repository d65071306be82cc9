package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/infodancer/mailpath"
	"github.com/infodancer/mailpath/internal/config"
)

var version = "dev"

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	if v == "" {
		return
	}
	version = v
}

// app holds the state shared by every subcommand of one invocation.
type app struct {
	jsonOutput bool
	cfgFile    string

	cfg *config.Config
	reg *mailpath.Registry
}

// NewRootCmd builds the mailpath command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "mailpath",
		Version: version,
		Short:   "Resolve and inspect mailbox paths",
		Long: `mailpath turns the mailbox names a user types into canonical mailbox paths.

It recognizes mbox, MMDF, maildir, MH and compressed mailboxes on disk as well as
imap://, pop://, news:// and notmuch:// URLs, and can compare, abbreviate and
walk up the hierarchy of the paths it resolves.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $HOME/.config/mailpath/config.yaml)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "resolution",
		Title: "Resolution:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "navigation",
		Title: "Navigation & Display:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Mailbox Management:",
	})

	for _, cmd := range []*cobra.Command{
		newResolveCmd(a),
		newTidyCmd(a),
		newProbeCmd(a),
		newCanonCmd(a),
		newKeyCmd(a),
	} {
		cmd.GroupID = "resolution"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		newCompareCmd(a),
		newParentCmd(a),
		newPrettyCmd(a),
		newExpandCmd(a),
	} {
		cmd.GroupID = "navigation"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		newCreateCmd(a),
		newKindsCmd(a),
	} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	return rootCmd
}

// setup reads configuration, installs the logger and builds the registry.
func (a *app) setup(stderr io.Writer) error {
	if err := initConfig(a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	slog.SetDefault(newLogger(cfg.LogLevel, stderr))
	a.reg = newRegistry(cfg)
	return nil
}

func initConfig(cfgFile string) error {
	viper.Reset()

	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
	}

	if err := config.BindEnv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing default config file is fine; an explicit one must exist.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func newLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Execute runs the mailpath command.
func Execute() error {
	return NewRootCmd().Execute()
}
