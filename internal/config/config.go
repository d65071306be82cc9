package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/infodancer/mailpath"
	"github.com/infodancer/mailpath/compress"
)

// EnvPrefix is prepended to every environment variable the config reads,
// e.g. MAILPATH_FOLDER or MAILPATH_COMPRESS_SUFFIXES.
const EnvPrefix = "MAILPATH"

// Config is the complete mailpath configuration
type Config struct {
	// Folder is the mail root that "+" and "=" expand to
	Folder string `mapstructure:"folder"`
	// Home is the directory "~" expands to
	Home string `mapstructure:"home"`
	// Spool is the system inbox, used when no path is given
	Spool string `mapstructure:"spool"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`
	// IMAPDelimiter separates IMAP mailbox hierarchy levels
	IMAPDelimiter string `mapstructure:"imap_delimiter"`
	// NNTPDelimiter separates newsgroup name components
	NNTPDelimiter string `mapstructure:"nntp_delimiter"`

	Compress CompressConfig  `mapstructure:"compress"`
	Accounts []AccountConfig `mapstructure:"accounts"`
}

// CompressConfig controls which files are read as compressed mailboxes
type CompressConfig struct {
	// Suffixes are the file name endings accepted, each starting with "."
	Suffixes []string `mapstructure:"suffixes"`
}

// AccountConfig describes the login used for one remote host
type AccountConfig struct {
	Host  string `mapstructure:"host"`
	User  string `mapstructure:"user"`
	Login string `mapstructure:"login"`
	Port  int    `mapstructure:"port"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	home, _ := os.UserHomeDir()
	folder := ""
	if home != "" {
		folder = filepath.Join(home, "Mail")
	}
	spool := os.Getenv("MAIL")

	return &Config{
		Folder:        folder,
		Home:          home,
		Spool:         spool,
		LogLevel:      "warn",
		IMAPDelimiter: "/",
		NNTPDelimiter: ".",
		Compress: CompressConfig{
			Suffixes: append([]string(nil), compress.DefaultSuffixes...),
		},
	}
}

// SetDefaults registers Default() with viper.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("folder", defaults.Folder)
	viper.SetDefault("home", defaults.Home)
	viper.SetDefault("spool", defaults.Spool)
	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("imap_delimiter", defaults.IMAPDelimiter)
	viper.SetDefault("nntp_delimiter", defaults.NNTPDelimiter)
	viper.SetDefault("compress.suffixes", defaults.Compress.Suffixes)
	viper.SetDefault("accounts", []AccountConfig{})
}

// BindEnv loads a .env file from the working directory, if present, and
// makes viper read MAILPATH_* variables.
func BindEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	return nil
}

// Load unmarshals and validates the configuration held by viper.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if ps := cfg.Validate(); ps != nil {
		return nil, ps
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mailpath")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mailpath"
	}
	return filepath.Join(home, ".config", "mailpath")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func delimiter(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

// IMAPDelim returns the configured IMAP delimiter as a rune.
func (c *Config) IMAPDelim() rune { return delimiter(c.IMAPDelimiter) }

// NNTPDelim returns the configured NNTP delimiter as a rune.
func (c *Config) NNTPDelim() rune { return delimiter(c.NNTPDelimiter) }

// AccountFor returns the account configured for host, or nil.
// Hosts match case-insensitively.
func (c *Config) AccountFor(host string) *mailpath.Account {
	if host == "" {
		return nil
	}
	for _, a := range c.Accounts {
		if strings.EqualFold(a.Host, host) {
			return &mailpath.Account{
				Host:  a.Host,
				User:  a.User,
				Login: a.Login,
				Port:  a.Port,
			}
		}
	}
	return nil
}
