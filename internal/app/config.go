package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/finchtui/finch/internal/logging"
	"github.com/finchtui/finch/internal/notification"
	"github.com/finchtui/finch/internal/tui/browse"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/peterbourgon/ff/v4/ffyaml"
)

type config struct {
	Address      string
	DefaultTab   string
	Open         string
	PollInterval time.Duration
	Debug        bool
	Version      bool

	loggingOptions logging.Options
}

// set config in order of precedence:
// 1. flags > 2. env vars > 3. config file
func parse(stderr io.Writer, args []string) (config, error) {
	var cfg config

	home, err := os.UserHomeDir()
	if err != nil {
		return config{}, fmt.Errorf("retrieving user's home directory: %w", err)
	}
	defaultConfigFile := filepath.Join(home, ".finch.yaml")

	fs := ff.NewFlagSet("finch")
	fs.StringVar(&cfg.Address, 'a', "address", "localhost:8080", "Address of the backend, either host:port or a full URL.")
	fs.StringVar(&cfg.Open, 'o', "open", "", "Content to open once signed in, e.g. company/42 or notifications.")
	fs.DurationVar(&cfg.PollInterval, 0, "poll-interval", notification.DefaultPollInterval, "Interval between notification polls.")
	fs.BoolVar(&cfg.Debug, 'd', "debug", "Log bubbletea messages to messages.log")
	fs.BoolVar(&cfg.Version, 'v', "version", "Print version.")
	_ = fs.String('c', "config", defaultConfigFile, "Path to config file.")

	{
		usage := fmt.Sprintf("The tab activated at startup (valid: %s).", strings.Join(browse.ValidTabs(), ","))
		fs.StringEnumVar(&cfg.DefaultTab, 't', "default-tab", usage, browse.ValidTabs()...)
	}
	{
		usage := fmt.Sprintf("Logging level (valid: %s).", strings.Join(logging.ValidLevels(), ","))
		fs.StringEnumVar(&cfg.loggingOptions.Level, 'l', "log-level", usage, logging.ValidLevels()...)
	}

	err = ff.Parse(fs, args,
		ff.WithEnvVarPrefix("FINCH"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ffyaml.Parse),
		ff.WithConfigAllowMissingFile(),
	)
	if err != nil {
		// ff.Parse returns an error if there is an error or if -h/--help is
		// passed; in either case print flag usage in addition to error message.
		fmt.Fprintln(stderr, ffhelp.Flags(fs))
		return config{}, err
	}

	return cfg, nil
}
