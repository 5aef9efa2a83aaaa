package main

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const wsPath = "/ws"

type Config struct {
	bind           string
	host           string
	maxReconnects  int
	port           int
	profile        bool
	reconnectDelay time.Duration
	redirectDelay  time.Duration
	secure         bool
	settleDelay    time.Duration
	stateDir       string
	tab            string
	username       string
	verbose        bool
	version        bool
	viewPort       int
}

func (c *Config) validate() error {
	if c.host == "" {
		return errors.New("--host must not be empty")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.viewPort < 0 || c.viewPort > 65535 {
		return fmt.Errorf("invalid view port (must be between 0-65535 inclusive): %d", c.viewPort)
	}
	if c.reconnectDelay <= 0 {
		return fmt.Errorf("invalid reconnect delay (must be positive): %s", c.reconnectDelay)
	}
	if c.maxReconnects < 0 {
		return fmt.Errorf("invalid reconnect limit (must not be negative): %d", c.maxReconnects)
	}
	if c.redirectDelay < 0 || c.settleDelay < 0 {
		return errors.New("--redirect-delay and --settle-delay must not be negative")
	}
	if c.stateDir == "" {
		return errors.New("--state-dir must not be empty")
	}
	if c.tab == "" {
		c.tab = uuid.NewString()
	}
	if err := validateTabID(c.tab); err != nil {
		return fmt.Errorf("invalid tab id %q: %w", c.tab, err)
	}
	if c.username != "" {
		if err := validateDisplayName(c.username); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) scheme() string {
	if c.secure {
		return "wss"
	}
	return "ws"
}

func (c *Config) endpoint() string {
	u := url.URL{
		Scheme: c.scheme(),
		Host:   net.JoinHostPort(c.host, strconv.Itoa(c.port)),
		Path:   wsPath,
	}
	return u.String()
}

func (c *Config) sessionPath() string {
	return filepath.Join(c.stateDir, "sessions", c.tab+".json")
}

func (c *Config) profilePath() string {
	return filepath.Join(c.stateDir, "profile.json")
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".minigames"
	}
	return filepath.Join(dir, "minigames")
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("MINIGAMES")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "minigames",
		Short:         "A terminal client for two-player minigames played over a websocket.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			setupLogging(cmd.ErrOrStderr(), cfg.verbose)
			return run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "127.0.0.1", "address to bind the local status page to (env: MINIGAMES_BIND)")
	fs.StringVar(&cfg.host, "host", "localhost", "game server hostname (env: MINIGAMES_HOST)")
	fs.IntVar(&cfg.maxReconnects, "max-reconnects", 5, "reconnect attempts before giving up (env: MINIGAMES_MAX_RECONNECTS)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "game server port (env: MINIGAMES_PORT)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers on the status page (env: MINIGAMES_PROFILE)")
	fs.DurationVar(&cfg.reconnectDelay, "reconnect-delay", 2*time.Second, "base delay between reconnect attempts (env: MINIGAMES_RECONNECT_DELAY)")
	fs.DurationVar(&cfg.redirectDelay, "redirect-delay", 3*time.Second, "delay before returning to the menu after a fatal room error (env: MINIGAMES_REDIRECT_DELAY)")
	fs.BoolVarP(&cfg.secure, "secure", "s", false, "connect using wss:// (env: MINIGAMES_SECURE)")
	fs.DurationVar(&cfg.settleDelay, "settle-delay", 100*time.Millisecond, "delay between game start and entering the game (env: MINIGAMES_SETTLE_DELAY)")
	fs.StringVar(&cfg.stateDir, "state-dir", defaultStateDir(), "directory for profile and session state (env: MINIGAMES_STATE_DIR)")
	fs.StringVarP(&cfg.tab, "tab", "t", "", "session id, random if unset (env: MINIGAMES_TAB)")
	fs.StringVarP(&cfg.username, "username", "u", "", "display name to play as (env: MINIGAMES_USERNAME)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: MINIGAMES_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: MINIGAMES_VERSION)")
	fs.IntVar(&cfg.viewPort, "view-port", 0, "port for the local status page, disabled if 0 (env: MINIGAMES_VIEW_PORT)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("minigames v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
