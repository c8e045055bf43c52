package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind         string
	port         int
	prefix       string
	profile      bool
	tlsCert      string
	tlsKey       string
	verbose      bool
	version      bool
	hintInterval time.Duration
	roundTime    time.Duration
	rounds       int
	wordAPI      string
	name         string
}

// validateGame covers the round tuning shared by the server and the
// headless host.
func (c *Config) validateGame() error {
	if c.rounds < 1 {
		return fmt.Errorf("invalid round count (must be at least 1): %d", c.rounds)
	}
	if c.roundTime < time.Second || c.hintInterval < time.Second {
		return errors.New("--round-time and --hint-interval must be at least one second")
	}
	if c.hintInterval >= c.roundTime {
		return errors.New("--hint-interval must be shorter than --round-time")
	}
	return nil
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	return c.validateGame()
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func normalizeFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// bindFlags lets every flag also be set through its WORDGUESS_* env var.
func bindFlags(fs *pflag.FlagSet, v *viper.Viper) {
	fs.SetNormalizeFunc(normalizeFlag)

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("WORDGUESS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "wordguess",
		Short:         "A real-time multiplayer word-guessing game with host-run rounds.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	pfs := cmd.PersistentFlags()
	pfs.DurationVar(&cfg.hintInterval, "hint-interval", 15*time.Second, "time between letter/hint reveals (env: WORDGUESS_HINT_INTERVAL)")
	pfs.DurationVar(&cfg.roundTime, "round-time", 60*time.Second, "countdown per round (env: WORDGUESS_ROUND_TIME)")
	pfs.IntVar(&cfg.rounds, "rounds", 5, "rounds per game (env: WORDGUESS_ROUNDS)")
	pfs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: WORDGUESS_VERBOSE)")
	pfs.StringVar(&cfg.wordAPI, "word-api", "", "word/hint source endpoint; built-in catalog if unset (env: WORDGUESS_WORD_API)")

	fs := cmd.Flags()
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: WORDGUESS_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: WORDGUESS_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: WORDGUESS_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: WORDGUESS_PROFILE)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: WORDGUESS_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: WORDGUESS_TLS_KEY)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: WORDGUESS_VERSION)")

	bindFlags(fs, v)
	bindFlags(pfs, v)

	cmd.AddCommand(newHostCmd(cfg, v))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("wordguess v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
