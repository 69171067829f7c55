package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/scloud/config"
	"github.com/wesleyorama2/scloud/internal/output"
)

var version = "0.1.0"

// errCheckFailed is returned when a request completed but a transport failure,
// extraction or schema check means the command should exit non-zero. The
// details have already been printed.
var errCheckFailed = errors.New("request failed")

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	configFile   string
	envFile      string
	clientID     string
	clientSecret string
	token        string
	host         string
	scheme       string
	port         int
	verbose      bool
	noColor      bool
	insecure     bool
}

// NewRootCmd builds the scloud command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:     "scloud",
		Short:   "A terminal client for the SoundCloud REST API",
		Version: version,
		Long: `scloud prepares and executes SoundCloud API calls from the terminal.
Credentials come from a config file, SCLOUD_* environment variables or flags;
responses are printed as text, JSON or YAML.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			// If no subcommand is provided, print help
			cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configFile, "config", "c", "", "Configuration file (yaml, json or toml)")
	pf.StringVar(&g.envFile, "env-file", ".env", "File of SCLOUD_* variables to load")
	pf.StringVar(&g.clientID, "client-id", "", "Application client id")
	pf.StringVar(&g.clientSecret, "client-secret", "", "Application client secret")
	pf.StringVar(&g.token, "token", "", "OAuth access token")
	pf.StringVar(&g.host, "host", "", "API host")
	pf.StringVar(&g.scheme, "scheme", "", "API scheme (http or https)")
	pf.IntVar(&g.port, "port", 0, "API port")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose output")
	pf.Bool("no-color", false, "Disable colored output")
	pf.BoolVar(&g.insecure, "insecure", false, "Skip TLS certificate verification")

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		noColor, _ := cmd.Flags().GetBool("no-color")
		g.noColor = noColor || !output.IsTerminal(os.Stdout)
	}

	for _, verb := range []string{"get", "post", "put", "delete", "head"} {
		root.AddCommand(newVerbCmd(verb, g))
	}
	root.AddCommand(newConfigCmd(g))

	return root
}

// Execute runs the root command with the process arguments.
// This is called by main.main().
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return err
	}
	return nil
}

// loadConfig resolves the configuration: file, then env file and SCLOUD_*
// variables, then flags.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if g.configFile != "" {
		loaded, err := config.LoadConfig(g.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if g.envFile != "" {
		if err := config.LoadEnv(g.envFile); err != nil {
			return nil, err
		}
	}
	config.ApplyEnv(cfg)

	overrides := []struct {
		flag  string
		field *string
	}{
		{g.clientID, &cfg.ClientID},
		{g.clientSecret, &cfg.ClientSecret},
		{g.token, &cfg.AccessToken},
		{g.host, &cfg.Endpoint.Host},
		{g.scheme, &cfg.Endpoint.Scheme},
	}
	for _, o := range overrides {
		if o.flag != "" {
			*o.field = o.flag
		}
	}
	if g.port != 0 {
		cfg.Endpoint.Port = g.port
	}

	return cfg, nil
}

// newLogger writes human-readable events to w: debug and up when verbose,
// warnings and up otherwise.
func newLogger(w io.Writer, verbose, noColor bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	console := zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: time.Kitchen}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}
