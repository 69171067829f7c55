package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/scloud/config"
	"github.com/wesleyorama2/scloud/http"
	"github.com/wesleyorama2/scloud/internal/output"
	"github.com/wesleyorama2/scloud/pkg/jsonpath"
	"github.com/wesleyorama2/scloud/pkg/jsonschema"
	"github.com/wesleyorama2/scloud/soundcloud"
)

// requestFlags holds the flags of a single verb command.
type requestFlags struct {
	params  []string
	headers []string
	extract []string
	schema  string
	xml     bool
	follow  bool
	timeout time.Duration
	format  string
}

func newVerbCmd(verb string, g *globalFlags) *cobra.Command {
	f := &requestFlags{}

	cmd := &cobra.Command{
		Use:     verb + " PATH",
		Short:   fmt.Sprintf("Make a %s request to the API resource at PATH", strings.ToUpper(verb)),
		Example: fmt.Sprintf("  scloud %s /resolve -p url=http://soundcloud.com/hybrid-species", verb),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(f.format)
			if err != nil {
				return err
			}

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			return runRequest(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), g, f, cfg, http.Verb(strings.ToUpper(verb)), args[0], format)
		},
	}

	fl := cmd.Flags()
	fl.StringArrayVarP(&f.params, "param", "p", nil, "Request parameter as key=value (can be used multiple times)")
	fl.StringArrayVarP(&f.headers, "header", "H", nil, "HTTP headers to include (can be used multiple times)")
	fl.StringArrayVarP(&f.extract, "extract", "e", nil, "Extract name=$.json.path from the response (can be used multiple times)")
	fl.StringVar(&f.schema, "schema", "", "JSON Schema file the response body must satisfy")
	fl.BoolVar(&f.xml, "xml", false, "Request XML instead of JSON")
	fl.BoolVarP(&f.follow, "location", "L", false, "Follow redirects")
	fl.DurationVarP(&f.timeout, "timeout", "t", 0, "Request timeout (overrides the configured one)")
	fl.StringVarP(&f.format, "output", "o", "text", "Output format: text, json or yaml")

	return cmd
}

func runRequest(ctx context.Context, stdout, stderr io.Writer, g *globalFlags, f *requestFlags, cfg *config.Config, verb http.Verb, path string, format output.OutputFormat) error {
	if ctx == nil {
		ctx = context.Background()
	}

	params, err := parseParams(f.params)
	if err != nil {
		return err
	}
	paths, err := parsePairs(f.extract, "=")
	if err != nil {
		return err
	}

	logger := newLogger(stderr, g.verbose, g.noColor)
	formatter := output.GetFormatter(format, g.verbose, g.noColor)

	observed := &observingFactory{
		inner: http.DefaultFactory{Logger: logger},
		onRequest: func(req *http.BuiltRequest) {
			fmt.Fprint(stdout, formatter.FormatRequest(req))
		},
	}
	client := cfg.NewClient(
		soundcloud.WithLogger(logger),
		soundcloud.WithHTTPFactory(observed),
	)
	if f.xml {
		client.AsXML()
	}

	if err := prepare(client, verb, path, params); err != nil {
		return err
	}

	resp, err := client.Request(ctx, f.overrides(g, cfg))
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, formatter.FormatResponse(resp))

	failed := resp.Err() != nil

	if len(paths) > 0 {
		values, err := jsonpath.ExtractAll(resp.BodyRaw(), paths)
		fmt.Fprint(stdout, formatter.FormatExtracted(values))
		if err != nil {
			fmt.Fprintf(stderr, "%s %v\n", output.ErrorIcon(g.noColor), err)
			failed = true
		}
	}

	if f.schema != "" {
		schemaDoc, err := os.ReadFile(f.schema)
		if err != nil {
			return fmt.Errorf("error reading schema file: %w", err)
		}
		if err := jsonschema.ValidateBody(resp.BodyRaw(), string(schemaDoc)); err != nil {
			fmt.Fprintf(stderr, "%s Schema validation failed: %v\n", output.ErrorIcon(g.noColor), err)
			failed = true
		} else if g.verbose {
			fmt.Fprintf(stderr, "%s Schema validation passed\n", output.SuccessIcon(g.noColor))
		}
	}

	if failed {
		return errCheckFailed
	}
	return nil
}

// overrides turns per-command flags into transport options. Header flags are
// appended to the configured headers rather than replacing them.
func (f *requestFlags) overrides(g *globalFlags, cfg *config.Config) http.Options {
	opts := http.Options{}
	if g.verbose {
		opts[http.OptVerbose] = true
	}
	if g.insecure {
		opts[http.OptInsecureSkipVerify] = true
	}
	if f.follow {
		opts[http.OptFollowLocation] = true
	}
	if f.timeout > 0 {
		opts[http.OptTimeout] = f.timeout
	}
	if len(f.headers) > 0 {
		configured, _ := cfg.TransportOptions()[http.OptHTTPHeader].([]string)
		opts[http.OptHTTPHeader] = append(append([]string{}, configured...), f.headers...)
	}
	return opts
}

func prepare(client *soundcloud.Client, verb http.Verb, path string, params *http.Params) error {
	switch verb {
	case http.GET:
		return client.Get(path, params)
	case http.POST:
		return client.Post(path, params)
	case http.PUT:
		return client.Put(path, params)
	case http.DELETE:
		return client.Delete(path, params)
	case http.HEAD:
		return client.Head(path, params)
	}
	return fmt.Errorf("%w: unsupported verb %s", http.ErrInvalidArgument, verb)
}

func parseParams(pairs []string) (*http.Params, error) {
	params := http.NewParams()
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid parameter %q: want key=value", pair)
		}
		if err := params.Set(key, value); err != nil {
			return nil, err
		}
	}
	return params, nil
}

func parsePairs(pairs []string, sep string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, sep)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid value %q: want name%svalue", pair, sep)
		}
		out[name] = value
	}
	return out, nil
}

// observingFactory reports every built request before handing it to the
// wrapped factory's transport.
type observingFactory struct {
	inner     http.Factory
	onRequest func(*http.BuiltRequest)
}

func (o *observingFactory) NewTransport(opts http.Options) http.Transport {
	next := o.inner.NewTransport(opts)
	return http.TransportFunc(func(ctx context.Context, req *http.BuiltRequest) http.RawOutput {
		o.onRequest(req)
		return next.Do(ctx, req)
	})
}

func (o *observingFactory) NewResponse(raw http.RawOutput, format http.Format) *http.Response {
	return o.inner.NewResponse(raw, format)
}
