package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hallwatch-go/internal/cli/config"
	"github.com/yndnr/hallwatch-go/internal/cli/connection"
	"github.com/yndnr/hallwatch-go/internal/cli/output"
	"github.com/yndnr/hallwatch-go/internal/infra/buildinfo"
)

const metadataConfig = "config"

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "hallwatch-cli",
		Usage:   "HallWatch occupancy dashboard command-line tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			HallsCommand(),
			EventsCommand(),
			CameraCommand(),
			AlertsCommand(),
			SystemCommand(),
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			if c.App.Metadata == nil {
				c.App.Metadata = make(map[string]any)
			}
			c.App.Metadata[metadataConfig] = cfg

			if _, err := output.ParseFormat(ParseGlobalFlags(c).Output); err != nil {
				return err
			}
			return nil
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "HallWatch dashboard address (e.g., 127.0.0.1:5090)",
			EnvVars: []string{"HALLWATCH_SERVER"},
			Value:   config.DefaultServer,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   config.DefaultOutput,
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Request timeout",
			Value: config.DefaultTimeout,
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI profile path",
			EnvVars: []string{config.EnvConfigPath},
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server  string
	Output  string // table, json, yaml
	Wide    bool
	Timeout time.Duration

	// DefaultHall comes from the profile only.
	DefaultHall string
}

// ParseGlobalFlags extracts global flags from context. Flags not set on
// the command line or in the environment fall back to the profile.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	flags := &GlobalFlags{
		Server:  c.String("server"),
		Output:  c.String("output"),
		Wide:    c.Bool("wide"),
		Timeout: c.Duration("timeout"),
	}

	cfg := profile(c)
	if cfg == nil {
		return flags
	}
	if !c.IsSet("server") {
		flags.Server = cfg.DefaultServer
	}
	if !c.IsSet("output") {
		flags.Output = cfg.DefaultOutput
	}
	if !c.IsSet("timeout") {
		flags.Timeout = cfg.Timeout
	}
	flags.DefaultHall = cfg.DefaultHall
	return flags
}

func profile(c *cli.Context) *config.CLIConfig {
	if c.App == nil || c.App.Metadata == nil {
		return nil
	}
	cfg, _ := c.App.Metadata[metadataConfig].(*config.CLIConfig)
	return cfg
}

// Client returns an HTTP client for the configured server.
func Client(c *cli.Context) *connection.HTTPClient {
	flags := ParseGlobalFlags(c)
	return connection.NewHTTPClient(flags.Server, flags.Timeout)
}

// requestContext bounds a command's API call.
func requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, ParseGlobalFlags(c).Timeout)
}

// printResult writes data in the selected output format.
func printResult(c *cli.Context, data any) error {
	flags := ParseGlobalFlags(c)
	return output.NewFormatter(output.Format(flags.Output), flags.Wide).Format(stdout(c), data)
}

// isTable reports whether human-readable output is selected.
func isTable(c *cli.Context) bool {
	return output.Format(ParseGlobalFlags(c).Output) == output.FormatTable
}

func stdout(c *cli.Context) io.Writer {
	if c.App != nil && c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func stderr(c *cli.Context) io.Writer {
	if c.App != nil && c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
