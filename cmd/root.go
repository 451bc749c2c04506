package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/dephistory-go/config"
	"github.com/masmgr/dephistory-go/internal/output"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "dephistory",
		Usage:     "Reconstruct the dependency history of package.json and bower.json files",
		Version:   "1.0.0",
		ArgsUsage: "<repository>",
		Commands: []*cli.Command{
			AnalyzeCmd(),
			SummaryCmd(),
			FilesCmd(),
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
		}, analyzeFlags()...),
		Action: defaultAction,
	}
}

// Common flags shared across commands
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "ref",
			Usage: "Revision to walk history from (default: HEAD)",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns of manifests to include (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns of manifests to exclude (can be specified multiple times)",
		},
		&cli.BoolFlag{
			Name:  "ignore-modules",
			Usage: "Ignore manifests inside node_modules, bower_components and bower_modules",
			Value: true,
		},
		&cli.StringFlag{
			Name:  "tmp-dir",
			Usage: "Directory to clone remote repositories into (default: system temp dir)",
		},
		&cli.BoolFlag{
			Name:  "keep-clone",
			Usage: "Keep the temporary clone after the run",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Diagnostic log level (error, warn, info, debug)",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Diagnostic log format (text, json)",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Suppress status messages",
		},
	}
}

func analyzeFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (json, csv, console, markdown, ndjson, yaml)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.BoolFlag{
			Name:  "ignore-parsing-errors",
			Usage: "Skip manifest snapshots that cannot be parsed",
			Value: true,
		},
		&cli.IntFlag{
			Name:    "concurrency",
			Aliases: []string{"j"},
			Usage:   "Number of files analyzed in parallel (default: number of CPUs)",
		},
		&cli.StringSliceFlag{
			Name:  "category",
			Usage: "Only report these dependency categories, e.g. dev or peerDependencies (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:  "since",
			Usage: "Only report records dated on or after this date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "until",
			Usage: "Only report records dated on or before this date (YYYY-MM-DD)",
		},
	)
}

// parseDateFlag parses a date string flag.
func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return &t, nil
}

// endOfDay moves a date to its last instant so an until bound covers the whole day.
func endOfDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	end := t.Add(24*time.Hour - time.Nanosecond)
	return &end
}

// getOutputFormat parses the output format flag, using fallback when it is empty.
func getOutputFormat(s string, fallback output.OutputFormat) (output.OutputFormat, error) {
	if s == "" {
		return fallback, nil
	}
	return output.ParseFormat(s)
}

// loadConfig loads configuration from file or defaults, then applies CLI overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("ref") {
		cfg.Analysis.Ref = c.String("ref")
	}
	if c.IsSet("ignore-parsing-errors") {
		cfg.Analysis.IgnoreParsingErrors = c.Bool("ignore-parsing-errors")
	}
	if c.IsSet("concurrency") {
		cfg.Analysis.Concurrency = c.Int("concurrency")
	}
	if c.IsSet("ignore-modules") {
		cfg.Discovery.IgnoreModuleDirectories = c.Bool("ignore-modules")
	}
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Discovery.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Discovery.Exclude = excludes
	}
	if categories := c.StringSlice("category"); len(categories) > 0 {
		cfg.Analysis.Categories = categories
	}
	if c.IsSet("tmp-dir") {
		cfg.Clone.TmpDir = c.String("tmp-dir")
	}
	if c.IsSet("keep-clone") {
		cfg.Clone.Keep = c.Bool("keep-clone")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Logging.Format = c.String("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultAction analyzes the repository given as the first argument, so that
// "dephistory owner/name" behaves like "dephistory analyze owner/name".
func defaultAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowAppHelp(c)
	}
	return analyzeAction(c)
}

// Run executes the CLI application.
func Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := App().RunContext(ctx, os.Args); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
