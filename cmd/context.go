package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/dephistory-go/config"
	"github.com/masmgr/dephistory-go/internal/analyzer"
	"github.com/masmgr/dephistory-go/internal/git"
	"github.com/masmgr/dephistory-go/internal/logging"
	"github.com/masmgr/dephistory-go/internal/output"
	"github.com/masmgr/dephistory-go/internal/timeline"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across all commands: configuration,
// logging, repository acquisition and manifest discovery.
type CommandContext struct {
	Ctx        context.Context
	Config     *config.Config
	Logger     *logrus.Logger
	Repository string
	Source     git.RepositorySource
	Checkout   *git.Checkout
	Since      *time.Time
	Until      *time.Time
	Files      []string
	quiet      bool
}

// NewCommandContext creates a context from CLI flags.
// The caller must Close it to remove temporary clones.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	since, err := parseDateFlag(c.String("since"))
	if err != nil {
		return nil, fmt.Errorf("invalid since date: %w", err)
	}
	until, err := parseDateFlag(c.String("until"))
	if err != nil {
		return nil, fmt.Errorf("invalid until date: %w", err)
	}

	logger, err := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, err
	}

	id := c.Args().First()
	src, err := git.ParseRepository(id)
	if err != nil {
		return nil, err
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cc := &CommandContext{
		Ctx:        logging.WithLogger(ctx, logger),
		Config:     cfg,
		Logger:     logger,
		Repository: id,
		Source:     src,
		Since:      since,
		Until:      endOfDay(until),
		quiet:      c.Bool("quiet"),
	}

	if src.Kind == git.SourceRemote {
		cc.status("Cloning %s", src.Location)
	}
	checkout, err := git.Acquire(cc.Ctx, src, git.CloneOptions{TmpDir: cfg.Clone.TmpDir, Keep: cfg.Clone.Keep})
	if err != nil {
		return nil, err
	}
	cc.Checkout = checkout
	if src.Kind == git.SourceRemote && cfg.Clone.Keep {
		cc.status("Clone kept at %s", checkout.Path)
	}

	if err := cc.discover(); err != nil {
		_ = cc.Close()
		return nil, err
	}
	return cc, nil
}

func (cc *CommandContext) discover() error {
	reader, err := git.NewHistoryReader(cc.readOptions())
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	files, err := reader.DiscoverManifests(cc.Ctx, cc.Config.Analysis.Ref, git.DiscoverOptions{
		Patterns:                cc.Config.Discovery.Patterns,
		ModuleDirectories:       cc.Config.Discovery.ModuleDirectories,
		IgnoreModuleDirectories: cc.Config.Discovery.IgnoreModuleDirectories,
		Include:                 cc.Config.Discovery.Include,
		Exclude:                 cc.Config.Discovery.Exclude,
	})
	if err != nil {
		return fmt.Errorf("failed to discover manifests: %w", err)
	}
	cc.Files = files
	cc.Logger.WithField("files", len(files)).Debug("Manifests discovered")
	return nil
}

func (cc *CommandContext) readOptions() git.ReadOptions {
	return git.ReadOptions{
		RepoPath:         cc.Checkout.Path,
		MaxSnapshotBytes: cc.Config.Analysis.MaxManifestBytes,
	}
}

// Analyze runs the dependency history analysis over the discovered files and applies
// the category filter and the since/until window to the resulting timeline.
func (cc *CommandContext) Analyze() (*analyzer.Result, error) {
	cats, err := cc.Config.Analysis.CategoryFilter()
	if err != nil {
		return nil, err
	}

	cc.status("Analyzing %d manifest file(s) in %s", len(cc.Files), cc.Repository)

	an := analyzer.New(analyzer.RepositoryOpener(cc.readOptions()), analyzer.Options{
		Ref:                 cc.Config.Analysis.Ref,
		IgnoreParsingErrors: cc.Config.Analysis.IgnoreParsingErrors,
		Concurrency:         cc.Config.Analysis.Concurrency,
	})
	res, err := an.Run(cc.Ctx, cc.Files)
	if err != nil {
		return nil, err
	}

	res.Timeline = timeline.Restrict(res.Timeline, cats)

	var window timeline.Window
	if cc.Since != nil {
		window.Since = *cc.Since
	}
	if cc.Until != nil {
		window.Until = *cc.Until
	}
	res.Timeline = timeline.Filter(res.Timeline, window)
	return res, nil
}

// Close removes the temporary clone, if any.
func (cc *CommandContext) Close() error {
	if cc.Checkout == nil {
		return nil
	}
	return cc.Checkout.Cleanup()
}

func (cc *CommandContext) status(format string, args ...interface{}) {
	if cc.quiet {
		return
	}
	fmt.Fprintln(os.Stderr, color.GreenString(format, args...))
}

// OutputOptions creates OutputOptions from CLI flags.
func OutputOptions(c *cli.Context, fallback output.OutputFormat) (output.OutputOptions, error) {
	format, err := getOutputFormat(c.String("format"), fallback)
	if err != nil {
		return output.OutputOptions{}, err
	}
	return output.OutputOptions{
		Format:     format,
		Top:        c.Int("top"),
		OutputPath: c.String("output"),
		Out:        c.App.Writer,
	}, nil
}
