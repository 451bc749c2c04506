// Package analyzer reconstructs the dependency timeline of a set of manifest files.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/masmgr/dephistory-go/internal/git"
	"github.com/masmgr/dephistory-go/internal/history"
	"github.com/masmgr/dephistory-go/internal/logging"
	"github.com/masmgr/dephistory-go/internal/manifest"
	"github.com/masmgr/dephistory-go/internal/timeline"
)

// ErrNoManifestsFound is returned when there is no manifest file to analyze.
var ErrNoManifestsFound = errors.New("no package.json or bower.json files found")

// Opener returns a fresh reader for one worker. Readers are never shared between
// goroutines.
type Opener func() (git.GraphReader, error)

// RepositoryOpener opens the on-disk repository described by opts for every call.
func RepositoryOpener(opts git.ReadOptions) Opener {
	return func() (git.GraphReader, error) {
		return git.NewHistoryReader(opts)
	}
}

// SharedOpener hands out the same reader on every call. Only safe with Concurrency 1
// or with readers that tolerate concurrent use.
func SharedOpener(reader git.GraphReader) Opener {
	return func() (git.GraphReader, error) {
		return reader, nil
	}
}

// Options configures an analysis run.
type Options struct {
	// Ref is the revision every walk starts from. Empty means HEAD.
	Ref string
	// IgnoreParsingErrors skips snapshots that cannot be projected instead of aborting.
	IgnoreParsingErrors bool
	// Concurrency bounds the number of files processed at once. Zero or less means
	// runtime.NumCPU().
	Concurrency int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{IgnoreParsingErrors: true, Concurrency: runtime.NumCPU()}
}

// FileReport describes how one file's history was processed.
type FileReport struct {
	Path string `json:"path"`
	// Revisions is the length of the file's effective history.
	Revisions int `json:"revisions"`
	// Records is the number of records the file contributed after deduplication.
	Records int `json:"records"`
	// Empty counts snapshots that declared no dependencies.
	Empty int `json:"empty"`
	// Skipped counts snapshots dropped because they could not be parsed.
	Skipped int `json:"skipped"`
	// Truncated is set when a snapshot read hit a content boundary and older
	// revisions were not processed.
	Truncated bool          `json:"truncated"`
	Duration  time.Duration `json:"duration"`
}

// Result is the outcome of a successful run.
type Result struct {
	Timeline []timeline.Record
	Files    []FileReport
}

// Analyzer runs the per-file pipeline over a repository.
type Analyzer struct {
	open Opener
	opts Options
}

// New creates an analyzer.
func New(open Opener, opts Options) *Analyzer {
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	return &Analyzer{open: open, opts: opts}
}

// Run analyzes every file and merges the per-file sequences into one timeline. Files
// are processed in parallel; the first fatal error cancels the remaining work and is
// returned without a partial timeline.
func (a *Analyzer) Run(ctx context.Context, files []string) (*Result, error) {
	if len(files) == 0 {
		return nil, ErrNoManifestsFound
	}

	log := logging.FromContext(ctx)
	log.WithFields(logrus.Fields{
		"files":       len(files),
		"ref":         a.opts.Ref,
		"concurrency": a.opts.Concurrency,
	}).Info("Analyzing dependency history")

	perFile := make([][]timeline.Record, len(files))
	reports := make([]FileReport, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)

	for i, file := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			reader, err := a.open()
			if err != nil {
				return fmt.Errorf("open repository: %w", err)
			}
			records, report, err := a.AnalyzeFile(gctx, reader, file)
			if err != nil {
				return err
			}
			perFile[i] = records
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := timeline.Merge(perFile)
	log.WithField("records", len(merged)).Info("Timeline assembled")

	return &Result{Timeline: merged, Files: reports}, nil
}

// AnalyzeFile runs the pipeline for a single file: walk its history, keep the revisions
// that introduced new content, project each snapshot and deduplicate the records.
func (a *Analyzer) AnalyzeFile(ctx context.Context, reader git.GraphReader, path string) ([]timeline.Record, FileReport, error) {
	start := time.Now()
	report := FileReport{Path: path}
	log := logging.FromContext(ctx).WithField("file", path)

	iter, err := reader.Walk(ctx, a.opts.Ref, path)
	if err != nil {
		return nil, report, err
	}
	revisions, err := history.Extract(ctx, iter)
	if err != nil {
		return nil, report, err
	}
	report.Revisions = len(revisions)
	log.WithField("revisions", len(revisions)).Debug("Effective history extracted")

	var records []timeline.Record
	for _, rev := range revisions {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		deps, err := a.snapshot(ctx, reader, rev, path)
		if errors.Is(err, git.ErrContentNotFound) {
			// Older revisions lie beyond the same boundary.
			log.WithField("sha", rev.ShortSHA()).Debug("Content not found, history ends here")
			report.Truncated = true
			break
		}
		var parseErr *manifest.ParseError
		if errors.As(err, &parseErr) {
			if !a.opts.IgnoreParsingErrors {
				return nil, report, err
			}
			log.WithFields(logrus.Fields{"sha": rev.ShortSHA(), "error": parseErr.Err}).Warn("Parsing failed, snapshot skipped")
			report.Skipped++
			continue
		}
		if err != nil {
			return nil, report, err
		}

		rec, ok := timeline.NewRecord(path, rev, deps)
		if !ok {
			report.Empty++
			continue
		}
		records = append(records, rec)
	}

	// Revisions were visited newest first. Dedup compares each record with its
	// predecessor, so equal timestamps must stay in history order.
	slices.Reverse(records)
	kept := timeline.DedupFile(records)
	report.Records = len(kept)
	report.Duration = time.Since(start)
	log.WithFields(logrus.Fields{
		"records": report.Records,
		"skipped": report.Skipped,
		"empty":   report.Empty,
	}).Debug("File analyzed")

	return kept, report, nil
}

// snapshot reads and projects path at rev. Oversized snapshots are reported as parse
// failures.
func (a *Analyzer) snapshot(ctx context.Context, reader git.GraphReader, rev git.Revision, path string) (manifest.Dependencies, error) {
	buf, err := reader.ReadSnapshot(ctx, rev, path)
	if errors.Is(err, git.ErrSnapshotTooLarge) {
		return nil, &manifest.ParseError{Path: path, Revision: rev.SHA, Err: err}
	}
	if err != nil {
		return nil, err
	}

	deps, err := manifest.Project(buf)
	if err != nil {
		return nil, &manifest.ParseError{Path: path, Revision: rev.SHA, Err: err}
	}
	return deps, nil
}
