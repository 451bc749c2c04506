package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/dephistory-go/internal/output"
)

func writeTimelineReport(c *cli.Context, report *output.TimelineReport) error {
	opts, err := OutputOptions(c, output.FormatJSON)
	if err != nil {
		return err
	}
	writer := output.NewTimelineWriter(opts.Format)
	return writer.Write(report, opts)
}

func writeSummaryReport(c *cli.Context, report *output.SummaryReport) error {
	opts, err := OutputOptions(c, output.FormatConsole)
	if err != nil {
		return err
	}
	writer := output.NewSummaryWriter(opts.Format)
	return writer.Write(report, opts)
}
