package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/dephistory-go/internal/aggregation"
	"github.com/masmgr/dephistory-go/internal/output"
)

// SummaryCmd returns the summary command.
func SummaryCmd() *cli.Command {
	flags := append(analyzeFlags(),
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of most changed files to show (0 for all)",
		},
	)

	return &cli.Command{
		Name:      "summary",
		Aliases:   []string{"s"},
		Usage:     "Summarize dependency changes per manifest file",
		ArgsUsage: "<repository>",
		Flags:     flags,
		Action:    summaryAction,
	}
}

func summaryAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowSubcommandHelp(c)
	}
	if _, err := getOutputFormat(c.String("format"), output.FormatConsole); err != nil {
		return err
	}

	cc, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	defer cc.Close()

	res, err := cc.Analyze()
	if err != nil {
		return err
	}

	summaries := aggregation.Summarize(res.Timeline)
	aggregation.SortByChurn(summaries)

	report := &output.SummaryReport{
		Repository:  cc.Repository,
		Ref:         cc.Config.Analysis.Ref,
		GeneratedAt: time.Now(),
		Summaries:   summaries,
	}
	return writeSummaryReport(c, report)
}
