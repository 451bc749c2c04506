package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/dephistory-go/internal/output"
)

// AnalyzeCmd returns the analyze command.
func AnalyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Reconstruct the dependency timeline of every manifest in a repository",
		ArgsUsage: "<repository>",
		Flags:     analyzeFlags(),
		Action:    analyzeAction,
	}
}

func analyzeAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowSubcommandHelp(c)
	}

	// Fail on a bad format before any cloning happens.
	if _, err := getOutputFormat(c.String("format"), output.FormatJSON); err != nil {
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

	report := &output.TimelineReport{
		Repository:  cc.Repository,
		Ref:         cc.Config.Analysis.Ref,
		Since:       cc.Since,
		Until:       cc.Until,
		GeneratedAt: time.Now(),
		Timeline:    res.Timeline,
		Files:       res.Files,
	}
	return writeTimelineReport(c, report)
}
