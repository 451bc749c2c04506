package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// FilesCmd returns the files command.
func FilesCmd() *cli.Command {
	return &cli.Command{
		Name:      "files",
		Usage:     "List the manifest files that would be analyzed",
		ArgsUsage: "<repository>",
		Flags:     commonFlags(),
		Action:    filesAction,
	}
}

func filesAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowSubcommandHelp(c)
	}

	cc, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	defer cc.Close()

	if len(cc.Files) == 0 {
		cc.status("No package.json or bower.json files found.")
		return nil
	}
	for _, f := range cc.Files {
		fmt.Fprintln(c.App.Writer, f)
	}
	return nil
}
