// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/ahuca/twinget/internal/issue"

	"github.com/spf13/cobra"
)

func newIssuesCommand(app *App) *cobra.Command {
	var style string

	issuesCmd := &cobra.Command{
		Use:   "issues [name]",
		Short: "Show troubleshooting help for known problems",
		Long: `Show troubleshooting help for known problems.

Without arguments the known issues are listed. Pass an issue name or number
to render its guidance.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				listIssues(app)
				return nil
			}
			return renderIssue(app, args[0], style)
		},
	}
	issuesCmd.Flags().StringVar(&style, "style", "auto", "glamour style used to render the guidance")

	return issuesCmd
}

func listIssues(app *App) {
	fmt.Fprintln(app.stdout, TitleStyle.Render("Known issues"))
	fmt.Fprintln(app.stdout)
	for _, i := range issue.Values() {
		fmt.Fprintf(app.stdout, "  %2d  %s\n", i.Id(), CmdStyle.Render(i.Name()))
	}
	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s\n", SubtitleStyle.Render("Run 'twinget issues <name>' for details."))
}

func renderIssue(app *App, key, style string) error {
	found := issue.Lookup(key)
	if found == nil {
		return usageError(fmt.Errorf("unknown issue %q, run 'twinget issues' to list them", key))
	}
	rendered, err := found.Render(style)
	if err != nil {
		return fmt.Errorf("failed to render issue %s: %w", found.Name(), err)
	}
	fmt.Fprint(app.stdout, rendered)
	return nil
}
