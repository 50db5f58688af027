package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailmerge"
)

func (a *app) previewCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "preview <subject> <message-file>",
		Short: "Print the rendered message for each recipient",
		Long: `Preview renders the message for each recipient and prints it without
sending anything. After each recipient it asks whether to continue, unless
--yes is given or standard input is not a terminal.`,
		Args: messageArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.campaign(cmd, args, noSend)
			if err != nil {
				return err
			}

			var p mailmerge.Prompter
			if !yes && a.interactive(cmd) {
				p = newSurveyPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			}
			err = c.Preview(cmd.Context(), cmd.OutOrStdout(), p)
			if errors.Is(err, errAborted) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "print every recipient without asking")
	return cmd
}

// interactive reports whether prompts can be answered: recipients must not
// be read from stdin and stdin must be a terminal.
func (a *app) interactive(cmd *cobra.Command) bool {
	if a.recipientsPath == "" || a.recipientsPath == stdinName {
		return false
	}
	return isTerminal(cmd.InOrStdin())
}
