package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailmerge"
)

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <subject> <message-file>",
		Short: "Verify every recipient renders without sending",
		Long: `Check renders the message for every recipient and lists each one that
cannot be rendered, with the variables it lacks. It exits non-zero when any
recipient fails.`,
		Args: messageArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.campaign(cmd, args, noSend)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			err = c.Check()

			var unresolved *mailmerge.UnresolvedError
			if errors.As(err, &unresolved) {
				for _, u := range unresolved.Recipients {
					if len(u.Missing) > 0 {
						fmt.Fprintf(out, "row %d %s: missing %s\n", u.Row, u.Address, strings.Join(u.Missing, ", "))
						continue
					}
					fmt.Fprintf(out, "row %d %s: %v\n", u.Row, u.Address, u.Err)
				}
				return fmt.Errorf("%d of %d recipients cannot be rendered", len(unresolved.Recipients), c.Len())
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "All %d recipients render\n", c.Len())
			return nil
		},
	}
}
