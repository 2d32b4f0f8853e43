package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	goOnboard "github.com/MrEthical07/goOnboard"
)

func inboxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inbox IDENTIFIER",
		Short: "Render the check-your-inbox screen for an email or phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := goOnboard.Identifier{Kind: goOnboard.IdentifierPhone, Value: args[0]}
			if strings.Contains(args[0], "@") {
				id.Kind = goOnboard.IdentifierEmail
			}
			screen, err := appCtx.engine.NewCheckInbox(id, locale)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, screen.Title())
			fmt.Fprintf(out, "%s %s\n", screen.SentLink(), screen.Identifier())
			fmt.Fprintf(out, "[%s]\n", screen.Change())
			return nil
		},
	}
}
