package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	goOnboard "github.com/MrEthical07/goOnboard"
)

func localesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List bundled locales with their privacy segment and missing keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, tag := range appCtx.bundle.Locales() {
				missing := appCtx.bundle.MissingKeys(tag)
				status := "complete"
				if len(missing) > 0 {
					status = "missing " + strings.Join(missing, ", ")
				}
				fmt.Fprintf(out, "%-6s segment=%s  %s\n", tag, goOnboard.PrivacySegment(tag), status)
			}
			return nil
		},
	}
}
