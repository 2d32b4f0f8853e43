package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	goOnboard "github.com/MrEthical07/goOnboard"
)

func codeCmd() *cobra.Command {
	var (
		timeout time.Duration
		logout  bool
	)

	cmd := &cobra.Command{
		Use:   "code CODE...",
		Short: "Submit authentication codes",
		Long:  "Submits each code in turn. The local provider accepts ABC123 and 424242.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validator, err := appCtx.engine.NewAuthCodeValidator()
			if err != nil {
				return err
			}
			defer validator.Discard()

			out := cmd.OutOrStdout()
			var last error
			for _, code := range args {
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				user, err := validator.ValidateSync(ctx, code)
				cancel()

				var ce *goOnboard.ClientError
				switch {
				case err == nil:
					fmt.Fprintf(out, "%s: signed in as %s (legacy %s, session %s)\n", code, user.ID, user.LegacyID, user.SessionID)
				case errors.As(err, &ce):
					fmt.Fprintf(out, "%s: rejected (%s)\n", code, ce.Kind)
				default:
					fmt.Fprintf(out, "%s: %v\n", code, err)
				}
				last = err
			}

			if logout {
				if err := appCtx.manager.Logout(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "logged out")
			}
			return last
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-code timeout")
	cmd.Flags().BoolVar(&logout, "logout", false, "log out after the last code")
	return cmd
}
