package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	goOnboard "github.com/MrEthical07/goOnboard"
)

func fieldsCmd() *cobra.Command {
	var values map[string]string

	cmd := &cobra.Command{
		Use:   "fields [field-id...]",
		Short: "Render the required-fields screen and validate values",
		Long: "Renders labels and the privacy notice for the given backend field ids " +
			"(default: names.givenName names.familyName birthday). Values passed with " +
			"--value id=value are validated.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{
					string(goOnboard.RequiredGivenName),
					string(goOnboard.RequiredFamilyName),
					string(goOnboard.RequiredBirthday),
				}
			}
			required := make([]goOnboard.RequiredField, len(args))
			for i, a := range args {
				required[i] = goOnboard.RequiredField(a)
			}

			screen, err := appCtx.engine.NewRequiredFields(required, locale)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  [%s]\n\n", screen.Title(), screen.Locale())

			failed := false
			for i := 0; i < screen.Count(); i++ {
				f := screen.FieldAt(i)
				line := "  " + screen.TitleFor(f)
				if p, ok := screen.PlaceholderFor(f); ok {
					line += " (" + p + ")"
				}
				value, given := values[screen.RequiredFieldID(i)]
				if given {
					line += ": " + value
					if err := screen.Validate(f, value); err != nil {
						var verr goOnboard.ValidationError
						if errors.As(err, &verr) {
							line += "  ✗ " + screen.MessageFor(verr)
						}
						failed = true
					} else {
						line += "  ✓"
					}
				}
				fmt.Fprintln(out, line)
			}

			fmt.Fprintln(out)
			printNotice(out, screen.PrivacyNotice())
			fmt.Fprintf(out, "\n[%s]\n", screen.Proceed())
			if failed {
				return errors.New("some values are invalid")
			}
			return nil
		},
	}
	cmd.Flags().StringToStringVar(&values, "value", nil, "field value to validate, as id=value (repeatable)")
	return cmd
}

// printNotice writes the notice text with each link wrapped in brackets, followed
// by the link targets.
func printNotice(w io.Writer, notice goOnboard.StyledText) {
	if notice.Plain() {
		fmt.Fprintln(w, notice.Text)
		return
	}
	var b strings.Builder
	last := 0
	for _, span := range notice.Links {
		if span.Start < last {
			continue
		}
		b.WriteString(notice.Text[last:span.Start])
		b.WriteString("[" + notice.Text[span.Start:span.End()] + "]")
		last = span.End()
	}
	b.WriteString(notice.Text[last:])
	fmt.Fprintln(w, b.String())
	for i, span := range notice.Links {
		fmt.Fprintf(w, "  [%d] %s\n", i, span.URL)
	}
}
