package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	goOnboard "github.com/MrEthical07/goOnboard"
	"github.com/MrEthical07/goOnboard/i18n"
	"github.com/MrEthical07/goOnboard/identity"
	"github.com/MrEthical07/goOnboard/metrics/export/prometheus"
)

var (
	locale       string
	redisAddr    string
	verbose      bool
	printMetrics bool

	tokenEndpoint string
	idTokenSecret string

	appCtx *app
)

// app is what every subcommand works with.
type app struct {
	engine   *goOnboard.Engine
	manager  *identity.Manager
	bundle   *i18n.Bundle
	exporter *prometheus.Exporter
	cleanup  func()
}

func Execute() error {
	root := &cobra.Command{
		Use:           "onboard-demo",
		Short:         "Drive the goOnboard screens from a terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			a, err := newApp(logger)
			if err != nil {
				return err
			}
			appCtx = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if appCtx != nil && printMetrics {
				fmt.Fprint(cmd.OutOrStdout(), appCtx.exporter.Render())
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&locale, "locale", "l", "", "BCP 47 locale (default from GOONBOARD_LOCALIZATION_DEFAULT_LOCALE or en-US)")
	root.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	root.PersistentFlags().BoolVar(&printMetrics, "metrics", false, "print Prometheus metrics after the command")
	root.PersistentFlags().StringVar(&tokenEndpoint, "token-endpoint", "", "OAuth token endpoint; if empty, a local provider accepts the demo codes")
	root.PersistentFlags().StringVar(&idTokenSecret, "id-token-secret", "", "HS256 secret verifying id tokens from --token-endpoint")

	root.AddCommand(fieldsCmd(), codeCmd(), inboxCmd(), localesCmd())
	err := root.Execute()
	if appCtx != nil {
		appCtx.cleanup()
	}
	return err
}
