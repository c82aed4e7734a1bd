// Command showframe builds a two-row DataFrame and prints it as a table
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-sif/showframe/config"
	"github.com/go-sif/showframe/logging"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	master   string
	appName  string
	logLevel string
	numRows  int
	truncate int
	vertical bool
)

var rootCmd = &cobra.Command{
	Use:   "showframe",
	Short: "Show a small literal DataFrame as a table",
	Long: `showframe obtains a session, builds a DataFrame from the rows
(1, "Alice") and (2, "Bob") with columns id and name, and prints it.

Settings are read from SHOWFRAME_* environment variables (optionally from a
.env file), and flags override them. With SHOWFRAME_NODE_TYPE set to
"coordinator" or "worker", the DataFrame runs on a cluster and the
coordinator prints the result.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logging.Configure(cfg.Logging())
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx, cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "optional file of SHOWFRAME_* variables")
	rootCmd.Flags().StringVar(&master, "master", "", "local, local[N] or local[*] (overrides SHOWFRAME_MASTER)")
	rootCmd.Flags().StringVar(&appName, "app-name", "", "application name (overrides SHOWFRAME_APP_NAME)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "trace, debug, info, warn or error (overrides SHOWFRAME_LOG_LEVEL)")
	rootCmd.Flags().IntVarP(&numRows, "num-rows", "n", 20, "number of rows to show")
	rootCmd.Flags().IntVar(&truncate, "truncate", 20, "truncate cells to this many characters, 0 to disable")
	rootCmd.Flags().BoolVar(&vertical, "vertical", false, "print one line per column value")
}

// loadConfig reads the environment, then applies any flags the user set explicitly
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("master") {
		cfg.Master = master
	}
	if flags.Changed("app-name") {
		cfg.AppName = appName
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("num-rows") {
		cfg.ShowRows = numRows
	}
	if flags.Changed("truncate") {
		cfg.ShowTruncate = truncate
	}
	if flags.Changed("vertical") {
		cfg.ShowVertical = vertical
	}
	return cfg, cfg.Validate()
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
