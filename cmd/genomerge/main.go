// Package main provides the genomerge command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries state shared by all commands of one invocation.
type app struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
	now    func() time.Time
}

func newApp(stdout, stderr io.Writer) *app {
	v := viper.New()
	v.SetDefault("log.level", "info")
	v.SetDefault("store.path", "")
	v.SetDefault("report.summary", false)
	v.SetDefault("report.atomic", true)

	return &app{
		v:      v,
		stdout: stdout,
		stderr: stderr,
		logger: zap.NewNop(),
		now:    time.Now,
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	a := newApp(stdout, stderr)
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteC()
	a.logger.Sync()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var ue *UsageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "\n%s", cmd.UsageString())
		}
		return ExitError
	}
	return ExitSuccess
}

func (a *app) newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "genomerge [flags] <primary> <secondary> <output>",
		Short: "Merge two consumer DNA raw data files",
		Long: `Merge a 23andMe and/or AncestryDNA raw data export into one call set.

The primary file takes precedence in true conflicts. Disagreements caused by
no-calls, hemizygous X/Y/MT representation, allele order or a file-wide strand
orientation swap are reconciled and reported separately.`,
		Example: `  genomerge 23andme.txt ancestry.txt merged.txt
  genomerge --summary --db ~/.genomerge/history.duckdb a.zip b.txt merged.txt
  genomerge runs`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				return &UsageError{Message: fmt.Sprintf("expected 3 arguments (primary, secondary, output), got %d", len(args))}
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(cfgFile); err != nil {
				return err
			}
			logger, err := newLogger(determineLogLevel(cmd, a.v, verbose, quiet), a.stderr)
			if err != nil {
				return &UsageError{Message: err.Error()}
			}
			a.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMerge(mergeOptions{
				primary:   args[0],
				secondary: args[1],
				output:    args[2],
				storePath: a.v.GetString("store.path"),
				summary:   a.v.GetBool("report.summary"),
				atomic:    a.v.GetBool("report.atomic"),
			})
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &UsageError{Message: err.Error()}
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ~/.genomerge.yaml)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Only log warnings and errors")
	pf.String("db", "", "DuckDB file recording merge run history (disabled if empty)")

	f := cmd.Flags()
	f.Bool("summary", false, "Also write <output>.summary.yaml")
	f.Bool("atomic", true, "Write outputs to a temp file and rename on success")

	a.v.BindPFlag("log.level", pf.Lookup("log-level"))
	a.v.BindPFlag("store.path", pf.Lookup("db"))
	a.v.BindPFlag("report.summary", f.Lookup("summary"))
	a.v.BindPFlag("report.atomic", f.Lookup("atomic"))

	cmd.AddCommand(a.newConfigCmd())
	cmd.AddCommand(a.newRunsCmd())

	return cmd
}
