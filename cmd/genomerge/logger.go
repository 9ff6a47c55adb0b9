package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// determineLogLevel picks the log level. Precedence, highest first:
//  1. --log-level flag
//  2. -v/--verbose (debug); with both -v and -q, quiet wins
//  3. -q/--quiet (warn)
//  4. log.level from GENOMERGE_LOG_LEVEL or the config file
//  5. info
func determineLogLevel(cmd *cobra.Command, v *viper.Viper, verbose, quiet bool) string {
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		return v.GetString("log.level")
	}
	switch {
	case quiet:
		return "warn"
	case verbose:
		return "debug"
	}
	return v.GetString("log.level")
}

// newLogger creates a console logger writing to w.
func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}
