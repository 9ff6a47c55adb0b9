package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const configName = ".genomerge"

// initConfig loads the config file and binds GENOMERGE_* environment variables.
// A missing default config file is not an error; a missing explicit one is.
func (a *app) initConfig(cfgFile string) error {
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.SetConfigName(configName)
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("GENOMERGE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage genomerge configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.genomerge.yaml.",
		Example: `  genomerge config                                   # show all config
  genomerge config set store.path ~/genomerge.duckdb # record run history
  genomerge config get report.atomic                 # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigShow()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigSet(args[0], args[1])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigGet(args[0])
		},
	})

	return cmd
}

func (a *app) runConfigShow() error {
	out, err := yaml.Marshal(a.v.AllSettings())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		fmt.Fprintf(a.stdout, "# Config file: %s\n", used)
	} else {
		fmt.Fprintln(a.stdout, "# No config file. Defaults shown; file: ~/.genomerge.yaml")
	}
	fmt.Fprint(a.stdout, string(out))
	return nil
}

func (a *app) runConfigSet(key, value string) error {
	switch value {
	case "true", "yes", "on":
		a.v.Set(key, true)
	case "false", "no", "off":
		a.v.Set(key, false)
	default:
		a.v.Set(key, value)
	}

	cfgFile := a.v.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, configName+".yaml")
	}

	if err := a.v.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(a.stdout, "Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func (a *app) runConfigGet(key string) error {
	if !a.v.IsSet(key) {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(a.stdout, a.v.Get(key))
	return nil
}
