package config

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/contractkit/internal/cli/shared"
	cfgpkg "github.com/ariel-frischer/contractkit/internal/config"
	clierrors "github.com/ariel-frischer/contractkit/internal/errors"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage contractkit configuration",
		Long: `Manage contractkit configuration.

Settings are read from built-in defaults, then the user config file, then the
project config file (.contractkit/config.json, or --config), then
CONTRACTKIT_* environment variables. Later sources win and command-line flags
override all of them.`,
	}
	cmd.GroupID = shared.GroupConfiguration
	cmd.AddCommand(newInitCmd(), newSetCmd(), newShowCmd(), newKeysCmd())
	return cmd
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Example: `  # Create .contractkit/config.json
  contractkit config init

  # Create the user-level config, replacing an existing one
  contractkit config init --user --force`,
		Args:         shared.ExactArgs(0),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := targetPath(cmd)
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")
			written, err := cfgpkg.WriteDefaultConfig(path, force)
			if err != nil {
				return clierrors.WrapCategory(err, clierrors.Runtime)
			}
			if !written {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists (use --force to overwrite)\n", path)
				return nil
			}
			shared.PrintSuccess(cmd.OutOrStdout(), "wrote %s", path)
			return nil
		},
	}
	cmd.Flags().Bool("user", false, "Write the user-level config instead of the project config")
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in the project config, or the user config with
--user. The value is checked against the key's type before it is written.
List values are comma separated.`,
		Example: `  contractkit config set max_parallel 8
  contractkit config set contract_globs "*_contract_stageA*.json,*.contract.yaml"
  contractkit config set log_level debug --user`,
		Args:         shared.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := cfgpkg.GetKeySchema(args[0]); err != nil {
				return clierrors.NewArgumentError(err.Error(), "Run 'contractkit config keys' to list valid keys")
			}
			path, err := targetPath(cmd)
			if err != nil {
				return err
			}
			if err := cfgpkg.SetConfigValue(path, args[0], args[1]); err != nil {
				return clierrors.WrapCategory(err, clierrors.Configuration)
			}
			shared.PrintSuccess(cmd.OutOrStdout(), "set %s = %s in %s", args[0], args[1], path)
			return nil
		},
	}
	cmd.Flags().Bool("user", false, "Write the user-level config instead of the project config")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "show",
		Short:        "Show the effective configuration",
		Args:         shared.ExactArgs(0),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := shared.LoadConfig(cmd)
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	}
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List all configuration keys",
		Args:  shared.ExactArgs(0),
		Run: func(cmd *cobra.Command, _ []string) {
			printKeys(cmd.OutOrStdout())
		},
	}
}

func targetPath(cmd *cobra.Command) (string, error) {
	if user, _ := cmd.Flags().GetBool("user"); user {
		path, err := cfgpkg.UserConfigPath()
		if err != nil {
			return "", clierrors.WrapCategory(err, clierrors.Configuration)
		}
		return path, nil
	}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	return cfgpkg.ProjectConfigPath(), nil
}

// printConfig writes "key = value" lines in key order, then the files the
// values came from.
func printConfig(w io.Writer, cfg *cfgpkg.Configuration) {
	v := reflect.ValueOf(cfg).Elem()
	cyan := color.New(color.FgCyan).SprintFunc()
	for _, key := range cfgpkg.KeyNames() {
		ks := cfgpkg.KnownKeys[key]
		fmt.Fprintf(w, "%s = %s\n", cyan(key), formatValue(v.FieldByName(ks.Field)))
	}
	if len(cfg.Sources) == 0 {
		fmt.Fprintln(w, "\n(no config files loaded, defaults and environment only)")
		return
	}
	fmt.Fprintln(w, "\nloaded from:")
	for _, src := range cfg.Sources {
		fmt.Fprintf(w, "  %s\n", src)
	}
}

func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	if v.Kind() == reflect.Slice {
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = fmt.Sprint(v.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v.Interface())
}

func printKeys(w io.Writer) {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	for _, key := range cfgpkg.KeyNames() {
		ks := cfgpkg.KnownKeys[key]
		kind := ks.Type.String()
		if len(ks.AllowedValues) > 0 {
			kind += " (" + strings.Join(ks.AllowedValues, "|") + ")"
		}
		fmt.Fprintf(w, "%s %s\n    %s\n", bold(key), dim(kind), ks.Description)
	}
}
