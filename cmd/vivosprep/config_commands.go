package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vivosprep/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var target string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := initTarget(target)
			if err != nil {
				return err
			}
			if !overwrite {
				_, statErr := os.Stat(path)
				switch {
				case statErr == nil:
					return fmt.Errorf("%s already exists (pass --overwrite to replace it)", path)
				case !errors.Is(statErr, fs.ErrNotExist):
					return fmt.Errorf("check %s: %w", path, statErr)
				}
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout())
			out.status("Config", statusOK, "wrote "+path)
			out.println("Edit paths.raw_dir and paths.processed_dir, or pass --raw-dir and --processed-dir to prepare.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "path", "p", "", "Where to write the file (default ~/.config/vivosprep/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func initTarget(flagValue string) (string, error) {
	if flagValue = strings.TrimSpace(flagValue); flagValue != "" {
		return config.ExpandPath(flagValue)
	}
	path, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("default config path: %w", err)
	}
	return path, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and show the resolved settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			source := ctx.configPath
			if !ctx.configSeen {
				source += " (not found, defaults used)"
			}
			history := yesNo(cfg.History.Enabled)
			if cfg.History.Enabled {
				history += " (" + cfg.History.Driver + ")"
			}
			rows := [][]string{
				{"config file", source},
				{"splits", strings.Join(cfg.Corpus.Splits, ", ")},
				{"raw dir", valueOrUnset(cfg.Paths.RawDir)},
				{"processed dir", valueOrUnset(cfg.Paths.ProcessedDir)},
				{"state dir", cfg.Paths.StateDir},
				{"log dir", cfg.Paths.LogDir},
				{"workers", strconv.Itoa(cfg.Output.Workers)},
				{"history", history},
				{"log level", cfg.Logging.Level + " (" + cfg.Logging.Format + ")"},
			}

			out := newPrinter(cmd.OutOrStdout())
			out.table([]string{"Setting", "Value"}, rows, nil, nil)
			out.status("Config", statusOK, "valid")
			return nil
		},
	}
}

func valueOrUnset(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(unset)"
	}
	return value
}
