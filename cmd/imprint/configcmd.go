package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"imprint/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the imprint configuration file",
		Annotations: map[string]string{
			"skipConfigLoad": "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand(ctx))
	cmd.AddCommand(newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file",
		Annotations: map[string]string{
			"skipConfigLoad": "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			if _, statErr := os.Stat(path); statErr == nil && !forceFlag {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			fmt.Printf("wrote sample configuration to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&forceFlag, "force", false, "Overwrite an existing configuration file")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Annotations: map[string]string{
			"skipConfigLoad": "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return printJSON(cfg)
			}
			rows := [][]string{
				{"paths.data_dir", cfg.Paths.DataDir},
				{"paths.log_dir", cfg.Paths.LogDir},
				{"generation.base_url", cfg.Generation.BaseURL},
				{"generation.model", cfg.Generation.Model},
				{"generation.api_key", maskSecret(cfg.Generation.APIKey)},
				{"compiler.binary", cfg.Compiler.Binary},
				{"expansion.assume_defaults", fmt.Sprintf("%t", cfg.Expansion.AssumeDefaults)},
				{"expansion.completeness", cfg.Expansion.Completeness},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
			}
			printTable([]string{"Setting", "Value"}, rows, nil)
			return nil
		},
	}
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the configuration file loads and validates",
		Annotations: map[string]string{
			"skipConfigLoad": "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			fmt.Println("configuration ok")
			return nil
		},
	}
}

func maskSecret(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(unset)"
	}
	if len(value) <= 6 {
		return "******"
	}
	return value[:3] + "..." + value[len(value)-3:]
}
