package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vango-dev/memokit/internal/config"
	"github.com/vango-dev/memokit/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default configuration file",
		Long: `Write memokit.yaml (or memokit.json with --format=json) with
every setting at its default value.

Examples:
  memokit init
  memokit init ./deploy --format=json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			path, err := runInit(dir, format, force)
			if err != nil {
				return err
			}
			success("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "File format: yaml or json")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

func runInit(dir, format string, force bool) (string, error) {
	var name string
	switch format {
	case "yaml":
		name = config.YAMLConfigFileName
	case "json":
		name = config.ConfigFileName
	default:
		return "", errors.New("E121").WithDetailf("--format: %q is not one of yaml, json", format)
	}

	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil && !force {
		return "", errors.New("E120").
			WithDetail(path + " already exists").
			WithSuggestion("Pass --force to overwrite it")
	}

	if err := config.New().SaveTo(path); err != nil {
		return "", err
	}
	return path, nil
}
