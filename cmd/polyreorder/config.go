package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/taigrr/polyreorder/internal/config"
	"go.uber.org/zap"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the polyreorder configuration file",
		Args:  cobra.NoArgs,
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current settings to the user config file",
		Long: `Write the current settings to the user config file.

The file receives the defaults merged with any loaded config file and the
global flags. An existing file is kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigInit(cmd, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	cmd.AddCommand(initCmd)
	return cmd
}

func (a *app) runConfigInit(cmd *cobra.Command, force bool) error {
	path := filepath.Join(config.ConfigDir(), config.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := a.cfg.Save(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	a.log.Debug("wrote config", zap.String("path", path))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
