package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"launchkeep/internal/settings"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change launcher settings",
	}

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "get [key]",
		Short: "Show one or all settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			s, err := settings.Load(cfg.SettingsFile)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				v, err := s.Get(args[0])
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]bool{args[0]: v})
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, s)
			}
			rows := make([][]string, 0, 4)
			for _, key := range settings.Keys() {
				v, _ := s.Get(key)
				rows = append(rows, []string{key, strconv.FormatBool(v)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value"}, rows, nil))
			return nil
		},
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:       "set <key> <true|false>",
		Short:     "Change a setting",
		Args:      cobra.ExactArgs(2),
		ValidArgs: settings.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			value, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("value for %s: %w", args[0], err)
			}

			s, err := settings.Load(cfg.SettingsFile)
			if err != nil {
				return err
			}
			if err := s.Set(args[0], value); err != nil {
				return err
			}
			return s.Save(cfg.SettingsFile)
		},
	})

	return settingsCmd
}
