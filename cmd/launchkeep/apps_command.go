package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"launchkeep/internal/registry"
	"launchkeep/internal/runlock"
)

func newAppsCommand(ctx *commandContext) *cobra.Command {
	appsCmd := &cobra.Command{
		Use:   "apps",
		Short: "Manage the app registry",
	}

	appsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered apps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			reg, err := registry.Load(cfg.AppsFile)
			if err != nil {
				return err
			}
			apps := reg.Apps()

			if ctx.jsonOutput() {
				if apps == nil {
					apps = []registry.App{}
				}
				return writeJSON(cmd, apps)
			}

			out := cmd.OutOrStdout()
			if len(apps) == 0 {
				fmt.Fprintln(out, "No apps registered")
				return nil
			}

			rows := make([][]string, 0, len(apps))
			for _, app := range apps {
				folder, ok := app.DataFolderName()
				if !ok {
					folder = "-"
				}
				rows = append(rows, []string{app.ID, app.Name, app.BundleID, folder})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Bundle ID", "Data Folder"}, rows, nil))
			return nil
		},
	})

	var bundleID string
	addCmd := &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Register an app",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			lock, err := runlock.Acquire(cfg.LockFile)
			if err != nil {
				return err
			}
			defer lock.Release()

			reg, err := registry.Load(cfg.AppsFile)
			if err != nil {
				return err
			}
			if err := reg.Add(registry.App{ID: args[0], Name: args[1], BundleID: bundleID}); err != nil {
				return err
			}
			if err := reg.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", args[0])
			return nil
		},
	}
	addCmd.Flags().StringVar(&bundleID, "bundle-id", "", "Bundle identifier of the app")
	appsCmd.AddCommand(addCmd)

	appsCmd.AddCommand(&cobra.Command{
		Use:   "assign <id>",
		Short: "Give an app a data folder and create it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			// Held so a concurrent reconcile cannot see the new folder unreferenced
			lock, err := runlock.Acquire(cfg.LockFile)
			if err != nil {
				return err
			}
			defer lock.Release()

			reg, err := registry.Load(cfg.AppsFile)
			if err != nil {
				return err
			}
			name, err := reg.AssignDataFolder(args[0])
			if err != nil {
				return err
			}

			path, err := folderValidator(cfg).ResolveFolder(name)
			if err != nil {
				return err
			}
			if err := reg.Save(); err != nil {
				return err
			}
			if err := os.MkdirAll(path, 0o755); err != nil {
				return fmt.Errorf("create data folder: %w", err)
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"id": args[0], "data_folder": name, "path": path})
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return appsCmd
}
