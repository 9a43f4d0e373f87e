package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"launchkeep/internal/disk"
	"launchkeep/internal/scan"
)

func newFoldersCommand(ctx *commandContext) *cobra.Command {
	foldersCmd := &cobra.Command{
		Use:   "folders",
		Short: "Inspect data folders",
	}

	foldersCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List data folders and the apps using them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			inv, err := loadInventory(cfg, true)
			if err != nil {
				return err
			}
			views := inv.views()

			if ctx.jsonOutput() {
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintf(out, "No data folders in %s\n", cfg.DataPath)
				return nil
			}

			rows := make([][]string, 0, len(views))
			var orphaned int
			var reclaimable uint64
			for _, v := range views {
				status := "in use"
				app := v.AppName
				if v.Orphaned {
					status = "unused"
					app = "-"
					orphaned++
					reclaimable += uint64(v.Size)
				}
				name := v.Name
				if v.IsSymlink {
					name += " ->"
				}
				rows = append(rows, []string{
					name,
					app,
					humanize.Bytes(uint64(v.Size)),
					humanize.Time(v.ModTime),
					status,
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Folder", "App", "Size", "Modified", "Status"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d folder(s) using %s, %d unused (%s reclaimable)\n",
				len(views), humanize.Bytes(uint64(scan.TotalSize(inv.folders))), orphaned, humanize.Bytes(reclaimable))

			if u, err := disk.VolumeUsage(cfg.DataPath); err == nil {
				fmt.Fprintf(out, "Disk: %.1f%% used, %s free of %s\n",
					u.UsedPercent(), humanize.Bytes(u.FreeBytes), humanize.Bytes(u.TotalBytes))
			}
			return nil
		},
	})

	return foldersCmd
}
