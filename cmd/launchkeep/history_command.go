package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"launchkeep/internal/database"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var runs int
	var runID int64
	var action string
	var folder string
	var stats bool
	var pruneDays int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past reconciliations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			db, err := database.NewHistoryDB(cfg.DatabasePath, cfg.DataPath)
			if err != nil {
				return err
			}
			defer db.Close()

			switch {
			case pruneDays > 0:
				return pruneHistory(cmd, db, pruneDays)
			case stats:
				return showStats(cmd, ctx.jsonOutput(), db)
			case runID > 0:
				return showRun(cmd, ctx.jsonOutput(), db, runID)
			case folder != "":
				records, err := db.DeletionsByFolder(folder)
				if err != nil {
					return err
				}
				return printFolderRecords(cmd, ctx.jsonOutput(), records)
			case action != "":
				records, err := db.DeletionsByAction(action, runs)
				if err != nil {
					return err
				}
				return printFolderRecords(cmd, ctx.jsonOutput(), records)
			default:
				return showRuns(cmd, ctx.jsonOutput(), db, runs)
			}
		},
	}

	cmd.Flags().IntVarP(&runs, "runs", "n", 10, "Number of records to show")
	cmd.Flags().Int64Var(&runID, "run", 0, "Show the folders of one run")
	cmd.Flags().StringVar(&action, "action", "", "Show folder records with this action (DELETE, ERROR)")
	cmd.Flags().StringVar(&folder, "folder", "", "Show every record for a data folder name")
	cmd.Flags().BoolVar(&stats, "stats", false, "Show totals over the whole history")
	cmd.Flags().IntVar(&pruneDays, "prune", 0, "Remove runs older than this many days and compact the database")
	return cmd
}

func showRuns(cmd *cobra.Command, jsonOutput bool, db *database.HistoryDB, limit int) error {
	records, err := db.RecentRuns(limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		if records == nil {
			records = []database.RunRecord{}
		}
		return writeJSON(cmd, records)
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No records found")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.StartedAt.Format("2006-01-02 15:04:05"),
			runDuration(r),
			r.Outcome,
			strconv.Itoa(r.Candidates),
			strconv.Itoa(r.Deleted),
			r.ErrorMessage,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Run", "Started", "Took", "Outcome", "Candidates", "Deleted", "Error"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignRight, alignRight, alignLeft},
	))
	return nil
}

func showRun(cmd *cobra.Command, jsonOutput bool, db *database.HistoryDB, id int64) error {
	run, err := db.GetRun(id)
	if err != nil {
		return fmt.Errorf("run %d: %w", id, err)
	}
	records, err := db.DeletionsForRun(id)
	if err != nil {
		return err
	}

	if jsonOutput {
		if records == nil {
			records = []database.FolderRecord{}
		}
		return writeJSON(cmd, struct {
			*database.RunRecord
			Folders []database.FolderRecord `json:"folders"`
		}{run, records})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Run %d started %s: %s, %d of %d deleted\n",
		run.ID, run.StartedAt.Format("2006-01-02 15:04:05"), run.Outcome, run.Deleted, run.Candidates)
	return printFolderRecords(cmd, false, records)
}

func printFolderRecords(cmd *cobra.Command, jsonOutput bool, records []database.FolderRecord) error {
	if jsonOutput {
		if records == nil {
			records = []database.FolderRecord{}
		}
		return writeJSON(cmd, records)
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No records found")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.FormatInt(r.RunID, 10),
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Action,
			r.Folder,
			humanize.Bytes(uint64(r.Size)),
			r.ErrorMessage,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Run", "Timestamp", "Action", "Folder", "Size", "Error"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	return nil
}

func showStats(cmd *cobra.Command, jsonOutput bool, db *database.HistoryDB) error {
	stats, err := db.Stats()
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd, stats)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Runs:             %d\n", stats.TotalRuns)
	for _, outcome := range []string{"completed", "cancelled", "failed"} {
		fmt.Fprintf(out, "  %-15s %d\n", outcome, stats.RunsByOutcome[outcome])
	}
	fmt.Fprintf(out, "Folders deleted:  %d\n", stats.FoldersDeleted)
	fmt.Fprintf(out, "Delete errors:    %d\n", stats.FolderErrors)
	fmt.Fprintf(out, "Space freed:      %s\n", humanize.Bytes(uint64(stats.TotalSpaceFreed)))
	if stats.LastRun != nil {
		fmt.Fprintf(out, "Last run:         %s\n", humanize.Time(*stats.LastRun))
	}
	return nil
}

func pruneHistory(cmd *cobra.Command, db *database.HistoryDB, days int) error {
	removed, err := db.DeleteOldRuns(days)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	if err := db.Vacuum(); err != nil {
		return fmt.Errorf("vacuum history: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s) older than %d days\n", removed, days)
	return nil
}

func runDuration(r database.RunRecord) string {
	if r.FinishedAt == nil {
		return "-"
	}
	return r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
}
