package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"launchkeep/internal/config"
	"launchkeep/internal/database"
	"launchkeep/internal/fsops"
	"launchkeep/internal/metrics"
	"launchkeep/internal/prompt"
	"launchkeep/internal/reconcile"
	"launchkeep/internal/runlock"
)

type reconcileReport struct {
	State      reconcile.State `json:"state"`
	DryRun     bool            `json:"dry_run,omitempty"`
	Candidates []string        `json:"candidates"`
	Deleted    int             `json:"deleted"`
	Reclaimed  int64           `json:"reclaimed_bytes"`
	Error      string          `json:"error,omitempty"`
}

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Delete data folders no registered app uses",
		Long: "Finds the data folders that no registered app references, asks for\n" +
			"confirmation and deletes them one by one. The first failure stops the run.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.logger(cmd.ErrOrStderr())
			metrics.Init()

			lock, err := runlock.Acquire(cfg.LockFile)
			if err != nil {
				return err
			}
			defer lock.Release()

			inv, err := loadInventory(cfg, true)
			if err != nil {
				return err
			}

			if dryRun {
				return reportDryRun(cmd, ctx.jsonOutput(), inv)
			}

			// The JSON report owns stdout, so prompt text goes to stderr
			promptOut := cmd.OutOrStdout()
			if ctx.jsonOutput() {
				promptOut = cmd.ErrOrStderr()
			}
			var answer reconcile.Confirmer = prompt.NewTerminal(cmd.InOrStdin(), promptOut)
			if yes {
				answer = prompt.Always(true)
			}

			report, runErr := runReconcile(cmd.Context(), cfg, logger, inv, answer)
			if runErr != nil {
				metrics.ErrorsTotal.Inc()
			}
			writeMetrics(cfg, logger)

			if ctx.jsonOutput() {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				printReport(cmd.OutOrStdout(), report)
			}
			return runErr
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only list the folders that would be deleted")
	return cmd
}

// runReconcile drives one reconciliation. The reconciler asks through a
// prompt.Channel and this goroutine answers each request with answer.
func runReconcile(parent context.Context, cfg *config.Config, logger *log.Logger, inv *inventory, answer reconcile.Confirmer) (reconcileReport, error) {
	history, err := database.NewHistoryDB(cfg.DatabasePath, cfg.DataPath)
	if err != nil {
		return reconcileReport{State: reconcile.StateFailed, Error: err.Error()}, err
	}
	defer func() {
		if err := history.Close(); err != nil {
			logger.Printf("ERROR: Failed to close database: %v", err)
		}
	}()
	history.SetFolderSizes(inv.sizes())

	deleter := fsops.NewFolderDeleter(folderValidator(cfg), nil)
	r := reconcile.New(deleter, logger, history)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	confirmations := prompt.NewChannel()
	type outcome struct {
		res reconcile.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := r.Reconcile(ctx, reconcile.AppsOf(inv.apps), inv.known, confirmations)
		done <- outcome{res: res, err: err}
	}()

	var out outcome
loop:
	for {
		select {
		case req := <-confirmations.Requests():
			ok, err := answer.Confirm(ctx, req.Count)
			if err != nil {
				req.Reject(err)
				continue
			}
			req.Resolve(ok)
		case out = <-done:
			break loop
		}
	}

	report := reconcileReport{
		State:      out.res.State,
		Candidates: out.res.Candidates,
		Deleted:    out.res.Deleted,
	}
	sizes := inv.sizes()
	for _, name := range out.res.Candidates[:out.res.Deleted] {
		report.Reclaimed += sizes[name]
	}

	err = out.err
	if err != nil {
		report.Error = err.Error()
	}
	return report, err
}

func reportDryRun(cmd *cobra.Command, jsonOutput bool, inv *inventory) error {
	candidates := inv.orphans()
	sizes := inv.sizes()

	report := reconcileReport{State: reconcile.StateIdle, DryRun: true, Candidates: candidates}
	for _, name := range candidates {
		report.Reclaimed += sizes[name]
	}

	if jsonOutput {
		return writeJSON(cmd, report)
	}

	out := cmd.OutOrStdout()
	if len(candidates) == 0 {
		fmt.Fprintln(out, prompt.Message(0))
		return nil
	}

	rows := make([][]string, 0, len(candidates))
	for _, name := range candidates {
		rows = append(rows, []string{name, humanize.Bytes(uint64(sizes[name]))})
	}
	fmt.Fprintln(out, renderTable([]string{"Folder", "Size"}, rows, []columnAlignment{alignLeft, alignRight}))
	fmt.Fprintf(out, "Would delete %d unused data folder(s), %s\n", len(candidates), humanize.Bytes(uint64(report.Reclaimed)))
	return nil
}

func printReport(out io.Writer, report reconcileReport) {
	switch report.State {
	case reconcile.StateCompleted:
		if len(report.Candidates) == 0 {
			fmt.Fprintln(out, prompt.Message(0))
			return
		}
		fmt.Fprintf(out, "Deleted %d unused data folder(s), freed %s\n", report.Deleted, humanize.Bytes(uint64(report.Reclaimed)))
	case reconcile.StateFailed:
		fmt.Fprintf(out, "Deleted %d of %d unused data folder(s) before failing\n", report.Deleted, len(report.Candidates))
	case reconcile.StateCancelled:
		// The terminal prompt has already told the user there was nothing to do
		if len(report.Candidates) > 0 {
			fmt.Fprintln(out, "Cancelled, no data folders were deleted")
		}
	}
}

func writeMetrics(cfg *config.Config, logger *log.Logger) {
	if cfg.Metrics.Textfile == "" {
		return
	}
	if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logger.Printf("ERROR: Failed to write metrics textfile: %v", err)
	}
}
