package reconcile

import (
	"context"
	"fmt"
	"log"
	"time"

	"launchkeep/internal/logging"
	"launchkeep/internal/metrics"
)

// App is the read-only view of a registered app. ok is false when the app
// has no data folder assigned yet.
type App interface {
	DataFolderName() (name string, ok bool)
}

// AppsOf converts a slice of concrete apps for Reconcile
func AppsOf[T App](apps []T) []App {
	out := make([]App, len(apps))
	for i, a := range apps {
		out[i] = a
	}
	return out
}

// Confirmer asks the user whether count orphaned folders may be deleted.
// Confirm is called even when count is 0 and may block until the user
// answers. false cancels the reconciliation.
type Confirmer interface {
	Confirm(ctx context.Context, count int) (bool, error)
}

// FolderDeleter removes one data folder by name
type FolderDeleter interface {
	DeleteFolder(name string) error
}

// HistoryRecorder persists reconciliation runs. Failures are logged and never
// change the outcome of a run.
type HistoryRecorder interface {
	BeginRun(startedAt time.Time, candidates int) (int64, error)
	RecordFolder(runID int64, action, folder, errMsg string) error
	FinishRun(runID int64, state string, deleted int, errMsg string) error
}

// State of a single reconciliation
type State string

const (
	StateIdle                 State = metrics.StateIdle
	StateAwaitingConfirmation State = metrics.StateAwaitingConfirmation
	StateCancelled            State = metrics.StateCancelled
	StateDeleting             State = metrics.StateDeleting
	StateCompleted            State = metrics.StateCompleted
	StateFailed               State = metrics.StateFailed
)

// Folder actions recorded in history
const (
	ActionDelete = "DELETE"
	ActionError  = "ERROR"
)

// Result describes a finished reconciliation. State is always terminal:
// StateCancelled, StateCompleted or StateFailed.
type Result struct {
	State      State
	Candidates []string
	Deleted    int
}

// Cancelled reports whether the user declined the deletion
func (r Result) Cancelled() bool {
	return r.State == StateCancelled
}

// Reconciler deletes data folders that no registered app references
type Reconciler struct {
	deleter FolderDeleter
	logger  logging.Leveled
	history HistoryRecorder
	now     func() time.Time
}

// New creates a Reconciler. history may be nil.
func New(deleter FolderDeleter, logger *log.Logger, history HistoryRecorder) *Reconciler {
	metrics.Init()
	return &Reconciler{
		deleter: deleter,
		logger:  logging.Wrap(logger),
		history: history,
		now:     time.Now,
	}
}

// Orphans returns the names in known that no app references, in known's order
func Orphans(apps []App, known *FolderSet) []string {
	referenced := make(map[string]struct{}, len(apps))
	for _, app := range apps {
		name, ok := app.DataFolderName()
		if !ok {
			continue
		}
		referenced[name] = struct{}{}
	}

	candidates := []string{}
	for _, name := range known.Names() {
		if _, ok := referenced[name]; !ok {
			candidates = append(candidates, name)
		}
	}
	return candidates
}

// Reconcile computes the orphaned folders, asks confirm, and deletes them in
// order. Each deleted name is removed from known immediately. The first
// deletion failure stops the run with a *FilesystemError; nothing is rolled
// back. A declined confirmation returns a cancelled Result and a nil error.
func (r *Reconciler) Reconcile(ctx context.Context, apps []App, known *FolderSet, confirm Confirmer) (Result, error) {
	start := r.now()
	metrics.RecordReconcileRun()
	r.transition(StateIdle)

	candidates := Orphans(apps, known)
	metrics.ReconcileCandidates.Set(float64(len(candidates)))
	r.logger.Info("Starting reconciliation", "known_folders", known.Len(), "candidates", len(candidates))

	runID := r.beginRun(start, len(candidates))

	r.transition(StateAwaitingConfirmation)
	ok, err := confirm.Confirm(ctx, len(candidates))
	if err != nil {
		r.logger.Error("Confirmation failed", "candidates", len(candidates), "error", err)
		res := r.finish(runID, start, Result{State: StateCancelled, Candidates: candidates}, err.Error())
		return res, fmt.Errorf("confirm deletion: %w", err)
	}
	if !ok {
		if len(candidates) == 0 {
			r.logger.Info("Nothing to delete")
		} else {
			r.logger.Info("Deletion declined", "candidates", len(candidates))
		}
		return r.finish(runID, start, Result{State: StateCancelled, Candidates: candidates}, ""), nil
	}

	r.transition(StateDeleting)
	deleted := 0
	for _, name := range candidates {
		if err := r.deleter.DeleteFolder(name); err != nil {
			metrics.FolderDeleteErrorsTotal.Inc()
			r.logger.Error("Failed to delete data folder", "folder", name, "deleted_before_failure", deleted, "error", err)
			r.recordFolder(runID, ActionError, name, err.Error())

			fsErr := &FilesystemError{Folder: name, PartialDeleted: deleted, Err: err}
			res := r.finish(runID, start, Result{State: StateFailed, Candidates: candidates, Deleted: deleted}, fsErr.Error())
			return res, fsErr
		}

		known.RemoveAll(name)
		deleted++
		metrics.FoldersDeletedTotal.Inc()
		r.logger.Info("Deleted data folder", "folder", name)
		r.recordFolder(runID, ActionDelete, name, "")
	}

	r.logger.Info("Reconciliation complete", "deleted", deleted, "remaining_folders", known.Len())
	return r.finish(runID, start, Result{State: StateCompleted, Candidates: candidates, Deleted: deleted}, ""), nil
}

func (r *Reconciler) transition(s State) {
	metrics.SetReconcileState(string(s))
	r.logger.Info("Reconciliation state", "state", s)
}

func (r *Reconciler) finish(runID int64, start time.Time, res Result, errMsg string) Result {
	r.transition(res.State)
	metrics.RecordOutcome(string(res.State), r.now().Sub(start))

	if r.history != nil && runID != 0 {
		if err := r.history.FinishRun(runID, string(res.State), res.Deleted, errMsg); err != nil {
			r.logger.Error("Failed to record run outcome", "run_id", runID, "error", err)
		}
	}
	return res
}

func (r *Reconciler) beginRun(start time.Time, candidates int) int64 {
	if r.history == nil {
		return 0
	}
	id, err := r.history.BeginRun(start, candidates)
	if err != nil {
		r.logger.Error("Failed to record run start", "error", err)
		return 0
	}
	return id
}

func (r *Reconciler) recordFolder(runID int64, action, folder, errMsg string) {
	if r.history == nil || runID == 0 {
		return
	}
	if err := r.history.RecordFolder(runID, action, folder, errMsg); err != nil {
		r.logger.Error("Failed to record folder to history", "folder", folder, "error", err)
	}
}
