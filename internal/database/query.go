package database

import (
	"database/sql"
	"time"

	"launchkeep/internal/reconcile"
)

const runColumns = `id, started_at, finished_at, outcome, candidates, deleted, error_message`

const folderColumns = `id, run_id, timestamp, action, folder, path, size, error_message`

// RecentRuns returns the N most recent runs, newest first
func (h *HistoryDB) RecentRuns(limit int) ([]RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`
	return h.queryRuns(query, limit)
}

// GetRun returns a single run by id
func (h *HistoryDB) GetRun(id int64) (*RunRecord, error) {
	runs, err := h.queryRuns(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, sql.ErrNoRows
	}
	return &runs[0], nil
}

// DeletionsForRun returns the folder records of a run in the order they happened
func (h *HistoryDB) DeletionsForRun(runID int64) ([]FolderRecord, error) {
	query := `SELECT ` + folderColumns + ` FROM folder_deletions WHERE run_id = ? ORDER BY id ASC`
	return h.queryFolders(query, runID)
}

// DeletionsByAction returns folder records filtered by action, newest first
func (h *HistoryDB) DeletionsByAction(action string, limit int) ([]FolderRecord, error) {
	query := `SELECT ` + folderColumns + ` FROM folder_deletions WHERE action = ? ORDER BY id DESC LIMIT ?`
	return h.queryFolders(query, action, limit)
}

// DeletionsByFolder returns every record for a folder name, newest first
func (h *HistoryDB) DeletionsByFolder(folder string) ([]FolderRecord, error) {
	query := `SELECT ` + folderColumns + ` FROM folder_deletions WHERE folder = ? ORDER BY id DESC`
	return h.queryFolders(query, folder)
}

// HistoryStats holds aggregated statistics
type HistoryStats struct {
	TotalRuns       int            `json:"total_runs"`
	RunsByOutcome   map[string]int `json:"runs_by_outcome"`
	FoldersDeleted  int            `json:"folders_deleted"`
	FolderErrors    int            `json:"folder_errors"`
	TotalSpaceFreed int64          `json:"total_space_freed"`
	LastRun         *time.Time     `json:"last_run,omitempty"`
}

// Stats returns totals over the whole history
func (h *HistoryDB) Stats() (*HistoryStats, error) {
	stats := &HistoryStats{RunsByOutcome: make(map[string]int)}

	rows, err := h.db.Query(`SELECT outcome, COUNT(*) FROM runs GROUP BY outcome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, err
		}
		stats.RunsByOutcome[outcome] = count
		stats.TotalRuns += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = h.db.QueryRow(`
		SELECT
			COUNT(CASE WHEN action = ? THEN 1 END),
			COUNT(CASE WHEN action = ? THEN 1 END),
			COALESCE(SUM(CASE WHEN action = ? THEN size END), 0)
		FROM folder_deletions
	`, reconcile.ActionDelete, reconcile.ActionError, reconcile.ActionDelete).Scan(&stats.FoldersDeleted, &stats.FolderErrors, &stats.TotalSpaceFreed)
	if err != nil {
		return nil, err
	}

	recent, err := h.RecentRuns(1)
	if err != nil {
		return nil, err
	}
	if len(recent) == 1 {
		last := recent[0].StartedAt
		stats.LastRun = &last
	}

	return stats, nil
}

// DeleteOldRuns removes runs started more than olderThanDays ago together
// with their folder records
func (h *HistoryDB) DeleteOldRuns(olderThanDays int) (int64, error) {
	cutoff := h.now().AddDate(0, 0, -olderThanDays)

	result, err := h.db.Exec(`DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (h *HistoryDB) queryRuns(query string, args ...interface{}) ([]RunRecord, error) {
	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var finished sql.NullTime
		var errMsg sql.NullString

		if err := rows.Scan(&r.ID, &r.StartedAt, &finished, &r.Outcome, &r.Candidates, &r.Deleted, &errMsg); err != nil {
			return nil, err
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		r.ErrorMessage = errMsg.String

		records = append(records, r)
	}

	return records, rows.Err()
}

func (h *HistoryDB) queryFolders(query string, args ...interface{}) ([]FolderRecord, error) {
	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []FolderRecord
	for rows.Next() {
		var r FolderRecord
		var errMsg sql.NullString

		if err := rows.Scan(&r.ID, &r.RunID, &r.Timestamp, &r.Action, &r.Folder, &r.Path, &r.Size, &errMsg); err != nil {
			return nil, err
		}
		r.ErrorMessage = errMsg.String

		records = append(records, r)
	}

	return records, rows.Err()
}
