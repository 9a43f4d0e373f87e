package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"launchkeep/internal/reconcile"
)

// HistoryDB manages the SQLite database of reconciliation runs
type HistoryDB struct {
	db       *sql.DB
	dataPath string
	now      func() time.Time

	mu    sync.Mutex
	sizes map[string]int64
}

// RunRecord represents one reconciliation run
type RunRecord struct {
	ID           int64      `json:"id"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	Outcome      string     `json:"outcome"`
	Candidates   int        `json:"candidates"`
	Deleted      int        `json:"deleted"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// FolderRecord represents a single folder deletion attempt
type FolderRecord struct {
	ID           int64     `json:"id"`
	RunID        int64     `json:"run_id"`
	Timestamp    time.Time `json:"timestamp"`
	Action       string    `json:"action"`
	Folder       string    `json:"folder"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// NewHistoryDB creates a new database connection and initializes schema.
// dataPath is used to record the full path of each folder.
func NewHistoryDB(dbPath, dataPath string) (*HistoryDB, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	// _loc=auto enables automatic DATETIME parsing; _foreign_keys applies to
	// every pooled connection so folder records cascade with their run
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_loc=auto&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	// Forces the file to be created now rather than on first write
	if _, err = db.Exec("SELECT 1"); err != nil {
		return nil, fmt.Errorf("failed to initialize database (check permissions on %s): %w", dbPath, err)
	}

	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err = db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	hdb := &HistoryDB{db: db, dataPath: dataPath, now: time.Now}
	if err = hdb.initSchema(); err != nil {
		return nil, err
	}

	return hdb, nil
}

// initSchema creates tables and indexes if they don't exist
func (h *HistoryDB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		outcome TEXT NOT NULL DEFAULT 'awaiting_confirmation',
		candidates INTEGER NOT NULL,
		deleted INTEGER NOT NULL DEFAULT 0,
		error_message TEXT
	);

	CREATE TABLE IF NOT EXISTS folder_deletions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		timestamp DATETIME NOT NULL,
		action TEXT NOT NULL,
		folder TEXT NOT NULL,
		path TEXT NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		error_message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_folder_deletions_run ON folder_deletions(run_id);
	CREATE INDEX IF NOT EXISTS idx_folder_deletions_action ON folder_deletions(action);
	CREATE INDEX IF NOT EXISTS idx_folder_deletions_folder ON folder_deletions(folder);

	-- Metadata table for schema versioning
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`

	_, err := h.db.Exec(schema)
	return err
}

// SetFolderSizes records the sizes measured before a run so that deletions
// can be stored with the space they freed
func (h *HistoryDB) SetFolderSizes(sizes map[string]int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sizes = make(map[string]int64, len(sizes))
	for k, v := range sizes {
		h.sizes[k] = v
	}
}

func (h *HistoryDB) sizeOf(folder string) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sizes[folder]
}

// BeginRun inserts a new run awaiting confirmation and returns its id
func (h *HistoryDB) BeginRun(startedAt time.Time, candidates int) (int64, error) {
	res, err := h.db.Exec(
		`INSERT INTO runs (started_at, candidates) VALUES (?, ?)`,
		startedAt, candidates,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

// RecordFolder inserts a folder deletion attempt for a run
func (h *HistoryDB) RecordFolder(runID int64, action, folder, errMsg string) error {
	path := folder
	if h.dataPath != "" {
		path = filepath.Join(h.dataPath, folder)
	}

	var size int64
	if action == reconcile.ActionDelete {
		size = h.sizeOf(folder)
	}

	_, err := h.db.Exec(`
	INSERT INTO folder_deletions (run_id, timestamp, action, folder, path, size, error_message)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, h.now(), action, folder, path, size, nullString(errMsg))
	if err != nil {
		return fmt.Errorf("insert folder deletion: %w", err)
	}
	return nil
}

// FinishRun stores the terminal outcome of a run
func (h *HistoryDB) FinishRun(runID int64, outcome string, deleted int, errMsg string) error {
	res, err := h.db.Exec(`
	UPDATE runs SET finished_at = ?, outcome = ?, deleted = ?, error_message = ?
	WHERE id = ?
	`, h.now(), outcome, deleted, nullString(errMsg), runID)
	if err != nil {
		return fmt.Errorf("update run %d: %w", runID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update run %d: %w", runID, sql.ErrNoRows)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Close closes the database connection
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// Vacuum optimizes the database
func (h *HistoryDB) Vacuum() error {
	_, err := h.db.Exec("VACUUM")
	return err
}
