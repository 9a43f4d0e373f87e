package exitcodes

// Exit codes for launchkeep
// A cancelled reconciliation exits with Success
const (
	Success         = 0 // Successful execution, including user cancellation
	InvalidConfig   = 2 // Configuration file invalid or missing
	SafetyViolation = 3 // Safety validator blocked a folder deletion
	RuntimeError    = 4 // Runtime error during execution
	FilesystemError = 5 // A folder deletion failed part way through a reconciliation
	LockBusy        = 6 // Another reconciliation holds the run lock
)
