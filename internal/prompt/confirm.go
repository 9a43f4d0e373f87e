// Package prompt implements the presentation side of a reconciliation: the
// ways a user can answer "delete N unused data folders?".
package prompt

import (
	"context"
	"fmt"
)

// ConfirmFunc adapts a function to reconcile.Confirmer
type ConfirmFunc func(ctx context.Context, count int) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, count int) (bool, error) {
	return f(ctx, count)
}

// Always answers every confirmation with ok without asking anyone.
// Used for --yes and --dry-run.
type Always bool

func (a Always) Confirm(ctx context.Context, _ int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return bool(a), nil
}

// Message is the text shown for a confirmation of count folders
func Message(count int) string {
	if count == 0 {
		return "No data folder to remove. All data folders are in use."
	}
	return fmt.Sprintf("Do you want to delete %d unused data folder(s)?", count)
}
