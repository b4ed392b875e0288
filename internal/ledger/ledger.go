package ledger

import (
	"context"
	"encoding/json"
)

// Store is an append-only outcome ledger. Entries accumulate across runs so
// repeated executions keep a durable audit trail of what the job did.
//
// ReadAll returns every entry in append order. A missing or unreadable
// backing resource degrades to an empty ledger; it never fails the caller.
// Append persists one entry and reports failure, which the pipeline counts
// against the record being processed.
type Store interface {
	ReadAll(ctx context.Context) ([]json.RawMessage, error)
	Append(ctx context.Context, entry any) error
}
