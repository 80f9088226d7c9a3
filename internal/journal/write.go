package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/loomsync/loom/internal/ot"
)

// Entry is one journaled submission: the operation exactly as the caller
// submitted it, before any transformation.
type Entry struct {
	Seq         int64
	ID          string
	DocumentID  string
	UserID      string
	Op          ot.Op
	SubmittedAt time.Time
}

// Append records a submission. Idempotent on Entry.ID: re-appending an
// already journaled submission is a no-op, so crash/retry loops around
// the engine cannot duplicate history.
func (j *Journal) Append(ctx context.Context, e Entry) error {
	opJSON, err := ot.Encode(e.Op)
	if err != nil {
		return fmt.Errorf("encode op for journal: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO submissions (id, document_id, user_id, op, submitted_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, e.ID, e.DocumentID, e.UserID, string(opJSON), e.SubmittedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("append submission %s: %w", e.ID, err)
	}

	return nil
}
