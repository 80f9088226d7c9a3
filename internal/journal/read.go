package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/loomsync/loom/internal/ot"
)

// Entries returns all journaled submissions for a document in seq order.
// Returns an empty slice, not nil, when the document has no submissions.
func (j *Journal) Entries(ctx context.Context, documentID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, id, document_id, user_id, op, submitted_at
		FROM submissions
		WHERE document_id = ?
		ORDER BY seq ASC
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e           Entry
			opJSON      string
			submittedAt int64
		)
		if err := rows.Scan(&e.Seq, &e.ID, &e.DocumentID, &e.UserID, &opJSON, &submittedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}

		op, err := ot.Decode([]byte(opJSON))
		if err != nil {
			return nil, fmt.Errorf("decode journaled op %s: %w", e.ID, err)
		}
		e.Op = op
		e.SubmittedAt = time.Unix(0, submittedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}

	return entries, nil
}

// Documents returns the distinct document IDs present in the journal,
// ordered by first appearance.
func (j *Journal) Documents(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT document_id
		FROM submissions
		GROUP BY document_id
		ORDER BY MIN(seq) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan document id: %w", err)
		}
		docs = append(docs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}
