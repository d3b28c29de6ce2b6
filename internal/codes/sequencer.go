package codes

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Sequencer reserves the next sequence number for a scope key.
type Sequencer interface {
	NextSeq(ctx context.Context, department, docType string, year int) (int, error)
}

type sqlSequencer struct {
	q sqlx.ExtContext
}

// NewSQLSequencer returns a Sequencer backed by the code_counters table. It
// accepts either a *sqlx.DB or a *sqlx.Tx, so callers that need the code and
// the record it belongs to in one atomic unit can pass their transaction.
func NewSQLSequencer(q sqlx.ExtContext) Sequencer {
	return &sqlSequencer{q: q}
}

// The increment happens inside a single upsert so concurrent allocations for
// the same scope serialize on the row lock. RETURNING hands back the reserved
// value; a rolled-back caller transaction releases it as a gap, never a
// duplicate.
const nextSeqQuery = `
	INSERT INTO code_counters (department, doc_type, year, counter)
	VALUES ($1, $2, $3, 1)
	ON CONFLICT (department, doc_type, year)
	DO UPDATE SET counter = code_counters.counter + 1, updated_at = NOW()
	RETURNING counter`

func (s *sqlSequencer) NextSeq(ctx context.Context, department, docType string, year int) (int, error) {
	var seq int
	if err := sqlx.GetContext(ctx, s.q, &seq, nextSeqQuery, department, docType, year); err != nil {
		return 0, fmt.Errorf("reserve sequence %s-%s-%d: %w", department, docType, year, err)
	}
	return seq, nil
}
