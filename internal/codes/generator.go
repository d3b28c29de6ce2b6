package codes

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrEmptyScope is returned when a caller asks for a code without naming the
// department or document type.
var ErrEmptyScope = errors.New("codes: department and doc type are required")

// Generator issues human-readable document codes of the form
// DEPT-TYPE-YEAR-SEQ (e.g. HR-CONGE-2026-001). Sequences start at 1 per
// (department, doc type, year) scope and reset when the calendar year rolls
// over; prior-year counters are kept as-is.
type Generator struct {
	seq Sequencer
	now func() time.Time
}

func NewGenerator(seq Sequencer) *Generator {
	return &Generator{seq: seq, now: time.Now}
}

// NextCode reserves the next sequence number for the scope and formats the
// code. The sequence is padded to three digits; beyond 999 the number is used
// as-is rather than truncated.
func (g *Generator) NextCode(ctx context.Context, department, docType string) (string, error) {
	if department == "" || docType == "" {
		return "", ErrEmptyScope
	}

	year := g.now().Year()
	seq, err := g.seq.NextSeq(ctx, department, docType, year)
	if err != nil {
		return "", err
	}

	return FormatCode(department, docType, year, seq), nil
}

// FormatCode builds the canonical code string for an already-reserved
// sequence number.
func FormatCode(department, docType string, year, seq int) string {
	return fmt.Sprintf("%s-%s-%d-%03d", department, docType, year, seq)
}
