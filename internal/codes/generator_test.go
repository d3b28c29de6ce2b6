package codes

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSequencer hands out per-scope sequences from memory, mimicking the
// one-row-per-scope counter table.
type fakeSequencer struct {
	counters map[string]int
	err      error
}

func newFakeSequencer() *fakeSequencer {
	return &fakeSequencer{counters: make(map[string]int)}
}

func (f *fakeSequencer) NextSeq(ctx context.Context, department, docType string, year int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	key := fmt.Sprintf("%s/%s/%d", department, docType, year)
	f.counters[key]++
	return f.counters[key], nil
}

func newTestGenerator(seq Sequencer, now time.Time) *Generator {
	g := NewGenerator(seq)
	g.now = func() time.Time { return now }
	return g
}

func TestNextCodeFreshScope(t *testing.T) {
	gen := newTestGenerator(newFakeSequencer(), time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))

	code, err := gen.NextCode(context.Background(), "HR", "CONGE")
	require.NoError(t, err)
	assert.Equal(t, "HR-CONGE-2026-001", code)

	code, err = gen.NextCode(context.Background(), "HR", "CONGE")
	require.NoError(t, err)
	assert.Equal(t, "HR-CONGE-2026-002", code)
}

func TestNextCodeScopesAreIndependent(t *testing.T) {
	gen := newTestGenerator(newFakeSequencer(), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	for i := 1; i <= 3; i++ {
		code, err := gen.NextCode(context.Background(), "HR", "EXP")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("HR-EXP-2026-%03d", i), code)
	}

	code, err := gen.NextCode(context.Background(), "ENG", "INT")
	require.NoError(t, err)
	assert.Equal(t, "ENG-INT-2026-001", code)

	code, err = gen.NextCode(context.Background(), "HR", "AUTH")
	require.NoError(t, err)
	assert.Equal(t, "HR-AUTH-2026-001", code)
}

func TestNextCodeYearRollover(t *testing.T) {
	seq := newFakeSequencer()
	gen := newTestGenerator(seq, time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC))

	for i := 0; i < 41; i++ {
		_, err := gen.NextCode(context.Background(), "HR", "TEMPS")
		require.NoError(t, err)
	}

	// New year: the sequence restarts at 1 and the old counter is untouched.
	gen.now = func() time.Time { return time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC) }
	code, err := gen.NextCode(context.Background(), "HR", "TEMPS")
	require.NoError(t, err)
	assert.Equal(t, "HR-TEMPS-2026-001", code)
	assert.Equal(t, 41, seq.counters["HR/TEMPS/2025"])
}

func TestNextCodeSequencesHaveNoGaps(t *testing.T) {
	gen := newTestGenerator(newFakeSequencer(), time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	seen := make(map[string]bool)
	for i := 1; i <= 250; i++ {
		code, err := gen.NextCode(context.Background(), "PRJ", "PROJ")
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
	assert.True(t, seen["PRJ-PROJ-2026-001"])
	assert.True(t, seen["PRJ-PROJ-2026-099"])
	// Padding widens past three digits instead of truncating.
	assert.True(t, seen["PRJ-PROJ-2026-250"])
	assert.Equal(t, 250, len(seen))
}

func TestNextCodeEmptyScope(t *testing.T) {
	gen := newTestGenerator(newFakeSequencer(), time.Now())

	_, err := gen.NextCode(context.Background(), "", "CONGE")
	assert.ErrorIs(t, err, ErrEmptyScope)

	_, err = gen.NextCode(context.Background(), "HR", "")
	assert.ErrorIs(t, err, ErrEmptyScope)
}

func TestNextCodeSequencerFailure(t *testing.T) {
	seq := newFakeSequencer()
	seq.err = fmt.Errorf("connection refused")
	gen := newTestGenerator(seq, time.Now())

	code, err := gen.NextCode(context.Background(), "HR", "CONGE")
	assert.Error(t, err)
	assert.Empty(t, code)
}

func TestFormatCodePadding(t *testing.T) {
	assert.Equal(t, "HR-EXP-2025-007", FormatCode("HR", "EXP", 2025, 7))
	assert.Equal(t, "HR-EXP-2025-042", FormatCode("HR", "EXP", 2025, 42))
	assert.Equal(t, "HR-EXP-2025-999", FormatCode("HR", "EXP", 2025, 999))
	assert.Equal(t, "HR-EXP-2025-1507", FormatCode("HR", "EXP", 2025, 1507))
}
