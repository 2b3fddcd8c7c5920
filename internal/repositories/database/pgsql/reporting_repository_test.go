package pgsql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The replay query must filter lines inside the joined subquery. Hung off an
// outer LEFT JOIN the predicates would only null the entry columns while the
// SUM keeps counting every line ever posted, so rejected entries and
// out-of-window dates would leak into report balances.
func TestReplayedAmountsQuery_FiltersLinesInsideSubquery(t *testing.T) {
	const dateCondition = `AND j.entry_date BETWEEN $2 AND $3`
	query := replayedAmountsQuery(false, dateCondition)

	subStart := strings.Index(query, "LEFT JOIN (")
	subEnd := strings.Index(query, ") l ON")
	require.NotEqual(t, -1, subStart, "line subquery missing")
	require.NotEqual(t, -1, subEnd, "line subquery not joined back to accounts")
	require.Less(t, subStart, subEnd)

	sub := query[subStart:subEnd]
	assert.Contains(t, sub, "JOIN journal_entries j ON j.entry_id = t.entry_id")
	assert.Contains(t, sub, `j.status <> 'Rejected'`)
	assert.Contains(t, sub, dateCondition)

	// Nothing entry-related may remain outside the subquery
	outer := query[:subStart] + query[subEnd:]
	assert.NotContains(t, outer, "journal_entries")
	assert.NotContains(t, outer, "Rejected")
	assert.NotContains(t, outer, "entry_date")
}

func TestReplayedAmountsQuery_SignConvention(t *testing.T) {
	assert.Contains(t, replayedAmountsQuery(true, ""), "t.debit_amount - t.credit_amount")
	assert.Contains(t, replayedAmountsQuery(false, ""), "t.credit_amount - t.debit_amount")
}
