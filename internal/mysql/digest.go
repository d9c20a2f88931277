package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DefaultDigestLimit is how many digests are read when no limit is given.
const DefaultDigestLimit = 20

// Digest is one row of performance_schema.events_statements_summary_by_digest.
type Digest struct {
	Schema       string
	Digest       string
	Text         string // normalized text, literals replaced by '?'
	Sample       string // a real statement, empty when the server has none
	Count        int64
	TotalLatency time.Duration
	RowsExamined int64
	LastSeen     time.Time
}

// Statement returns the text to classify: the sample when available.
func (d Digest) Statement() string {
	if d.Sample != "" {
		return d.Sample
	}
	return d.Text
}

// TopDigests returns the digests with the highest total latency, most
// expensive first. schema restricts the result when not empty.
func TopDigests(ctx context.Context, db *sql.DB, version ServerVersion, schema string, limit int) ([]Digest, error) {
	if limit <= 0 {
		limit = DefaultDigestLimit
	}

	sample := "''"
	if version.HasQuerySample() {
		sample = "COALESCE(QUERY_SAMPLE_TEXT, '')"
	}

	// SUM_TIMER_WAIT is in picoseconds.
	query := fmt.Sprintf(`
		SELECT COALESCE(SCHEMA_NAME, ''), COALESCE(DIGEST, ''), COALESCE(DIGEST_TEXT, ''), %s,
			COUNT_STAR, SUM_TIMER_WAIT, SUM_ROWS_EXAMINED, LAST_SEEN
		FROM performance_schema.events_statements_summary_by_digest
		WHERE DIGEST_TEXT IS NOT NULL AND (? = '' OR SCHEMA_NAME = ?)
		ORDER BY SUM_TIMER_WAIT DESC
		LIMIT ?`, sample)

	rows, err := db.QueryContext(ctx, query, schema, schema, limit)
	if err != nil {
		return nil, fmt.Errorf("querying statement digests: %w", err)
	}
	defer rows.Close()

	var digests []Digest
	for rows.Next() {
		var d Digest
		var picos uint64
		var lastSeen sql.NullTime
		if err := rows.Scan(&d.Schema, &d.Digest, &d.Text, &d.Sample,
			&d.Count, &picos, &d.RowsExamined, &lastSeen); err != nil {
			return nil, fmt.Errorf("reading statement digest: %w", err)
		}
		d.TotalLatency = time.Duration(picos / 1000)
		if lastSeen.Valid {
			d.LastSeen = lastSeen.Time
		}
		digests = append(digests, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading statement digests: %w", err)
	}
	return digests, nil
}
