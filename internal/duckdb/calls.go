package duckdb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/inodb/genomerge/internal/merge"
)

// LookupCall returns the merged call stored for a marker in a run.
// The boolean is false when the run has no such marker.
func (s *Store) LookupCall(runID, rsid string) (merge.MergedRecord, bool, error) {
	var m merge.MergedRecord
	var pos int64
	var provenance, bucket string

	err := s.db.QueryRow(`SELECT rsid, chrom, pos, genotype, provenance, bucket
		FROM merged_calls
		WHERE run_id=? AND rsid=?`, runID, rsid).
		Scan(&m.ID, &m.Chrom, &pos, &m.Genotype, &provenance, &bucket)
	if errors.Is(err, sql.ErrNoRows) {
		return merge.MergedRecord{}, false, nil
	}
	if err != nil {
		return merge.MergedRecord{}, false, fmt.Errorf("query merged call: %w", err)
	}

	m.Pos = uint64(pos)
	m.Provenance = merge.Provenance(provenance)
	m.Bucket = merge.Bucket(bucket)
	return m, true, nil
}

// Classifications returns the stored entries of one bucket for a run, ordered
// by marker id, chromosome and position.
func (s *Store) Classifications(runID string, b merge.Bucket) ([]merge.Classification, error) {
	rows, err := s.db.Query(`SELECT rsid, chrom, pos, primary_genotype, secondary_genotype, chosen_genotype
		FROM classifications
		WHERE run_id=? AND bucket=?
		ORDER BY rsid, chrom, pos`, runID, string(b))
	if err != nil {
		return nil, fmt.Errorf("query classifications: %w", err)
	}
	defer rows.Close()

	var out []merge.Classification
	for rows.Next() {
		var c merge.Classification
		var pos int64
		if err := rows.Scan(&c.ID, &c.Chrom, &pos, &c.Primary, &c.Secondary, &c.Chosen); err != nil {
			return nil, fmt.Errorf("scan classification: %w", err)
		}
		c.Pos = uint64(pos)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classifications: %w", err)
	}
	return out, nil
}

// BucketCounts returns the number of classified markers per bucket for a run.
// Buckets without entries are reported as zero.
func (s *Store) BucketCounts(runID string) (map[merge.Bucket]int, error) {
	counts := make(map[merge.Bucket]int, len(merge.ReportBuckets))
	for _, b := range merge.ReportBuckets {
		counts[b] = 0
	}

	rows, err := s.db.Query(`SELECT bucket, COUNT(*)
		FROM classifications
		WHERE run_id=?
		GROUP BY bucket`, runID)
	if err != nil {
		return nil, fmt.Errorf("query bucket counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket string
		var n int64
		if err := rows.Scan(&bucket, &n); err != nil {
			return nil, fmt.Errorf("scan bucket count: %w", err)
		}
		counts[merge.Bucket(bucket)] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bucket counts: %w", err)
	}
	return counts, nil
}

// ClearRuns removes all stored runs.
func (s *Store) ClearRuns() error {
	for _, table := range []string{"classifications", "merged_calls", "merge_runs"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
