package duckdb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/genomerge/internal/merge"
)

// Run describes a stored merge run.
type Run struct {
	ID              string
	Created         time.Time
	Primary         FileFingerprint
	PrimaryFormat   string
	Secondary       FileFingerprint
	SecondaryFormat string
	OutputPath      string

	OrientationIssue bool
	Pattern          string
	PatternFrequency float64
	TotalMarkers     int
}

// RecordRun stores run metadata together with every merged call and
// classification of res. It assigns and returns a new run id; run.ID is ignored.
func (s *Store) RecordRun(run Run, res *merge.Result) (string, error) {
	run.ID = uuid.NewString()
	if run.Created.IsZero() {
		run.Created = time.Now()
	}
	run.TotalMarkers = len(res.Merged)
	run.OrientationIssue = res.Orientation.HasIssue
	run.PatternFrequency = res.Orientation.Frequency
	if res.Orientation.HasIssue {
		run.Pattern = res.Orientation.Pattern.From + ">" + res.Orientation.Pattern.To
	}

	if _, err := s.db.Exec(`INSERT INTO merge_runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Created,
		run.Primary.Path, run.PrimaryFormat, run.Primary.Size, run.Primary.ModTime,
		run.Secondary.Path, run.SecondaryFormat, run.Secondary.Size, run.Secondary.ModTime,
		run.OutputPath, run.OrientationIssue, run.Pattern, run.PatternFrequency,
		int64(run.TotalMarkers),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	if err := s.appendRows("merged_calls", func(a *goduckdb.Appender) error {
		for _, id := range res.SortedIDs() {
			m := res.Merged[id]
			if err := a.AppendRow(run.ID, m.ID, m.Chrom, int64(m.Pos), m.Genotype,
				string(m.Provenance), string(m.Bucket)); err != nil {
				return fmt.Errorf("append merged call: %w", err)
			}
		}
		return nil
	}); err != nil {
		return "", err
	}

	if err := s.appendRows("classifications", func(a *goduckdb.Appender) error {
		for _, b := range merge.ReportBuckets {
			for _, c := range res.Classifications[b] {
				if err := a.AppendRow(run.ID, string(b), c.ID, c.Chrom, int64(c.Pos),
					c.Primary, c.Secondary, c.Chosen); err != nil {
					return fmt.Errorf("append classification: %w", err)
				}
			}
		}
		return nil
	}); err != nil {
		return "", err
	}

	return run.ID, nil
}

// ListRuns returns stored runs, newest first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(`SELECT
		run_id, created_at,
		primary_path, primary_format, primary_size, primary_mtime,
		secondary_path, secondary_format, secondary_size, secondary_mtime,
		output_path, orientation_issue, pattern, pattern_frequency, total_markers
		FROM merge_runs
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var total int64
		if err := rows.Scan(
			&r.ID, &r.Created,
			&r.Primary.Path, &r.PrimaryFormat, &r.Primary.Size, &r.Primary.ModTime,
			&r.Secondary.Path, &r.SecondaryFormat, &r.Secondary.Size, &r.Secondary.ModTime,
			&r.OutputPath, &r.OrientationIssue, &r.Pattern, &r.PatternFrequency, &total,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.TotalMarkers = int(total)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
