// Package output writes merged call sets and reconciliation reports.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/inodb/genomerge/internal/genotype"
	"github.com/inodb/genomerge/internal/merge"
	"github.com/inodb/genomerge/internal/rawdata"
)

// RunInfo describes one merge run.
type RunInfo struct {
	PrimaryPath     string
	SecondaryPath   string
	OutputPath      string
	PrimaryFormat   rawdata.Format
	SecondaryFormat rawdata.Format
	PrimaryBanner   string // first header comment of each input, if any
	SecondaryBanner string

	PrimaryRecords   int
	SecondaryRecords int
	PrimarySkipped   int
	SecondarySkipped int

	Generated time.Time
	Result    *merge.Result
}

// MergedWriter writes merged records in a vendor layout.
type MergedWriter struct {
	w      *bufio.Writer
	format rawdata.Format
}

// NewMergedWriter creates a writer for the given layout.
func NewMergedWriter(w io.Writer, format rawdata.Format) *MergedWriter {
	return &MergedWriter{
		w:      bufio.NewWriter(w),
		format: format,
	}
}

// WriteHeader writes the generated comment block and the column-name line.
func (mw *MergedWriter) WriteHeader(info *RunInfo) error {
	res := info.Result
	lines := []string{
		"# Merged DNA Data File",
		"# Generated on: " + info.Generated.Format(time.DateTime),
		fmt.Sprintf("# Primary source: %s format", strings.ToUpper(string(info.PrimaryFormat))),
		fmt.Sprintf("# Secondary source: %s format", strings.ToUpper(string(info.SecondaryFormat))),
	}
	if info.PrimaryBanner != "" {
		lines = append(lines, "# Primary header: "+info.PrimaryBanner)
	}
	if info.SecondaryBanner != "" {
		lines = append(lines, "# Secondary header: "+info.SecondaryBanner)
	}
	if o := res.Orientation; o.HasIssue {
		lines = append(lines,
			"# NOTE: Detected consistent orientation difference between files.",
			fmt.Sprintf("#       Pattern %s in %s of overlapping heterozygous SNPs", o.Pattern, percent(o.Frequency)),
			"#       Secondary data was normalized to match primary data orientation",
		)
	}
	lines = append(lines,
		fmt.Sprintf("# No-call resolutions: %d", res.Count(merge.BucketNoCall)),
		fmt.Sprintf("# Sex chromosome normalizations: %d", res.Count(merge.BucketSexChromosome)),
		fmt.Sprintf("# Same alleles but different order: %d", res.Count(merge.BucketOrderOnly)),
		fmt.Sprintf("# True conflicts (primary source value used): %d", res.Count(merge.BucketConflict)),
		fmt.Sprintf("# Skipped malformed rows: primary %d, secondary %d", info.PrimarySkipped, info.SecondarySkipped),
		"#",
		strings.Join(mw.format.Columns(), "\t"),
	)

	_, err := mw.w.WriteString(strings.Join(lines, "\n") + "\n")
	return err
}

// Write writes a single merged record.
func (mw *MergedWriter) Write(r merge.MergedRecord) error {
	pos := strconv.FormatUint(r.Pos, 10)

	var values []string
	if mw.format == rawdata.FormatAncestry {
		a1, a2 := splitAlleles(r.Genotype)
		values = []string{r.ID, genotype.AncestryCode(r.Chrom), pos, a1, a2}
	} else {
		values = []string{r.ID, r.Chrom, pos, r.Genotype}
	}

	_, err := mw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (mw *MergedWriter) Flush() error {
	return mw.w.Flush()
}

// splitAlleles converts a call into the AncestryDNA allele columns.
// No-calls become 0/0 and single alleles are repeated.
func splitAlleles(g string) (string, string) {
	switch {
	case genotype.IsNoCall(g) || g == "":
		return "0", "0"
	case len(g) == 1:
		return g, g
	}
	return g[:1], g[1:2]
}

// WriteMerged writes the full merged file, rows sorted by marker id, in the
// primary input's layout.
func WriteMerged(w io.Writer, info *RunInfo) error {
	mw := NewMergedWriter(w, info.PrimaryFormat)
	if err := mw.WriteHeader(info); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, id := range info.Result.SortedIDs() {
		if err := mw.Write(info.Result.Merged[id]); err != nil {
			return fmt.Errorf("write record %s: %w", id, err)
		}
	}
	return mw.Flush()
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}
