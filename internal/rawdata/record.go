// Package rawdata reads consumer-genomics raw data exports into marker records.
// Two vendor layouts are supported:
//
//	23andMe     rsid  chromosome  position  genotype
//	AncestryDNA rsid  chromosome  position  allele1  allele2
package rawdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/genomerge/internal/genotype"
)

// Format identifies a vendor layout.
type Format string

const (
	FormatUnknown  Format = "unknown"
	Format23andMe  Format = "23andme"
	FormatAncestry Format = "ancestry"
)

// MinFields returns the number of tab-separated fields a data row needs.
func (f Format) MinFields() int {
	if f == FormatAncestry {
		return 5
	}
	return 4
}

// Columns returns the column names written for this layout.
func (f Format) Columns() []string {
	if f == FormatAncestry {
		return []string{"rsid", "chromosome", "position", "allele1", "allele2"}
	}
	return []string{"rsid", "chromosome", "position", "genotype"}
}

// Record is a single marker call.
type Record struct {
	ID       string // marker identifier, e.g. rs4477212
	Chrom    string // normalized label: 1-22, X, Y, XY, MT
	Pos      uint64
	Genotype string // canonical call; no-calls are genotype.NoCall
}

// Row is the outcome of parsing one data line: either a record or a skip
// with the reason the line was rejected.
type Row struct {
	Record  Record
	Skipped bool
	Reason  string
}

// SkippedRow describes a data line that did not yield a record.
type SkippedRow struct {
	Line   int
	Reason string
}

// ParseLine parses one tab-separated data line in the given layout.
func ParseLine(line string, f Format) Row {
	fields := strings.Split(strings.TrimSpace(line), "\t")
	if len(fields) < f.MinFields() {
		return skip(fmt.Sprintf("expected %d fields, got %d", f.MinFields(), len(fields)))
	}

	id := strings.TrimSpace(fields[0])
	if id == "" {
		return skip("empty marker id")
	}

	pos, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil {
		return skip(fmt.Sprintf("invalid position %q", fields[2]))
	}

	gt := strings.TrimSpace(fields[3])
	if f == FormatAncestry {
		gt += strings.TrimSpace(fields[4])
	}

	return Row{Record: Record{
		ID:       id,
		Chrom:    genotype.NormalizeChrom(fields[1]),
		Pos:      pos,
		Genotype: genotype.Canonical(gt),
	}}
}

func skip(reason string) Row {
	return Row{Skipped: true, Reason: reason}
}

// isColumnLine reports whether fields look like a column-name line rather than
// data: the position column is not numeric.
func isColumnLine(fields []string) bool {
	if len(fields) < 3 {
		return false
	}
	_, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 64)
	return err != nil
}
