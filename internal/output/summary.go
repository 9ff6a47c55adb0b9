package output

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/inodb/genomerge/internal/merge"
)

// Summary is the machine-readable account of a merge run.
type Summary struct {
	Generated   time.Time          `yaml:"generated"`
	Primary     SourceSummary      `yaml:"primary"`
	Secondary   SourceSummary      `yaml:"secondary"`
	Output      string             `yaml:"output"`
	Merged      MergedSummary      `yaml:"merged"`
	Orientation OrientationSummary `yaml:"orientation"`
	Buckets     map[string]int     `yaml:"buckets"`
}

// SourceSummary describes one input file.
type SourceSummary struct {
	Path    string `yaml:"path"`
	Format  string `yaml:"format"`
	Records int    `yaml:"records"`
	Skipped int    `yaml:"skipped_rows"`
}

// MergedSummary holds marker totals.
type MergedSummary struct {
	Total         int `yaml:"total"`
	Overlap       int `yaml:"overlap"`
	PrimaryOnly   int `yaml:"primary_only"`
	SecondaryOnly int `yaml:"added_from_secondary"`
}

// OrientationSummary reports orientation analysis.
type OrientationSummary struct {
	Detected  bool    `yaml:"detected"`
	Pattern   string  `yaml:"pattern,omitempty"`
	Frequency float64 `yaml:"frequency"`
	Examined  int     `yaml:"examined"`
}

// NewSummary builds a Summary from run information.
func NewSummary(info *RunInfo) Summary {
	res := info.Result
	s := Summary{
		Generated: info.Generated,
		Primary: SourceSummary{
			Path:    info.PrimaryPath,
			Format:  string(info.PrimaryFormat),
			Records: info.PrimaryRecords,
			Skipped: info.PrimarySkipped,
		},
		Secondary: SourceSummary{
			Path:    info.SecondaryPath,
			Format:  string(info.SecondaryFormat),
			Records: info.SecondaryRecords,
			Skipped: info.SecondarySkipped,
		},
		Output: info.OutputPath,
		Merged: MergedSummary{
			Total:         len(res.Merged),
			Overlap:       res.Overlap,
			PrimaryOnly:   res.PrimaryOnly,
			SecondaryOnly: res.SecondaryOnly,
		},
		Orientation: OrientationSummary{
			Detected:  res.Orientation.HasIssue,
			Frequency: res.Orientation.Frequency,
			Examined:  res.Orientation.Examined,
		},
		Buckets: make(map[string]int, len(merge.ReportBuckets)),
	}
	if res.Orientation.HasIssue {
		s.Orientation.Pattern = res.Orientation.Pattern.From + ">" + res.Orientation.Pattern.To
	}
	for _, b := range merge.ReportBuckets {
		s.Buckets[string(b)] = res.Count(b)
	}
	return s
}

// WriteSummaryYAML writes s as YAML.
func WriteSummaryYAML(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return enc.Close()
}

// WriteConsoleReport prints a human-readable account of the run. reports maps
// buckets to the report files that were written.
func WriteConsoleReport(w io.Writer, info *RunInfo, reports map[merge.Bucket]string) {
	res := info.Result
	fmt.Fprintf(w, "Merge complete:\n")
	fmt.Fprintf(w, "- Total SNPs in merged file: %d\n", len(res.Merged))
	fmt.Fprintf(w, "- SNPs added from secondary file: %d\n", res.SecondaryOnly)

	if o := res.Orientation; o.HasIssue {
		fmt.Fprintf(w, "- Detected consistent orientation difference: %s in %s of overlapping heterozygous SNPs\n",
			o.Pattern, percent(o.Frequency))
		fmt.Fprintf(w, "- Secondary data was normalized to match primary data orientation\n")
	}

	lines := []struct {
		bucket merge.Bucket
		label  string
	}{
		{merge.BucketNoCall, "No-call resolutions (no-call replaced with real data)"},
		{merge.BucketSexChromosome, "Sex chromosome normalizations (X, Y, MT single/double letter)"},
		{merge.BucketOrderOnly, "Same alleles but different order"},
		{merge.BucketConflict, "True genotype conflicts found (primary values used)"},
	}
	for _, l := range lines {
		fmt.Fprintf(w, "- %s: %d\n", l.label, res.Count(l.bucket))
		if path, ok := reports[l.bucket]; ok {
			fmt.Fprintf(w, "  - Details written to: %s\n", path)
		}
	}

	if info.PrimarySkipped > 0 || info.SecondarySkipped > 0 {
		fmt.Fprintf(w, "- Skipped malformed rows: primary %d, secondary %d\n",
			info.PrimarySkipped, info.SecondarySkipped)
	}
}
