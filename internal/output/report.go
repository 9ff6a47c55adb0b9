package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/genomerge/internal/merge"
)

// reportSpec holds the file suffix and header text for one bucket report.
type reportSpec struct {
	suffix      string
	title       string
	description []string
	withChosen  bool
}

var reportSpecs = map[merge.Bucket]reportSpec{
	merge.BucketConflict: {
		suffix: ".conflicts.txt",
		title:  "True Conflicting SNPs Log",
		description: []string{
			"These are SNPs with genuinely different genotypes (not just orientation or representation differences)",
		},
	},
	merge.BucketNoCall: {
		suffix: ".nocall_resolutions.txt",
		title:  "No-Call Resolutions Log",
		description: []string{
			"These are SNPs where one source had a no-call (--, 00 or NN) and the other had actual data",
		},
		withChosen: true,
	},
	merge.BucketSexChromosome: {
		suffix: ".sex_chromosome_normalizations.txt",
		title:  "Sex Chromosome Normalizations Log",
		description: []string{
			"These are SNPs on sex chromosomes (X, Y, MT) where single letter and doubled representations were normalized",
		},
		withChosen: true,
	},
	merge.BucketOrderOnly: {
		suffix: ".same_alleles_diff_order.txt",
		title:  "Same Alleles Different Order Log",
		description: []string{
			"These are heterozygous SNPs with the same alleles but in different order (e.g., AT vs TA, CG vs GC)",
			"These are not true conflicts, just different representations",
		},
	},
}

// ReportPath returns the path of the report file for bucket b.
func ReportPath(outputPath string, b merge.Bucket) string {
	return outputPath + reportSpecs[b].suffix
}

// WriteReport writes the report for bucket b.
func WriteReport(w io.Writer, b merge.Bucket, entries []merge.Classification, o merge.Orientation) error {
	spec, ok := reportSpecs[b]
	if !ok {
		return fmt.Errorf("no report for bucket %q", b)
	}

	bw := bufio.NewWriter(w)

	lines := []string{"# " + spec.title}
	for _, d := range spec.description {
		lines = append(lines, "# "+d)
	}
	if b == merge.BucketConflict {
		if o.HasIssue {
			lines = append(lines,
				fmt.Sprintf("# NOTE: Global orientation pattern %s was accounted for", o.Pattern),
				"#       So these conflicts remain even after orientation normalization",
			)
		}
		lines = append(lines, "# Primary file values were used in the merged output")
	}
	lines = append(lines, "#")

	cols := []string{"rsid", "chromosome", "position"}
	if spec.withChosen {
		cols = append(cols, "primary_value", "secondary_value", "chosen_value")
	} else if b == merge.BucketConflict {
		cols = append(cols, "primary_genotype", "secondary_genotype")
	} else {
		cols = append(cols, "primary_value", "secondary_value")
	}
	lines = append(lines, "# "+strings.Join(cols, "\t"))

	if _, err := bw.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		return err
	}

	for _, e := range entries {
		values := []string{e.ID, e.Chrom, strconv.FormatUint(e.Pos, 10), e.Primary, e.Secondary}
		if spec.withChosen {
			values = append(values, e.Chosen)
		}
		if _, err := bw.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}
