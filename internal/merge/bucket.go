package merge

import (
	"sort"

	"github.com/inodb/genomerge/internal/rawdata"
)

// Provenance records which input a merged call came from.
type Provenance string

const (
	ProvenancePrimary   Provenance = "primary"
	ProvenanceSecondary Provenance = "secondary"
	ProvenanceMerged    Provenance = "merged"
)

// Bucket classifies why two overlapping calls were reconciled the way they were.
type Bucket string

const (
	BucketNone          Bucket = "none"
	BucketConflict      Bucket = "true_conflict"
	BucketNoCall        Bucket = "nocall_resolution"
	BucketSexChromosome Bucket = "sex_chromosome_normalization"
	BucketOrderOnly     Bucket = "same_alleles_diff_order"
)

// ReportBuckets lists the buckets that are reported, in report order.
var ReportBuckets = []Bucket{BucketConflict, BucketNoCall, BucketSexChromosome, BucketOrderOnly}

// MergedRecord is the reconciled call for one marker.
type MergedRecord struct {
	rawdata.Record
	Provenance Provenance
	Bucket     Bucket
}

// Classification is one entry of a bucket report.
type Classification struct {
	ID        string
	Chrom     string
	Pos       uint64
	Primary   string // primary call
	Secondary string // secondary call as reported, before normalization
	Chosen    string // call written to the merged set
}

// sortClassifications orders entries by marker id, chromosome, then position.
func sortClassifications(cs []Classification) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].ID != cs[j].ID {
			return cs[i].ID < cs[j].ID
		}
		if cs[i].Chrom != cs[j].Chrom {
			return cs[i].Chrom < cs[j].Chrom
		}
		return cs[i].Pos < cs[j].Pos
	})
}
