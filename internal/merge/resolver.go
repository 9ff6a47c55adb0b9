// Package merge reconciles two raw data exports of the same individual into
// one call set, classifying every disagreement by cause.
package merge

import (
	"sort"

	"go.uber.org/zap"

	"github.com/inodb/genomerge/internal/genotype"
	"github.com/inodb/genomerge/internal/rawdata"
)

// Result is the outcome of one merge pass.
type Result struct {
	Merged          map[string]MergedRecord
	Classifications map[Bucket][]Classification
	Orientation     Orientation

	Overlap       int // markers present in both inputs
	PrimaryOnly   int
	SecondaryOnly int // markers added from the secondary input
}

// Count returns the number of classified markers in bucket b.
func (r *Result) Count(b Bucket) int {
	return len(r.Classifications[b])
}

// SortedIDs returns the merged marker ids in ascending order.
func (r *Result) SortedIDs() []string {
	ids := make([]string, 0, len(r.Merged))
	for id := range r.Merged {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolver merges a primary and a secondary record set. The primary wins
// every disagreement that is not explained by a no-call, a hemizygous
// representation or allele order.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a resolver that logs nothing.
func NewResolver() *Resolver {
	return &Resolver{logger: zap.NewNop()}
}

// SetLogger sets the logger for diagnostic messages.
func (r *Resolver) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Merge reconciles primary and secondary. Inputs are read but never modified.
// Every marker id of either input appears exactly once in the result.
func (r *Resolver) Merge(primary, secondary map[string]rawdata.Record) *Result {
	o := AnalyzeOrientation(primary, secondary)
	if o.HasIssue {
		r.logger.Info("detected orientation difference",
			zap.String("pattern", o.Pattern.String()),
			zap.Float64("frequency", o.Frequency),
			zap.Int("examined", o.Examined))
	}

	res := &Result{
		Merged:          make(map[string]MergedRecord, len(primary)+len(secondary)),
		Classifications: make(map[Bucket][]Classification),
		Orientation:     o,
	}

	for _, id := range unionIDs(primary, secondary) {
		p, inPrimary := primary[id]
		s, inSecondary := secondary[id]

		switch {
		case !inPrimary:
			rec := s
			rec.Genotype = genotype.Normalize(s.Genotype, s.Chrom, o.HasIssue, o.Pattern)
			res.Merged[id] = MergedRecord{Record: rec, Provenance: ProvenanceSecondary, Bucket: BucketNone}
			res.SecondaryOnly++
		case !inSecondary:
			res.Merged[id] = MergedRecord{Record: p, Provenance: ProvenancePrimary, Bucket: BucketNone}
			res.PrimaryOnly++
		default:
			m := r.resolve(p, s, o)
			res.Merged[id] = m
			res.Overlap++
			if m.Bucket != BucketNone {
				res.Classifications[m.Bucket] = append(res.Classifications[m.Bucket], Classification{
					ID:        id,
					Chrom:     p.Chrom,
					Pos:       p.Pos,
					Primary:   p.Genotype,
					Secondary: s.Genotype,
					Chosen:    m.Genotype,
				})
			}
		}
	}

	for _, cs := range res.Classifications {
		sortClassifications(cs)
	}

	return res
}

// resolve applies the reconciliation rules to a marker present in both
// inputs; the first matching rule wins.
func (r *Resolver) resolve(p, s rawdata.Record, o Orientation) MergedRecord {
	pg := p.Genotype
	sg := genotype.Normalize(s.Genotype, s.Chrom, o.HasIssue, o.Pattern)
	chrom := p.Chrom

	keep := func(g string, prov Provenance, b Bucket) MergedRecord {
		rec := p
		rec.Genotype = g
		return MergedRecord{Record: rec, Provenance: prov, Bucket: b}
	}

	// A real call beats a no-call; two no-calls keep the primary's.
	if genotype.IsNoCall(pg) || genotype.IsNoCall(sg) {
		chosen := pg
		if genotype.IsNoCall(pg) && !genotype.IsNoCall(sg) {
			chosen = sg
		}
		return keep(chosen, ProvenanceMerged, BucketNoCall)
	}

	// Identical reports need no normalization.
	if pg == s.Genotype {
		return keep(pg, ProvenancePrimary, BucketNone)
	}

	if genotype.IsSexChromosome(chrom) &&
		(genotype.IsHemizygousEquivalent(pg, sg) || genotype.IsHemizygousEquivalent(pg, s.Genotype)) {
		chosen := pg
		if len(pg) < len(sg) {
			chosen = sg
		}
		return keep(chosen, ProvenanceMerged, BucketSexChromosome)
	}

	if pg != sg && genotype.IsHeterozygous(pg) && genotype.IsHeterozygous(sg) &&
		genotype.SortAlleles(pg) == genotype.SortAlleles(sg) {
		return keep(pg, ProvenancePrimary, BucketOrderOnly)
	}

	if !genotype.Equivalent(pg, sg, chrom) {
		// On Y only calls without any shared allele are reported.
		if chrom == genotype.ChromY && genotype.SharesAllele(pg, sg) {
			r.logger.Debug("unreported Y disagreement",
				zap.String("id", p.ID),
				zap.String("primary", pg),
				zap.String("secondary", s.Genotype))
			return keep(pg, ProvenancePrimary, BucketNone)
		}
		return keep(pg, ProvenancePrimary, BucketConflict)
	}

	return keep(pg, ProvenancePrimary, BucketNone)
}

// unionIDs returns the sorted union of both key sets.
func unionIDs(primary, secondary map[string]rawdata.Record) []string {
	ids := make([]string, 0, len(primary)+len(secondary))
	for id := range primary {
		ids = append(ids, id)
	}
	for id := range secondary {
		if _, ok := primary[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
