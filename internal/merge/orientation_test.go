package merge

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inodb/genomerge/internal/genotype"
	"github.com/inodb/genomerge/internal/rawdata"
)

// overlap builds primary and secondary sets from (primary, secondary) call pairs
// on chromosome 1.
func overlap(pairs ...[2]string) (map[string]rawdata.Record, map[string]rawdata.Record) {
	primary := make(map[string]rawdata.Record)
	secondary := make(map[string]rawdata.Record)
	for i, p := range pairs {
		id := fmt.Sprintf("rs%d", i+1)
		primary[id] = rawdata.Record{ID: id, Chrom: "1", Pos: uint64(1000 + i), Genotype: p[0]}
		secondary[id] = rawdata.Record{ID: id, Chrom: "1", Pos: uint64(1000 + i), Genotype: p[1]}
	}
	return primary, secondary
}

func repeat(n int, pair [2]string) [][2]string {
	out := make([][2]string, n)
	for i := range out {
		out[i] = pair
	}
	return out
}

func TestAnalyzeOrientation_DetectsDominantSwap(t *testing.T) {
	pairs := repeat(6, [2]string{"CT", "TC"})
	pairs = append(pairs, repeat(2, [2]string{"AG", "CT"})...)
	pairs = append(pairs, repeat(2, [2]string{"AC", "GT"})...)
	// homozygous and identical calls are not examined
	pairs = append(pairs, [2]string{"CC", "TT"}, [2]string{"AG", "AG"}, [2]string{"--", "AG"})

	o := AnalyzeOrientation(overlap(pairs...))
	assert.True(t, o.HasIssue)
	assert.Equal(t, genotype.SwapPattern{From: "CT", To: "TC"}, o.Pattern)
	assert.InDelta(t, 0.6, o.Frequency, 1e-9)
	assert.Equal(t, 10, o.Examined)
}

func TestAnalyzeOrientation_BelowThreshold(t *testing.T) {
	pairs := repeat(4, [2]string{"CT", "TC"})
	pairs = append(pairs, repeat(3, [2]string{"AG", "CT"})...)
	pairs = append(pairs, repeat(3, [2]string{"AC", "GT"})...)

	o := AnalyzeOrientation(overlap(pairs...))
	assert.False(t, o.HasIssue)
	assert.True(t, o.Pattern.IsZero())
	assert.InDelta(t, 0.4, o.Frequency, 1e-9)
	assert.Equal(t, genotype.SwapPattern{From: "CT", To: "TC"}, o.Mode)
}

func TestAnalyzeOrientation_ExactlyHalfIsNotAnIssue(t *testing.T) {
	pairs := repeat(5, [2]string{"GT", "TG"})
	pairs = append(pairs, repeat(5, [2]string{"AG", "CT"})...)

	o := AnalyzeOrientation(overlap(pairs...))
	assert.False(t, o.HasIssue)
	assert.InDelta(t, 0.5, o.Frequency, 1e-9)
}

func TestAnalyzeOrientation_DominantPairNotASwap(t *testing.T) {
	pairs := repeat(8, [2]string{"AT", "TA"})
	pairs = append(pairs, repeat(2, [2]string{"CT", "TC"})...)

	o := AnalyzeOrientation(overlap(pairs...))
	assert.False(t, o.HasIssue)
	assert.InDelta(t, 0.8, o.Frequency, 1e-9)
	assert.Equal(t, genotype.SwapPattern{From: "AT", To: "TA"}, o.Mode)
}

func TestAnalyzeOrientation_NoQualifyingMarkers(t *testing.T) {
	o := AnalyzeOrientation(overlap([2]string{"AA", "AA"}, [2]string{"CC", "GG"}))
	assert.Equal(t, Orientation{}, o)

	o = AnalyzeOrientation(nil, nil)
	assert.False(t, o.HasIssue)
	assert.Zero(t, o.Frequency)
}

func TestAnalyzeOrientation_TieBreakIsLexicographic(t *testing.T) {
	for i := 0; i < 20; i++ {
		pairs := repeat(2, [2]string{"TG", "GT"})
		pairs = append(pairs, repeat(2, [2]string{"AG", "GA"})...)
		pairs = append(pairs, repeat(2, [2]string{"CT", "TC"})...)

		o := AnalyzeOrientation(overlap(pairs...))
		assert.Equal(t, genotype.SwapPattern{From: "AG", To: "GA"}, o.Mode)
	}
}
