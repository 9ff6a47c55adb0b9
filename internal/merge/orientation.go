package merge

import (
	"github.com/inodb/genomerge/internal/genotype"
	"github.com/inodb/genomerge/internal/rawdata"
)

// orientationThreshold is the share of heterozygous disagreements a single
// swap pattern must exceed to be treated as a file-wide orientation issue.
const orientationThreshold = 0.5

// Orientation is the outcome of orientation analysis.
type Orientation struct {
	HasIssue  bool
	Pattern   genotype.SwapPattern // set only when HasIssue
	Frequency float64              // share of the most frequent pair
	Mode      genotype.SwapPattern // most frequent pair, issue or not
	Examined  int                  // heterozygous disagreements considered
}

// AnalyzeOrientation looks at markers present in both sets whose calls differ
// and are both heterozygous, and decides whether one strand-orientation swap
// (e.g. CT reported as TC) explains more than half of them. Ties between
// equally frequent pairs go to the lexicographically smallest pair.
func AnalyzeOrientation(primary, secondary map[string]rawdata.Record) Orientation {
	counts := make(map[genotype.SwapPattern]int)
	examined := 0

	for id, p := range primary {
		s, ok := secondary[id]
		if !ok || p.Genotype == s.Genotype {
			continue
		}
		if !genotype.IsHeterozygous(p.Genotype) || !genotype.IsHeterozygous(s.Genotype) {
			continue
		}
		counts[genotype.SwapPattern{From: p.Genotype, To: s.Genotype}]++
		examined++
	}

	if examined == 0 {
		return Orientation{}
	}

	var mode genotype.SwapPattern
	best := 0
	for pattern, n := range counts {
		if n > best || (n == best && pattern.Less(mode)) {
			mode, best = pattern, n
		}
	}

	o := Orientation{
		Frequency: float64(best) / float64(examined),
		Mode:      mode,
		Examined:  examined,
	}
	if o.Frequency > orientationThreshold && genotype.IsOrientationSwap(mode.From, mode.To) {
		o.HasIssue = true
		o.Pattern = mode
	}
	return o
}
