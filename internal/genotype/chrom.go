package genotype

import "strings"

// Chromosome labels with special hemizygous handling.
const (
	ChromX  = "X"
	ChromY  = "Y"
	ChromXY = "XY" // pseudo-autosomal region, called diploid
	ChromMT = "MT"
)

// ancestryCodes maps AncestryDNA numeric chromosome codes to labels.
var ancestryCodes = map[string]string{
	"23": ChromX,
	"24": ChromY,
	"25": ChromXY,
	"26": ChromMT,
}

// NormalizeChrom returns the chromosome label without a "chr" prefix, with
// AncestryDNA numeric codes (23-26) and "M" mapped to X, Y, XY and MT.
func NormalizeChrom(label string) string {
	c := strings.TrimSpace(label)
	if len(c) > 3 && strings.EqualFold(c[:3], "chr") {
		c = c[3:]
	}
	c = strings.ToUpper(c)
	if mapped, ok := ancestryCodes[c]; ok {
		return mapped
	}
	if c == "M" {
		return ChromMT
	}
	return c
}

// AncestryCode returns the AncestryDNA numeric code for a normalized label.
// Autosome labels are returned unchanged.
func AncestryCode(chrom string) string {
	for code, label := range ancestryCodes {
		if label == chrom {
			return code
		}
	}
	return chrom
}

// IsSexChromosome returns true for X, Y and MT, the labels whose calls may be
// reported as a single allele.
func IsSexChromosome(chrom string) bool {
	switch chrom {
	case ChromX, ChromY, ChromMT:
		return true
	}
	return false
}
