// Package genotype provides helpers for consumer-genomics genotype calls:
// no-call handling, zygosity, orientation swaps, and the equivalence rules
// used when reconciling two exports of the same individual.
package genotype

// NoCall is the canonical no-call sentinel.
const NoCall = "--"

// IsNoCall reports whether g is one of the vendor no-call forms (--, 00, NN).
func IsNoCall(g string) bool {
	switch g {
	case "--", "00", "NN":
		return true
	}
	return false
}

// Canonical maps every no-call form to NoCall and returns other calls unchanged.
func Canonical(g string) string {
	if IsNoCall(g) {
		return NoCall
	}
	return g
}

// IsHeterozygous returns true for a two-allele call with differing alleles.
func IsHeterozygous(g string) bool {
	return len(g) == 2 && g[0] != g[1]
}

// IsHomozygous returns true for a two-allele call with identical alleles.
func IsHomozygous(g string) bool {
	return len(g) == 2 && g[0] == g[1]
}

// Reverse swaps the two alleles of a two-character call.
func Reverse(g string) string {
	if len(g) != 2 {
		return g
	}
	return string([]byte{g[1], g[0]})
}

// SortAlleles returns a heterozygous call with its alleles in ascending order.
// Any other call is returned unchanged.
func SortAlleles(g string) string {
	if IsHeterozygous(g) && g[0] > g[1] {
		return Reverse(g)
	}
	return g
}

// SharesAllele reports whether the two calls have at least one base in common.
func SharesAllele(g1, g2 string) bool {
	for i := 0; i < len(g1); i++ {
		for j := 0; j < len(g2); j++ {
			if g1[i] == g2[j] {
				return true
			}
		}
	}
	return false
}

// IsHemizygousEquivalent reports whether a single-allele call and a doubled
// call carry the same base (e.g. T and TT). The argument order does not matter.
func IsHemizygousEquivalent(g1, g2 string) bool {
	switch {
	case len(g1) == 1 && len(g2) == 2:
		return g2[0] == g1[0] && g2[1] == g1[0]
	case len(g1) == 2 && len(g2) == 1:
		return g1[0] == g2[0] && g1[1] == g2[0]
	}
	return false
}

// Equivalent reports whether two calls on chrom represent the same biological
// genotype despite differing textual form. Rules, first match wins:
//
//  1. identical calls (all no-call forms are identical to each other)
//  2. on X, Y and MT, a single-allele call against a doubled call is decided
//     by hemizygous widening alone
//  3. the pair is one of the canonical orientation swaps
//  4. both are heterozygous with the same two alleles in any order
//
// Equivalent is reflexive and symmetric.
func Equivalent(g1, g2, chrom string) bool {
	if Canonical(g1) == Canonical(g2) {
		return true
	}
	if IsSexChromosome(chrom) && len(g1) != len(g2) {
		return IsHemizygousEquivalent(g1, g2)
	}
	if IsOrientationSwap(g1, g2) {
		return true
	}
	return IsHeterozygous(g1) && IsHeterozygous(g2) && SortAlleles(g1) == SortAlleles(g2)
}

// Normalize rewrites a secondary-source call into the representation used for
// comparison and output.
//
// No-calls collapse to NoCall. A single allele on X is doubled; on Y it is
// kept as is. When flip is set every heterozygous call is re-oriented: the
// detected pattern's From becomes its To, and any other heterozygous call has
// its alleles reversed.
//
// Without flip, Normalize is idempotent. The flip itself is an involution and
// must be applied at most once per call.
func Normalize(g, chrom string, flip bool, pattern SwapPattern) string {
	if IsNoCall(g) {
		return NoCall
	}

	if len(g) == 1 {
		switch chrom {
		case ChromX:
			return g + g
		case ChromY:
			return g
		}
	}

	if flip && IsHeterozygous(g) {
		if !pattern.IsZero() && g == pattern.From {
			return pattern.To
		}
		return Reverse(g)
	}

	return g
}
