package genotype

// SwapPattern is an ordered (primary, secondary) pair of heterozygous calls
// that differ only in strand orientation, e.g. CT reported as TC.
type SwapPattern struct {
	From string
	To   string
}

// IsZero returns true when no pattern is set.
func (p SwapPattern) IsZero() bool {
	return p.From == "" && p.To == ""
}

// Less orders patterns lexicographically by From, then To.
func (p SwapPattern) Less(o SwapPattern) bool {
	if p.From != o.From {
		return p.From < o.From
	}
	return p.To < o.To
}

func (p SwapPattern) String() string {
	return p.From + " → " + p.To
}

// orientationSwaps holds the eight single-swap pairs, both directions.
var orientationSwaps = map[SwapPattern]bool{
	{"CT", "TC"}: true, {"TC", "CT"}: true,
	{"AG", "GA"}: true, {"GA", "AG"}: true,
	{"GT", "TG"}: true, {"TG", "GT"}: true,
	{"AC", "CA"}: true, {"CA", "AC"}: true,
}

// IsOrientationSwap reports whether (g1, g2) is one of the canonical
// orientation-swap pairs.
func IsOrientationSwap(g1, g2 string) bool {
	return orientationSwaps[SwapPattern{From: g1, To: g2}]
}
