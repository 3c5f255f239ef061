package maf

import "strings"

// SplitSrc splits a "species.chromosome" source name into its species and
// chromosome parts. The species is everything before the first '.', the
// chromosome everything after it (which may itself contain dots, e.g.
// "Rhesus.chr21_chr20" scaffolds). A name with no dot is all species and no
// chromosome.
//
// This is the only place that knows about the naming convention; every
// component that groups by species or reports by chromosome goes through it.
func SplitSrc(src string) (species, chrom string) {
	if i := strings.IndexByte(src, '.'); i >= 0 {
		return src[:i], src[i+1:]
	}
	return src, ""
}
