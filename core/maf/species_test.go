package maf

import "testing"

func TestSplitSrc(t *testing.T) {
	cases := []struct {
		src, species, chrom string
	}{
		{"hg16.chr7", "hg16", "chr7"},
		{"Rhesus.chr21_chr20", "Rhesus", "chr21_chr20"},
		{"Fregata_magnificens.C5769372__2.0", "Fregata_magnificens", "C5769372__2.0"},
		{"baboon", "baboon", ""},
	}
	for _, tc := range cases {
		species, chrom := SplitSrc(tc.src)
		if species != tc.species || chrom != tc.chrom {
			t.Errorf("SplitSrc(%q) = %q, %q; want %q, %q", tc.src, species, chrom, tc.species, tc.chrom)
		}
	}
}
