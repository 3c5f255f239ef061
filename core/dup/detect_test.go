// core/dup/detect_test.go
package dup

import (
	"strings"
	"testing"

	"maftools-core/maf"
)

func mustBlock(t *testing.T, input string) *maf.Block {
	t.Helper()
	item, err := maf.NewReader(strings.NewReader(input)).Next()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b, ok := item.(*maf.Block)
	if !ok {
		t.Fatalf("expected a block, got %T", item)
	}
	return b
}

func TestFindGroups(t *testing.T) {
	b := mustBlock(t, `a
s Gallus_gallus.chr1 4432333 6 + 157682039 CAACAG
s Alca_torda.scaffold4709 42333 6 - 157682 CAACAG
s Gallus_gallus.chr2 999 6 + 157682039 CAACAG
s Alca_torda.scaffold12 41641 6 - 157682 CAACAG
s Taeniopygia_guttata.chr5 1 6 + 100 CAACAG
`)
	groups := FindGroups(b)
	if len(groups) != 2 {
		t.Fatalf("want 2 groups, got %d", len(groups))
	}
	// First-appearance order, indexes in file order.
	if groups[0].Species != "Gallus_gallus" || groups[1].Species != "Alca_torda" {
		t.Errorf("group order: %s, %s", groups[0].Species, groups[1].Species)
	}
	if got := groups[0].Indexes; len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("Gallus indexes = %v", got)
	}
	if got := groups[1].Indexes; len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("Alca indexes = %v", got)
	}
}

func TestFindGroupsNone(t *testing.T) {
	b := mustBlock(t, `a
s Eurypyga_helias.scaffold13804 27799 1 + 30980 G
s Eurystomus_gularis.scaffold6487 121546 1 + 203918 T
s Formicarius_rufipectus.scaffold473 3224110 1 - 3420713 T
`)
	if groups := FindGroups(b); len(groups) != 0 {
		t.Errorf("unexpected groups %v", groups)
	}
	if HasDuplicates(b) {
		t.Error("HasDuplicates = true for block without duplicates")
	}
}

func TestHasDuplicates(t *testing.T) {
	b := mustBlock(t, `a
s Gallus_gallus.chr1 4432333 6 + 157682039 CAACAG
s Alca_torda.scaffold4709 42333 6 - 157682 CAACAG
s Alca_torda.scaffold4709 41641 6 - 157682 CAACAG
`)
	if !HasDuplicates(b) {
		t.Error("HasDuplicates = false for a block with a duplicated species")
	}
}

func TestFindGroupsIgnoresUnalignedEntries(t *testing.T) {
	b := mustBlock(t, `a
s hg16.chr7 27707221 13 + 158545518 gcagctgaaaaca
e mm4.chr6 53310102 13 + 151104725 I
e mm4.chr7 53310102 13 + 151104725 I
`)
	if HasDuplicates(b) {
		t.Error("e lines must not form duplicate groups")
	}
	if groups := FindGroups(b); len(groups) != 0 {
		t.Errorf("unexpected groups %v", groups)
	}
}
