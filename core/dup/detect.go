// core/dup/detect.go

// Package dup finds alignment-block entries that duplicate a species and
// collapses each duplicate group into a single synthesized entry using one
// of three column-wise merge strategies.
package dup

import (
	"maftools-core/maf"
)

// Group is the set of aligned entries within one block that share a species.
// Indexes are positions in Block.Entries, in file order, and always hold at
// least two members. Groups are disjoint by construction.
type Group struct {
	Species string
	Indexes []int
}

// FindGroups partitions a block's aligned entries by species and returns the
// groups with two or more members, ordered by the first appearance of their
// species. The block is not modified and the call cannot fail: ragged blocks
// are rejected by the reader before they get here.
func FindGroups(b *maf.Block) []Group {
	indexes := map[string][]int{}
	var order []string
	for i, entry := range b.Entries {
		a, ok := entry.(*maf.AlignedEntry)
		if !ok {
			continue
		}
		species := a.Species()
		if _, seen := indexes[species]; !seen {
			order = append(order, species)
		}
		indexes[species] = append(indexes[species], i)
	}
	var groups []Group
	for _, species := range order {
		if idx := indexes[species]; len(idx) >= 2 {
			groups = append(groups, Group{Species: species, Indexes: idx})
		}
	}
	return groups
}

// HasDuplicates reports whether any species appears more than once among the
// block's aligned entries.
func HasDuplicates(b *maf.Block) bool {
	seen := map[string]struct{}{}
	for _, entry := range b.Entries {
		a, ok := entry.(*maf.AlignedEntry)
		if !ok {
			continue
		}
		species := a.Species()
		if _, dup := seen[species]; dup {
			return true
		}
		seen[species] = struct{}{}
	}
	return false
}
