// core/interval/interval.go

// Package interval holds half-open genomic ranges in an ordered set and
// answers point and overlap queries against them.
package interval

import (
	"github.com/google/btree"
)

// Range is a half-open [Start, End) region on a sequence.
type Range struct {
	Seq   string
	Start uint64
	End   uint64
}

var _ btree.LessFunc[Range] = Range.Less

// Less orders ranges by (Seq, Start, End).
func (r Range) Less(o Range) bool {
	if r.Seq != o.Seq {
		return r.Seq < o.Seq
	}
	if r.Start != o.Start {
		return r.Start < o.Start
	}
	return r.End < o.End
}

// Overlaps reports whether the position falls inside the range.
func (r Range) Overlaps(chrom string, pos uint64) bool {
	return r.Seq == chrom && r.Start <= pos && r.End > pos
}

// Precedes reports whether the range lies entirely before the position.
func (r Range) Precedes(chrom string, pos uint64) bool {
	return r.Seq < chrom || r.End <= pos
}

// Succeeds reports whether the range lies entirely after the position.
func (r Range) Succeeds(chrom string, pos uint64) bool {
	return r.Seq > chrom || r.Start > pos
}

// Set is an ordered collection of ranges. Ranges may overlap each other;
// queries are resolved against the sorted order.
type Set struct {
	tree *btree.BTreeG[Range]
}

const treeDegree = 2

func NewSet() *Set {
	return &Set{tree: btree.NewG(treeDegree, Range.Less)}
}

func (s *Set) Insert(r Range) { s.tree.ReplaceOrInsert(r) }

func (s *Set) Len() int { return s.tree.Len() }

// Contains reports whether any range covers the position. It probes the
// greatest range starting at or before the position, so a long range
// shadowed by a later short one is not found; callers keep BED input
// reasonably disjoint.
func (s *Set) Contains(chrom string, pos uint64) bool {
	pivot := Range{Seq: chrom, Start: pos + 1, End: pos + 1}
	found := false
	s.tree.DescendLessOrEqual(pivot, func(r Range) bool {
		found = r.Overlaps(chrom, pos)
		return false
	})
	return found
}

// Overlapping returns the ranges that may intersect r, in order: the nearest
// predecessor plus everything between r and its end position.
func (s *Set) Overlapping(r Range) []Range {
	var out []Range
	s.tree.DescendLessOrEqual(r, func(item Range) bool {
		if item.Less(r) {
			out = append(out, item)
		}
		return false
	})
	end := Range{Seq: r.Seq, Start: r.End, End: r.End}
	s.tree.AscendGreaterOrEqual(r, func(item Range) bool {
		if end.Less(item) {
			return false
		}
		out = append(out, item)
		return true
	})
	return out
}

// TotalLength sums the lengths of all ranges in the set.
func (s *Set) TotalLength() uint64 {
	var total uint64
	s.tree.Ascend(func(r Range) bool {
		total += r.End - r.Start
		return true
	})
	return total
}
