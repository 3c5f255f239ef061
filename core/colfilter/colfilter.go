// core/colfilter/colfilter.go

// Package colfilter cuts alignment blocks down to the columns whose
// reference positions fall inside a set of ranges, emitting one sub-block
// per contiguous run of kept columns.
package colfilter

import (
	"fmt"

	"maftools-core/interval"
	"maftools-core/maf"
)

// Run is a contiguous window of block columns, by offset.
type Run struct {
	Start  int
	Length int
}

// Runs walks the reference entry's columns against the range set and returns
// the runs of columns to keep. The reference must be on the + strand: run
// boundaries are computed in ascending reference coordinates.
func Runs(ref *maf.AlignedEntry, set *interval.Set) ([]Run, error) {
	if ref.Strand != maf.Plus {
		return nil, fmt.Errorf("colfilter: reference entry %s is on the - strand", ref.Src)
	}
	_, chrom := maf.SplitSrc(ref.Src)
	relevant := set.Overlapping(interval.Range{
		Seq:   chrom,
		Start: ref.Start,
		End:   ref.Start + ref.AlignedLength,
	})

	var runs []Run
	next := 0
	var current *interval.Range
	if next < len(relevant) {
		current = &relevant[next]
		next++
	}
	pos := ref.Start
	wasWithinRun := false
	for i, c := range ref.Alignment {
		for current != nil && current.Precedes(chrom, pos) {
			if next < len(relevant) {
				current = &relevant[next]
				next++
			} else {
				current = nil
			}
		}
		if current == nil || current.Succeeds(chrom, ref.Start+ref.AlignedLength) {
			break
		}
		withinRun := false
		if c != '-' {
			if current.Overlaps(chrom, pos) {
				if wasWithinRun {
					runs[len(runs)-1].Length++
				} else {
					runs = append(runs, Run{Start: i, Length: 1})
				}
				withinRun = true
			}
			pos++
		}
		wasWithinRun = withinRun
	}
	return runs, nil
}

// FilterEntry slices one entry down to a run of columns, recomputing its
// start and aligned length from the gaps outside and inside the window.
func FilterEntry(e *maf.AlignedEntry, run Run) *maf.AlignedEntry {
	var beforeOffset, insideOffset, alignedLength uint64
	for _, c := range e.Alignment[:run.Start] {
		if c != '-' {
			beforeOffset++
		}
	}
	window := e.Alignment[run.Start : run.Start+run.Length]
	for _, c := range window {
		if c != '-' {
			break
		}
		insideOffset++
	}
	for _, c := range window {
		if c != '-' {
			alignedLength++
		}
	}
	return &maf.AlignedEntry{
		Src:           e.Src,
		Start:         e.Start + beforeOffset + insideOffset,
		AlignedLength: alignedLength,
		Strand:        e.Strand,
		SrcSize:       e.SrcSize,
		Alignment:     append([]byte(nil), window...),
	}
}

// FilterBlock applies one run to every aligned entry of the block.
// Unaligned entries and i-line context do not survive filtering.
func FilterBlock(b *maf.Block, run Run) *maf.Block {
	out := &maf.Block{Metadata: b.Metadata}
	for _, e := range b.AlignedEntries() {
		out.Entries = append(out.Entries, FilterEntry(e, run))
	}
	return out
}

// Apply filters one block against the range set, returning zero or more
// sub-blocks. Blocks without aligned entries vanish.
func Apply(b *maf.Block, set *interval.Set) ([]*maf.Block, error) {
	aligned := b.AlignedEntries()
	if len(aligned) == 0 {
		return nil, nil
	}
	runs, err := Runs(aligned[0], set)
	if err != nil {
		return nil, err
	}
	out := make([]*maf.Block, 0, len(runs))
	for _, run := range runs {
		out = append(out, FilterBlock(b, run))
	}
	return out, nil
}
