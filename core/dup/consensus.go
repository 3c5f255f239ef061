// core/dup/consensus.go
package dup

import (
	"fmt"

	"maftools-core/maf"
)

// Mode selects how a duplicate group's columns are collapsed into one base
// call per offset.
type Mode int

const (
	// Consensus keeps the majority base among the duplicates, breaking
	// ties with the rest of the alignment column and finally with a fixed
	// symbol precedence.
	Consensus Mode = iota
	// Unanimity keeps a base only when every duplicate agrees on it, and
	// writes N otherwise.
	Unanimity
	// Mask discards base content entirely: every column that has any base
	// among the duplicates becomes N.
	Mask
)

func (m Mode) String() string {
	switch m {
	case Consensus:
		return "consensus"
	case Unanimity:
		return "unanimity"
	case Mask:
		return "mask"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a CLI mode string onto a Mode. Called before any block is
// processed so a typo fails the run up front.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "consensus":
		return Consensus, nil
	case "unanimity":
		return Unanimity, nil
	case "mask":
		return Mask, nil
	}
	return 0, fmt.Errorf("dup: invalid merge mode %q (want consensus, unanimity or mask)", s)
}

const gap = '-'

// bases in tie-break precedence order.
var bases = [5]byte{'A', 'C', 'G', 'T', 'N'}

// baseCounts tallies the five recognized symbols, case-insensitively. Gaps
// are never counted.
type baseCounts [5]int

func baseIndex(c byte) int {
	switch c {
	case 'A', 'a':
		return 0
	case 'C', 'c':
		return 1
	case 'G', 'g':
		return 2
	case 'T', 't':
		return 3
	case 'N', 'n':
		return 4
	}
	return -1
}

func (bc *baseCounts) add(c byte) {
	if i := baseIndex(c); i >= 0 {
		bc[i]++
	}
}

func (bc baseCounts) plus(o baseCounts) baseCounts {
	for i := range bc {
		bc[i] += o[i]
	}
	return bc
}

func (bc baseCounts) total() int {
	n := 0
	for _, c := range bc {
		n += c
	}
	return n
}

// winner returns the most frequent base; on equal counts the earlier base in
// the A < C < G < T < N precedence wins, so the result never depends on
// processing order.
func (bc baseCounts) winner() byte {
	best := 0
	for i := 1; i < len(bc); i++ {
		if bc[i] > bc[best] {
			best = i
		}
	}
	return bases[best]
}

// A column either holds gaps only, a single agreed base, or a contested set
// of bases that needs a vote.
type voteKind int

const (
	voteGap voteKind = iota
	voteSymbol
	voteNeedsVote
)

type vote struct {
	kind   voteKind
	sym    byte
	counts baseCounts
}

// classify inspects one column of a duplicate group, ignoring gaps.
func classify(members []*maf.AlignedEntry, offset int) vote {
	var counts baseCounts
	for _, m := range members {
		counts.add(m.Alignment[offset])
	}
	if counts.total() == 0 {
		return vote{kind: voteGap}
	}
	distinct, sym := 0, byte(0)
	for i, n := range counts {
		if n > 0 {
			distinct++
			sym = bases[i]
		}
	}
	if distinct == 1 {
		return vote{kind: voteSymbol, sym: sym}
	}
	return vote{kind: voteNeedsVote, counts: counts}
}

// Resolve replaces every duplicate group in the block with one synthesized
// entry, placed where the group's first member was; the remaining members
// are removed and everything else passes through untouched. The input block
// is not modified.
//
// The synthesized entry takes its coordinates (Src, Start, AlignedLength,
// Strand, SrcSize) from the first group member; i-line context does not
// survive a merge.
func Resolve(b *maf.Block, groups []Group, mode Mode) (*maf.Block, error) {
	switch mode {
	case Consensus, Unanimity, Mask:
	default:
		return nil, fmt.Errorf("dup: invalid merge mode %d", int(mode))
	}
	if len(groups) == 0 {
		return b, nil
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	memberOf := map[int]int{}
	for gi, g := range groups {
		for _, idx := range g.Indexes {
			if idx < 0 || idx >= len(b.Entries) {
				return nil, fmt.Errorf("dup: group %s references entry %d of %d", g.Species, idx, len(b.Entries))
			}
			if _, ok := b.Entries[idx].(*maf.AlignedEntry); !ok {
				return nil, fmt.Errorf("dup: group %s references unaligned entry %d", g.Species, idx)
			}
			memberOf[idx] = gi
		}
	}

	width := b.Width()

	// The tie-break tally: every non-duplicate entry's vote per column.
	// Other duplicate groups never vote.
	var rest []baseCounts
	if mode == Consensus {
		rest = make([]baseCounts, width)
		for idx, entry := range b.Entries {
			a, ok := entry.(*maf.AlignedEntry)
			if !ok {
				continue
			}
			if _, isDup := memberOf[idx]; isDup {
				continue
			}
			for i, c := range a.Alignment {
				rest[i].add(c)
			}
		}
	}

	merged := make([]*maf.AlignedEntry, len(groups))
	for gi, g := range groups {
		members := make([]*maf.AlignedEntry, len(g.Indexes))
		for i, idx := range g.Indexes {
			members[i] = b.Entries[idx].(*maf.AlignedEntry)
		}
		merged[gi] = mergeGroup(members, rest, mode, width)
	}

	out := &maf.Block{Metadata: b.Metadata, Entries: make([]maf.BlockEntry, 0, len(b.Entries))}
	for idx, entry := range b.Entries {
		gi, isDup := memberOf[idx]
		switch {
		case !isDup:
			out.Entries = append(out.Entries, entry)
		case idx == groups[gi].Indexes[0]:
			out.Entries = append(out.Entries, merged[gi])
		}
	}
	return out, nil
}

func mergeGroup(members []*maf.AlignedEntry, rest []baseCounts, mode Mode, width int) *maf.AlignedEntry {
	first := members[0]
	out := &maf.AlignedEntry{
		Src:           first.Src,
		Start:         first.Start,
		AlignedLength: first.AlignedLength,
		Strand:        first.Strand,
		SrcSize:       first.SrcSize,
		Alignment:     make([]byte, width),
	}
	for i := 0; i < width; i++ {
		v := classify(members, i)
		var c byte
		switch {
		case v.kind == voteGap:
			c = gap
		case mode == Mask:
			c = 'N'
		case v.kind == voteSymbol:
			c = v.sym
		case mode == Unanimity:
			c = 'N'
		default: // Consensus, contested column
			c = v.counts.plus(rest[i]).winner()
		}
		out.Alignment[i] = c
	}
	return out
}
