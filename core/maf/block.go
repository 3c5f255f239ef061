// core/maf/block.go
package maf

import (
	"fmt"
)

// Item is one unit of a MAF stream: either a Comment or a *Block.
type Item interface{ isItem() }

// Comment is a "#..." line with the leading '#' stripped.
type Comment string

func (Comment) isItem() {}

// Block is one alignment block: the "a" line metadata plus its entries in
// file order. The score, if present, lives in Metadata["score"] and is
// passed through untouched.
type Block struct {
	Metadata map[string]string
	Entries  []BlockEntry
}

func (*Block) isItem() {}

// BlockEntry is either an *AlignedEntry (s line) or an *UnalignedEntry
// (e line).
type BlockEntry interface{ isBlockEntry() }

// Strand of an aligned or unaligned region.
type Strand byte

const (
	Plus  Strand = '+'
	Minus Strand = '-'
)

func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+":
		return Plus, nil
	case "-":
		return Minus, nil
	}
	return 0, fmt.Errorf("invalid strand %q", s)
}

func (s Strand) String() string { return string(byte(s)) }

// ContextStatus is the single-letter status used on "i" lines. The letters
// are kept verbatim from the format (C, I, N, n, M, T).
type ContextStatus byte

const (
	StatusContiguous   ContextStatus = 'C'
	StatusInsertion    ContextStatus = 'I'
	StatusFirst        ContextStatus = 'N'
	StatusFirstBridged ContextStatus = 'n'
	StatusMissing      ContextStatus = 'M'
	StatusTandem       ContextStatus = 'T'
)

func ParseContextStatus(s string) (ContextStatus, error) {
	switch s {
	case "C", "I", "N", "n", "M", "T":
		return ContextStatus(s[0]), nil
	}
	return 0, fmt.Errorf("invalid context status %q", s)
}

// GapStatus is the single-letter status used on "e" lines.
type GapStatus byte

const (
	GapDeletion    GapStatus = 'C'
	GapInsertion   GapStatus = 'I'
	GapMissing     GapStatus = 'M'
	GapNewSequence GapStatus = 'n'
	// MULTIZ emits "T" even though the format docs say it cannot appear here.
	GapTandem GapStatus = 'T'
)

func ParseGapStatus(s string) (GapStatus, error) {
	switch s {
	case "C", "I", "M", "n", "T":
		return GapStatus(s[0]), nil
	}
	return 0, fmt.Errorf("invalid gap status %q", s)
}

// AlignedContext carries the "i" line that may follow an "s" line: what the
// sequence is doing immediately before and after this block.
type AlignedContext struct {
	LeftStatus  ContextStatus
	LeftCount   uint64
	RightStatus ContextStatus
	RightCount  uint64
}

// AlignedEntry is one "s" line: a source sequence's aligned slice within the
// block, gaps included.
type AlignedEntry struct {
	// Src is the full source sequence name, conventionally
	// "species.chromosome".
	Src string
	// Start of the aligned region within the source sequence.
	Start uint64
	// AlignedLength is the number of non-gap bases in Alignment.
	AlignedLength uint64
	Strand        Strand
	// SrcSize is the total length of the source sequence.
	SrcSize uint64
	// Alignment holds the aligned symbols; its length equals the block
	// width.
	Alignment []byte
	// Context is the optional "i" line attached to this entry.
	Context *AlignedContext
}

func (*AlignedEntry) isBlockEntry() {}

// Species returns the grouping key for this entry.
func (e *AlignedEntry) Species() string {
	species, _ := SplitSrc(e.Src)
	return species
}

// UnalignedEntry is one "e" line: a sequence bridged through this block by a
// chain without aligning in it.
type UnalignedEntry struct {
	Src     string
	Start   uint64
	Size    uint64
	Strand  Strand
	SrcSize uint64
	Status  GapStatus
}

func (*UnalignedEntry) isBlockEntry() {}

// AlignedEntries returns the block's aligned entries in file order.
func (b *Block) AlignedEntries() []*AlignedEntry {
	out := make([]*AlignedEntry, 0, len(b.Entries))
	for _, e := range b.Entries {
		if a, ok := e.(*AlignedEntry); ok {
			out = append(out, a)
		}
	}
	return out
}

// Width is the aligned-sequence length shared by every aligned entry, or 0
// for a block with no aligned entries.
func (b *Block) Width() int {
	for _, e := range b.Entries {
		if a, ok := e.(*AlignedEntry); ok {
			return len(a.Alignment)
		}
	}
	return 0
}

// gap is the alignment gap symbol.
const gap = '-'

func validSymbol(c byte) bool {
	switch c {
	case 'A', 'C', 'G', 'T', 'N', 'a', 'c', 'g', 't', 'n', gap:
		return true
	}
	return false
}

// Validate re-checks the block invariants the reader guarantees: every
// aligned entry has the same width and only recognized symbols. Consumers
// that compute column-wise results call this to fail loudly rather than
// produce garbage from a ragged block.
func (b *Block) Validate() error {
	width := -1
	for _, e := range b.Entries {
		a, ok := e.(*AlignedEntry)
		if !ok {
			continue
		}
		if width == -1 {
			width = len(a.Alignment)
		} else if len(a.Alignment) != width {
			return fmt.Errorf("block width mismatch: %s has %d columns, want %d", a.Src, len(a.Alignment), width)
		}
		for _, c := range a.Alignment {
			if !validSymbol(c) {
				return fmt.Errorf("unrecognized alignment symbol %q in %s", string(c), a.Src)
			}
		}
	}
	return nil
}
