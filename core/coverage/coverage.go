// core/coverage/coverage.go

// Package coverage counts, per query genome, the reference positions that
// the genome aligns to across a MAF stream.
package coverage

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"maftools-core/interval"
	"maftools-core/maf"
)

// Calculator accumulates per-genome coverage of a reference genome, block by
// block. It is the only block-spanning state in the repo; the merge and
// filter transforms stay stateless.
type Calculator struct {
	refGenome string
	// ranges restricts counting to these reference regions; nil counts
	// everything.
	ranges   *interval.Set
	coverage map[string]uint64
	// refLengths maps reference sequence name -> source size, for the
	// denominator when no ranges are given.
	refLengths map[string]uint64
}

func New(refGenome string, ranges *interval.Set) *Calculator {
	return &Calculator{
		refGenome:  refGenome,
		ranges:     ranges,
		coverage:   map[string]uint64{},
		refLengths: map[string]uint64{},
	}
}

// AddBlock counts one block. A genome gains a base of coverage for every
// reference column where the reference base is aligned, the position passes
// the range filter, and at least one of the genome's entries is aligned.
func (c *Calculator) AddBlock(b *maf.Block) {
	bySpecies := map[string][]*maf.AlignedEntry{}
	var order []string
	for _, e := range b.AlignedEntries() {
		species := e.Species()
		if _, seen := bySpecies[species]; !seen {
			order = append(order, species)
		}
		bySpecies[species] = append(bySpecies[species], e)
	}
	for _, ref := range bySpecies[c.refGenome] {
		c.addWithRef(ref, order, bySpecies)
	}
}

func (c *Calculator) addWithRef(ref *maf.AlignedEntry, order []string, bySpecies map[string][]*maf.AlignedEntry) {
	_, chrom := maf.SplitSrc(ref.Src)
	var refOffset uint64
	for i, base := range ref.Alignment {
		if base == '-' {
			continue
		}
		var refPos uint64
		if ref.Strand == maf.Plus {
			refPos = ref.Start + refOffset
		} else {
			refPos = ref.SrcSize - ref.Start - refOffset
		}
		refOffset++
		if !c.inRange(chrom, refPos) {
			continue
		}
		for _, species := range order {
			for _, e := range bySpecies[species] {
				if e.Alignment[i] != '-' {
					c.coverage[species]++
					break
				}
			}
		}
	}
	if _, ok := c.refLengths[ref.Src]; !ok {
		c.refLengths[ref.Src] = ref.SrcSize
	}
}

func (c *Calculator) inRange(chrom string, pos uint64) bool {
	if c.ranges == nil {
		return true
	}
	return c.ranges.Contains(chrom, pos)
}

// Coverage returns the accumulated base count for one genome.
func (c *Calculator) Coverage(genome string) (uint64, bool) {
	n, ok := c.coverage[genome]
	return n, ok
}

// Report writes the TSV summary. Rows are sorted by genome so the same input
// always renders the same report.
func (c *Calculator) Report(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "# referenceSpecies/Chr\tquerySpecies/Chr\tlengthOfReference\tpercentCoverage\tbasesCoverage"); err != nil {
		return err
	}
	var total uint64
	if c.ranges == nil {
		for _, l := range c.refLengths {
			total += l
		}
	} else {
		total = c.ranges.TotalLength()
	}
	genomes := make([]string, 0, len(c.coverage))
	for g := range c.coverage {
		genomes = append(genomes, g)
	}
	sort.Strings(genomes)
	for _, g := range genomes {
		n := c.coverage[g]
		pct := strconv.FormatFloat(float64(n)/float64(total), 'g', -1, 64)
		if _, err := fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\n", c.refGenome, g, total, pct, n); err != nil {
			return err
		}
	}
	return nil
}
