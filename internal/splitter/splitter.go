// internal/splitter/splitter.go
package splitter

import (
	"fmt"
	"path/filepath"

	"github.com/google/renameio/v2"

	"maftools-core/maf"
)

// DefaultMaxLength is the per-file cap on summed reference-aligned length.
const DefaultMaxLength = 100000

// Splitter shards a MAF stream into one file per run of blocks that share a
// reference chromosome, rolling to a fresh file whenever the accumulated
// reference length would exceed maxLength. Files are written through
// pending temp files and only renamed into place when complete, so readers
// never observe a half-written shard.
type Splitter struct {
	dir       string
	maxLength uint64

	chrom  string
	length uint64
	file   *renameio.PendingFile
	w      *maf.Writer
}

func New(dir string, maxLength uint64) *Splitter {
	if maxLength == 0 {
		maxLength = DefaultMaxLength
	}
	return &Splitter{dir: dir, maxLength: maxLength}
}

// Add routes one block to the current shard, opening a new one on a
// chromosome switch or when the shard is full. Blocks without an aligned
// reference entry are dropped since they cannot be placed.
func (s *Splitter) Add(b *maf.Block) error {
	aligned := b.AlignedEntries()
	if len(aligned) == 0 {
		return nil
	}
	ref := aligned[0]
	_, chrom := maf.SplitSrc(ref.Src)
	if s.file == nil || chrom != s.chrom || s.length+ref.AlignedLength > s.maxLength {
		if err := s.roll(chrom, ref.Start); err != nil {
			return err
		}
	}
	s.length += ref.AlignedLength
	return s.w.WriteItem(b)
}

// roll finalizes the current shard and opens <chrom>.<start>.maf.
func (s *Splitter) roll(chrom string, start uint64) error {
	if err := s.finish(); err != nil {
		return err
	}
	path := filepath.Join(s.dir, fmt.Sprintf("%s.%d.maf", chrom, start))
	f, err := renameio.NewPendingFile(path)
	if err != nil {
		return err
	}
	s.file = f
	s.w = maf.NewWriter(f)
	s.chrom = chrom
	s.length = 0
	return s.w.WriteItem(maf.Comment("#maf version=1"))
}

func (s *Splitter) finish() error {
	if s.file == nil {
		return nil
	}
	if err := s.w.Flush(); err != nil {
		_ = s.file.Cleanup()
		return err
	}
	err := s.file.CloseAtomicallyReplace()
	s.file = nil
	s.w = nil
	return err
}

// Close flushes and publishes the last shard.
func (s *Splitter) Close() error {
	return s.finish()
}
