// core/maf/writer.go
package maf

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// Writer serializes Items back to MAF text. Field order, symbol case and
// entry order are preserved exactly; metadata keys are emitted sorted so the
// same block always renders the same bytes.
type Writer struct {
	bw     *bufio.Writer
	blocks int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

func (w *Writer) WriteItem(item Item) error {
	switch v := item.(type) {
	case Comment:
		_, err := fmt.Fprintf(w.bw, "#%s\n", string(v))
		return err
	case *Block:
		if err := w.writeBlock(v); err != nil {
			return err
		}
		w.blocks++
		return nil
	default:
		return fmt.Errorf("maf: unknown item type %T", item)
	}
}

func (w *Writer) writeBlock(b *Block) error {
	if _, err := w.bw.WriteString("a"); err != nil {
		return err
	}
	keys := make([]string, 0, len(b.Metadata))
	for k := range b.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w.bw, " %s=%s", k, b.Metadata[k]); err != nil {
			return err
		}
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return err
	}
	for _, entry := range b.Entries {
		switch e := entry.(type) {
		case *AlignedEntry:
			if _, err := fmt.Fprintf(w.bw, "s %s %d %d %s %d %s\n",
				e.Src, e.Start, e.AlignedLength, e.Strand, e.SrcSize, e.Alignment); err != nil {
				return err
			}
			if c := e.Context; c != nil {
				if _, err := fmt.Fprintf(w.bw, "i %s %c %d %c %d\n",
					e.Src, c.LeftStatus, c.LeftCount, c.RightStatus, c.RightCount); err != nil {
					return err
				}
			}
		case *UnalignedEntry:
			if _, err := fmt.Fprintf(w.bw, "e %s %d %d %s %d %c\n",
				e.Src, e.Start, e.Size, e.Strand, e.SrcSize, e.Status); err != nil {
				return err
			}
		default:
			return fmt.Errorf("maf: unknown entry type %T", entry)
		}
	}
	return w.bw.WriteByte('\n')
}

func (w *Writer) Flush() error { return w.bw.Flush() }

// BlocksWritten reports how many blocks were serialized so far; on a write
// failure it tells the operator how much output is trustworthy.
func (w *Writer) BlocksWritten() int { return w.blocks }
