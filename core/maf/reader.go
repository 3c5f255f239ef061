// core/maf/reader.go
package maf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseError reports a malformed MAF stream. Parsing stops at the first one;
// a corrupt block must never produce best-effort output downstream.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("maf: line %d: %s", e.Line, e.Msg)
}

// Reader pulls Items (comments and blocks) out of a MAF text stream, one
// paragraph at a time. Next returns io.EOF at end of stream and never
// returns a partially validated block: width and alphabet are checked here
// so downstream column math can assume rectangular blocks.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // alignment rows can be very long
	sc.Buffer(make([]byte, 64*1024), maxLine)
	return &Reader{sc: sc}
}

func (r *Reader) scan() bool {
	if !r.sc.Scan() {
		return false
	}
	r.line++
	return true
}

func (r *Reader) errf(format string, a ...any) error {
	return &ParseError{Line: r.line, Msg: fmt.Sprintf(format, a...)}
}

// Next returns the next Comment or *Block, io.EOF at end of input, or the
// first scan/parse error.
func (r *Reader) Next() (Item, error) {
	for r.scan() {
		line := strings.TrimRight(r.sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		switch {
		case line[0] == '#':
			return Comment(line[1:]), nil
		case line[0] == 'a' && (len(line) == 1 || line[1] == ' ' || line[1] == '\t'):
			return r.parseBlock(line)
		default:
			return nil, r.errf("unexpected line %q", line)
		}
	}
	if err := r.sc.Err(); err != nil {
		return nil, fmt.Errorf("maf: read: %w", err)
	}
	return nil, io.EOF
}

// parseBlock consumes the paragraph following an "a" header line. A blank
// line or EOF terminates the block.
func (r *Reader) parseBlock(header string) (*Block, error) {
	b := &Block{Metadata: map[string]string{}}
	for _, pair := range strings.Fields(header)[1:] {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, r.errf("bad block metadata %q", pair)
		}
		b.Metadata[k] = v
	}

	width := -1
	for r.scan() {
		line := strings.TrimRight(r.sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			break
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "s":
			e, err := r.parseAligned(fields)
			if err != nil {
				return nil, err
			}
			if width == -1 {
				width = len(e.Alignment)
			} else if len(e.Alignment) != width {
				return nil, r.errf("entry %s has %d columns, block width is %d", e.Src, len(e.Alignment), width)
			}
			b.Entries = append(b.Entries, e)
		case "i":
			if err := r.attachContext(fields, b); err != nil {
				return nil, err
			}
		case "e":
			e, err := r.parseUnaligned(fields)
			if err != nil {
				return nil, err
			}
			b.Entries = append(b.Entries, e)
		default:
			return nil, r.errf("bad line type %q", fields[0])
		}
	}
	if err := r.sc.Err(); err != nil {
		return nil, fmt.Errorf("maf: read: %w", err)
	}
	return b, nil
}

func (r *Reader) parseAligned(fields []string) (*AlignedEntry, error) {
	if len(fields) != 7 {
		return nil, r.errf("s line has %d fields, want 7", len(fields))
	}
	start, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return nil, r.errf("invalid start %q", fields[2])
	}
	size, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil {
		return nil, r.errf("invalid aligned length %q", fields[3])
	}
	strand, err := ParseStrand(fields[4])
	if err != nil {
		return nil, r.errf("%v", err)
	}
	srcSize, err := strconv.ParseUint(fields[5], 10, 64)
	if err != nil {
		return nil, r.errf("invalid sequence size %q", fields[5])
	}
	alignment := []byte(fields[6])
	for _, c := range alignment {
		if !validSymbol(c) {
			return nil, r.errf("unrecognized alignment symbol %q in %s", string(c), fields[1])
		}
	}
	return &AlignedEntry{
		Src:           fields[1],
		Start:         start,
		AlignedLength: size,
		Strand:        strand,
		SrcSize:       srcSize,
		Alignment:     alignment,
	}, nil
}

// attachContext binds an "i" line to the immediately preceding "s" line.
func (r *Reader) attachContext(fields []string, b *Block) error {
	if len(fields) != 6 {
		return r.errf("i line has %d fields, want 6", len(fields))
	}
	leftStatus, err := ParseContextStatus(fields[2])
	if err != nil {
		return r.errf("%v", err)
	}
	leftCount, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil {
		return r.errf("invalid left count %q", fields[3])
	}
	rightStatus, err := ParseContextStatus(fields[4])
	if err != nil {
		return r.errf("%v", err)
	}
	rightCount, err := strconv.ParseUint(fields[5], 10, 64)
	if err != nil {
		return r.errf("invalid right count %q", fields[5])
	}
	if len(b.Entries) == 0 {
		return r.errf("i line cannot be first in block")
	}
	last, ok := b.Entries[len(b.Entries)-1].(*AlignedEntry)
	if !ok || last.Src != fields[1] {
		return r.errf("i line for %s must follow its s line", fields[1])
	}
	last.Context = &AlignedContext{
		LeftStatus:  leftStatus,
		LeftCount:   leftCount,
		RightStatus: rightStatus,
		RightCount:  rightCount,
	}
	return nil
}

func (r *Reader) parseUnaligned(fields []string) (*UnalignedEntry, error) {
	if len(fields) != 7 {
		return nil, r.errf("e line has %d fields, want 7", len(fields))
	}
	start, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return nil, r.errf("invalid start %q", fields[2])
	}
	size, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil {
		return nil, r.errf("invalid size %q", fields[3])
	}
	strand, err := ParseStrand(fields[4])
	if err != nil {
		return nil, r.errf("%v", err)
	}
	srcSize, err := strconv.ParseUint(fields[5], 10, 64)
	if err != nil {
		return nil, r.errf("invalid sequence size %q", fields[5])
	}
	status, err := ParseGapStatus(fields[6])
	if err != nil {
		return nil, r.errf("%v", err)
	}
	return &UnalignedEntry{
		Src:     fields[1],
		Start:   start,
		Size:    size,
		Strand:  strand,
		SrcSize: srcSize,
		Status:  status,
	}, nil
}
