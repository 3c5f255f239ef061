// core/maf/reader_test.go
package maf

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func nextItem(t *testing.T, input string) Item {
	t.Helper()
	item, err := NewReader(strings.NewReader(input)).Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	return item
}

func mustBlock(t *testing.T, input string) *Block {
	t.Helper()
	b, ok := nextItem(t, input).(*Block)
	if !ok {
		t.Fatalf("expected a block")
	}
	return b
}

func TestReadBlockOnlySLines(t *testing.T) {
	input := `a meta1=val1 meta2=val2
s hg16.chr7    27707221 13 + 158545518 gcagctgaaaaca
s baboon         249182 12 -   4622798 gcagctgaa-aca
s mm4.chr6     53310102 12 + 151104725 ACAGCTGA-AATA

s this.line 0 1 + 1 A
`
	b := mustBlock(t, input)
	if got := len(b.Entries); got != 3 {
		t.Fatalf("want 3 entries (paragraph must end at the blank line), got %d", got)
	}
	if b.Metadata["meta1"] != "val1" || b.Metadata["meta2"] != "val2" {
		t.Errorf("bad metadata %v", b.Metadata)
	}
	e := b.Entries[1].(*AlignedEntry)
	if e.Src != "baboon" || e.Start != 249182 || e.AlignedLength != 12 ||
		e.Strand != Minus || e.SrcSize != 4622798 || string(e.Alignment) != "gcagctgaa-aca" {
		t.Errorf("bad entry %+v", e)
	}
	if b.Width() != 13 {
		t.Errorf("width = %d, want 13", b.Width())
	}
}

func TestReadBlockILines(t *testing.T) {
	input := `a
s panTro1.chr6 28869787 13 + 161576975 gcagctgaaaaca
i panTro1.chr6 N 0 C 0
s baboon         249182 13 +   4622798 gcagctgaaaaca
i baboon       I 234 n 19
`
	b := mustBlock(t, input)
	if len(b.Entries) != 2 {
		t.Fatalf("want 2 entries, got %d", len(b.Entries))
	}
	c := b.Entries[1].(*AlignedEntry).Context
	if c == nil {
		t.Fatal("context not attached")
	}
	if c.LeftStatus != StatusInsertion || c.LeftCount != 234 ||
		c.RightStatus != StatusFirstBridged || c.RightCount != 19 {
		t.Errorf("bad context %+v", c)
	}
}

func TestReadBlockELines(t *testing.T) {
	input := `a
s hg16.chr7    27707221 13 + 158545518 gcagctgaaaaca
e mm4.chr6     53310102 13 + 151104725 I
`
	b := mustBlock(t, input)
	if len(b.Entries) != 2 {
		t.Fatalf("want 2 entries, got %d", len(b.Entries))
	}
	e, ok := b.Entries[1].(*UnalignedEntry)
	if !ok {
		t.Fatalf("second entry should be unaligned, got %T", b.Entries[1])
	}
	if e.Src != "mm4.chr6" || e.Size != 13 || e.Status != GapInsertion {
		t.Errorf("bad e entry %+v", e)
	}
}

func TestReadComment(t *testing.T) {
	if got := nextItem(t, "##maf version=1\n"); got != Comment("#maf version=1") {
		t.Errorf("got %#v", got)
	}
	if got := nextItem(t, "#\n"); got != Comment("") {
		t.Errorf("blank comment: got %#v", got)
	}
}

func TestReadStream(t *testing.T) {
	input := `##maf version=1
a score=1.0
s hg16.chr7 0 3 + 10 ACG

a score=2.0
s hg16.chr7 3 3 + 10 TTT
`
	r := NewReader(strings.NewReader(input))
	var kinds []string
	for {
		item, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		switch item.(type) {
		case Comment:
			kinds = append(kinds, "comment")
		case *Block:
			kinds = append(kinds, "block")
		}
	}
	if got := strings.Join(kinds, ","); got != "comment,block,block" {
		t.Errorf("stream order = %s", got)
	}
}

func TestReadErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"unexpected line", "not a maf line\n"},
		{"bad metadata", "a score\ns hg.chr1 0 1 + 1 A\n"},
		{"bad strand", "a\ns hg.chr1 0 1 * 1 A\n"},
		{"bad start", "a\ns hg.chr1 x 1 + 1 A\n"},
		{"width mismatch", "a\ns hg.chr1 0 2 + 2 AC\ns mm.chr2 0 3 + 3 ACG\n"},
		{"bad symbol", "a\ns hg.chr1 0 2 + 2 AX\n"},
		{"short s line", "a\ns hg.chr1 0 2 + AC\n"},
		{"bad line type", "a\nq hg.chr1 0 2 + 2 AC\n"},
		{"i line first", "a\ni hg.chr1 N 0 C 0\n"},
		{"i line wrong src", "a\ns hg.chr1 0 1 + 1 A\ni mm.chr2 N 0 C 0\n"},
		{"bad gap status", "a\ne hg.chr1 0 1 + 1 Z\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewReader(strings.NewReader(tc.input)).Next()
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("want ParseError, got %v", err)
			}
			if perr.Line == 0 {
				t.Errorf("ParseError should carry a line number: %v", perr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	b := mustBlock(t, "a\ns hg.chr1 0 3 + 3 ACG\ns mm.chr2 0 3 + 3 AC-\n")
	if err := b.Validate(); err != nil {
		t.Fatalf("valid block rejected: %v", err)
	}
	b.Entries[1].(*AlignedEntry).Alignment = []byte("AC")
	if err := b.Validate(); err == nil {
		t.Fatal("ragged block accepted")
	}
	b.Entries[1].(*AlignedEntry).Alignment = []byte("AC@")
	if err := b.Validate(); err == nil {
		t.Fatal("bad symbol accepted")
	}
}
