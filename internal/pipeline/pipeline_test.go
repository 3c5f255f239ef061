// internal/pipeline/pipeline_test.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"maftools-core/maf"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	items []maf.Item
	err   error
	pos   int
}

func (s *fakeSource) Next() (maf.Item, error) {
	if s.pos < len(s.items) {
		item := s.items[s.pos]
		s.pos++
		return item, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return nil, io.EOF
}

func numberedBlock(i int) *maf.Block {
	return &maf.Block{Metadata: map[string]string{"id": strconv.Itoa(i)}}
}

// blockID runs on the collector goroutine, so it reports a bogus id rather
// than failing the test directly.
func blockID(item maf.Item) int {
	b, ok := item.(*maf.Block)
	if !ok {
		return -1
	}
	id, err := strconv.Atoi(b.Metadata["id"])
	if err != nil {
		return -1
	}
	return id
}

// Uneven per-block work must not reorder the output stream.
func TestRunPreservesInputOrder(t *testing.T) {
	const n = 100
	src := &fakeSource{}
	for i := 0; i < n; i++ {
		src.items = append(src.items, numberedBlock(i))
	}

	var got []int
	err := Run(context.Background(), Config{Threads: 4}, src,
		func(b *maf.Block) ([]maf.Item, error) {
			id, _ := strconv.Atoi(b.Metadata["id"])
			time.Sleep(time.Duration(id%5) * time.Millisecond)
			return []maf.Item{b}, nil
		},
		func(item maf.Item) error {
			got = append(got, blockID(item))
			return nil
		})
	require.NoError(t, err)
	require.Len(t, got, n)
	for i, id := range got {
		require.Equal(t, i, id, "output out of order at %d", i)
	}
}

func TestRunKeepsCommentsInPlace(t *testing.T) {
	src := &fakeSource{items: []maf.Item{
		maf.Comment("head"),
		numberedBlock(1),
		maf.Comment("middle"),
		numberedBlock(2),
	}}

	var got []string
	err := Run(context.Background(), Config{Threads: 3}, src,
		func(b *maf.Block) ([]maf.Item, error) {
			return []maf.Item{b}, nil
		},
		func(item maf.Item) error {
			switch v := item.(type) {
			case maf.Comment:
				got = append(got, "#"+string(v))
			case *maf.Block:
				got = append(got, v.Metadata["id"])
			}
			return nil
		})
	require.NoError(t, err)
	require.Equal(t, []string{"#head", "1", "#middle", "2"}, got)
}

// A transform may fan one block out to several items or drop it entirely.
func TestRunTransformFanOutAndDrop(t *testing.T) {
	src := &fakeSource{items: []maf.Item{numberedBlock(0), numberedBlock(1), numberedBlock(2)}}

	var got []int
	err := Run(context.Background(), Config{Threads: 2}, src,
		func(b *maf.Block) ([]maf.Item, error) {
			id, _ := strconv.Atoi(b.Metadata["id"])
			if id == 1 {
				return nil, nil
			}
			return []maf.Item{b, b}, nil
		},
		func(item maf.Item) error {
			got = append(got, blockID(item))
			return nil
		})
	require.NoError(t, err)
	require.Equal(t, []int{0, 0, 2, 2}, got)
}

func TestRunTransformError(t *testing.T) {
	boom := errors.New("boom")
	for _, threads := range []int{1, 4} {
		t.Run(fmt.Sprintf("threads=%d", threads), func(t *testing.T) {
			src := &fakeSource{}
			for i := 0; i < 20; i++ {
				src.items = append(src.items, numberedBlock(i))
			}
			err := Run(context.Background(), Config{Threads: threads}, src,
				func(b *maf.Block) ([]maf.Item, error) {
					if b.Metadata["id"] == "7" {
						return nil, boom
					}
					return []maf.Item{b}, nil
				},
				func(maf.Item) error { return nil })
			require.ErrorIs(t, err, boom)
		})
	}
}

func TestRunEmitError(t *testing.T) {
	sink := errors.New("sink closed")
	for _, threads := range []int{1, 4} {
		t.Run(fmt.Sprintf("threads=%d", threads), func(t *testing.T) {
			src := &fakeSource{}
			for i := 0; i < 10; i++ {
				src.items = append(src.items, numberedBlock(i))
			}
			n := 0
			err := Run(context.Background(), Config{Threads: threads}, src,
				func(b *maf.Block) ([]maf.Item, error) { return []maf.Item{b}, nil },
				func(maf.Item) error {
					n++
					if n > 3 {
						return sink
					}
					return nil
				})
			require.ErrorIs(t, err, sink)
		})
	}
}

// Read errors beat transform errors: everything after a corrupt block is
// untrustworthy.
func TestRunReadErrorTakesPrecedence(t *testing.T) {
	readErr := errors.New("bad line")
	boom := errors.New("boom")
	src := &fakeSource{
		items: []maf.Item{numberedBlock(0), numberedBlock(1)},
		err:   readErr,
	}
	err := Run(context.Background(), Config{Threads: 4}, src,
		func(b *maf.Block) ([]maf.Item, error) {
			if b.Metadata["id"] == "1" {
				return nil, boom
			}
			return []maf.Item{b}, nil
		},
		func(maf.Item) error { return nil })
	require.ErrorIs(t, err, readErr)
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{}
	for i := 0; i < 50; i++ {
		src.items = append(src.items, numberedBlock(i))
	}
	err := Run(ctx, Config{Threads: 4}, src,
		func(b *maf.Block) ([]maf.Item, error) { return []maf.Item{b}, nil },
		func(maf.Item) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunSequentialMatchesParallel(t *testing.T) {
	build := func() *fakeSource {
		return &fakeSource{items: []maf.Item{
			maf.Comment("c"),
			numberedBlock(0),
			numberedBlock(1),
		}}
	}
	collect := func(threads int) []string {
		var got []string
		err := Run(context.Background(), Config{Threads: threads}, build(),
			func(b *maf.Block) ([]maf.Item, error) { return []maf.Item{b}, nil },
			func(item maf.Item) error {
				got = append(got, fmt.Sprintf("%T", item))
				return nil
			})
		require.NoError(t, err)
		return got
	}
	require.Equal(t, collect(1), collect(8))
}
