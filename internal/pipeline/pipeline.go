// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sync"

	"maftools-core/maf"
)

// Config controls the transform pipeline.
type Config struct {
	Threads int // number of worker goroutines; <=0 means GOMAXPROCS
}

// ItemSource is the reading side of the pipeline, satisfied by *maf.Reader.
// Next returns io.EOF when the stream ends.
type ItemSource interface {
	Next() (maf.Item, error)
}

// Transform turns one alignment block into zero or more output items.
// Workers run transforms concurrently, so a Transform must not mutate
// shared state.
type Transform func(*maf.Block) ([]maf.Item, error)

// Run streams items from src through transform and hands the results to
// emit strictly in input order. Comments bypass the workers but keep their
// place in the stream. It returns the first error encountered; read errors
// take precedence since everything after a corrupt block is untrustworthy.
func Run(ctx context.Context, cfg Config, src ItemSource, transform Transform, emit func(maf.Item) error) error {
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.GOMAXPROCS(0)
	}
	if cfg.Threads == 1 {
		return runSequential(ctx, src, transform, emit)
	}

	type job struct {
		seq   int
		block *maf.Block
	}
	type result struct {
		seq   int
		items []maf.Item
		err   error
	}

	jobs := make(chan job, cfg.Threads*2)
	results := make(chan result, cfg.Threads*4)

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				items, err := transform(j.block)
				select {
				case results <- result{seq: j.seq, items: items, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Collector: reorder by sequence number before emitting.
	var (
		cerr error
		cwg  sync.WaitGroup
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		pending := make(map[int]result, cfg.Threads*4)
		next := 0
		for res := range results {
			pending[res.seq] = res
			for {
				r, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++
				if cerr != nil {
					continue
				}
				if r.err != nil {
					cerr = r.err
					continue
				}
				for _, item := range r.items {
					if err := emit(item); err != nil {
						cerr = err
						break
					}
				}
			}
		}
	}()

	// Feeder: assign sequence numbers in read order. Comments become
	// pre-resolved results so they never wait behind a worker.
	var readErr error
	seq := 0
feed:
	for {
		item, err := src.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				readErr = err
			}
			break
		}
		switch v := item.(type) {
		case *maf.Block:
			select {
			case jobs <- job{seq: seq, block: v}:
			case <-ctx.Done():
				break feed
			}
		default:
			select {
			case results <- result{seq: seq, items: []maf.Item{item}}:
			case <-ctx.Done():
				break feed
			}
		}
		seq++
	}

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if readErr != nil {
		return readErr
	}
	return cerr
}

func runSequential(ctx context.Context, src ItemSource, transform Transform, emit func(maf.Item) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		item, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		b, ok := item.(*maf.Block)
		if !ok {
			if err := emit(item); err != nil {
				return err
			}
			continue
		}
		items, err := transform(b)
		if err != nil {
			return err
		}
		for _, out := range items {
			if err := emit(out); err != nil {
				return err
			}
		}
	}
}
