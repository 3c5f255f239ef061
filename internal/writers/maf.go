// internal/writers/maf.go
package writers

import (
	"fmt"
	"io"

	"maftools-core/maf"
)

// WriteError wraps a sink failure together with the number of blocks that
// made it out before the failure, so the caller can report partial progress.
type WriteError struct {
	Blocks int
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write failed after %d blocks: %v", e.Blocks, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// StartItemWriter spins up a writer goroutine for maf.Items. Close the
// returned channel when done and read the error channel to join; it yields
// nil on success or a *WriteError. A broken pipe still surfaces as a
// *WriteError so the caller can decide to suppress it via IsBrokenPipe.
func StartItemWriter(out io.Writer, bufSize int) (chan<- maf.Item, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan maf.Item, bufSize)
	done := make(chan error, 1)

	go func() {
		w := maf.NewWriter(out)
		for item := range in {
			if err := w.WriteItem(item); err != nil {
				// Keep draining so producers never block on a dead sink.
				for range in {
				}
				done <- &WriteError{Blocks: w.BlocksWritten(), Err: err}
				return
			}
		}
		if err := w.Flush(); err != nil && !IsBrokenPipe(err) {
			done <- &WriteError{Blocks: w.BlocksWritten(), Err: err}
			return
		}
		done <- nil
	}()

	return in, done
}
