// internal/app/app.go
//
// Command wiring for the maf tool. Each subcommand is a thin cobra shell
// around the core packages; all of them speak the same positional contract
// (input path then output path, either defaulting to the standard streams)
// and the same exit codes: 0 ok, 1 malformed input, 2 usage, 3 write/IO.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"maftools-core/interval"
	"maftools-core/maf"
	"maftools/internal/pipeline"
	"maftools/internal/version"
	"maftools/internal/writers"
)

type application struct {
	stdout  io.Writer
	stderr  io.Writer
	verbose bool
}

// Run executes argv against the command tree and returns the process exit
// code. All I/O goes through the supplied streams so tests can drive the
// whole binary in memory.
func Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	a := &application{stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(argv)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if writers.IsBrokenPipe(err) {
		return 0
	}
	_, _ = fmt.Fprintf(stderr, "maf: %v\n", err)
	return exitCode(err)
}

func (a *application) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "maf",
		Short:         "Streaming transforms over MAF multiple alignments",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log progress to stderr")
	root.AddCommand(
		a.dupBlocksCommand(),
		a.mergeDupsCommand(),
		a.splitCommand(),
		a.coverageCommand(),
		a.filterCommand(),
	)
	return root
}

func exitCode(err error) int {
	var (
		werr *writers.WriteError
		perr *maf.ParseError
		ierr *inputError
		ferr *os.PathError
		lerr *os.LinkError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return 130
	case errors.As(err, &werr), errors.As(err, &ferr), errors.As(err, &lerr):
		return 3
	case errors.As(err, &perr), errors.As(err, &ierr):
		return 1
	default:
		return 2
	}
}

// inputError marks malformed user data that is not MAF (BED files), so it
// exits with the parse-error code instead of the usage code.
type inputError struct{ err error }

func (e *inputError) Error() string { return e.err.Error() }
func (e *inputError) Unwrap() error { return e.err }

func (a *application) logger() *zap.Logger {
	if !a.verbose {
		return zap.NewNop()
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(a.stderr), zapcore.InfoLevel))
}

// argAt returns the positional argument at i, or "-" (the stdio marker)
// when the caller omitted it.
func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return "-"
}

// createOutput opens the output sink for a path argument. "-" means the
// application's stdout; the returned closer is a no-op in that case.
func (a *application) createOutput(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return a.stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func loadBED(path string) (*interval.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	set, err := interval.ParseBED(f)
	if err != nil {
		return nil, &inputError{err: fmt.Errorf("%s: %w", path, err)}
	}
	return set, nil
}

// runTransform is the shared block-stream skeleton: read items from the
// input, run transform over blocks on the worker pool, and hand results in
// input order to the writer goroutine.
func (a *application) runTransform(cmd *cobra.Command, args []string, threads int, transform pipeline.Transform) error {
	ctx := cmd.Context()
	log := a.logger()
	defer func() { _ = log.Sync() }()

	in, err := maf.Open(argAt(args, 0))
	if err != nil {
		return err
	}
	defer in.Close()

	out, closeOut, err := a.createOutput(argAt(args, 1))
	if err != nil {
		return err
	}

	items, done := writers.StartItemWriter(out, threads*4)
	written := 0
	runErr := pipeline.Run(ctx, pipeline.Config{Threads: threads}, maf.NewReader(in), transform,
		func(item maf.Item) error {
			select {
			case items <- item:
				if _, ok := item.(*maf.Block); ok {
					written++
				}
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	close(items)
	werr := <-done

	if cerr := closeOut(); werr == nil && cerr != nil {
		werr = &writers.WriteError{Blocks: written, Err: cerr}
	}
	if werr != nil {
		if writers.IsBrokenPipe(werr) {
			return nil
		}
		return werr
	}
	if runErr != nil {
		return runErr
	}
	log.Info("stream transformed", zap.Int("blocksWritten", written))
	return nil
}
