// internal/app/split.go
package app

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"maftools-core/maf"
	"maftools/internal/splitter"
)

func (a *application) splitCommand() *cobra.Command {
	var maxLength uint64
	c := &cobra.Command{
		Use:   "split <output-dir> [in]",
		Short: "Shard a MAF file by reference chromosome",
		Long: `Writes blocks into <chrom>.<start>.maf files under the output directory,
starting a new file whenever the reference chromosome changes or the summed
reference-aligned length would exceed --max-length. Each file is renamed into
place only once complete.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := a.logger()
			defer func() { _ = log.Sync() }()

			in, err := maf.Open(argAt(args, 1))
			if err != nil {
				return err
			}
			defer in.Close()

			sp := splitter.New(args[0], maxLength)
			r := maf.NewReader(in)
			blocks := 0
			for {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				item, err := r.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return err
				}
				b, ok := item.(*maf.Block)
				if !ok {
					continue
				}
				if err := sp.Add(b); err != nil {
					return err
				}
				blocks++
			}
			if err := sp.Close(); err != nil {
				return err
			}
			log.Info("input sharded", zap.Int("blocks", blocks), zap.String("dir", args[0]))
			return nil
		},
	}
	c.Flags().Uint64Var(&maxLength, "max-length", splitter.DefaultMaxLength,
		"reference length per output file")
	return c
}
