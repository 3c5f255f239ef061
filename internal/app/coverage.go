// internal/app/coverage.go
package app

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"maftools-core/coverage"
	"maftools-core/interval"
	"maftools-core/maf"
)

func (a *application) coverageCommand() *cobra.Command {
	var bedPath string
	c := &cobra.Command{
		Use:   "coverage <ref-genome> [in [out]]",
		Short: "Report per-genome alignment coverage of a reference",
		Long: `Counts, for every genome in the input, the alignment columns where both the
reference and that genome have a base. The report is a TSV with one row per
genome; --bed restricts counting to the given ranges on the reference.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ranges *interval.Set
			if bedPath != "" {
				var err error
				if ranges, err = loadBED(bedPath); err != nil {
					return err
				}
			}

			in, err := maf.Open(argAt(args, 1))
			if err != nil {
				return err
			}
			defer in.Close()

			calc := coverage.New(args[0], ranges)
			r := maf.NewReader(in)
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
				if b, ok := item.(*maf.Block); ok {
					calc.AddBlock(b)
				}
			}

			out, closeOut, err := a.createOutput(argAt(args, 2))
			if err != nil {
				return err
			}
			if err := calc.Report(out); err != nil {
				_ = closeOut()
				return err
			}
			return closeOut()
		},
	}
	c.Flags().StringVar(&bedPath, "bed", "", "BED file restricting counted reference positions")
	return c
}
