// internal/app/filter.go
package app

import (
	"github.com/spf13/cobra"

	"maftools-core/colfilter"
	"maftools-core/maf"
)

func (a *application) filterCommand() *cobra.Command {
	var (
		bedPath string
		threads int
	)
	c := &cobra.Command{
		Use:   "filter --bed <file> [in [out]]",
		Short: "Keep only alignment columns inside BED ranges on the reference",
		Long: `Cuts every block down to the columns whose reference positions (first
aligned entry, forward strand) fall inside the BED ranges. Each contiguous run
of kept columns becomes its own block with recomputed coordinates.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadBED(bedPath)
			if err != nil {
				return err
			}
			return a.runTransform(cmd, args, threads, func(b *maf.Block) ([]maf.Item, error) {
				subs, err := colfilter.Apply(b, set)
				if err != nil {
					return nil, err
				}
				items := make([]maf.Item, len(subs))
				for i, sb := range subs {
					items[i] = sb
				}
				return items, nil
			})
		},
	}
	c.Flags().StringVar(&bedPath, "bed", "", "BED file of reference ranges to keep (required)")
	_ = c.MarkFlagRequired("bed")
	c.Flags().IntVarP(&threads, "threads", "t", 0, "worker goroutines, 0 means all CPUs")
	return c
}
