// internal/app/dupblocks.go
package app

import (
	"github.com/spf13/cobra"

	"maftools-core/dup"
	"maftools-core/maf"
)

func (a *application) dupBlocksCommand() *cobra.Command {
	var threads int
	c := &cobra.Command{
		Use:   "dup_blocks [in [out]]",
		Short: "Keep only blocks that align some species more than once",
		Long: `Scans the input and forwards, unchanged, every alignment block in which
at least one species appears in two or more aligned entries. Blocks without
duplicated species are dropped; comments pass through.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTransform(cmd, args, threads, func(b *maf.Block) ([]maf.Item, error) {
				if dup.HasDuplicates(b) {
					return []maf.Item{b}, nil
				}
				return nil, nil
			})
		},
	}
	c.Flags().IntVarP(&threads, "threads", "t", 0, "worker goroutines, 0 means all CPUs")
	return c
}
