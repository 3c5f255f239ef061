// internal/app/mergedups.go
package app

import (
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"maftools-core/dup"
	"maftools-core/maf"
)

func (a *application) mergeDupsCommand() *cobra.Command {
	var threads int
	c := &cobra.Command{
		Use:   "merge_dups <consensus|unanimity|mask> [in [out]]",
		Short: "Collapse duplicated species into one synthesized entry per block",
		Long: `Replaces every group of aligned entries that share a species with a single
entry. The mode picks the column policy: consensus votes with the rest of the
column on disagreement, unanimity writes N unless all copies agree, and mask
writes N wherever any copy has a base.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := dup.ParseMode(args[0])
			if err != nil {
				return err
			}
			var merged atomic.Int64
			err = a.runTransform(cmd, args[1:], threads, func(b *maf.Block) ([]maf.Item, error) {
				groups := dup.FindGroups(b)
				out, err := dup.Resolve(b, groups, mode)
				if err != nil {
					return nil, err
				}
				merged.Add(int64(len(groups)))
				return []maf.Item{out}, nil
			})
			if err != nil {
				return err
			}
			log := a.logger()
			defer func() { _ = log.Sync() }()
			log.Info("duplicates merged",
				zap.String("mode", mode.String()),
				zap.Int64("groups", merged.Load()))
			return nil
		},
	}
	c.Flags().IntVarP(&threads, "threads", "t", 0, "worker goroutines, 0 means all CPUs")
	return c
}
