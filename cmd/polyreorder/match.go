package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taigrr/polyreorder/internal/config"
	"github.com/taigrr/polyreorder/pkg/models"
	"github.com/taigrr/polyreorder/pkg/polymesh"
	"github.com/taigrr/polyreorder/pkg/reorder"
	"go.uber.org/zap"
)

func newMatchCmd(a *app) *cobra.Command {
	var target, source, output string
	var tolerance float64
	cmd := &cobra.Command{
		Use:   "match --target T --source S -o order.yaml",
		Short: "Derive a point order by matching point positions",
		Long: `Derive a point order by matching point positions.

Every target point (old id) is matched to the source point (new id) at the
same position. Each target point must match exactly one source point.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("tolerance") {
				a.cfg.Apply(config.Overrides{MatchTolerance: &tolerance})
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			return a.runMatch(target, source, output)
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "Mesh in the old point order")
	cmd.Flags().StringVar(&source, "source", "", "Mesh in the new point order")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Point order file to write")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "Match distance (0 means exact)")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (a *app) runMatch(targetPath, sourcePath, output string) error {
	target, err := models.Load(targetPath)
	if err != nil {
		return fmt.Errorf("load target: %w", err)
	}
	source, err := models.Load(sourcePath)
	if err != nil {
		return fmt.Errorf("load source: %w", err)
	}

	order, err := matchOrder(target, source, a.cfg.Reorder.MatchTolerance)
	if err != nil {
		return err
	}
	if err := models.SavePointOrder(output, order); err != nil {
		return err
	}

	a.log.Info("matched points",
		zap.String("output", output),
		zap.Int("points", len(order)),
		zap.Float64("tolerance", a.cfg.Reorder.MatchTolerance))
	return nil
}

func matchOrder(target, source *polymesh.Mesh, tolerance float64) ([]int, error) {
	oldPoints, err := target.Points()
	if err != nil {
		return nil, err
	}
	newPoints, err := source.Points()
	if err != nil {
		return nil, err
	}
	order, err := reorder.MatchPoints(oldPoints, newPoints, tolerance)
	if err != nil {
		return nil, fmt.Errorf("match points: %w", err)
	}
	return order, nil
}
