package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/kdann"
	"github.com/hupe1980/kdann/blobstore"
	"github.com/hupe1980/kdann/pointset"
	"github.com/hupe1980/kdann/snapshot"
)

func newBuildCmd(cfg *config) *cobra.Command {
	var (
		pointsPath string
		name       string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a kd-tree over a point-set file and save a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := pointset.OpenMMap(pointsPath)
			if err != nil {
				return err
			}
			defer points.Close()

			compression, err := snapshot.ParseCompressionType(cfg.Compression)
			if err != nil {
				return err
			}

			opts := []kdann.Option{kdann.WithLogLevel(slog.LevelInfo)}
			if cfg.BucketSize > 0 {
				opts = append(opts, kdann.WithBucketSize(cfg.BucketSize))
			}

			ix, err := kdann.New(points, opts...)
			if err != nil {
				return err
			}

			store, err := blobstore.NewLocalStore(cfg.DataDir)
			if err != nil {
				return err
			}
			if err := ix.Save(cmd.Context(), store, name, func(o *snapshot.Options) {
				o.Compression = compression
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", name, ix.Stats())
			return nil
		},
	}

	cmd.Flags().StringVar(&pointsPath, "points", "", "point-set file (see convert)")
	cmd.Flags().StringVar(&name, "name", "index.snap", "snapshot blob name")
	_ = cmd.MarkFlagRequired("points")

	return cmd
}
