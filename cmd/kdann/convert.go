package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hupe1980/kdann/pointset"
)

func newConvertCmd(cfg *config) *cobra.Command {
	var (
		csvPath string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a CSV of coordinates into the binary point-set format",
		RunE: func(cmd *cobra.Command, args []string) error {
			vectors, err := readCSVVectors(csvPath)
			if err != nil {
				return err
			}

			points, err := pointset.FromVectors(vectors)
			if err != nil {
				return err
			}
			if err := pointset.WriteFile(outPath, points); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d points (dim %d) to %s\n",
				points.Len(), points.Dimension(), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "input CSV file, one point per row")
	cmd.Flags().StringVar(&outPath, "out", "points.kdpt", "output point-set file")
	_ = cmd.MarkFlagRequired("csv")

	return cmd
}

func readCSVVectors(path string) ([][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	vectors := make([][]float32, 0, len(rows))
	for i, row := range rows {
		vec := make([]float32, len(row))
		for j, field := range row {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d, column %d: %w", path, i+1, j+1, err)
			}
			vec[j] = float32(v)
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}
