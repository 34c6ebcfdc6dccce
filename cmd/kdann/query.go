package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/kdann"
	"github.com/hupe1980/kdann/blobstore"
)

func newQueryCmd(cfg *config) *cobra.Command {
	var (
		name       string
		queryStr   string
		queryFile  string
		maxVisited int
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run nearest neighbor queries against a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := blobstore.NewLocalStore(cfg.DataDir)
			if err != nil {
				return err
			}

			ix, err := kdann.Load(cmd.Context(), store, name)
			if err != nil {
				return err
			}

			queries, err := collectQueries(queryStr, queryFile)
			if err != nil {
				return err
			}

			opts := []kdann.SearchOption{kdann.WithEpsilon(cfg.Epsilon)}
			if maxVisited > 0 {
				opts = append(opts, kdann.WithMaxVisited(maxVisited))
			}

			resultSets, err := ix.BatchSearch(cmd.Context(), queries, cfg.K, opts...)
			if err != nil {
				return err
			}

			for i, results := range resultSets {
				fmt.Fprintf(cmd.OutOrStdout(), "query %d:\n", i)
				for _, r := range results {
					fmt.Fprintf(cmd.OutOrStdout(), "  id=%d dist2=%g\n", r.ID, r.Distance)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "index.snap", "snapshot blob name")
	cmd.Flags().StringVar(&queryStr, "query", "", "comma-separated query coordinates")
	cmd.Flags().StringVar(&queryFile, "queries", "", "CSV file of query points")
	cmd.Flags().IntVar(&maxVisited, "max-visited", 0, "cap on points examined per query (0 = unlimited)")

	return cmd
}

func collectQueries(queryStr, queryFile string) ([][]float32, error) {
	var queries [][]float32

	if queryStr != "" {
		q, err := parseVector(queryStr)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	if queryFile != "" {
		fromFile, err := readCSVVectors(queryFile)
		if err != nil {
			return nil, err
		}
		queries = append(queries, fromFile...)
	}

	if len(queries) == 0 {
		return nil, fmt.Errorf("no queries given: use --query or --queries")
	}
	return queries, nil
}

func parseVector(s string) ([]float32, error) {
	fields := strings.Split(s, ",")
	vec := make([]float32, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i+1, err)
		}
		vec[i] = float32(v)
	}
	return vec, nil
}
