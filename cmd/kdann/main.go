// Command kdann builds kd-tree snapshots from point files and runs
// nearest neighbor queries against them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// config are the file-configurable defaults, overridable per flag.
type config struct {
	DataDir     string  `yaml:"data_dir"`
	BucketSize  int     `yaml:"bucket_size"`
	K           int     `yaml:"k"`
	Epsilon     float64 `yaml:"epsilon"`
	Compression string  `yaml:"compression"`
}

func defaultConfig() config {
	return config{
		DataDir:     ".",
		BucketSize:  0, // kdtree default
		K:           10,
		Epsilon:     0,
		Compression: "zstd",
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	var configPath string
	cfg := defaultConfig()

	rootCmd := &cobra.Command{
		Use:           "kdann",
		Short:         "Approximate k-nearest-neighbor search over kd-tree snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")

	rootCmd.AddCommand(
		newConvertCmd(&cfg),
		newBuildCmd(&cfg),
		newQueryCmd(&cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
