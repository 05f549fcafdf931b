package main

import (
	"fmt"
	"os"

	"link-graph/backend/internal/seed"

	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	var file string
	var reset bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML dataset, the built-in sample by default",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(file)
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer e.close()

			sum, err := seed.Apply(cmd.Context(), e.svc, e.store, ds, reset)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Places: %d\n", sum.Places)
			fmt.Fprintf(out, "Entity Types: %d\n", sum.EntityTypes)
			fmt.Fprintf(out, "Relationship Types: %d\n", sum.RelationshipTypes)
			fmt.Fprintf(out, "Persons: %d\n", sum.Persons)
			fmt.Fprintf(out, "Entities: %d\n", sum.Entities)
			fmt.Fprintf(out, "Relationships: %d\n", sum.Relationships)
			fmt.Fprintf(out, "Users: %d\n", sum.Users)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Dataset file (defaults to the built-in sample)")
	cmd.Flags().BoolVar(&reset, "reset", false, "Delete every record before loading")
	return cmd
}

func loadDataset(path string) (*seed.Dataset, error) {
	if path == "" {
		return seed.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return seed.Load(f)
}
