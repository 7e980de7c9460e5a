package main

import (
	"fmt"

	"github.com/spf13/cobra"

	indexrepo "github.com/kailas-cloud/ragdex/internal/repository/index"
)

func newProvisioner(a *app) *indexrepo.Provisioner {
	return indexrepo.New(a.store, a.keyspace(), a.cfg.Embedding.Dimensions).
		WithHNSW(indexrepo.HNSWConfig{M: a.cfg.Index.HNSWM, EFConstruct: a.cfg.Index.HNSWEFConstruct})
}

func indexCmd(a *app) *cobra.Command {
	var drop, schema bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Create the claims index without uploading anything",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newProvisioner(a)
			out := cmd.OutOrStdout()
			name := a.keyspace().IndexName()

			switch {
			case schema:
				def, err := p.Definition()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, def.String())
				return nil
			case drop:
				if err := p.Drop(cmd.Context()); err != nil {
					return fmt.Errorf("drop %s: %w", name, err)
				}
				fmt.Fprintf(out, "dropped index %s (documents kept)\n", name)
				return nil
			}

			created, err := p.Ensure(cmd.Context())
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(out, "created index %s\n", name)
			} else {
				fmt.Fprintf(out, "index %s already exists\n", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&drop, "drop", false, "drop the index instead of creating it")
	cmd.Flags().BoolVar(&schema, "schema", false, "print the index definition and exit")
	cmd.MarkFlagsMutuallyExclusive("drop", "schema")
	return cmd
}
