package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/ragdex/internal/domain"
	documentrepo "github.com/kailas-cloud/ragdex/internal/repository/document"
)

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored claim document and how many indexed copies carry its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := documentrepo.New(a.store, a.keyspace())
			id := args[0]

			ok, err := repo.Exists(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
			}

			doc, err := repo.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("document %s: %w", id, err)
			}
			delete(doc, domain.FieldVector)

			indexed, err := repo.CountByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed copies: %d\n", indexed)
			return nil
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Remove stored claim documents by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := documentrepo.New(a.store, a.keyspace())
			for _, id := range args {
				if err := repo.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("document %s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			}
			return nil
		},
	}
}
