package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"smart-shopping/internal/core/recipe"
	"smart-shopping/internal/core/shopping"

	"github.com/spf13/cobra"
)

// exportPayload 匯出檔的結構，import 子命令讀同一格式
type exportPayload struct {
	ExportedAt time.Time       `json:"exported_at"`
	Items      []shopping.Item `json:"items"`
	Recipes    []recipe.Recipe `json:"recipes"`
}

func newExportCommand(cmdCtx *commandContext) *cobra.Command {
	var outFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exporte la liste de courses et les recettes en JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := cmdCtx.openDB()
			if err != nil {
				return fmt.Errorf("ouverture de la base: %w", err)
			}
			defer db.Close()

			ctx := context.Background()

			shoppingStore, err := shopping.NewStore(db)
			if err != nil {
				return err
			}
			recipeStore, err := recipe.NewStore(db)
			if err != nil {
				return err
			}

			items, err := shoppingStore.ListItems(ctx)
			if err != nil {
				return err
			}
			recipes, err := recipeStore.List(ctx)
			if err != nil {
				return err
			}

			payload := exportPayload{
				ExportedAt: time.Now().UTC(),
				Items:      items,
				Recipes:    recipes,
			}

			out := cmd.OutOrStdout()
			if outFlag != "" {
				f, err := os.Create(outFlag)
				if err != nil {
					return fmt.Errorf("création du fichier: %w", err)
				}
				defer f.Close()
				out = f
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(payload); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%d articles, %d recettes exportés\n", len(items), len(recipes))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Fichier de sortie (stdout par défaut)")
	return cmd
}
