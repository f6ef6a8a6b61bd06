package main

import (
	"context"
	"fmt"
	"os"

	"smart-shopping/internal/core/recipe"
	"smart-shopping/internal/core/shopping"
	"smart-shopping/internal/pkg/common"

	"github.com/spf13/cobra"
)

func newImportCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <fichier.json>",
		Short: "Importe un export JSON dans la base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("lecture du fichier: %w", err)
			}

			// 欄位打錯直接拒絕，避免默默匯入半套資料
			var payload exportPayload
			if err := common.ParseJSONBytesStrict(data, &payload); err != nil {
				return fmt.Errorf("fichier d'export invalide: %w", err)
			}

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

			var itemCount, recipeCount int
			for _, item := range payload.Items {
				item.ID = 0
				if _, err := shoppingStore.InsertItem(ctx, item); err != nil {
					return fmt.Errorf("import de l'article %q: %w", item.Name, err)
				}
				itemCount++
			}
			for _, r := range payload.Recipes {
				r.ID = 0
				if _, err := recipeStore.Insert(ctx, r); err != nil {
					return fmt.Errorf("import de la recette %q: %w", r.Name, err)
				}
				recipeCount++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d articles, %d recettes importés\n", itemCount, recipeCount)
			return nil
		},
	}
	return cmd
}
