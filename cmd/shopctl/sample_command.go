package main

import (
	"context"
	"fmt"

	"smart-shopping/internal/core/ingredient"
	"smart-shopping/internal/core/recipe"
	"smart-shopping/internal/core/shopping"
	"smart-shopping/internal/pkg/common"

	"github.com/spf13/cobra"
)

// 範例資料：幾道常見法式家常菜，拿來驗證合併行為很方便
var sampleRecipes = []recipe.Recipe{
	{
		Name:   "Pâtes à la carbonara",
		Source: "builtin",
		Ingredients: []string{
			"500g de spaghetti",
			"150g de lardons",
			"3 œufs",
			"50g de parmesan",
		},
	},
	{
		Name:   "Bolognaise maison",
		Source: "builtin",
		Ingredients: []string{
			"400g de spaghetti",
			"500g de viande hachée",
			"2 oignons",
			"800g de tomates pelées",
		},
	},
	{
		Name:   "Quiche lorraine",
		Source: "builtin",
		Ingredients: []string{
			"1 pâte brisée",
			"200g de lardons",
			"4 œufs",
			"20cl de crème fraîche",
		},
	},
}

func newSampleDataCommand(cmdCtx *commandContext) *cobra.Command {
	var withListFlag bool

	cmd := &cobra.Command{
		Use:   "sample-data",
		Short: "Insère des recettes d'exemple dans la base",
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

			shoppingSvc := shopping.NewService(shoppingStore, nil)
			recipeSvc := recipe.NewService(recipeStore, shoppingSvc)

			out := cmd.OutOrStdout()
			for _, sample := range sampleRecipes {
				created, err := recipeSvc.Create(ctx, sample)
				if err != nil {
					return fmt.Errorf("insertion de %q: %w", sample.Name, err)
				}
				fmt.Fprintf(out, "Recette insérée: %s (id=%d)\n", created.Name, created.ID)
				fmt.Fprint(out, common.FormatIngredientLines(created.Ingredients))

				if !withListFlag {
					continue
				}
				report, err := recipeSvc.AddToList(ctx, created.ID)
				if err != nil {
					return fmt.Errorf("ajout à la liste de %q: %w", created.Name, err)
				}
				fmt.Fprintf(out, "  %d ingrédients ajoutés (%d créés, %d fusionnés)\n",
					report.Accepted, report.CreatedCount, report.MergedCount)
			}

			if withListFlag {
				items, err := shoppingSvc.ListItems(ctx)
				if err != nil {
					return err
				}
				converter := ingredient.NewConverter()
				fmt.Fprintf(out, "Liste de courses: %d articles\n", len(items))
				for _, item := range items {
					qty, unit := converter.BestDisplayUnit(item.Quantity, item.Unit)
					fmt.Fprintf(out, "  - %s: %g %s\n", item.Name, qty, unit)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withListFlag, "with-list", false, "Ajoute aussi les ingrédients à la liste de courses")
	return cmd
}
