package main

import (
	"context"
	"fmt"
	"strconv"

	"smart-shopping/internal/core/ingredient"
	"smart-shopping/internal/core/recipe"
	"smart-shopping/internal/core/shopping"

	"github.com/spf13/cobra"
)

func newAnalyzeCommand(cmdCtx *commandContext) *cobra.Command {
	var topFlag int

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Affiche les statistiques de la liste et les articles fréquents",
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

			stats, err := shoppingStore.Stats(ctx)
			if err != nil {
				return err
			}
			recipeCount, err := recipeStore.Count(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Métrique", "Valeur"},
				[][]string{
					{"Articles", strconv.Itoa(stats.TotalItems)},
					{"Cochés", strconv.Itoa(stats.CheckedItems)},
					{"En attente", strconv.Itoa(stats.PendingItems)},
					{"Taux cochés", fmt.Sprintf("%.0f%%", stats.CheckedRatio*100)},
					{"Recettes", strconv.Itoa(recipeCount)},
				},
			))

			frequent, err := shoppingStore.FrequentItems(ctx, topFlag)
			if err != nil {
				return err
			}
			if len(frequent) == 0 {
				fmt.Fprintln(out, "Aucun article fréquent pour le moment")
				return nil
			}

			rows := make([][]string, 0, len(frequent))
			for _, f := range frequent {
				rows = append(rows, []string{f.Name, f.Category, strconv.Itoa(f.UsageCount)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Article", "Catégorie", "Achats"},
				rows,
			))

			// 單位不一致的項目另列出來提醒手動確認
			items, err := shoppingStore.ListItems(ctx)
			if err != nil {
				return err
			}
			var mismatched [][]string
			converter := ingredient.NewConverter()
			for _, item := range items {
				if !item.UnitMismatch {
					continue
				}
				qty, unit := converter.BestDisplayUnit(item.Quantity, item.Unit)
				mismatched = append(mismatched, []string{
					item.Name,
					fmt.Sprintf("%g %s", qty, unit),
					strconv.Itoa(len(item.RecipeSources)),
				})
			}
			if len(mismatched) > 0 {
				fmt.Fprintln(out, "Articles avec unités incompatibles:")
				fmt.Fprintln(out, renderTable(
					[]string{"Article", "Quantité", "Sources"},
					mismatched,
				))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&topFlag, "top", 10, "Nombre d'articles fréquents à afficher")
	return cmd
}
