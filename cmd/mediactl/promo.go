package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yourorg/eztech-media/internal/db"
	"github.com/yourorg/eztech-media/internal/images"
)

func (a *app) withPromotions(ctx context.Context, fn func(repo db.PromotionRepository) error) error {
	pool, err := db.Connect(ctx, db.FromEnv())
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()
	repo := db.NewPromotionRepo(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("db schema: %w", err)
	}
	return fn(repo)
}

func newPromoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promo",
		Short: "Promotion records and their images",
	}

	var activeOnly bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List promotions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withPromotions(cmd.Context(), func(repo db.PromotionRepository) error {
				promos, err := repo.List(cmd.Context(), activeOnly)
				if err != nil {
					return err
				}
				return writeJSON(promos)
			})
		},
	}
	list.Flags().BoolVar(&activeOnly, "active", false, "only active promotions")

	setImage := &cobra.Command{
		Use:   "set-image <id> <filename>",
		Short: "Attach an existing image blob to a promotion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid promotion id %q", args[0])
			}
			name := args[1]
			return a.withGateway(cmd.Context(), func(g *images.Gateway) error {
				if !g.Exists(cmd.Context(), name) {
					return fmt.Errorf("image %q does not exist", name)
				}
				return a.withPromotions(cmd.Context(), func(repo db.PromotionRepository) error {
					return repo.SetImage(cmd.Context(), id, &name)
				})
			})
		},
	}

	clearImage := &cobra.Command{
		Use:   "clear-image <id>",
		Short: "Detach the image from a promotion (the blob is kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid promotion id %q", args[0])
			}
			return a.withPromotions(cmd.Context(), func(repo db.PromotionRepository) error {
				return repo.SetImage(cmd.Context(), id, nil)
			})
		},
	}

	cmd.AddCommand(list, setImage, clearImage)
	return cmd
}
