package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/FluffyKas/cooking-helper/client"
	"github.com/FluffyKas/cooking-helper/client/favorites"
)

func runFavoritesList(ctx context.Context, c *client.Client, out io.Writer) error {
	meals, err := c.ListFavoriteMeals(ctx)
	if err != nil {
		return err
	}
	if len(meals) == 0 {
		fmt.Fprintln(out, "no favorites yet")
		return nil
	}
	for _, m := range meals {
		printMeal(out, m)
	}
	return nil
}

// runFavoriteSet drives favorites.Sync so the write goes through the same
// optimistic toggle and shard executor as an interactive client.
func runFavoriteSet(ctx context.Context, c *client.Client, mealID string, want bool, log zerolog.Logger, out io.Writer) error {
	if _, err := c.GetMeal(ctx, mealID); err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return fmt.Errorf("meal %s not found", mealID)
		}
		return err
	}

	s := favorites.New(c, favorites.WithLogger(log))
	if err := s.Load(ctx, ""); err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}
	if s.IsFavorited(mealID) == want {
		fmt.Fprintf(out, "%s already %s\n", mealID, favoriteWord(want))
		return nil
	}
	t := s.Toggle(ctx, mealID)
	if err := t.Wait(ctx); err != nil {
		return fmt.Errorf("favorite %s %s: %w", mealID, t.State(), err)
	}
	fmt.Fprintf(out, "%s %s\n", mealID, favoriteWord(want))
	return nil
}

func favoriteWord(favorited bool) string {
	if favorited {
		return "favorited"
	}
	return "unfavorited"
}
