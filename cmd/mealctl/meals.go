package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/FluffyKas/cooking-helper/client"
	"github.com/FluffyKas/cooking-helper/client/listing"
)

// seedMeal is one entry of a meals.json seed file. Both prepTime and the
// column-style prep_time are accepted; ids in the file are ignored.
type seedMeal struct {
	Name         string   `json:"name"`
	Complexity   string   `json:"complexity"`
	Cuisine      string   `json:"cuisine"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	Image        string   `json:"image"`
	Labels       []string `json:"labels"`
	PrepTime     *int     `json:"prepTime"`
	PrepTimeCol  *int     `json:"prep_time"`
	Servings     int      `json:"servings"`
	Spiciness    int      `json:"spiciness"`
	Calories     *int     `json:"calories"`
	Protein      *int     `json:"protein"`
	Carbs        *int     `json:"carbs"`
	Fat          *int     `json:"fat"`
}

func (s seedMeal) toMeal() client.Meal {
	prep := s.PrepTime
	if prep == nil {
		prep = s.PrepTimeCol
	}
	return client.Meal{
		Name:         s.Name,
		Complexity:   s.Complexity,
		Cuisine:      s.Cuisine,
		Ingredients:  s.Ingredients,
		Instructions: s.Instructions,
		Image:        s.Image,
		Labels:       s.Labels,
		PrepTime:     prep,
		Servings:     s.Servings,
		Spiciness:    s.Spiciness,
		Calories:     s.Calories,
		Protein:      s.Protein,
		Carbs:        s.Carbs,
		Fat:          s.Fat,
	}
}

func readSeedFile(path string) ([]seedMeal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var meals []seedMeal
	if err := json.Unmarshal(data, &meals); err != nil {
		return nil, fmt.Errorf("%s must hold a JSON array of meals: %w", path, err)
	}
	return meals, nil
}

func runImport(ctx context.Context, c *client.Client, path string, estimate bool, out io.Writer) error {
	seeds, err := readSeedFile(path)
	if err != nil {
		return err
	}
	created, failed := 0, 0
	for i, s := range seeds {
		m := s.toMeal()
		if estimate && m.Calories == nil && len(m.Ingredients) > 0 {
			// Best effort: a failed estimate leaves the macros unset.
			if n, err := c.EstimateNutrition(ctx, m.Ingredients); err == nil {
				m.SetNutrition(n.PerServing(m.Servings))
			} else {
				fmt.Fprintf(out, "  nutrition skipped for %q: %v\n", m.Name, err)
			}
		}
		stored, err := c.CreateMeal(ctx, m)
		if err != nil {
			failed++
			fmt.Fprintf(out, "✗ #%d %q: %v\n", i+1, m.Name, err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		created++
		fmt.Fprintf(out, "✓ %s %s\n", stored.ID, stored.Name)
	}
	fmt.Fprintf(out, "imported %d of %d meals\n", created, len(seeds))
	if failed > 0 {
		return fmt.Errorf("%d meals failed to import", failed)
	}
	return nil
}

// loadListing fetches the first page and, when all is set, keeps paging until
// the store reports nothing more or a page adds no meals.
func loadListing(ctx context.Context, e *listing.Engine, all bool) error {
	if err := e.Refresh(ctx); err != nil {
		return err
	}
	for all && e.HasMore() {
		before := len(e.Snapshot().Meals)
		if err := e.LoadMore(ctx); err != nil {
			return err
		}
		if len(e.Snapshot().Meals) == before {
			break
		}
	}
	return nil
}

func runList(ctx context.Context, e *listing.Engine, f listing.Filter, all bool, out io.Writer) error {
	if err := loadListing(ctx, e, all); err != nil {
		return err
	}
	matches := e.ApplyFilters(f)
	for _, m := range matches {
		printMeal(out, m)
	}
	snap := e.Snapshot()
	fmt.Fprintf(out, "%d matching of %d loaded (%d total)\n", len(matches), len(snap.Meals), snap.Total)
	if snap.HasMore {
		fmt.Fprintln(out, "more meals available, use --all to load everything")
	}
	return nil
}

func withSeed(seed uint64) listing.Option {
	if seed == 0 {
		return func(*listing.Engine) {}
	}
	return listing.WithRand(rand.New(rand.NewPCG(seed, seed)))
}

func runRandom(ctx context.Context, e *listing.Engine, f listing.Filter, k int, out io.Writer) error {
	if k < 1 {
		return fmt.Errorf("count must be at least 1")
	}
	if err := loadListing(ctx, e, true); err != nil {
		return err
	}
	pool := e.ApplyFilters(f)
	if len(pool) == 0 {
		fmt.Fprintln(out, "no meals match")
		return nil
	}
	for _, m := range e.PickRandom(pool, k) {
		printMeal(out, m)
	}
	return nil
}

func runLabels(ctx context.Context, c *client.Client, out io.Writer) error {
	labels, err := c.ListLabels(ctx)
	if err != nil {
		return err
	}
	if len(labels) == 0 {
		fmt.Fprintln(out, "no labels yet")
		return nil
	}
	fmt.Fprintln(out, strings.Join(labels, "\n"))
	return nil
}
