package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/FluffyKas/cooking-helper/client"
)

func runNutrition(ctx context.Context, c *client.Client, ingredients []string, servings int, out io.Writer) error {
	n, err := c.EstimateNutrition(ctx, ingredients)
	if err != nil {
		if client.StatusCode(err) == http.StatusServiceUnavailable {
			return fmt.Errorf("the service has no nutrition estimator configured")
		}
		return err
	}
	if servings > 1 {
		fmt.Fprintf(out, "per serving (%d servings):\n", servings)
		printNutrition(out, n.PerServing(servings))
		return nil
	}
	printNutrition(out, *n)
	return nil
}
