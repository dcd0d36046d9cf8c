package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/FluffyKas/cooking-helper/client"
)

func printMeal(out io.Writer, m client.Meal) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  [%s, %s]", m.ID, m.Name, m.Complexity, m.Cuisine)
	if icons := client.SpicyIcons(m.Spiciness); icons != "" {
		b.WriteString(" " + icons)
	}
	if m.PrepTime != nil {
		fmt.Fprintf(&b, "  %d min", *m.PrepTime)
	}
	if len(m.Labels) > 0 {
		fmt.Fprintf(&b, "  labels: %s", strings.Join(m.Labels, ", "))
	}
	fmt.Fprintln(out, b.String())
}

func printNutrition(out io.Writer, n client.Nutrition) {
	fmt.Fprintf(out, "calories: %d kcal\nprotein:  %d g\ncarbs:    %d g\nfat:      %d g\n", n.Calories, n.Protein, n.Carbs, n.Fat)
}
