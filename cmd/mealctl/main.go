package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/FluffyKas/cooking-helper/client"
	"github.com/FluffyKas/cooking-helper/client/listing"
)

var (
	apiFlag     string
	tokenFlag   string
	devFlag     bool
	timeoutFlag time.Duration
	rootCmd     = &cobra.Command{
		Use:           "mealctl",
		Short:         "CLI client for the meal-service REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// newClient builds an SDK client from the persistent flags. The token comes
// from --token, then MEALCTL_TOKEN, then the dev key when --dev is set.
func newClient() *client.Client {
	token := tokenFlag
	if token == "" {
		token = os.Getenv("MEALCTL_TOKEN")
	}
	if token == "" && devFlag {
		token = client.DevAPIKey
	}
	return client.New(apiFlag, token, client.WithHTTPTimeout(timeoutFlag))
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(zerolog.WarnLevel).With().Timestamp().Logger()
}

func filterFlags(cmd *cobra.Command, f *listing.Filter) {
	cmd.Flags().StringVarP(&f.Search, "search", "s", "", "Case-insensitive name search")
	cmd.Flags().StringVar(&f.Complexity, "complexity", listing.All, "easy, medium, hard or all")
	cmd.Flags().StringVar(&f.Cuisine, "cuisine", listing.All, "Cuisine name or all")
	cmd.Flags().StringSliceVarP(&f.Labels, "label", "l", nil, "Required label (repeatable, all must match)")
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Meal service base URL")
	rootCmd.PersistentFlags().StringVarP(&tokenFlag, "token", "t", "", "Bearer token (default $MEALCTL_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&devFlag, "dev", false, "Authenticate with the local development key")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 30*time.Second, "HTTP timeout per request")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCmd.SetContext(ctx)

	// import subcommand
	importCmd := &cobra.Command{
		Use:   "import <meals.json>",
		Short: "Create meals from a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			estimate, _ := cmd.Flags().GetBool("estimate")
			c := newClient()
			defer func() { _ = c.Close() }()
			return runImport(cmd.Context(), c, args[0], estimate, cmd.OutOrStdout())
		},
	}
	importCmd.Flags().Bool("estimate", false, "Estimate nutrition per serving before saving (best effort)")
	rootCmd.AddCommand(importCmd)

	// list subcommand
	var listFilter listing.Filter
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List meals, newest first, filtered locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			pageSize, _ := cmd.Flags().GetInt("page-size")
			c := newClient()
			defer func() { _ = c.Close() }()
			e := listing.New(c, listing.WithPageSize(pageSize), listing.WithLogger(newLogger()))
			return runList(cmd.Context(), e, listFilter, all, cmd.OutOrStdout())
		},
	}
	filterFlags(listCmd, &listFilter)
	listCmd.Flags().Bool("all", false, "Keep loading pages until every meal is fetched")
	listCmd.Flags().Int("page-size", listing.DefaultPageSize, "Meals per page")
	rootCmd.AddCommand(listCmd)

	// random subcommand
	var randomFilter listing.Filter
	randomCmd := &cobra.Command{
		Use:   "random",
		Short: "Pick random meals from the filtered list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, _ := cmd.Flags().GetInt("count")
			seed, _ := cmd.Flags().GetUint64("seed")
			c := newClient()
			defer func() { _ = c.Close() }()
			e := listing.New(c, listing.WithLogger(newLogger()), withSeed(seed))
			return runRandom(cmd.Context(), e, randomFilter, k, cmd.OutOrStdout())
		},
	}
	filterFlags(randomCmd, &randomFilter)
	randomCmd.Flags().IntP("count", "k", 3, "Number of meals to pick")
	randomCmd.Flags().Uint64("seed", 0, "Seed for reproducible picks (0 = random)")
	rootCmd.AddCommand(randomCmd)

	// labels subcommand
	rootCmd.AddCommand(&cobra.Command{
		Use:   "labels",
		Short: "List labels in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			defer func() { _ = c.Close() }()
			return runLabels(cmd.Context(), c, cmd.OutOrStdout())
		},
	})

	// nutrition subcommand
	nutritionCmd := &cobra.Command{
		Use:   "nutrition <ingredient>...",
		Short: "Estimate nutrition for a list of ingredients",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			servings, _ := cmd.Flags().GetInt("servings")
			c := newClient()
			defer func() { _ = c.Close() }()
			return runNutrition(cmd.Context(), c, args, servings, cmd.OutOrStdout())
		},
	}
	nutritionCmd.Flags().Int("servings", 1, "Divide totals by this many servings")
	rootCmd.AddCommand(nutritionCmd)

	// favorites subcommands
	favoritesCmd := &cobra.Command{Use: "favorites", Short: "Manage your favorite meals"}
	favoritesCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List favorite meals",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c := newClient()
				defer func() { _ = c.Close() }()
				return runFavoritesList(cmd.Context(), c, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "add <mealId>",
			Short: "Mark a meal as favorite",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c := newClient()
				defer func() { _ = c.Close() }()
				return runFavoriteSet(cmd.Context(), c, args[0], true, newLogger(), cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "remove <mealId>",
			Short: "Unmark a favorite meal",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c := newClient()
				defer func() { _ = c.Close() }()
				return runFavoriteSet(cmd.Context(), c, args[0], false, newLogger(), cmd.OutOrStdout())
			},
		},
	)
	rootCmd.AddCommand(favoritesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
