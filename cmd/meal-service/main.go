package main

import (
	"os"

	"github.com/FluffyKas/cooking-helper/server/mealservice"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := mealservice.Run(); err != nil {
		log.Error().Err(err).Msg("meal-service exited with error")
		os.Exit(1)
	}
}
