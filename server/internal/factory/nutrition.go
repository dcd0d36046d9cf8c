package factory

import (
	"github.com/rs/zerolog"

	"github.com/FluffyKas/cooking-helper/server/internal/config"
	"github.com/FluffyKas/cooking-helper/server/internal/nutrition"
)

// NewEstimator returns the OpenAI estimator. Without an API key it still
// returns an estimator that reports nutrition.ErrNotConfigured.
func NewEstimator(cfg *config.Config, log zerolog.Logger) nutrition.Estimator {
	if !cfg.NutritionEnabled() {
		log.Warn().Msg("OPENAI_API_KEY not set; nutrition estimates disabled")
	}
	return nutrition.NewOpenAIEstimator(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
}
