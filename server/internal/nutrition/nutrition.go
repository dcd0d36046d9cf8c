// Package nutrition estimates total recipe macros from an ingredient list by
// asking an OpenAI chat-completions model.
package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/FluffyKas/cooking-helper/server/internal/model"
)

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("nutrition estimator not configured")

// ErrInvalidResponse marks model output that could not be turned into macros.
var ErrInvalidResponse = errors.New("invalid nutrition response")

// Estimator returns whole-recipe totals for the given ingredients.
type Estimator interface {
	Estimate(ctx context.Context, ingredients []string) (model.Nutrition, error)
}

const systemPrompt = "You are a nutrition expert. Calculate total nutritional information accurately based on ingredients provided. Always respond with valid JSON only."

// BuildPrompt lists each ingredient on its own "- " line and asks for a bare JSON object.
func BuildPrompt(ingredients []string) string {
	var b strings.Builder
	b.WriteString("Calculate the TOTAL nutritional information for ALL these ingredients combined:\n\n")
	for i, ing := range ingredients {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(ing)
	}
	b.WriteString(`

Respond with ONLY a JSON object in this exact format, no other text:
{"calories": <number>, "protein": <number>, "carbs": <number>, "fat": <number>}

Where:
- calories: total calories for ALL ingredients combined (integer)
- protein: total grams of protein for ALL ingredients (integer)
- carbs: total grams of carbohydrates for ALL ingredients (integer)
- fat: total grams of fat for ALL ingredients (integer)

Base your estimates on standard nutritional databases. If ingredient quantities are unclear, make reasonable assumptions for a typical recipe.`)
	return b.String()
}

// OpenAIEstimator calls the OpenAI chat completions API.
type OpenAIEstimator struct {
	client *resty.Client
	model  string
}

// NewOpenAIEstimator creates an estimator. An empty apiKey yields an estimator
// whose Estimate always returns ErrNotConfigured.
func NewOpenAIEstimator(baseURL, apiKey, modelName string) *OpenAIEstimator {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)
	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}
	return &OpenAIEstimator{client: c, model: modelName}
}

// Configured reports whether an API key was provided.
func (e *OpenAIEstimator) Configured() bool { return e.client.Token != "" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Seed        int           `json:"seed"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Estimate implements Estimator.
func (e *OpenAIEstimator) Estimate(ctx context.Context, ingredients []string) (model.Nutrition, error) {
	if !e.Configured() {
		return model.Nutrition{}, ErrNotConfigured
	}
	if len(ingredients) == 0 {
		return model.Nutrition{}, fmt.Errorf("ingredients are required: %w", model.ErrValidation)
	}

	reqBody := chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(ingredients)},
		},
		Temperature: 0,
		Seed:        42,
		MaxTokens:   100,
	}

	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(&reqBody).
		Post("/v1/chat/completions")
	if err != nil {
		return model.Nutrition{}, fmt.Errorf("openai request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return model.Nutrition{}, fmt.Errorf("openai status %d: %s", resp.StatusCode(), resp.String())
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil {
		return model.Nutrition{}, fmt.Errorf("decode response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return model.Nutrition{}, fmt.Errorf("no choices returned: %w", ErrInvalidResponse)
	}
	return ParseCompletion(cr.Choices[0].Message.Content)
}

// ParseCompletion decodes the model's answer. Markdown code fences are
// tolerated; every macro must be present and numeric. Values are rounded.
func ParseCompletion(content string) (model.Nutrition, error) {
	s := strings.TrimSpace(content)
	if s == "" {
		return model.Nutrition{}, fmt.Errorf("empty completion: %w", ErrInvalidResponse)
	}
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	var raw struct {
		Calories *float64 `json:"calories"`
		Protein  *float64 `json:"protein"`
		Carbs    *float64 `json:"carbs"`
		Fat      *float64 `json:"fat"`
	}
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return model.Nutrition{}, fmt.Errorf("parse %q: %v: %w", content, err, ErrInvalidResponse)
	}
	if raw.Calories == nil || raw.Protein == nil || raw.Carbs == nil || raw.Fat == nil {
		return model.Nutrition{}, fmt.Errorf("missing field in %q: %w", content, ErrInvalidResponse)
	}
	return model.Nutrition{
		Calories: int(math.Round(*raw.Calories)),
		Protein:  int(math.Round(*raw.Protein)),
		Carbs:    int(math.Round(*raw.Carbs)),
		Fat:      int(math.Round(*raw.Fat)),
	}, nil
}
